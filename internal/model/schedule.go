package model

import "time"

// Issue is one dated publication slot inside a schedule.
//
// Fields:
//
//	ID         – primary key identifier.
//	ScheduleID – schedule the issue belongs to.
//	Name       – display label (e.g. "Jan26"), unique within the schedule.
//	CloseDate  – booking deadline for the issue.
//	SortOrder  – declared position; expected to follow CloseDate order.
//	Year/Month – calendar period of the issue, explicit or derived from Name.
//	Seq        – position among issues of the same Year/Month (1-based).
type Issue struct {
	ID         uint64    `json:"id"`          // issues.id
	ScheduleID uint64    `json:"schedule_id"` // issues.schedule_id
	Name       string    `json:"name"`        // issues.name
	CloseDate  time.Time `json:"close_date"`  // issues.close_date
	SortOrder  int       `json:"sort_order"`  // issues.sort_order
	Year       int       `json:"year"`        // issues.period_year
	Month      int       `json:"month"`       // issues.period_month
	Seq        int       `json:"seq"`         // issues.period_seq
}

// Schedule is an owner's named, ordered list of issues. A schedule always
// carries at least one issue.
type Schedule struct {
	ID        uint64    `json:"id"`       // schedules.id
	OwnerID   uint64    `json:"-"`        // schedules.owner_id
	Name      string    `json:"name"`     // schedules.name
	Issues    []Issue   `json:"issues"`   // issues ordered by sort_order
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IssueByName returns the issue with the given name, matched
// case-insensitively after trimming.
func (s *Schedule) IssueByName(name string) (Issue, bool) {
	want := NormalizeName(name)
	for _, is := range s.Issues {
		if NormalizeName(is.Name) == want {
			return is, true
		}
	}
	return Issue{}, false
}
