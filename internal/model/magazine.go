package model

import "time"

// Magazine is a publication that sells advertising space. It may be bound
// to one schedule, and may override the page count of individual issues of
// that schedule.
//
// Fields:
//
//	ID                 – primary key identifier.
//	OwnerID            – owning account.
//	Name               – display name, unique per owner.
//	ScheduleID         – bound schedule, nil when unbound.
//	PageConfigurations – issue name → total pages, only for issues of the bound schedule.
//	Archived           – hidden from default listings, data kept.
type Magazine struct {
	ID                 uint64         `json:"id"`                  // magazines.id
	OwnerID            uint64         `json:"-"`                   // magazines.owner_id
	Name               string         `json:"name"`                // magazines.name
	ScheduleID         *uint64        `json:"schedule_id"`         // magazines.schedule_id (nullable)
	PageConfigurations map[string]int `json:"page_configurations"` // magazine_pages rows
	Archived           bool           `json:"archived"`            // magazines.archived
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// PageBudgetLine is the effective page count of one issue for a magazine.
type PageBudgetLine struct {
	IssueName  string    `json:"issue_name"`
	CloseDate  time.Time `json:"close_date"`
	TotalPages int       `json:"total_pages"`
	IsDefault  bool      `json:"is_default"`
}
