package issue

import (
	"errors"
	"strings"
	"time"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// ErrNoFutureIssue is returned when every issue has already closed.
var ErrNoFutureIssue = errors.New("no issue closes on or after the reference time")

// Timeline orders the issues of a single schedule.
type Timeline struct {
	issues []model.Issue
	byName map[string]int
}

// NewTimeline indexes issues by normalized name. Issues without a key
// (Year 0) are looked up but compared through CompareLabels.
func NewTimeline(issues []model.Issue) *Timeline {
	t := &Timeline{issues: issues, byName: make(map[string]int, len(issues))}
	for i, is := range issues {
		t.byName[model.NormalizeName(is.Name)] = i
	}
	return t
}

// Issues returns the indexed issues in declared order.
func (t *Timeline) Issues() []model.Issue { return t.issues }

// Lookup finds an issue by name.
func (t *Timeline) Lookup(name string) (model.Issue, bool) {
	i, ok := t.byName[model.NormalizeName(name)]
	if !ok {
		return model.Issue{}, false
	}
	return t.issues[i], true
}

// Has reports whether the schedule contains the named issue.
func (t *Timeline) Has(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Compare orders two issue names. When both belong to the schedule and
// carry keys, the keys decide; otherwise the labels are compared.
func (t *Timeline) Compare(a, b string) int {
	ia, okA := t.Lookup(a)
	ib, okB := t.Lookup(b)
	if okA && okB && ia.Year != 0 && ib.Year != 0 {
		if c := KeyOf(ia).Compare(KeyOf(ib)); c != 0 {
			return c
		}
		return strings.Compare(model.NormalizeName(a), model.NormalizeName(b))
	}
	if model.NormalizeName(a) == model.NormalizeName(b) {
		return 0
	}
	return CompareLabels(a, b)
}

// Current returns the issue with the earliest close date on or after now.
func (t *Timeline) Current(now time.Time) (model.Issue, error) {
	return Current(t.issues, now)
}

// Current picks, among issues from any number of schedules, the one with
// the earliest CloseDate that is not before now. Ties on close date go to
// the lower key, then the lower name.
func Current(issues []model.Issue, now time.Time) (model.Issue, error) {
	var (
		best  model.Issue
		found bool
	)
	for _, is := range issues {
		if is.CloseDate.Before(now) {
			continue
		}
		if !found || earlier(is, best) {
			best, found = is, true
		}
	}
	if !found {
		return model.Issue{}, ErrNoFutureIssue
	}
	return best, nil
}

func earlier(a, b model.Issue) bool {
	if !a.CloseDate.Equal(b.CloseDate) {
		return a.CloseDate.Before(b.CloseDate)
	}
	if c := KeyOf(a).Compare(KeyOf(b)); c != 0 {
		return c < 0
	}
	return a.Name < b.Name
}

// Range is the span of issues a booking entry runs for. Finish is ignored
// when Ongoing is set; an empty Finish on a bounded range means a single
// issue.
type Range struct {
	Start   string
	Finish  string
	Ongoing bool
}

// Covers reports whether the range includes the queried issue.
func (t *Timeline) Covers(r Range, queried string) bool {
	if model.NormalizeName(r.Start) == model.NormalizeName(queried) {
		return true
	}
	if t.Compare(r.Start, queried) > 0 {
		return false
	}
	if r.Ongoing {
		return true
	}
	if strings.TrimSpace(r.Finish) == "" {
		return false
	}
	return t.Compare(queried, r.Finish) <= 0
}

// Ordered reports whether a bounded range runs forward in time.
func (t *Timeline) Ordered(r Range) bool {
	if r.Ongoing || strings.TrimSpace(r.Finish) == "" {
		return true
	}
	return t.Compare(r.Start, r.Finish) <= 0
}
