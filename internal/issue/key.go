package issue

import (
	"errors"
	"fmt"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// ErrNoPeriod is returned by AssignKeys when an issue carries no explicit
// period and its name cannot be parsed into one.
var ErrNoPeriod = errors.New("issue period cannot be determined")

// Key is the structured identity of an issue within its schedule.
// Seq separates issues that share a calendar month, in declared order.
type Key struct {
	Year  int
	Month int
	Seq   int
}

// KeyOf returns the key stored on an issue.
func KeyOf(is model.Issue) Key {
	return Key{Year: is.Year, Month: is.Month, Seq: is.Seq}
}

// Compare orders keys by year, month and then sequence.
func (k Key) Compare(o Key) int {
	if c := cmpInt(k.Year, o.Year); c != 0 {
		return c
	}
	if c := cmpInt(k.Month, o.Month); c != 0 {
		return c
	}
	return cmpInt(k.Seq, o.Seq)
}

// AssignKeys fills Year, Month and Seq on every issue in place. An explicit
// Year/Month pair wins over the name; otherwise the name is parsed. Seq is
// numbered from 1 per month following slice order, which is also written
// to SortOrder.
func AssignKeys(issues []model.Issue) error {
	seen := make(map[Period]int, len(issues))
	for i := range issues {
		is := &issues[i]
		p := Period{Year: is.Year, Month: is.Month}
		if is.Year == 0 && is.Month == 0 {
			parsed, ok := ParseLabel(is.Name)
			if !ok {
				return fmt.Errorf("%w: %q", ErrNoPeriod, is.Name)
			}
			p = parsed
		}
		if !p.Valid() {
			return fmt.Errorf("%w: %q has year %d month %d", ErrNoPeriod, is.Name, p.Year, p.Month)
		}
		seen[p]++
		is.Year, is.Month, is.Seq = p.Year, p.Month, seen[p]
		is.SortOrder = i
	}
	return nil
}
