// Package issue orders and resolves publication issues: label parsing,
// structured issue keys, current-issue lookup and booking range coverage.
package issue

import (
	"regexp"
	"strconv"
	"strings"
)

var monthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// month word, optional separator, 2 or 4 digit year
var labelPattern = regexp.MustCompile(`^([A-Za-z]{3,9})[\s\-_/.']*(\d{2}|\d{4})$`)

// Period is a calendar month.
type Period struct {
	Year  int
	Month int
}

// Ordinal is year*100+month, monotonic in calendar order.
func (p Period) Ordinal() int { return p.Year*100 + p.Month }

// Valid reports whether Month is 1..12 and Year is positive.
func (p Period) Valid() bool { return p.Year > 0 && p.Month >= 1 && p.Month <= 12 }

// ParseLabel extracts the period from labels such as "Jan26", "jan 2026",
// "Sept-25" or "December 2025". Two-digit years are taken as 20xx.
func ParseLabel(label string) (Period, bool) {
	m := labelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return Period{}, false
	}
	month := monthNumber(m[1])
	if month == 0 {
		return Period{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return Period{}, false
	}
	if len(m[2]) == 2 {
		year += 2000
	}
	return Period{Year: year, Month: month}, true
}

// monthNumber accepts any prefix of an English month name that is at
// least three letters long.
func monthNumber(word string) int {
	w := strings.ToLower(word)
	for i, name := range monthNames {
		if strings.HasPrefix(name, w) {
			return i + 1
		}
	}
	return 0
}

// CompareLabels orders two issue labels without schedule context.
// Parseable labels come first, ordered by period and then lexically.
// Unparseable labels follow, ordered lexically. The result is a total
// order: negative when a < b, zero when a == b, positive otherwise.
func CompareLabels(a, b string) int {
	pa, okA := ParseLabel(a)
	pb, okB := ParseLabel(b)
	switch {
	case okA && okB:
		if c := cmpInt(pa.Ordinal(), pb.Ordinal()); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
