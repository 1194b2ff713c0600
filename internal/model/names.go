package model

import "strings"

// NormalizeName is the comparison form used for every owner-scoped unique
// name (schedules, issues, labels, customers).
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
