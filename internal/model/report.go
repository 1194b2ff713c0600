package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BreakdownGroup is the booked space of one content type in an issue.
// Percentage is the share of booked pages; BudgetPercentage is the share
// of the issue's total pages.
type BreakdownGroup struct {
	ContentType      string          `json:"content_type"`
	Entries          int             `json:"entries"`
	Pages            decimal.Decimal `json:"pages"`
	Percentage       decimal.Decimal `json:"percentage"`
	BudgetPercentage decimal.Decimal `json:"budget_percentage"`
}

// IssueBreakdown summarises space utilisation of a magazine's current
// issue. Issue is empty when there is nothing to report.
type IssueBreakdown struct {
	MagazineID       uint64           `json:"magazine_id"`
	Issue            string           `json:"issue"`
	CloseDate        *time.Time       `json:"close_date,omitempty"`
	TotalPages       int              `json:"total_pages"`
	BookedPages      decimal.Decimal  `json:"booked_pages"`
	UnallocatedPages decimal.Decimal  `json:"unallocated_pages"`
	Utilisation      decimal.Decimal  `json:"utilisation"`
	Groups           []BreakdownGroup `json:"groups"`
}

// RevenueLine is the booked value of one content type.
type RevenueLine struct {
	ContentType string          `json:"content_type"`
	Count       int             `json:"count"`
	Value       decimal.Decimal `json:"value"`
}

// MagazineRevenue is the booked value of one magazine.
type MagazineRevenue struct {
	MagazineID    uint64          `json:"magazine_id"`
	MagazineName  string          `json:"magazine_name"`
	Archived      bool            `json:"archived"`
	Count         int             `json:"count"`
	Total         decimal.Decimal `json:"total"`
	ByContentType []RevenueLine   `json:"by_content_type"`
}

// RevenueReport is the publications revenue rollup.
type RevenueReport struct {
	From      *time.Time        `json:"from,omitempty"`
	To        *time.Time        `json:"to,omitempty"`
	Magazines []MagazineRevenue `json:"magazines"`
	Total     decimal.Decimal   `json:"total"`
}
