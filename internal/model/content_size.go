package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContentSize is a sellable unit of page space (e.g. "Quarter page",
// Size 0.25) with a price per magazine.
type ContentSize struct {
	ID          uint64                     `json:"id"`          // content_sizes.id
	OwnerID     uint64                     `json:"-"`           // content_sizes.owner_id
	Description string                     `json:"description"` // content_sizes.description
	Size        decimal.Decimal            `json:"size"`        // content_sizes.size, fraction of a page, > 0
	Prices      map[uint64]decimal.Decimal `json:"prices"`      // content_size_prices keyed by magazine id
	Archived    bool                       `json:"archived"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// PriceMode selects how a content size's price is combined across
// several magazines.
type PriceMode string

const (
	PriceModeSum  PriceMode = "sum"
	PriceModeMean PriceMode = "mean"
)
