package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeMode controls how a booking's additional charges are spread over
// its entries.
type ChargeMode string

const (
	// ChargeSplit divides the charge evenly across entries, rounding
	// remainder cents onto the first entry.
	ChargeSplit ChargeMode = "split"
	// ChargeSingle puts the whole charge on the first entry.
	ChargeSingle ChargeMode = "single"
)

// Booking records a customer's purchase of advertising space. It groups
// one or more entries written and replaced together.
//
// Fields:
//
//	ID                – primary key identifier.
//	OwnerID           – owning account.
//	CustomerID        – advertiser placing the booking.
//	AdditionalCharges – flat amount apportioned over entries.
//	ChargeMode        – apportioning rule for AdditionalCharges.
//	Total             – sum of entry net values.
//	CreatedAt         – creation timestamp.
//	UpdatedAt         – last update timestamp.
type Booking struct {
	ID                uint64          `json:"id"`                 // bookings.id
	OwnerID           uint64          `json:"-"`                  // bookings.owner_id
	CustomerID        uint64          `json:"customer_id"`        // bookings.customer_id
	AdditionalCharges decimal.Decimal `json:"additional_charges"` // bookings.additional_charges
	ChargeMode        ChargeMode      `json:"charge_mode"`        // bookings.charge_mode
	Notes             string          `json:"notes"`              // bookings.notes
	Total             decimal.Decimal `json:"total"`              // bookings.total
	Entries           []BookingEntry  `json:"entries"`
	CreatedAt         time.Time       `json:"created_at"` // bookings.created_at
	UpdatedAt         time.Time       `json:"updated_at"` // bookings.updated_at
}

// BookingEntry is one placement of a content size in a magazine over a
// range of issues. FinishIssue is empty for ongoing entries.
type BookingEntry struct {
	ID                 uint64          `json:"id"`                  // booking_entries.id
	BookingID          uint64          `json:"booking_id"`          // booking_entries.booking_id
	MagazineID         uint64          `json:"magazine_id"`         // booking_entries.magazine_id
	ContentSizeID      uint64          `json:"content_size_id"`     // booking_entries.content_size_id
	ContentTypeID      uint64          `json:"content_type_id"`     // booking_entries.content_type_id
	ListPrice          decimal.Decimal `json:"list_price"`          // booking_entries.list_price
	DiscountPercentage decimal.Decimal `json:"discount_percentage"` // 0..100
	DiscountValue      decimal.Decimal `json:"discount_value"`      // >= 0
	StartIssue         string          `json:"start_issue"`         // booking_entries.start_issue
	FinishIssue        string          `json:"finish_issue"`        // booking_entries.finish_issue
	IsOngoing          bool            `json:"is_ongoing"`          // booking_entries.is_ongoing
	AdditionalCharge   decimal.Decimal `json:"additional_charge"`   // apportioned share
	NetValue           decimal.Decimal `json:"net_value"`           // booking_entries.net_value
}
