// Package queue carries booking ledger events over RabbitMQ: the payload
// type, a publisher used by the booking service and a consumer that keeps
// an audit log of ledger changes.
package queue

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// EventType names a ledger change.
type EventType string

const (
	BookingCreated EventType = "booking.created"
	BookingUpdated EventType = "booking.updated"
	BookingDeleted EventType = "booking.deleted"
)

// BookingEvent is published after a booking write commits. It holds
// enough for downstream consumers to log or notify without querying the
// primary database.
type BookingEvent struct {
	MessageID   string          `json:"message_id"`
	Type        EventType       `json:"type"`
	BookingID   uint64          `json:"booking_id"`
	OwnerID     uint64          `json:"owner_id"`
	CustomerID  uint64          `json:"customer_id"`
	EntryCount  int             `json:"entry_count"`
	MagazineIDs []uint64        `json:"magazine_ids"`
	Total       decimal.Decimal `json:"total"`
	OccurredAt  string          `json:"occurred_at"`
}

// NewBookingEvent builds an event for the given booking with a fresh
// message id.
func NewBookingEvent(t EventType, b *model.Booking, at time.Time) BookingEvent {
	seen := map[uint64]bool{}
	var mags []uint64
	for _, e := range b.Entries {
		if !seen[e.MagazineID] {
			seen[e.MagazineID] = true
			mags = append(mags, e.MagazineID)
		}
	}
	return BookingEvent{
		MessageID:   uuid.NewString(),
		Type:        t,
		BookingID:   b.ID,
		OwnerID:     b.OwnerID,
		CustomerID:  b.CustomerID,
		EntryCount:  len(b.Entries),
		MagazineIDs: mags,
		Total:       b.Total,
		OccurredAt:  at.UTC().Format(time.RFC3339),
	}
}
