package repository

import (
	"context"
	"time"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// ScheduleStore persists schedules together with their issues.
type ScheduleStore interface {
	// CreateSchedule inserts the schedule and all issues in one write and
	// fills in generated IDs.
	CreateSchedule(ctx context.Context, s *model.Schedule) error
	GetSchedule(ctx context.Context, id, ownerID uint64) (*model.Schedule, error)
	ListSchedules(ctx context.Context, ownerID uint64) ([]*model.Schedule, error)
	// ReplaceSchedule rewrites the name and the full issue list in one write.
	// Issues with a non-zero ID keep it. In the same write, a renamed issue
	// is renamed in the booking entries and page configurations of every
	// magazine bound to the schedule, and page configurations of removed
	// issues are dropped.
	ReplaceSchedule(ctx context.Context, s *model.Schedule) error
	DeleteSchedule(ctx context.Context, id, ownerID uint64) error
	// ScheduleInUse reports whether any magazine is bound to the schedule.
	ScheduleInUse(ctx context.Context, id, ownerID uint64) (bool, error)
	// BookedIssues returns the issue names that booking entries of magazines
	// bound to the schedule start or finish at.
	BookedIssues(ctx context.Context, id, ownerID uint64) ([]string, error)
}

// MagazineStore persists magazines and their per-issue page counts.
type MagazineStore interface {
	CreateMagazine(ctx context.Context, m *model.Magazine) error
	GetMagazine(ctx context.Context, id, ownerID uint64) (*model.Magazine, error)
	ListMagazines(ctx context.Context, ownerID uint64, includeArchived bool) ([]*model.Magazine, error)
	// UpdateMagazine writes name, schedule binding, archived flag and the
	// complete page configuration in one write.
	UpdateMagazine(ctx context.Context, m *model.Magazine) error
	DeleteMagazine(ctx context.Context, id, ownerID uint64) error
	// MagazineInUse reports whether any booking entry references the magazine.
	MagazineInUse(ctx context.Context, id, ownerID uint64) (bool, error)
}

// ContentSizeStore persists content sizes and their per-magazine prices.
type ContentSizeStore interface {
	CreateContentSize(ctx context.Context, cs *model.ContentSize) error
	GetContentSize(ctx context.Context, id, ownerID uint64) (*model.ContentSize, error)
	ListContentSizes(ctx context.Context, ownerID uint64, includeArchived bool) ([]*model.ContentSize, error)
	// UpdateContentSize writes description, size, archived flag and the
	// complete price map in one write.
	UpdateContentSize(ctx context.Context, cs *model.ContentSize) error
	DeleteContentSize(ctx context.Context, id, ownerID uint64) error
	ContentSizeInUse(ctx context.Context, id, ownerID uint64) (bool, error)
}

// LabelStore persists content types and business types.
type LabelStore interface {
	CreateLabel(ctx context.Context, l *model.Label) error
	GetLabel(ctx context.Context, kind model.LabelKind, id, ownerID uint64) (*model.Label, error)
	ListLabels(ctx context.Context, kind model.LabelKind, ownerID uint64, includeArchived bool) ([]*model.Label, error)
	UpdateLabel(ctx context.Context, l *model.Label) error
	DeleteLabel(ctx context.Context, kind model.LabelKind, id, ownerID uint64) error
	// LabelInUse reports whether a booking entry (content types) or a
	// customer (business types) references the label.
	LabelInUse(ctx context.Context, kind model.LabelKind, id, ownerID uint64) (bool, error)
	// UpsertDefaultLabels makes sure each name exists and is flagged default.
	// Running it twice leaves the same rows.
	UpsertDefaultLabels(ctx context.Context, kind model.LabelKind, ownerID uint64, names []string) error
}

// CustomerStore persists advertisers.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, c *model.Customer) error
	GetCustomer(ctx context.Context, id, ownerID uint64) (*model.Customer, error)
	ListCustomers(ctx context.Context, ownerID uint64, includeArchived bool) ([]*model.Customer, error)
	UpdateCustomer(ctx context.Context, c *model.Customer) error
	DeleteCustomer(ctx context.Context, id, ownerID uint64) error
	CustomerInUse(ctx context.Context, id, ownerID uint64) (bool, error)
}

// BookingFilter narrows ListBookings. Zero values match everything;
// From and To bound CreatedAt inclusively.
type BookingFilter struct {
	CustomerID uint64
	MagazineID uint64
	From       *time.Time
	To         *time.Time
}

// BookingStore persists bookings and their entries.
type BookingStore interface {
	// CreateBooking inserts the booking and all entries in one transaction.
	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, id, ownerID uint64) (*model.Booking, error)
	// ListBookings returns bookings with entries. When MagazineID is set
	// only bookings with an entry in that magazine are returned, but all
	// of their entries are included.
	ListBookings(ctx context.Context, ownerID uint64, f BookingFilter) ([]*model.Booking, error)
	// ReplaceBooking rewrites the header and swaps the entry set in one
	// transaction.
	ReplaceBooking(ctx context.Context, b *model.Booking) error
	DeleteBooking(ctx context.Context, id, ownerID uint64) error
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, role string) (uint64, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore persists refresh token hashes.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// Store is the full set of stores a backend provides.
type Store interface {
	ScheduleStore
	MagazineStore
	ContentSizeStore
	LabelStore
	CustomerStore
	BookingStore
	UserStore
	TokenStore
}
