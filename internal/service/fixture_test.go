package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/queue"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository/memory"
)

const ownerID uint64 = 7

// MockPublisher is a mock implementation of EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type fixture struct {
	store *memory.Store
	now   time.Time
	pub   *MockPublisher

	schedules *ScheduleService
	magazines *MagazineService
	pricing   *PricingService
	labels    *LabelService
	customers *CustomerService
	bookings  *BookingService
	reports   *ReportService
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.New(),
		now:   day(2025, 12, 25),
		pub:   new(MockPublisher),
	}
	clock := func() time.Time { return f.now }
	f.store.SetClock(clock)
	f.schedules = NewScheduleService(f.store, nil, clock)
	f.magazines = NewMagazineService(f.store, f.store, 32, nil)
	f.pricing = NewPricingService(f.store, f.store)
	f.labels = NewLabelService(f.store, []string{"Advert", "Article"}, []string{"Retail"}, nil)
	f.customers = NewCustomerService(f.store, f.store)
	f.bookings = NewBookingService(f.store, f.pub, nil, clock)
	f.reports = NewReportService(f.store, 32, clock)
	return f
}

// monthly creates the "Monthly" schedule with Jan26 and Feb26.
func (f *fixture) monthly(t *testing.T) *model.Schedule {
	t.Helper()
	res, err := f.schedules.Create(context.Background(), ownerID, "Monthly", []IssueInput{
		{Name: "Jan26", CloseDate: day(2025, 12, 20)},
		{Name: "Feb26", CloseDate: day(2026, 1, 20)},
	})
	require.NoError(t, err)
	return res.Schedule
}

func (f *fixture) magazine(t *testing.T, name string, sc *model.Schedule) *model.Magazine {
	t.Helper()
	var scheduleID *uint64
	if sc != nil {
		id := sc.ID
		scheduleID = &id
	}
	m, err := f.magazines.Create(context.Background(), ownerID, name, scheduleID)
	require.NoError(t, err)
	return m
}

func (f *fixture) contentSize(t *testing.T, desc, size string, prices map[uint64]decimal.Decimal) *model.ContentSize {
	t.Helper()
	cs, err := f.pricing.Create(context.Background(), ownerID, ContentSizeInput{Description: desc, Size: dec(size), Prices: prices})
	require.NoError(t, err)
	return cs
}

// contentType returns the id of a seeded default content type.
func (f *fixture) contentType(t *testing.T, name string) uint64 {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.labels.SeedDefaults(ctx, ownerID))
	list, err := f.labels.List(ctx, ownerID, model.ContentTypeLabel, true)
	require.NoError(t, err)
	for _, l := range list {
		if l.Name == name {
			return l.ID
		}
	}
	t.Fatalf("content type %q not seeded", name)
	return 0
}

func (f *fixture) customer(t *testing.T, name string) *model.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), ownerID, CustomerInput{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) allowEvents() {
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
}

type prices = map[uint64]decimal.Decimal
