package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/queue"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
)

type bookingSetup struct {
	mag      *model.Magazine
	size     *model.ContentSize
	advert   uint64
	customer *model.Customer
}

func newBookingSetup(t *testing.T, f *fixture) bookingSetup {
	t.Helper()
	sc := f.monthly(t)
	mag := f.magazine(t, "Local", sc)
	return bookingSetup{
		mag:      mag,
		size:     f.contentSize(t, "Quarter page", "0.25", prices{mag.ID: dec("100")}),
		advert:   f.contentType(t, "Advert"),
		customer: f.customer(t, "Bakery"),
	}
}

func (s bookingSetup) entry(start, finish string) EntryInput {
	return EntryInput{
		MagazineID:    s.mag.ID,
		ContentSizeID: s.size.ID,
		ContentTypeID: s.advert,
		StartIssue:    start,
		FinishIssue:   finish,
	}
}

func price(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestBookingService_CreateComputesNetValue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := newBookingSetup(t, f)
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev queue.BookingEvent) bool {
		return ev.Type == queue.BookingCreated && ev.EntryCount == 1 && ev.Total.Equal(dec("105"))
	})).Return(nil).Once()

	e := s.entry("Feb26", "")
	e.DiscountPercentage = dec("10")
	e.DiscountValue = dec("5")
	b, err := f.bookings.Create(ctx, ownerID, BookingInput{
		CustomerID:        s.customer.ID,
		Entries:           []EntryInput{e},
		AdditionalCharges: dec("20"),
	})
	require.NoError(t, err)

	require.Len(t, b.Entries, 1)
	got := b.Entries[0]
	assert.True(t, got.ListPrice.Equal(dec("100")), "list price comes from the pricing table")
	assert.True(t, got.AdditionalCharge.Equal(dec("20")))
	assert.True(t, got.NetValue.Equal(dec("105")), "got %s", got.NetValue)
	assert.Equal(t, "Feb26", got.FinishIssue, "an empty finish books the start issue only")
	assert.True(t, b.Total.Equal(dec("105")))
	assert.Equal(t, model.ChargeSplit, b.ChargeMode)
	f.pub.AssertExpectations(t)
}

func TestBookingService_ChargeModes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.allowEvents()
	s := newBookingSetup(t, f)
	entries := []EntryInput{s.entry("Jan26", ""), s.entry("Feb26", ""), s.entry("Jan26", "Feb26")}

	split, err := f.bookings.Create(ctx, ownerID, BookingInput{
		CustomerID: s.customer.ID, Entries: entries, AdditionalCharges: dec("10"),
	})
	require.NoError(t, err)
	assert.True(t, split.Entries[0].AdditionalCharge.Equal(dec("3.34")))
	assert.True(t, split.Entries[1].AdditionalCharge.Equal(dec("3.33")))
	assert.True(t, split.Entries[2].AdditionalCharge.Equal(dec("3.33")))
	assert.True(t, split.Total.Equal(dec("310")))

	single, err := f.bookings.Create(ctx, ownerID, BookingInput{
		CustomerID: s.customer.ID, Entries: entries, AdditionalCharges: dec("10"), ChargeMode: model.ChargeSingle,
	})
	require.NoError(t, err)
	assert.True(t, single.Entries[0].NetValue.Equal(dec("110")))
	assert.True(t, single.Entries[1].NetValue.Equal(dec("100")))
	assert.True(t, single.Total.Equal(dec("310")))
}

func TestBookingService_CreateRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := newBookingSetup(t, f)
	other := f.magazine(t, "Unpriced", nil)

	tests := []struct {
		name   string
		mutate func(*BookingInput)
		want   error
	}{
		{name: "no entries", mutate: func(in *BookingInput) { in.Entries = nil }, want: ErrValidation},
		{name: "unknown customer", mutate: func(in *BookingInput) { in.CustomerID = 999 }, want: ErrNotFound},
		{name: "unknown start issue", mutate: func(in *BookingInput) { in.Entries[0].StartIssue = "Mar26" }, want: ErrUnknownIssue},
		{name: "unknown finish issue", mutate: func(in *BookingInput) { in.Entries[0].FinishIssue = "Dec26" }, want: ErrUnknownIssue},
		{name: "finish before start", mutate: func(in *BookingInput) {
			in.Entries[0].StartIssue, in.Entries[0].FinishIssue = "Feb26", "Jan26"
		}, want: ErrInvalidRange},
		{name: "ongoing with finish", mutate: func(in *BookingInput) { in.Entries[0].IsOngoing = true }, want: ErrValidation},
		{name: "discount over 100", mutate: func(in *BookingInput) { in.Entries[0].DiscountPercentage = dec("101") }, want: ErrValidation},
		{name: "negative discount value", mutate: func(in *BookingInput) { in.Entries[0].DiscountValue = dec("-1") }, want: ErrValidation},
		{name: "negative charges", mutate: func(in *BookingInput) { in.AdditionalCharges = dec("-1") }, want: ErrValidation},
		{name: "unknown charge mode", mutate: func(in *BookingInput) { in.ChargeMode = "double" }, want: ErrValidation},
		{name: "unbound magazine", mutate: func(in *BookingInput) { in.Entries[0].MagazineID = other.ID }, want: ErrUnknownIssue},
		{name: "unknown content type", mutate: func(in *BookingInput) { in.Entries[0].ContentTypeID = 999 }, want: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{s.entry("Jan26", "Feb26")}}
			tt.mutate(&in)
			_, err := f.bookings.Create(ctx, ownerID, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	list, err := f.bookings.List(ctx, ownerID, repository.BookingFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "failed writes store nothing")
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBookingService_PriceLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.allowEvents()
	s := newBookingSetup(t, f)
	sc, err := f.schedules.Get(ctx, ownerID, *s.mag.ScheduleID)
	require.NoError(t, err)
	second := f.magazine(t, "County", sc)

	e := s.entry("Feb26", "")
	e.MagazineID = second.ID
	_, err = f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{e}})
	assert.ErrorIs(t, err, ErrPriceNotFound)

	e.ListPrice = price("80")
	b, err := f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{e}})
	require.NoError(t, err)
	assert.True(t, b.Entries[0].NetValue.Equal(dec("80")))
}

func TestBookingService_OngoingEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.allowEvents()
	s := newBookingSetup(t, f)

	e := s.entry("Jan26", "")
	e.IsOngoing = true
	b, err := f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{e}})
	require.NoError(t, err)
	assert.True(t, b.Entries[0].IsOngoing)
	assert.Empty(t, b.Entries[0].FinishIssue)
}

func TestBookingService_UpdateReplacesEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := newBookingSetup(t, f)
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev queue.BookingEvent) bool {
		return ev.Type == queue.BookingCreated
	})).Return(nil).Once()
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev queue.BookingEvent) bool {
		return ev.Type == queue.BookingUpdated && ev.EntryCount == 2
	})).Return(nil).Once()

	b, err := f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{s.entry("Jan26", "")}})
	require.NoError(t, err)

	up, err := f.bookings.Update(ctx, ownerID, b.ID, BookingInput{
		CustomerID: s.customer.ID,
		Entries:    []EntryInput{s.entry("Feb26", ""), s.entry("Jan26", "Feb26")},
		Notes:      "  moved  ",
	})
	require.NoError(t, err)
	assert.Equal(t, b.ID, up.ID)

	stored, err := f.bookings.Get(ctx, ownerID, b.ID)
	require.NoError(t, err)
	require.Len(t, stored.Entries, 2)
	assert.Equal(t, "Feb26", stored.Entries[0].StartIssue)
	assert.Equal(t, "moved", stored.Notes)
	assert.Equal(t, b.CreatedAt, stored.CreatedAt)
	f.pub.AssertExpectations(t)
}

func TestBookingService_FailedUpdateKeepsBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.allowEvents()
	s := newBookingSetup(t, f)
	b, err := f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{s.entry("Jan26", "")}})
	require.NoError(t, err)

	_, err = f.bookings.Update(ctx, ownerID, b.ID, BookingInput{
		CustomerID: s.customer.ID,
		Entries:    []EntryInput{s.entry("Feb26", ""), s.entry("Feb26", "Jan26")},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	stored, err := f.bookings.Get(ctx, ownerID, b.ID)
	require.NoError(t, err)
	require.Len(t, stored.Entries, 1)
	assert.Equal(t, "Jan26", stored.Entries[0].StartIssue)
}

func TestBookingService_ArchivedReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.allowEvents()
	s := newBookingSetup(t, f)
	b, err := f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{s.entry("Feb26", "")}})
	require.NoError(t, err)

	_, err = f.magazines.Archive(ctx, ownerID, s.mag.ID)
	require.NoError(t, err)
	_, err = f.pricing.Archive(ctx, ownerID, s.size.ID)
	require.NoError(t, err)
	_, err = f.labels.Archive(ctx, ownerID, model.ContentTypeLabel, s.advert)
	require.NoError(t, err)

	t.Run("new bookings cannot use archived rows", func(t *testing.T) {
		_, err := f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{s.entry("Feb26", "")}})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "archived")
	})

	t.Run("an existing booking keeps its archived references", func(t *testing.T) {
		_, err := f.bookings.Update(ctx, ownerID, b.ID, BookingInput{
			CustomerID: s.customer.ID,
			Entries:    []EntryInput{s.entry("Feb26", "")},
			Notes:      "reprint",
		})
		require.NoError(t, err)
	})

	t.Run("each archived kind is checked", func(t *testing.T) {
		fresh := f.magazine(t, "Fresh", nil)
		sc, err := f.schedules.List(ctx, ownerID)
		require.NoError(t, err)
		id := sc[0].ID
		_, err = f.magazines.Bind(ctx, ownerID, fresh.ID, &id)
		require.NoError(t, err)
		article := f.contentType(t, "Article")
		half := f.contentSize(t, "Half page", "0.5", prices{fresh.ID: dec("180")})

		_, err = f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{
			{MagazineID: fresh.ID, ContentSizeID: s.size.ID, ContentTypeID: article, StartIssue: "Feb26", ListPrice: price("50")},
		}})
		assert.ErrorIs(t, err, ErrValidation, "archived content size")

		_, err = f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{
			{MagazineID: fresh.ID, ContentSizeID: half.ID, ContentTypeID: s.advert, StartIssue: "Feb26"},
		}})
		assert.ErrorIs(t, err, ErrValidation, "archived content type")

		_, err = f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{
			{MagazineID: fresh.ID, ContentSizeID: half.ID, ContentTypeID: article, StartIssue: "Feb26"},
		}})
		require.NoError(t, err)
	})
}

func TestBookingService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := newBookingSetup(t, f)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev queue.BookingEvent) bool {
		return ev.Type == queue.BookingDeleted
	})).Return(errors.New("broker down")).Once()

	b, err := f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{s.entry("Jan26", "")}})
	require.NoError(t, err)

	require.NoError(t, f.bookings.Delete(ctx, ownerID, b.ID), "publish failures are not surfaced")
	_, err = f.bookings.Get(ctx, ownerID, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.bookings.Delete(ctx, ownerID, b.ID), ErrNotFound)
	f.pub.AssertExpectations(t)
}

func TestBookingService_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.allowEvents()
	s := newBookingSetup(t, f)
	b, err := f.bookings.Create(ctx, ownerID, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{s.entry("Jan26", "")}})
	require.NoError(t, err)

	_, err = f.bookings.Get(ctx, ownerID+1, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.bookings.Create(ctx, ownerID+1, BookingInput{CustomerID: s.customer.ID, Entries: []EntryInput{s.entry("Jan26", "")}})
	assert.ErrorIs(t, err, ErrNotFound)
}
