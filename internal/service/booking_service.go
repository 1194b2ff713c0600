package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/issue"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/queue"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
)

// EventPublisher delivers ledger events after a write commits.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// EntryInput is one requested placement. ListPrice is looked up in the
// pricing table when nil. FinishIssue empty on a bounded entry means the
// start issue only.
type EntryInput struct {
	MagazineID         uint64           `json:"magazine_id"`
	ContentSizeID      uint64           `json:"content_size_id"`
	ContentTypeID      uint64           `json:"content_type_id"`
	ListPrice          *decimal.Decimal `json:"list_price"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	DiscountValue      decimal.Decimal  `json:"discount_value"`
	StartIssue         string           `json:"start_issue"`
	FinishIssue        string           `json:"finish_issue"`
	IsOngoing          bool             `json:"is_ongoing"`
}

// BookingInput is the full content of a booking write.
type BookingInput struct {
	CustomerID        uint64           `json:"customer_id"`
	Entries           []EntryInput     `json:"entries"`
	AdditionalCharges decimal.Decimal  `json:"additional_charges"`
	ChargeMode        model.ChargeMode `json:"charge_mode"`
	Notes             string           `json:"notes"`
}

// BookingService is the booking ledger. Every write re-validates against
// magazines, schedules, pricing and content types and computes all values
// before anything is stored.
type BookingService struct {
	store     repository.Store
	publisher EventPublisher
	log       *zap.Logger
	now       Clock
}

func NewBookingService(store repository.Store, publisher EventPublisher, log *zap.Logger, now Clock) *BookingService {
	return &BookingService{store: store, publisher: publisher, log: orNop(log), now: orSystem(now)}
}

func (s *BookingService) Create(ctx context.Context, ownerID uint64, in BookingInput) (*model.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.create", trace.WithAttributes(
		attribute.Int64("owner.id", int64(ownerID)),
		attribute.Int("entry.count", len(in.Entries)),
	))
	defer span.End()

	b, err := s.build(ctx, ownerID, in, nil)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create booking: %w", err)
	}
	span.SetAttributes(attribute.Int64("booking.id", int64(b.ID)))
	s.publish(ctx, queue.BookingCreated, b)
	return b, nil
}

// Update replaces the customer, charges and the whole entry set of a
// booking.
func (s *BookingService) Update(ctx context.Context, ownerID, id uint64, in BookingInput) (*model.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.update", trace.WithAttributes(
		attribute.Int64("booking.id", int64(id)),
		attribute.Int("entry.count", len(in.Entries)),
	))
	defer span.End()

	prior, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	b, err := s.build(ctx, ownerID, in, prior)
	if err != nil {
		return nil, err
	}
	b.ID = id
	if err := s.store.ReplaceBooking(ctx, b); err != nil {
		span.RecordError(err)
		return nil, storeErr("replace booking", "booking", err)
	}
	s.publish(ctx, queue.BookingUpdated, b)
	return b, nil
}

// Delete removes a booking and its entries permanently.
func (s *BookingService) Delete(ctx context.Context, ownerID, id uint64) error {
	ctx, span := tracer.Start(ctx, "booking.delete", trace.WithAttributes(
		attribute.Int64("booking.id", int64(id)),
	))
	defer span.End()

	b, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteBooking(ctx, id, ownerID); err != nil {
		span.RecordError(err)
		return storeErr("delete booking", "booking", err)
	}
	s.publish(ctx, queue.BookingDeleted, b)
	return nil
}

func (s *BookingService) Get(ctx context.Context, ownerID, id uint64) (*model.Booking, error) {
	b, err := s.store.GetBooking(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr("load booking", "booking", err)
	}
	return b, nil
}

func (s *BookingService) List(ctx context.Context, ownerID uint64, f repository.BookingFilter) ([]*model.Booking, error) {
	out, err := s.store.ListBookings(ctx, ownerID, f)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (s *BookingService) publish(ctx context.Context, t queue.EventType, b *model.Booking) {
	if s.publisher == nil {
		return
	}
	ev := queue.NewBookingEvent(t, b, s.now())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("publish booking event failed",
			zap.String("type", string(t)),
			zap.Uint64("booking_id", b.ID),
			zap.Error(err),
		)
	}
}

// lookups caches reference rows for the duration of one build. The kept*
// sets hold references the booking already had before an update; those
// stay usable after being archived.
type lookups struct {
	magazines map[uint64]*model.Magazine
	timelines map[uint64]*issue.Timeline
	sizes     map[uint64]*model.ContentSize
	types     map[uint64]bool

	keptMagazines map[uint64]bool
	keptSizes     map[uint64]bool
	keptTypes     map[uint64]bool
}

func newLookups(prior *model.Booking) *lookups {
	lk := &lookups{
		magazines:     map[uint64]*model.Magazine{},
		timelines:     map[uint64]*issue.Timeline{},
		sizes:         map[uint64]*model.ContentSize{},
		types:         map[uint64]bool{},
		keptMagazines: map[uint64]bool{},
		keptSizes:     map[uint64]bool{},
		keptTypes:     map[uint64]bool{},
	}
	if prior != nil {
		for _, e := range prior.Entries {
			lk.keptMagazines[e.MagazineID] = true
			lk.keptSizes[e.ContentSizeID] = true
			lk.keptTypes[e.ContentTypeID] = true
		}
	}
	return lk
}

// build validates in and computes every entry. Archived magazines,
// content sizes and content types are rejected unless prior already
// referenced them.
func (s *BookingService) build(ctx context.Context, ownerID uint64, in BookingInput, prior *model.Booking) (*model.Booking, error) {
	if _, err := s.store.GetCustomer(ctx, in.CustomerID, ownerID); err != nil {
		return nil, storeErr("load customer", "customer", err)
	}
	if len(in.Entries) == 0 {
		return nil, ErrValidation.withf("a booking needs at least one entry")
	}
	mode := in.ChargeMode
	if mode == "" {
		mode = model.ChargeSplit
	}
	if mode != model.ChargeSplit && mode != model.ChargeSingle {
		return nil, ErrValidation.withf("unknown charge mode %q, use split or single", mode)
	}
	if in.AdditionalCharges.IsNegative() {
		return nil, ErrValidation.withf("additional charges must not be negative")
	}

	lk := newLookups(prior)
	entries := make([]model.BookingEntry, 0, len(in.Entries))
	for i, x := range in.Entries {
		e, err := s.buildEntry(ctx, ownerID, lk, x)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}

	charges := ApportionCharges(in.AdditionalCharges, len(entries), mode)
	total := zero
	for i := range entries {
		e := &entries[i]
		e.AdditionalCharge = charges[i]
		e.NetValue = NetValue(e.ListPrice, e.DiscountPercentage, e.DiscountValue, e.AdditionalCharge)
		total = total.Add(e.NetValue)
	}
	return &model.Booking{
		OwnerID:           ownerID,
		CustomerID:        in.CustomerID,
		AdditionalCharges: in.AdditionalCharges.Round(2),
		ChargeMode:        mode,
		Notes:             strings.TrimSpace(in.Notes),
		Total:             total,
		Entries:           entries,
	}, nil
}

func (s *BookingService) buildEntry(ctx context.Context, ownerID uint64, lk *lookups, x EntryInput) (model.BookingEntry, error) {
	var e model.BookingEntry

	mag, tl, err := s.magazineTimeline(ctx, ownerID, lk, x.MagazineID)
	if err != nil {
		return e, err
	}
	cs, err := s.contentSize(ctx, ownerID, lk, x.ContentSizeID)
	if err != nil {
		return e, err
	}
	if err := s.contentType(ctx, ownerID, lk, x.ContentTypeID); err != nil {
		return e, err
	}

	start, ok := tl.Lookup(x.StartIssue)
	if !ok {
		return e, ErrUnknownIssue.withf("start issue %q is not in the schedule of magazine %q", x.StartIssue, mag.Name)
	}
	finish := ""
	finishIn := strings.TrimSpace(x.FinishIssue)
	switch {
	case x.IsOngoing && finishIn != "":
		return e, ErrValidation.withf("an ongoing entry cannot have a finish issue")
	case x.IsOngoing:
	case finishIn == "":
		finish = start.Name
	default:
		f, ok := tl.Lookup(finishIn)
		if !ok {
			return e, ErrUnknownIssue.withf("finish issue %q is not in the schedule of magazine %q", finishIn, mag.Name)
		}
		finish = f.Name
	}
	if !tl.Ordered(issue.Range{Start: start.Name, Finish: finish, Ongoing: x.IsOngoing}) {
		return e, ErrInvalidRange.withf("finish issue %q comes before start issue %q", finish, start.Name)
	}

	if x.DiscountPercentage.IsNegative() || x.DiscountPercentage.GreaterThan(hundred) {
		return e, ErrValidation.withf("discount percentage must be between 0 and 100, got %s", x.DiscountPercentage)
	}
	if x.DiscountValue.IsNegative() {
		return e, ErrValidation.withf("discount value must not be negative, got %s", x.DiscountValue)
	}
	var list decimal.Decimal
	if x.ListPrice != nil {
		if x.ListPrice.IsNegative() {
			return e, ErrValidation.withf("list price must not be negative, got %s", x.ListPrice)
		}
		list = x.ListPrice.Round(2)
	} else if list, err = priceOf(cs, mag.ID); err != nil {
		return e, err
	}

	return model.BookingEntry{
		MagazineID:         mag.ID,
		ContentSizeID:      cs.ID,
		ContentTypeID:      x.ContentTypeID,
		ListPrice:          list,
		DiscountPercentage: x.DiscountPercentage,
		DiscountValue:      x.DiscountValue.Round(2),
		StartIssue:         start.Name,
		FinishIssue:        finish,
		IsOngoing:          x.IsOngoing,
	}, nil
}

func (s *BookingService) magazineTimeline(ctx context.Context, ownerID uint64, lk *lookups, id uint64) (*model.Magazine, *issue.Timeline, error) {
	if m, ok := lk.magazines[id]; ok {
		return m, lk.timelines[id], nil
	}
	m, err := s.store.GetMagazine(ctx, id, ownerID)
	if err != nil {
		return nil, nil, storeErr("load magazine", "magazine", err)
	}
	if m.Archived && !lk.keptMagazines[id] {
		return nil, nil, ErrValidation.withf("magazine %q is archived", m.Name)
	}
	if m.ScheduleID == nil {
		return nil, nil, ErrUnknownIssue.withf("magazine %q is not bound to a schedule", m.Name)
	}
	sc, err := s.store.GetSchedule(ctx, *m.ScheduleID, ownerID)
	if err != nil {
		return nil, nil, storeErr("load schedule", "schedule", err)
	}
	tl := issue.NewTimeline(sc.Issues)
	lk.magazines[id], lk.timelines[id] = m, tl
	return m, tl, nil
}

func (s *BookingService) contentSize(ctx context.Context, ownerID uint64, lk *lookups, id uint64) (*model.ContentSize, error) {
	if cs, ok := lk.sizes[id]; ok {
		return cs, nil
	}
	cs, err := s.store.GetContentSize(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr("load content size", "content size", err)
	}
	if cs.Archived && !lk.keptSizes[id] {
		return nil, ErrValidation.withf("content size %q is archived", cs.Description)
	}
	lk.sizes[id] = cs
	return cs, nil
}

func (s *BookingService) contentType(ctx context.Context, ownerID uint64, lk *lookups, id uint64) error {
	if lk.types[id] {
		return nil
	}
	l, err := s.store.GetLabel(ctx, model.ContentTypeLabel, id, ownerID)
	if err != nil {
		return storeErr("load content type", "content type", err)
	}
	if l.Archived && !lk.keptTypes[id] {
		return ErrValidation.withf("content type %q is archived", l.Name)
	}
	lk.types[id] = true
	return nil
}
