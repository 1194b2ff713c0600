package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/issue"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
)

// ReportService builds read-only rollups over the ledger.
type ReportService struct {
	store        repository.Store
	defaultPages int
	now          Clock
}

func NewReportService(store repository.Store, defaultPages int, now Clock) *ReportService {
	if defaultPages <= 0 {
		defaultPages = DefaultPages
	}
	return &ReportService{store: store, defaultPages: defaultPages, now: orSystem(now)}
}

// CurrentIssueBreakdown reports booked space in the magazine's current
// issue, grouped by content type. The current issue is resolved within the
// magazine's own schedule only. An unbound magazine or a schedule whose
// issues have all closed yields an empty breakdown.
func (s *ReportService) CurrentIssueBreakdown(ctx context.Context, ownerID, magazineID uint64) (*model.IssueBreakdown, error) {
	ctx, span := tracer.Start(ctx, "report.current_issue_breakdown", trace.WithAttributes(
		attribute.Int64("magazine.id", int64(magazineID)),
	))
	defer span.End()

	m, err := s.store.GetMagazine(ctx, magazineID, ownerID)
	if err != nil {
		return nil, storeErr("load magazine", "magazine", err)
	}
	out := &model.IssueBreakdown{
		MagazineID:       m.ID,
		BookedPages:      zero,
		UnallocatedPages: zero,
		Utilisation:      zero,
		Groups:           []model.BreakdownGroup{},
	}
	if m.ScheduleID == nil {
		return out, nil
	}
	sc, err := s.store.GetSchedule(ctx, *m.ScheduleID, ownerID)
	if err != nil {
		return nil, storeErr("load schedule", "schedule", err)
	}
	tl := issue.NewTimeline(sc.Issues)
	cur, err := tl.Current(s.now())
	if errors.Is(err, issue.ErrNoFutureIssue) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	pages, _ := pagesFor(m, cur.Name, s.defaultPages)
	total := decimal.NewFromInt(int64(pages))
	closeDate := cur.CloseDate
	out.Issue, out.CloseDate, out.TotalPages = cur.Name, &closeDate, pages
	out.UnallocatedPages = total

	bookings, err := s.store.ListBookings(ctx, ownerID, repository.BookingFilter{MagazineID: m.ID})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	names := newNameCache(s.store, ownerID)
	sizes := map[uint64]decimal.Decimal{}
	byType := map[string]*model.BreakdownGroup{}
	booked := zero
	for _, b := range bookings {
		for _, e := range b.Entries {
			if e.MagazineID != m.ID {
				continue
			}
			r := issue.Range{Start: e.StartIssue, Finish: e.FinishIssue, Ongoing: e.IsOngoing}
			if !tl.Covers(r, cur.Name) {
				continue
			}
			size, ok := sizes[e.ContentSizeID]
			if !ok {
				cs, err := s.store.GetContentSize(ctx, e.ContentSizeID, ownerID)
				if err != nil {
					return nil, storeErr("load content size", "content size", err)
				}
				size = cs.Size
				sizes[e.ContentSizeID] = size
			}
			name, err := names.contentType(ctx, e.ContentTypeID)
			if err != nil {
				return nil, err
			}
			g, ok := byType[name]
			if !ok {
				g = &model.BreakdownGroup{ContentType: name, Pages: zero}
				byType[name] = g
			}
			g.Entries++
			g.Pages = g.Pages.Add(size)
			booked = booked.Add(size)
		}
	}

	for _, g := range byType {
		if booked.IsPositive() {
			g.Percentage = g.Pages.Div(booked).Mul(hundred).Round(1)
		}
		if total.IsPositive() {
			g.BudgetPercentage = g.Pages.Div(total).Mul(hundred).Round(1)
		}
		out.Groups = append(out.Groups, *g)
	}
	sort.Slice(out.Groups, func(i, j int) bool { return out.Groups[i].ContentType < out.Groups[j].ContentType })

	out.BookedPages = booked
	out.UnallocatedPages = total.Sub(booked)
	if total.IsPositive() {
		out.Utilisation = booked.Div(total).Mul(hundred).Round(1)
	}
	return out, nil
}

// PublicationsRevenue totals entry net values per magazine, with a
// breakdown per content type. From and To bound the booking creation time
// and may be nil. Archived magazines are included and flagged.
func (s *ReportService) PublicationsRevenue(ctx context.Context, ownerID uint64, from, to *time.Time) (*model.RevenueReport, error) {
	ctx, span := tracer.Start(ctx, "report.publications_revenue")
	defer span.End()

	if from != nil && to != nil && to.Before(*from) {
		return nil, ErrValidation.withf("the report window ends before it starts")
	}
	mags, err := s.store.ListMagazines(ctx, ownerID, true)
	if err != nil {
		return nil, fmt.Errorf("list magazines: %w", err)
	}
	bookings, err := s.store.ListBookings(ctx, ownerID, repository.BookingFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	type acc struct {
		rev   model.MagazineRevenue
		lines map[string]*model.RevenueLine
	}
	byMag := make(map[uint64]*acc, len(mags))
	for _, m := range mags {
		byMag[m.ID] = &acc{
			rev:   model.MagazineRevenue{MagazineID: m.ID, MagazineName: m.Name, Archived: m.Archived, Total: zero},
			lines: map[string]*model.RevenueLine{},
		}
	}

	names := newNameCache(s.store, ownerID)
	report := &model.RevenueReport{From: from, To: to, Total: zero, Magazines: []model.MagazineRevenue{}}
	for _, b := range bookings {
		for _, e := range b.Entries {
			a, ok := byMag[e.MagazineID]
			if !ok {
				continue
			}
			name, err := names.contentType(ctx, e.ContentTypeID)
			if err != nil {
				return nil, err
			}
			line, ok := a.lines[name]
			if !ok {
				line = &model.RevenueLine{ContentType: name, Value: zero}
				a.lines[name] = line
			}
			line.Count++
			line.Value = line.Value.Add(e.NetValue)
			a.rev.Count++
			a.rev.Total = a.rev.Total.Add(e.NetValue)
			report.Total = report.Total.Add(e.NetValue)
		}
	}

	for _, m := range mags {
		a := byMag[m.ID]
		a.rev.ByContentType = make([]model.RevenueLine, 0, len(a.lines))
		for _, l := range a.lines {
			a.rev.ByContentType = append(a.rev.ByContentType, *l)
		}
		sort.Slice(a.rev.ByContentType, func(i, j int) bool {
			return a.rev.ByContentType[i].ContentType < a.rev.ByContentType[j].ContentType
		})
		report.Magazines = append(report.Magazines, a.rev)
	}
	return report, nil
}

type nameCache struct {
	store   repository.LabelStore
	ownerID uint64
	names   map[uint64]string
}

func newNameCache(store repository.LabelStore, ownerID uint64) *nameCache {
	return &nameCache{store: store, ownerID: ownerID, names: map[uint64]string{}}
}

func (c *nameCache) contentType(ctx context.Context, id uint64) (string, error) {
	if n, ok := c.names[id]; ok {
		return n, nil
	}
	l, err := c.store.GetLabel(ctx, model.ContentTypeLabel, id, c.ownerID)
	if err != nil {
		return "", storeErr("load content type", "content type", err)
	}
	c.names[id] = l.Name
	return l.Name, nil
}
