package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/issue"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
)

// IssueInput describes one issue of a schedule write. ID matches an
// existing issue on update; without it the name is used. Year and Month
// are optional and take precedence over the name when both are set.
type IssueInput struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CloseDate time.Time `json:"close_date"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
}

// ScheduleResult is a written schedule plus data-quality warnings that did
// not block the write.
type ScheduleResult struct {
	Schedule *model.Schedule `json:"schedule"`
	Warnings []string        `json:"warnings,omitempty"`
}

type ScheduleService struct {
	store repository.ScheduleStore
	log   *zap.Logger
	now   Clock
}

func NewScheduleService(store repository.ScheduleStore, log *zap.Logger, now Clock) *ScheduleService {
	return &ScheduleService{store: store, log: orNop(log), now: orSystem(now)}
}

// Create registers a new schedule for the owner.
func (s *ScheduleService) Create(ctx context.Context, ownerID uint64, name string, in []IssueInput) (*ScheduleResult, error) {
	ctx, span := tracer.Start(ctx, "schedule.create", trace.WithAttributes(
		attribute.Int64("owner.id", int64(ownerID)),
		attribute.Int("issue.count", len(in)),
	))
	defer span.End()

	name, err := requireName("schedule name", name)
	if err != nil {
		return nil, err
	}
	issues, err := buildIssues(in)
	if err != nil {
		return nil, err
	}
	sc := &model.Schedule{OwnerID: ownerID, Name: name, Issues: issues}
	if err := s.store.CreateSchedule(ctx, sc); err != nil {
		span.RecordError(err)
		return nil, storeErr("create schedule", "schedule", err)
	}
	return &ScheduleResult{Schedule: sc, Warnings: s.orderWarnings(sc)}, nil
}

// Update renames the schedule and replaces its issue list. Issues whose
// close date has passed are frozen: they cannot be renamed, re-dated or
// removed, and no new issue may be added with a past close date. A booked
// issue cannot be removed; renaming it by ID renames it in the bookings
// and page budgets too.
func (s *ScheduleService) Update(ctx context.Context, ownerID, id uint64, name string, in []IssueInput) (*ScheduleResult, error) {
	ctx, span := tracer.Start(ctx, "schedule.update", trace.WithAttributes(
		attribute.Int64("schedule.id", int64(id)),
		attribute.Int("issue.count", len(in)),
	))
	defer span.End()

	name, err := requireName("schedule name", name)
	if err != nil {
		return nil, err
	}
	cur, err := s.store.GetSchedule(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr("load schedule", "schedule", err)
	}
	issues, err := buildIssues(in)
	if err != nil {
		return nil, err
	}
	if err := matchExisting(cur.Issues, issues, in); err != nil {
		return nil, err
	}
	if err := checkClosed(cur.Issues, issues, s.now()); err != nil {
		return nil, err
	}
	if err := s.checkBooked(ctx, ownerID, id, cur.Issues, issues); err != nil {
		return nil, err
	}

	sc := &model.Schedule{ID: id, OwnerID: ownerID, Name: name, Issues: issues}
	if err := s.store.ReplaceSchedule(ctx, sc); err != nil {
		span.RecordError(err)
		return nil, storeErr("replace schedule", "schedule", err)
	}
	return &ScheduleResult{Schedule: sc, Warnings: s.orderWarnings(sc)}, nil
}

// Delete removes a schedule that no magazine is bound to.
func (s *ScheduleService) Delete(ctx context.Context, ownerID, id uint64) error {
	if _, err := s.store.GetSchedule(ctx, id, ownerID); err != nil {
		return storeErr("load schedule", "schedule", err)
	}
	inUse, err := s.store.ScheduleInUse(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("schedule in use: %w", err)
	}
	if inUse {
		return ErrScheduleInUse
	}
	return storeErr("delete schedule", "schedule", s.store.DeleteSchedule(ctx, id, ownerID))
}

func (s *ScheduleService) Get(ctx context.Context, ownerID, id uint64) (*model.Schedule, error) {
	sc, err := s.store.GetSchedule(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr("load schedule", "schedule", err)
	}
	return sc, nil
}

func (s *ScheduleService) List(ctx context.Context, ownerID uint64) ([]*model.Schedule, error) {
	out, err := s.store.ListSchedules(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return out, nil
}

func buildIssues(in []IssueInput) ([]model.Issue, error) {
	if len(in) == 0 {
		return nil, ErrEmptySchedule
	}
	seen := make(map[string]bool, len(in))
	issues := make([]model.Issue, 0, len(in))
	for i, x := range in {
		name, err := requireName(fmt.Sprintf("issue %d name", i+1), x.Name)
		if err != nil {
			return nil, err
		}
		if x.CloseDate.IsZero() {
			return nil, ErrValidation.withf("issue %q needs a close date", name)
		}
		key := model.NormalizeName(name)
		if seen[key] {
			return nil, ErrDuplicateIssue.withf("issue name %q appears more than once", name)
		}
		seen[key] = true
		issues = append(issues, model.Issue{
			Name:      name,
			CloseDate: x.CloseDate.UTC(),
			Year:      x.Year,
			Month:     x.Month,
		})
	}
	if err := issue.AssignKeys(issues); err != nil {
		if errors.Is(err, issue.ErrNoPeriod) {
			return nil, ErrValidation.withf("%v; give year and month explicitly", err)
		}
		return nil, err
	}
	return issues, nil
}

// matchExisting copies IDs of current issues onto the new list, by ID
// when the input names one and by name otherwise.
func matchExisting(cur, next []model.Issue, in []IssueInput) error {
	byID := make(map[uint64]model.Issue, len(cur))
	byName := make(map[string]model.Issue, len(cur))
	for _, is := range cur {
		byID[is.ID] = is
		byName[model.NormalizeName(is.Name)] = is
	}
	claimed := make(map[uint64]bool, len(cur))
	for i := range next {
		var (
			match model.Issue
			ok    bool
		)
		if in[i].ID != 0 {
			if match, ok = byID[in[i].ID]; !ok {
				return ErrUnknownIssue.withf("issue id %d is not part of this schedule", in[i].ID)
			}
		} else {
			match, ok = byName[model.NormalizeName(next[i].Name)]
		}
		if !ok {
			continue
		}
		if claimed[match.ID] {
			return ErrValidation.withf("issue %q is listed twice", match.Name)
		}
		claimed[match.ID] = true
		next[i].ID = match.ID
	}
	return nil
}

// checkBooked refuses to drop an issue that a booking entry starts or
// finishes at. A rename keeps the issue ID and is carried into the entries
// by the store.
func (s *ScheduleService) checkBooked(ctx context.Context, ownerID, id uint64, cur, next []model.Issue) error {
	kept := make(map[uint64]bool, len(next))
	for _, is := range next {
		if is.ID != 0 {
			kept[is.ID] = true
		}
	}
	var removed []model.Issue
	for _, old := range cur {
		if !kept[old.ID] {
			removed = append(removed, old)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	booked, err := s.store.BookedIssues(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("booked issues: %w", err)
	}
	inUse := make(map[string]bool, len(booked))
	for _, name := range booked {
		inUse[model.NormalizeName(name)] = true
	}
	for _, old := range removed {
		if inUse[model.NormalizeName(old.Name)] {
			return ErrIssueInUse.withf("issue %q is booked and cannot be removed; pass its id to rename it", old.Name)
		}
	}
	return nil
}

func checkClosed(cur, next []model.Issue, now time.Time) error {
	nextByID := make(map[uint64]model.Issue, len(next))
	for _, is := range next {
		if is.ID != 0 {
			nextByID[is.ID] = is
		} else if is.CloseDate.Before(now) {
			return ErrIssueClosed.withf("cannot add issue %q with a close date in the past", is.Name)
		}
	}
	for _, old := range cur {
		if !old.CloseDate.Before(now) {
			continue
		}
		upd, ok := nextByID[old.ID]
		if !ok {
			return ErrIssueClosed.withf("issue %q has closed and cannot be removed", old.Name)
		}
		if upd.Name != old.Name || !upd.CloseDate.Equal(old.CloseDate) {
			return ErrIssueClosed.withf("issue %q has closed and cannot be changed", old.Name)
		}
	}
	return nil
}

func (s *ScheduleService) orderWarnings(sc *model.Schedule) []string {
	var out []string
	for i := 1; i < len(sc.Issues); i++ {
		prev, cur := sc.Issues[i-1], sc.Issues[i]
		if cur.CloseDate.Before(prev.CloseDate) {
			out = append(out, fmt.Sprintf("issue %q closes before %q, which is listed ahead of it", cur.Name, prev.Name))
		}
	}
	if len(out) > 0 {
		s.log.Warn("schedule issue order does not follow close dates",
			zap.Uint64("schedule_id", sc.ID),
			zap.Strings("warnings", out),
		)
	}
	return out
}

// CurrentIssue returns the issue, across the given schedules, with the
// earliest close date that has not passed. No schedule IDs means every
// schedule of the owner.
func (s *ScheduleService) CurrentIssue(ctx context.Context, ownerID uint64, scheduleIDs []uint64) (model.Issue, error) {
	var schedules []*model.Schedule
	if len(scheduleIDs) == 0 {
		all, err := s.List(ctx, ownerID)
		if err != nil {
			return model.Issue{}, err
		}
		schedules = all
	}
	for _, id := range scheduleIDs {
		sc, err := s.Get(ctx, ownerID, id)
		if err != nil {
			return model.Issue{}, err
		}
		schedules = append(schedules, sc)
	}
	var issues []model.Issue
	for _, sc := range schedules {
		issues = append(issues, sc.Issues...)
	}
	cur, err := issue.Current(issues, s.now())
	if errors.Is(err, issue.ErrNoFutureIssue) {
		return model.Issue{}, ErrNoFutureIssue
	}
	return cur, err
}
