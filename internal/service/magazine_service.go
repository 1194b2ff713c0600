package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
)

// DefaultPages is the page count of an issue without an explicit
// configuration, unless overridden by configuration.
const DefaultPages = 32

type MagazineService struct {
	magazines    repository.MagazineStore
	schedules    repository.ScheduleStore
	defaultPages int
	log          *zap.Logger
}

func NewMagazineService(magazines repository.MagazineStore, schedules repository.ScheduleStore, defaultPages int, log *zap.Logger) *MagazineService {
	if defaultPages <= 0 {
		defaultPages = DefaultPages
	}
	return &MagazineService{magazines: magazines, schedules: schedules, defaultPages: defaultPages, log: orNop(log)}
}

// DefaultPages returns the fallback page count of this catalog.
func (s *MagazineService) DefaultPages() int { return s.defaultPages }

func (s *MagazineService) Create(ctx context.Context, ownerID uint64, name string, scheduleID *uint64) (*model.Magazine, error) {
	name, err := requireName("magazine name", name)
	if err != nil {
		return nil, err
	}
	if scheduleID != nil {
		if _, err := s.schedules.GetSchedule(ctx, *scheduleID, ownerID); err != nil {
			return nil, storeErr("load schedule", "schedule", err)
		}
	}
	m := &model.Magazine{OwnerID: ownerID, Name: name, ScheduleID: scheduleID, PageConfigurations: map[string]int{}}
	if err := s.magazines.CreateMagazine(ctx, m); err != nil {
		return nil, storeErr("create magazine", "magazine", err)
	}
	return m, nil
}

func (s *MagazineService) Get(ctx context.Context, ownerID, id uint64) (*model.Magazine, error) {
	m, err := s.magazines.GetMagazine(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr("load magazine", "magazine", err)
	}
	return m, nil
}

func (s *MagazineService) List(ctx context.Context, ownerID uint64, includeArchived bool) ([]*model.Magazine, error) {
	out, err := s.magazines.ListMagazines(ctx, ownerID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list magazines: %w", err)
	}
	return out, nil
}

func (s *MagazineService) Rename(ctx context.Context, ownerID, id uint64, name string) (*model.Magazine, error) {
	name, err := requireName("magazine name", name)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, ownerID, id, func(m *model.Magazine) error {
		m.Name = name
		return nil
	})
}

// Bind attaches the magazine to a schedule, or detaches it when
// scheduleID is nil. Page configurations for issues that are not part of
// the new schedule are dropped in the same write. A magazine with booking
// entries keeps its schedule, since the entries name its issues.
func (s *MagazineService) Bind(ctx context.Context, ownerID, id uint64, scheduleID *uint64) (*model.Magazine, error) {
	var sc *model.Schedule
	if scheduleID != nil {
		var err error
		if sc, err = s.schedules.GetSchedule(ctx, *scheduleID, ownerID); err != nil {
			return nil, storeErr("load schedule", "schedule", err)
		}
	}
	return s.mutate(ctx, ownerID, id, func(m *model.Magazine) error {
		if !sameSchedule(m.ScheduleID, scheduleID) {
			inUse, err := s.magazines.MagazineInUse(ctx, m.ID, ownerID)
			if err != nil {
				return fmt.Errorf("magazine in use: %w", err)
			}
			if inUse {
				return ErrMagazineInUse.withf("magazine %q has bookings and cannot change schedule", m.Name)
			}
		}
		m.ScheduleID = scheduleID
		kept := make(map[string]int, len(m.PageConfigurations))
		if sc != nil {
			for name, pages := range m.PageConfigurations {
				if is, ok := sc.IssueByName(name); ok {
					kept[is.Name] = pages
				}
			}
		}
		if dropped := len(m.PageConfigurations) - len(kept); dropped > 0 {
			s.log.Info("pruned page configurations on rebind",
				zap.Uint64("magazine_id", m.ID),
				zap.Int("dropped", dropped),
			)
		}
		m.PageConfigurations = kept
		return nil
	})
}

func sameSchedule(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SetPageBudget overrides the page count of one issue of the bound
// schedule.
func (s *MagazineService) SetPageBudget(ctx context.Context, ownerID, id uint64, issueName string, totalPages int) (*model.Magazine, error) {
	if totalPages <= 0 {
		return nil, ErrValidation.withf("total pages must be positive, got %d", totalPages)
	}
	return s.withIssue(ctx, ownerID, id, issueName, func(m *model.Magazine, is model.Issue) {
		if m.PageConfigurations == nil {
			m.PageConfigurations = map[string]int{}
		}
		for k := range m.PageConfigurations {
			if model.NormalizeName(k) == model.NormalizeName(is.Name) {
				delete(m.PageConfigurations, k)
			}
		}
		m.PageConfigurations[is.Name] = totalPages
	})
}

// ResetPageBudget removes an override so the issue falls back to the
// default page count.
func (s *MagazineService) ResetPageBudget(ctx context.Context, ownerID, id uint64, issueName string) (*model.Magazine, error) {
	return s.withIssue(ctx, ownerID, id, issueName, func(m *model.Magazine, is model.Issue) {
		for k := range m.PageConfigurations {
			if model.NormalizeName(k) == model.NormalizeName(is.Name) {
				delete(m.PageConfigurations, k)
			}
		}
	})
}

func (s *MagazineService) withIssue(ctx context.Context, ownerID, id uint64, issueName string, apply func(*model.Magazine, model.Issue)) (*model.Magazine, error) {
	m, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if m.ScheduleID == nil {
		return nil, ErrUnknownIssue.withf("magazine %q is not bound to a schedule", m.Name)
	}
	sc, err := s.schedules.GetSchedule(ctx, *m.ScheduleID, ownerID)
	if err != nil {
		return nil, storeErr("load schedule", "schedule", err)
	}
	is, ok := sc.IssueByName(issueName)
	if !ok {
		return nil, ErrUnknownIssue.withf("issue %q is not in schedule %q", issueName, sc.Name)
	}
	apply(m, is)
	if err := s.magazines.UpdateMagazine(ctx, m); err != nil {
		return nil, storeErr("update magazine", "magazine", err)
	}
	return m, nil
}

// PageBudget lists the effective page count of every issue in the bound
// schedule. Configurations for issues no longer in the schedule are
// ignored. An unbound magazine has an empty budget.
func (s *MagazineService) PageBudget(ctx context.Context, ownerID, id uint64) ([]model.PageBudgetLine, error) {
	m, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if m.ScheduleID == nil {
		return []model.PageBudgetLine{}, nil
	}
	sc, err := s.schedules.GetSchedule(ctx, *m.ScheduleID, ownerID)
	if err != nil {
		return nil, storeErr("load schedule", "schedule", err)
	}
	out := make([]model.PageBudgetLine, 0, len(sc.Issues))
	for _, is := range sc.Issues {
		pages, isDefault := pagesFor(m, is.Name, s.defaultPages)
		out = append(out, model.PageBudgetLine{
			IssueName:  is.Name,
			CloseDate:  is.CloseDate,
			TotalPages: pages,
			IsDefault:  isDefault,
		})
	}
	return out, nil
}

func pagesFor(m *model.Magazine, issueName string, def int) (int, bool) {
	want := model.NormalizeName(issueName)
	for k, v := range m.PageConfigurations {
		if model.NormalizeName(k) == want {
			return v, false
		}
	}
	return def, true
}

func (s *MagazineService) Archive(ctx context.Context, ownerID, id uint64) (*model.Magazine, error) {
	return s.setArchived(ctx, ownerID, id, true)
}

func (s *MagazineService) Unarchive(ctx context.Context, ownerID, id uint64) (*model.Magazine, error) {
	return s.setArchived(ctx, ownerID, id, false)
}

func (s *MagazineService) setArchived(ctx context.Context, ownerID, id uint64, archived bool) (*model.Magazine, error) {
	m, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if m.Archived == archived {
		return m, nil
	}
	m.Archived = archived
	if err := s.magazines.UpdateMagazine(ctx, m); err != nil {
		return nil, storeErr("update magazine", "magazine", err)
	}
	return m, nil
}

// Delete removes a magazine that no booking entry references.
func (s *MagazineService) Delete(ctx context.Context, ownerID, id uint64) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	inUse, err := s.magazines.MagazineInUse(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("magazine in use: %w", err)
	}
	if inUse {
		return ErrMagazineInUse
	}
	return storeErr("delete magazine", "magazine", s.magazines.DeleteMagazine(ctx, id, ownerID))
}

func (s *MagazineService) mutate(ctx context.Context, ownerID, id uint64, apply func(*model.Magazine) error) (*model.Magazine, error) {
	m, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(m); err != nil {
		return nil, err
	}
	if err := s.magazines.UpdateMagazine(ctx, m); err != nil {
		return nil, storeErr("update magazine", "magazine", err)
	}
	return m, nil
}
