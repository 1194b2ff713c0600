package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
)

// LabelService manages the content type and business type lists.
type LabelService struct {
	labels   repository.LabelStore
	defaults map[model.LabelKind][]string
	log      *zap.Logger
}

// NewLabelService takes the names seeded as defaults for every new owner.
func NewLabelService(labels repository.LabelStore, contentTypes, businessTypes []string, log *zap.Logger) *LabelService {
	return &LabelService{
		labels: labels,
		defaults: map[model.LabelKind][]string{
			model.ContentTypeLabel:  contentTypes,
			model.BusinessTypeLabel: businessTypes,
		},
		log: orNop(log),
	}
}

// SeedDefaults creates the configured default labels for an owner. It is
// safe to run repeatedly.
func (s *LabelService) SeedDefaults(ctx context.Context, ownerID uint64) error {
	for _, kind := range []model.LabelKind{model.ContentTypeLabel, model.BusinessTypeLabel} {
		if err := s.labels.UpsertDefaultLabels(ctx, kind, ownerID, s.defaults[kind]); err != nil {
			return fmt.Errorf("seed %s defaults: %w", kind, err)
		}
	}
	s.log.Info("seeded default labels", zap.Uint64("owner_id", ownerID))
	return nil
}

func validKind(kind model.LabelKind) error {
	switch kind {
	case model.ContentTypeLabel, model.BusinessTypeLabel:
		return nil
	}
	return ErrValidation.withf("unknown label kind %q", kind)
}

func (s *LabelService) Create(ctx context.Context, ownerID uint64, kind model.LabelKind, name string) (*model.Label, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	name, err := requireName("name", name)
	if err != nil {
		return nil, err
	}
	l := &model.Label{OwnerID: ownerID, Kind: kind, Name: name}
	if err := s.labels.CreateLabel(ctx, l); err != nil {
		return nil, storeErr("create label", string(kind), err)
	}
	return l, nil
}

func (s *LabelService) Get(ctx context.Context, ownerID uint64, kind model.LabelKind, id uint64) (*model.Label, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	l, err := s.labels.GetLabel(ctx, kind, id, ownerID)
	if err != nil {
		return nil, storeErr("load label", string(kind), err)
	}
	return l, nil
}

func (s *LabelService) List(ctx context.Context, ownerID uint64, kind model.LabelKind, includeArchived bool) ([]*model.Label, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	out, err := s.labels.ListLabels(ctx, kind, ownerID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return out, nil
}

func (s *LabelService) Rename(ctx context.Context, ownerID uint64, kind model.LabelKind, id uint64, name string) (*model.Label, error) {
	name, err := requireName("name", name)
	if err != nil {
		return nil, err
	}
	l, err := s.Get(ctx, ownerID, kind, id)
	if err != nil {
		return nil, err
	}
	l.Name = name
	if err := s.labels.UpdateLabel(ctx, l); err != nil {
		return nil, storeErr("update label", string(kind), err)
	}
	return l, nil
}

func (s *LabelService) Archive(ctx context.Context, ownerID uint64, kind model.LabelKind, id uint64) (*model.Label, error) {
	return s.setArchived(ctx, ownerID, kind, id, true)
}

func (s *LabelService) Unarchive(ctx context.Context, ownerID uint64, kind model.LabelKind, id uint64) (*model.Label, error) {
	return s.setArchived(ctx, ownerID, kind, id, false)
}

func (s *LabelService) setArchived(ctx context.Context, ownerID uint64, kind model.LabelKind, id uint64, archived bool) (*model.Label, error) {
	l, err := s.Get(ctx, ownerID, kind, id)
	if err != nil {
		return nil, err
	}
	if l.Archived == archived {
		return l, nil
	}
	l.Archived = archived
	if err := s.labels.UpdateLabel(ctx, l); err != nil {
		return nil, storeErr("update label", string(kind), err)
	}
	return l, nil
}

// Delete removes a label unless it is a seeded default or still
// referenced.
func (s *LabelService) Delete(ctx context.Context, ownerID uint64, kind model.LabelKind, id uint64) error {
	l, err := s.Get(ctx, ownerID, kind, id)
	if err != nil {
		return err
	}
	if l.IsDefault {
		return ErrProtected.withf("%s %q is a default and cannot be deleted", kind, l.Name)
	}
	inUse, err := s.labels.LabelInUse(ctx, kind, id, ownerID)
	if err != nil {
		return fmt.Errorf("label in use: %w", err)
	}
	if inUse {
		return ErrProtected.withf("%s %q is in use; archive it instead", kind, l.Name)
	}
	return storeErr("delete label", string(kind), s.labels.DeleteLabel(ctx, kind, id, ownerID))
}
