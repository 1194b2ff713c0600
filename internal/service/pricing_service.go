package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// ContentSizeInput is the writable part of a content size.
type ContentSizeInput struct {
	Description string                     `json:"description"`
	Size        decimal.Decimal            `json:"size"`
	Prices      map[uint64]decimal.Decimal `json:"prices"`
}

// PricingService owns content sizes and their per-magazine prices.
type PricingService struct {
	sizes     repository.ContentSizeStore
	magazines repository.MagazineStore
}

func NewPricingService(sizes repository.ContentSizeStore, magazines repository.MagazineStore) *PricingService {
	return &PricingService{sizes: sizes, magazines: magazines}
}

func (s *PricingService) Create(ctx context.Context, ownerID uint64, in ContentSizeInput) (*model.ContentSize, error) {
	desc, err := requireName("description", in.Description)
	if err != nil {
		return nil, err
	}
	if err := validSize(in.Size); err != nil {
		return nil, err
	}
	prices := make(map[uint64]decimal.Decimal, len(in.Prices))
	for magazineID, price := range in.Prices {
		if err := s.checkPrice(ctx, ownerID, magazineID, price); err != nil {
			return nil, err
		}
		prices[magazineID] = price.Round(2)
	}
	cs := &model.ContentSize{OwnerID: ownerID, Description: desc, Size: in.Size, Prices: prices}
	if err := s.sizes.CreateContentSize(ctx, cs); err != nil {
		return nil, storeErr("create content size", "content size", err)
	}
	return cs, nil
}

func (s *PricingService) Get(ctx context.Context, ownerID, id uint64) (*model.ContentSize, error) {
	cs, err := s.sizes.GetContentSize(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr("load content size", "content size", err)
	}
	return cs, nil
}

func (s *PricingService) List(ctx context.Context, ownerID uint64, includeArchived bool) ([]*model.ContentSize, error) {
	out, err := s.sizes.ListContentSizes(ctx, ownerID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list content sizes: %w", err)
	}
	return out, nil
}

// Update changes description and size. Prices are managed with SetPrice
// and RemovePrice. Existing bookings keep their stored list prices.
func (s *PricingService) Update(ctx context.Context, ownerID, id uint64, description string, size decimal.Decimal) (*model.ContentSize, error) {
	desc, err := requireName("description", description)
	if err != nil {
		return nil, err
	}
	if err := validSize(size); err != nil {
		return nil, err
	}
	return s.mutate(ctx, ownerID, id, func(cs *model.ContentSize) error {
		cs.Description, cs.Size = desc, size
		return nil
	})
}

func (s *PricingService) SetPrice(ctx context.Context, ownerID, id, magazineID uint64, price decimal.Decimal) (*model.ContentSize, error) {
	if err := s.checkPrice(ctx, ownerID, magazineID, price); err != nil {
		return nil, err
	}
	return s.mutate(ctx, ownerID, id, func(cs *model.ContentSize) error {
		if cs.Prices == nil {
			cs.Prices = map[uint64]decimal.Decimal{}
		}
		cs.Prices[magazineID] = price.Round(2)
		return nil
	})
}

func (s *PricingService) RemovePrice(ctx context.Context, ownerID, id, magazineID uint64) (*model.ContentSize, error) {
	return s.mutate(ctx, ownerID, id, func(cs *model.ContentSize) error {
		if _, ok := cs.Prices[magazineID]; !ok {
			return ErrPriceNotFound.withf("content size %d has no price for magazine %d", id, magazineID)
		}
		delete(cs.Prices, magazineID)
		return nil
	})
}

func (s *PricingService) Archive(ctx context.Context, ownerID, id uint64) (*model.ContentSize, error) {
	return s.setArchived(ctx, ownerID, id, true)
}

func (s *PricingService) Unarchive(ctx context.Context, ownerID, id uint64) (*model.ContentSize, error) {
	return s.setArchived(ctx, ownerID, id, false)
}

func (s *PricingService) setArchived(ctx context.Context, ownerID, id uint64, archived bool) (*model.ContentSize, error) {
	cs, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if cs.Archived == archived {
		return cs, nil
	}
	cs.Archived = archived
	if err := s.sizes.UpdateContentSize(ctx, cs); err != nil {
		return nil, storeErr("update content size", "content size", err)
	}
	return cs, nil
}

// Delete removes a content size that no booking entry references.
func (s *PricingService) Delete(ctx context.Context, ownerID, id uint64) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	inUse, err := s.sizes.ContentSizeInUse(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("content size in use: %w", err)
	}
	if inUse {
		return ErrProtected.withf("content size %d is used by bookings; archive it instead", id)
	}
	return storeErr("delete content size", "content size", s.sizes.DeleteContentSize(ctx, id, ownerID))
}

// GetPrice returns the price of a content size in one magazine.
func (s *PricingService) GetPrice(ctx context.Context, ownerID, contentSizeID, magazineID uint64) (decimal.Decimal, error) {
	cs, err := s.Get(ctx, ownerID, contentSizeID)
	if err != nil {
		return zero, err
	}
	return priceOf(cs, magazineID)
}

// AggregatePrice combines the prices of a content size across magazines.
// The mode is always chosen by the caller; a missing price in any of the
// magazines fails the whole call.
func (s *PricingService) AggregatePrice(ctx context.Context, ownerID, contentSizeID uint64, magazineIDs []uint64, mode model.PriceMode) (decimal.Decimal, error) {
	if len(magazineIDs) == 0 {
		return zero, ErrValidation.withf("at least one magazine is required")
	}
	mode = model.PriceMode(strings.ToLower(string(mode)))
	if mode != model.PriceModeSum && mode != model.PriceModeMean {
		return zero, ErrValidation.withf("unknown price mode %q, use sum or mean", mode)
	}
	cs, err := s.Get(ctx, ownerID, contentSizeID)
	if err != nil {
		return zero, err
	}
	total := zero
	for _, magazineID := range magazineIDs {
		p, err := priceOf(cs, magazineID)
		if err != nil {
			return zero, err
		}
		total = total.Add(p)
	}
	if mode == model.PriceModeMean {
		return total.DivRound(decimal.NewFromInt(int64(len(magazineIDs))), 2), nil
	}
	return total, nil
}

func priceOf(cs *model.ContentSize, magazineID uint64) (decimal.Decimal, error) {
	p, ok := cs.Prices[magazineID]
	if !ok {
		return zero, ErrPriceNotFound.withf("content size %q has no price for magazine %d", cs.Description, magazineID)
	}
	return p, nil
}

func validSize(size decimal.Decimal) error {
	if !size.IsPositive() {
		return ErrValidation.withf("size must be greater than zero, got %s", size)
	}
	return nil
}

func (s *PricingService) checkPrice(ctx context.Context, ownerID, magazineID uint64, price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrValidation.withf("price must not be negative, got %s", price)
	}
	if _, err := s.magazines.GetMagazine(ctx, magazineID, ownerID); err != nil {
		return storeErr("load magazine", "magazine", err)
	}
	return nil
}

func (s *PricingService) mutate(ctx context.Context, ownerID, id uint64, apply func(*model.ContentSize) error) (*model.ContentSize, error) {
	cs, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(cs); err != nil {
		return nil, err
	}
	if err := s.sizes.UpdateContentSize(ctx, cs); err != nil {
		return nil, storeErr("update content size", "content size", err)
	}
	return cs, nil
}
