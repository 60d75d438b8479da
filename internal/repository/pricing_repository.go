package repository

import (
	"context"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/persistence"
)

// PricingRepository stores the singleton price table.
type PricingRepository interface {
	Get(ctx context.Context) (domain.Pricing, error)
	Update(ctx context.Context, fn func(*domain.Pricing) error) (domain.Pricing, error)
	SeedIfEmpty(ctx context.Context, pricing domain.Pricing) (bool, error)
}

type pricingRepository struct {
	pricing collection[domain.Pricing]
}

// NewPricingRepository returns a record-store backed implementation.
func NewPricingRepository(store persistence.RecordStore) PricingRepository {
	return &pricingRepository{pricing: collection[domain.Pricing]{store: store, name: persistence.CollectionPricing}}
}

// Get returns the stored table, or an empty table when none exists yet.
func (r *pricingRepository) Get(ctx context.Context) (domain.Pricing, error) {
	items, _, err := r.pricing.load(ctx)
	if err != nil {
		return domain.Pricing{}, err
	}
	if len(items) == 0 {
		return domain.Pricing{Prices: map[string]domain.Money{}}, nil
	}
	p := items[0]
	if p.Prices == nil {
		p.Prices = map[string]domain.Money{}
	}
	return p, nil
}

func (r *pricingRepository) Update(ctx context.Context, fn func(*domain.Pricing) error) (domain.Pricing, error) {
	var updated domain.Pricing
	err := r.pricing.mutate(ctx, func(items []domain.Pricing) ([]domain.Pricing, error) {
		current := domain.Pricing{Prices: map[string]domain.Money{}}
		if len(items) > 0 {
			current = items[0]
			if current.Prices == nil {
				current.Prices = map[string]domain.Money{}
			}
		}
		if err := fn(&current); err != nil {
			return nil, err
		}
		updated = current
		return []domain.Pricing{current}, nil
	})
	return updated, err
}

// SeedIfEmpty installs pricing when no table has ever been written.
func (r *pricingRepository) SeedIfEmpty(ctx context.Context, pricing domain.Pricing) (bool, error) {
	items, version, err := r.pricing.load(ctx)
	if err != nil {
		return false, err
	}
	if version != 0 || len(items) > 0 {
		return false, nil
	}
	if err := r.pricing.save(ctx, []domain.Pricing{pricing}, version); err != nil {
		return false, err
	}
	return true, nil
}
