package repository

import (
	"context"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/persistence"
)

// PersonnelRepository defines persistence access for delivery staff.
type PersonnelRepository interface {
	List(ctx context.Context) ([]domain.Personnel, error)
	GetByID(ctx context.Context, id string) (*domain.Personnel, error)
	Create(ctx context.Context, p *domain.Personnel) error
	Update(ctx context.Context, id string, fn func(*domain.Personnel) error) (*domain.Personnel, error)
	Delete(ctx context.Context, id string) error
	SeedIfEmpty(ctx context.Context, roster []domain.Personnel) (bool, error)
}

type personnelRepository struct {
	personnel collection[domain.Personnel]
}

// NewPersonnelRepository returns a record-store backed implementation.
func NewPersonnelRepository(store persistence.RecordStore) PersonnelRepository {
	return &personnelRepository{personnel: collection[domain.Personnel]{store: store, name: persistence.CollectionPersonnel}}
}

func byPersonnelID(id string) func(*domain.Personnel) bool {
	return func(p *domain.Personnel) bool { return p.ID == id }
}

func (r *personnelRepository) List(ctx context.Context) ([]domain.Personnel, error) {
	items, _, err := r.personnel.load(ctx)
	return items, err
}

func (r *personnelRepository) GetByID(ctx context.Context, id string) (*domain.Personnel, error) {
	items, _, err := r.personnel.load(ctx)
	if err != nil {
		return nil, err
	}
	return findOne(items, byPersonnelID(id))
}

func (r *personnelRepository) Create(ctx context.Context, p *domain.Personnel) error {
	return r.personnel.mutate(ctx, func(items []domain.Personnel) ([]domain.Personnel, error) {
		for i := range items {
			if items[i].ID == p.ID {
				return nil, ErrDuplicate
			}
		}
		return append(items, *p), nil
	})
}

func (r *personnelRepository) Update(ctx context.Context, id string, fn func(*domain.Personnel) error) (*domain.Personnel, error) {
	return updateOne(ctx, r.personnel, byPersonnelID(id), fn)
}

func (r *personnelRepository) Delete(ctx context.Context, id string) error {
	return r.personnel.mutate(ctx, func(items []domain.Personnel) ([]domain.Personnel, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

// SeedIfEmpty writes roster only when the collection has never been written.
func (r *personnelRepository) SeedIfEmpty(ctx context.Context, roster []domain.Personnel) (bool, error) {
	items, version, err := r.personnel.load(ctx)
	if err != nil {
		return false, err
	}
	if version != 0 || len(items) > 0 {
		return false, nil
	}
	if err := r.personnel.save(ctx, roster, version); err != nil {
		return false, err
	}
	return true, nil
}
