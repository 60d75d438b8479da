package repository

import (
	"context"
	"strings"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/persistence"
)

// OrderRepository defines persistence access for document requests.
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	FindByKey(ctx context.Context, key string) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error)
}

type orderRepository struct {
	orders collection[domain.Order]
}

// NewOrderRepository returns a record-store backed implementation.
func NewOrderRepository(store persistence.RecordStore) OrderRepository {
	return &orderRepository{orders: collection[domain.Order]{store: store, name: persistence.CollectionOrders}}
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	orders, _, err := r.orders.load(ctx)
	return orders, err
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, _, err := r.orders.load(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]domain.Order, 0)
	for _, o := range orders {
		if o.UserID == userID {
			owned = append(owned, o)
		}
	}
	return owned, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orders, _, err := r.orders.load(ctx)
	if err != nil {
		return nil, err
	}
	return findOne(orders, func(o *domain.Order) bool { return o.ID == id })
}

// FindByKey resolves an order by its id or its tracking number.
func (r *orderRepository) FindByKey(ctx context.Context, key string) (*domain.Order, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrNotFound
	}
	orders, _, err := r.orders.load(ctx)
	if err != nil {
		return nil, err
	}
	return findOne(orders, func(o *domain.Order) bool {
		return strings.EqualFold(o.ID, key) || strings.EqualFold(o.TrackingNumber, key)
	})
}

// Create appends order, failing with ErrDuplicate when the id or tracking
// number is already present.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.orders.mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for i := range orders {
			if orders[i].ID == order.ID || orders[i].TrackingNumber == order.TrackingNumber {
				return nil, ErrDuplicate
			}
		}
		return append(orders, *order), nil
	})
}

func (r *orderRepository) Update(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error) {
	return updateOne(ctx, r.orders, func(o *domain.Order) bool { return o.ID == id }, fn)
}
