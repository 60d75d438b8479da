package repository

import (
	"context"
	"strings"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/persistence"
)

// UserRepository defines persistence access for residents.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	users collection[domain.User]
}

// NewUserRepository returns a record-store backed implementation.
func NewUserRepository(store persistence.RecordStore) UserRepository {
	return &userRepository{users: collection[domain.User]{store: store, name: persistence.CollectionUsers}}
}

func byUserID(id string) func(*domain.User) bool {
	return func(u *domain.User) bool { return u.ID == id }
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	users, _, err := r.users.load(ctx)
	return users, err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	users, _, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	return findOne(users, byUserID(id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, _, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	return findOne(users, func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

// Create appends user, rejecting a duplicate id or case-insensitive email.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.users.mutate(ctx, func(users []domain.User) ([]domain.User, error) {
		for i := range users {
			if users[i].ID == user.ID || strings.EqualFold(users[i].Email, user.Email) {
				return nil, ErrDuplicate
			}
		}
		return append(users, *user), nil
	})
}

func (r *userRepository) Update(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	return updateOne(ctx, r.users, byUserID(id), fn)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.users.mutate(ctx, func(users []domain.User) ([]domain.User, error) {
		for i := range users {
			if users[i].ID == id {
				return append(users[:i], users[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}
