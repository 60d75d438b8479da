package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/repository"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

// AccountService lets administrators manage resident accounts.
type AccountService struct {
	users    repository.UserRepository
	orders   repository.OrderRepository
	identity *IdentityService
	logger   *zap.Logger
	now      Clock
}

// AccountDependencies bundles collaborators for account management.
type AccountDependencies struct {
	UserRepo  repository.UserRepository
	OrderRepo repository.OrderRepository
	Identity  *IdentityService
	Logger    *zap.Logger
	Now       Clock
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		users:    deps.UserRepo,
		orders:   deps.OrderRepo,
		identity: deps.Identity,
		logger:   loggerOrNop(deps.Logger),
		now:      clockOrDefault(deps.Now),
	}
}

// UserDetails is an account with its orders.
type UserDetails struct {
	User   domain.User    `json:"user"`
	Orders []domain.Order `json:"orders"`
}

// SetUserStatus moves an account to any status. Existing sessions are not
// revoked; the next resident operation observes the new status.
func (s *AccountService) SetUserStatus(ctx context.Context, session *domain.Session, userID string, status domain.UserStatus) (*domain.User, error) {
	actor, err := s.identity.RequireAdmin(ctx, session)
	if err != nil {
		return nil, err
	}
	parsed, err := domain.ParseUserStatus(string(status))
	if err != nil {
		return nil, util.NewValidationError("validation failed", map[string]any{"status": "is invalid"})
	}
	var previous domain.UserStatus
	updated, err := s.users.Update(ctx, userID, func(u *domain.User) error {
		previous = u.Status
		u.Status = parsed
		u.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, notFound(err, "user", map[string]any{"user_id": userID})
	}
	s.logger.Info("user status changed",
		zap.String("user_id", userID),
		zap.String("from", string(previous)),
		zap.String("to", string(parsed)),
		zap.String("actor_id", actor.ID))
	return updated, nil
}

// DeleteUser removes the account only. Its orders and notifications stay behind
// as orphans.
func (s *AccountService) DeleteUser(ctx context.Context, session *domain.Session, userID string) error {
	if _, err := s.identity.RequireAdmin(ctx, session); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return notFound(err, "user", map[string]any{"user_id": userID})
	}
	s.logger.Info("user deleted", zap.String("user_id", userID))
	return nil
}

// ListUsers returns accounts whose name, email or phone contains search,
// newest registrations first.
func (s *AccountService) ListUsers(ctx context.Context, session *domain.Session, search string) ([]domain.User, error) {
	if _, err := s.identity.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(strings.TrimSpace(search))
	matched := make([]domain.User, 0, len(users))
	for _, u := range users {
		if term == "" ||
			strings.Contains(strings.ToLower(u.FullName()), term) ||
			strings.Contains(strings.ToLower(u.Email), term) ||
			strings.Contains(strings.ToLower(u.Phone), term) {
			matched = append(matched, u)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].RegisteredAt.After(matched[j].RegisteredAt) })
	return matched, nil
}

// GetUserDetails returns the account and its orders, newest first.
func (s *AccountService) GetUserDetails(ctx context.Context, session *domain.Session, userID string) (*UserDetails, error) {
	if _, err := s.identity.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user", map[string]any{"user_id": userID})
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	domain.SortNewestFirst(orders)
	return &UserDetails{User: *user, Orders: orders}, nil
}
