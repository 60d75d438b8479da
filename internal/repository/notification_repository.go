package repository

import (
	"context"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/persistence"
)

// NotificationRepository defines persistence access for resident notifications.
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	Create(ctx context.Context, n *domain.Notification) error
	MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

type notificationRepository struct {
	notifications collection[domain.Notification]
}

// NewNotificationRepository returns a record-store backed implementation.
func NewNotificationRepository(store persistence.RecordStore) NotificationRepository {
	return &notificationRepository{notifications: collection[domain.Notification]{store: store, name: persistence.CollectionNotifications}}
}

// ListByUser returns the user's notifications newest first.
func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	items, _, err := r.notifications.load(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]domain.Notification, 0)
	for _, n := range items {
		if n.UserID == userID {
			owned = append(owned, n)
		}
	}
	return owned, nil
}

// Create prepends n so stored order stays newest first.
func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.notifications.mutate(ctx, func(items []domain.Notification) ([]domain.Notification, error) {
		return append([]domain.Notification{*n}, items...), nil
	})
}

// MarkRead flags one notification owned by userID. A foreign id is reported as ErrNotFound.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	return updateOne(ctx, r.notifications,
		func(n *domain.Notification) bool { return n.ID == id && n.UserID == userID },
		func(n *domain.Notification) error {
			n.Read = true
			return nil
		})
}

// MarkAllRead flags every unread notification of userID and returns how many changed.
// Nothing is written when there is nothing to change.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	changed := 0
	items, version, err := r.notifications.load(ctx)
	if err != nil {
		return 0, err
	}
	for i := range items {
		if items[i].UserID == userID && !items[i].Read {
			items[i].Read = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := r.notifications.save(ctx, items, version); err != nil {
		return 0, err
	}
	return changed, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	items, _, err := r.notifications.load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}
