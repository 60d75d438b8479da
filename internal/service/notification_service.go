package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/config"
	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/events"
	"github.com/spec-kit/docrequest-service/internal/observability"
	"github.com/spec-kit/docrequest-service/internal/repository"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

// NotificationService persists resident notifications and turns order events into them.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	identity      *IdentityService
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
	cfg           config.NotificationConfig
	now           Clock
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Identity         *IdentityService
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	Config           config.NotificationConfig
	Now              Clock
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		identity:      deps.Identity,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        loggerOrNop(deps.Logger),
		cfg:           deps.Config,
		now:           clockOrDefault(deps.Now),
	}
}

// RegisterHandlers subscribes to order events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderSubmitted, n.handleOrderSubmitted)
	n.dispatcher.Subscribe(events.EventOrderStatusChanged, n.handleOrderStatusChanged)
	n.dispatcher.Subscribe(events.EventOrderPersonnelAssigned, n.handleOrderPersonnelAssigned)
}

// NotifyInput is one message for one resident.
type NotifyInput struct {
	UserID   string
	OrderID  string
	Title    string
	Message  string
	Category domain.NotificationCategory
}

// Notify persists an unread notification at the head of the user's list.
func (n *NotificationService) Notify(ctx context.Context, input NotifyInput) (*domain.Notification, error) {
	fields := map[string]any{}
	if strings.TrimSpace(input.UserID) == "" {
		fields["user_id"] = "is required"
	}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "is required"
	}
	if len(fields) > 0 {
		return nil, util.NewValidationError("validation failed", fields)
	}
	if input.Category == "" {
		input.Category = domain.NotificationOrder
	}
	notification := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		OrderID:   input.OrderID,
		Title:     input.Title,
		Message:   input.Message,
		Category:  input.Category,
		CreatedAt: n.now(),
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}
	n.metrics.NotificationDispatched(string(notification.Category))
	n.sendEmailNotificationStub(notification)
	n.sendWebhookNotificationStub(notification)
	return notification, nil
}

// ListForUser returns the resident's notifications newest first.
func (n *NotificationService) ListForUser(ctx context.Context, session *domain.Session) ([]domain.Notification, error) {
	actor, err := n.identity.RequireResident(ctx, session)
	if err != nil {
		return nil, err
	}
	return n.notifications.ListByUser(ctx, actor.ID)
}

// UnreadCount returns how many of userID's notifications are unread.
func (n *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return n.notifications.CountUnread(ctx, userID)
}

// MarkRead flags one of the resident's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, session *domain.Session, id string) (*domain.Notification, error) {
	actor, err := n.identity.RequireResident(ctx, session)
	if err != nil {
		return nil, err
	}
	updated, err := n.notifications.MarkRead(ctx, actor.ID, id)
	if err != nil {
		return nil, notFound(err, "notification", map[string]any{"notification_id": id})
	}
	return updated, nil
}

// MarkAllRead flags all of the resident's notifications as read. Repeating it is a no-op.
func (n *NotificationService) MarkAllRead(ctx context.Context, session *domain.Session) (int, error) {
	actor, err := n.identity.RequireResident(ctx, session)
	if err != nil {
		return 0, err
	}
	return n.notifications.MarkAllRead(ctx, actor.ID)
}

func (n *NotificationService) handleOrderSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderSubmittedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	return n.notifyOwner(ctx, event, NotifyInput{
		Title:    "Order Submitted",
		Message:  fmt.Sprintf("Your %s request has been submitted successfully", domain.DocumentLabel(payload.DocumentType)),
		Category: domain.NotificationOrder,
	})
}

func (n *NotificationService) handleOrderStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if payload.NewStatus == domain.OrderStatusReady {
		return n.notifyOwner(ctx, event, NotifyInput{
			Title:    "Document Ready",
			Message:  fmt.Sprintf("Your %s is ready for %s", domain.DocumentLabel(payload.DocumentType), payload.DeliveryMethod),
			Category: domain.NotificationReady,
		})
	}
	label := (&domain.Order{Status: payload.NewStatus, DeliveryMethod: payload.DeliveryMethod}).StatusLabel()
	return n.notifyOwner(ctx, event, NotifyInput{
		Title:    "Order Status Updated",
		Message:  fmt.Sprintf("Your order %s status has been updated to %s", event.OrderID, label),
		Category: domain.NotificationOrderUpdate,
	})
}

func (n *NotificationService) handleOrderPersonnelAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderPersonnelAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if payload.PersonnelID == nil {
		return nil
	}
	return n.notifyOwner(ctx, event, NotifyInput{
		Title:    "Delivery Assigned",
		Message:  fmt.Sprintf("%s has been assigned to deliver your order %s", payload.Name, event.OrderID),
		Category: domain.NotificationDelivery,
	})
}

// notifyOwner skips owners whose account was deleted.
func (n *NotificationService) notifyOwner(ctx context.Context, event events.Event, input NotifyInput) error {
	if _, err := n.users.GetByID(ctx, event.OwnerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			n.logger.Debug("skipping notification for missing owner",
				zap.String("order_id", event.OrderID),
				zap.String("user_id", event.OwnerID))
			return nil
		}
		return err
	}
	input.UserID = event.OwnerID
	input.OrderID = event.OrderID
	_, err := n.Notify(ctx, input)
	return err
}

func (n *NotificationService) sendEmailNotificationStub(notification *domain.Notification) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("user_id", notification.UserID),
		zap.String("title", notification.Title))
}

func (n *NotificationService) sendWebhookNotificationStub(notification *domain.Notification) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("user_id", notification.UserID),
		zap.String("category", string(notification.Category)))
}
