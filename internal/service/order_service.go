package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/events"
	"github.com/spec-kit/docrequest-service/internal/observability"
	"github.com/spec-kit/docrequest-service/internal/repository"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

const maxKeyAttempts = 5

// KeyGenerator produces candidate order ids and tracking numbers. Candidates
// are checked against the store before use.
type KeyGenerator interface {
	OrderID() string
	TrackingNumber(documentType string, at time.Time) string
}

type randomKeys struct{}

// OrderID returns "ORD-" followed by eight uppercase hex characters.
func (randomKeys) OrderID() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// TrackingNumber returns the document prefix, the submission date as yyMMdd
// and four random digits, e.g. BC2406150427.
func (randomKeys) TrackingNumber(documentType string, at time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("%s%s%04d", domain.DocumentPrefix(documentType), at.Format("060102"), binary.BigEndian.Uint32(id[:4])%10000)
}

// OrderService is the order lifecycle engine.
type OrderService struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	catalog  *CatalogService
	identity *IdentityService
	keys     KeyGenerator
	events   publisher
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      Clock
}

// OrderDependencies bundles collaborators for the engine.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	UserRepo   repository.UserRepository
	Catalog    *CatalogService
	Identity   *IdentityService
	Dispatcher events.Dispatcher
	Keys       KeyGenerator
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        Clock
}

// NewOrderService constructs the engine.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := loggerOrNop(deps.Logger)
	now := clockOrDefault(deps.Now)
	keys := deps.Keys
	if keys == nil {
		keys = randomKeys{}
	}
	return &OrderService{
		orders:   deps.OrderRepo,
		users:    deps.UserRepo,
		catalog:  deps.Catalog,
		identity: deps.Identity,
		keys:     keys,
		events:   publisher{dispatcher: deps.Dispatcher, logger: logger, now: now},
		metrics:  deps.Metrics,
		logger:   logger,
		now:      now,
	}
}

// SubmitInput describes a resident's document request.
type SubmitInput struct {
	DocumentType        string     `json:"document_type" validate:"notblank"`
	Purpose             string     `json:"purpose" validate:"notblank"`
	DeliveryMethod      string     `json:"delivery_method" validate:"required,oneof=pickup delivery"`
	DeliveryAddress     string     `json:"delivery_address" validate:"required_if=DeliveryMethod delivery"`
	ContactNumber       string     `json:"contact_number" validate:"omitempty,phone"`
	PreferredDate       *time.Time `json:"preferred_date"`
	SpecialInstructions string     `json:"special_instructions"`
}

// Submit creates a pending, unpriced, unassigned order owned by the resident.
func (s *OrderService) Submit(ctx context.Context, session *domain.Session, input SubmitInput) (*domain.Order, error) {
	actor, err := s.identity.RequireResident(ctx, session)
	if err != nil {
		return nil, err
	}

	input.DocumentType = strings.ToLower(strings.TrimSpace(input.DocumentType))
	input.DeliveryMethod = strings.ToLower(strings.TrimSpace(input.DeliveryMethod))
	input.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)
	if err := util.ValidateStruct(input); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetPrice(ctx, input.DocumentType); err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return nil, util.NewValidationError("validation failed", map[string]any{"document_type": "is not offered"})
		}
		return nil, err
	}
	method, _ := domain.ParseDeliveryMethod(input.DeliveryMethod)

	now := s.now()
	order := &domain.Order{
		UserID:              actor.ID,
		DocumentType:        input.DocumentType,
		Purpose:             strings.TrimSpace(input.Purpose),
		PreferredDate:       input.PreferredDate,
		ContactNumber:       strings.TrimSpace(input.ContactNumber),
		DeliveryMethod:      method,
		Status:              domain.OrderStatusPending,
		AssignedPersonName:  domain.Unassigned,
		AssignedPersonPhone: domain.Unassigned,
		SubmittedAt:         now,
		UpdatedAt:           now,
	}
	if method == domain.DeliveryMethodDelivery {
		addr := input.DeliveryAddress
		order.DeliveryAddress = &addr
	}
	if instructions := strings.TrimSpace(input.SpecialInstructions); instructions != "" {
		order.SpecialInstructions = &instructions
	}

	if err := s.createWithUniqueKeys(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.OrderSubmitted(order.DocumentType)
	s.logger.Info("order submitted",
		zap.String("order_id", order.ID),
		zap.String("tracking_number", order.TrackingNumber),
		zap.String("user_id", order.UserID))
	s.events.publish(ctx, events.Event{
		Type:    events.EventOrderSubmitted,
		OrderID: order.ID,
		OwnerID: order.UserID,
		Actor:   actorRef(actor),
		Payload: events.OrderSubmittedPayload{
			DocumentType:   order.DocumentType,
			DeliveryMethod: order.DeliveryMethod,
			TrackingNumber: order.TrackingNumber,
		},
	})
	return order, nil
}

func (s *OrderService) createWithUniqueKeys(ctx context.Context, order *domain.Order) error {
	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		order.ID = s.keys.OrderID()
		order.TrackingNumber = s.keys.TrackingNumber(order.DocumentType, order.SubmittedAt)
		err := s.orders.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
		s.logger.Debug("order key collision", zap.Int("attempt", attempt), zap.String("order_id", order.ID))
	}
	return util.NewConflict("could not allocate a unique order id", map[string]any{"attempts": maxKeyAttempts})
}

// TransitionInput is an administrator's full overwrite of an order's mutable
// fields. Nil Price clears the price, a nil or empty PersonnelID clears the
// assignment and nil Instructions clears the instructions.
type TransitionInput struct {
	Status       domain.OrderStatus
	Price        *domain.Money
	PersonnelID  *string
	Instructions *string
}

// Transition overwrites status, price, assignment and instructions regardless
// of the current state. Backward moves are allowed and reported as such.
func (s *OrderService) Transition(ctx context.Context, session *domain.Session, orderID string, input TransitionInput) (*domain.Order, error) {
	actor, err := s.identity.RequireAdmin(ctx, session)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseOrderStatus(string(input.Status))
	if err != nil {
		return nil, util.NewValidationError("validation failed", map[string]any{"status": "is invalid"})
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, util.NewValidationError("validation failed", map[string]any{"price": "must not be negative"})
	}

	var assignee *domain.Personnel
	if input.PersonnelID != nil && strings.TrimSpace(*input.PersonnelID) != "" {
		if assignee, err = s.catalog.personnelForAssignment(ctx, strings.TrimSpace(*input.PersonnelID)); err != nil {
			return nil, err
		}
	}

	var before domain.Order
	now := s.now()
	updated, err := s.orders.Update(ctx, orderID, func(o *domain.Order) error {
		before = *o
		o.SetStatus(status, now)
		if input.Price != nil {
			price := *input.Price
			o.Price = &price
		} else {
			o.Price = nil
		}
		if assignee != nil {
			o.AssignTo(assignee)
		} else {
			o.ClearAssignment()
		}
		if input.Instructions != nil && strings.TrimSpace(*input.Instructions) != "" {
			instructions := strings.TrimSpace(*input.Instructions)
			o.SpecialInstructions = &instructions
		} else {
			o.SpecialInstructions = nil
		}
		return nil
	})
	if err != nil {
		return nil, notFound(err, "order", map[string]any{"order_id": orderID})
	}

	s.afterStatusChange(ctx, actor, &before, updated)
	s.afterAssignmentChange(ctx, actor, &before, updated)
	return updated, nil
}

// AssignPersonnel snapshots the personnel's name and phone onto the order. An
// empty personnelID resets the assignment to the placeholder.
func (s *OrderService) AssignPersonnel(ctx context.Context, session *domain.Session, orderID, personnelID string) (*domain.Order, error) {
	actor, err := s.identity.RequireAdmin(ctx, session)
	if err != nil {
		return nil, err
	}
	var assignee *domain.Personnel
	if personnelID = strings.TrimSpace(personnelID); personnelID != "" {
		if assignee, err = s.catalog.personnelForAssignment(ctx, personnelID); err != nil {
			return nil, err
		}
	}

	var before domain.Order
	now := s.now()
	updated, err := s.orders.Update(ctx, orderID, func(o *domain.Order) error {
		before = *o
		if assignee != nil {
			o.AssignTo(assignee)
		} else {
			o.ClearAssignment()
		}
		o.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, notFound(err, "order", map[string]any{"order_id": orderID})
	}
	s.afterAssignmentChange(ctx, actor, &before, updated)
	return updated, nil
}

// Cancel moves a non-terminal order to cancelled. Administrators may cancel any
// open order; residents only their own while it is still pending.
func (s *OrderService) Cancel(ctx context.Context, session *domain.Session, orderID string) (*domain.Order, error) {
	var (
		actor *domain.Actor
		err   error
	)
	if session.Valid() && session.Role == domain.RoleAdmin {
		actor, err = s.identity.RequireAdmin(ctx, session)
	} else {
		actor, err = s.identity.RequireResident(ctx, session)
	}
	if err != nil {
		return nil, err
	}

	var before domain.Order
	now := s.now()
	updated, err := s.orders.Update(ctx, orderID, func(o *domain.Order) error {
		before = *o
		if !actor.IsAdmin() {
			if o.UserID != actor.ID {
				return repository.ErrNotFound
			}
			if o.Status != domain.OrderStatusPending {
				return util.NewValidationError("only pending orders can be cancelled", map[string]any{"status": o.Status})
			}
		}
		if o.Status.IsTerminal() {
			return util.NewValidationError("order is already finished", map[string]any{"status": o.Status})
		}
		o.SetStatus(domain.OrderStatusCancelled, now)
		return nil
	})
	if err != nil {
		return nil, notFound(err, "order", map[string]any{"order_id": orderID})
	}
	s.afterStatusChange(ctx, actor, &before, updated)
	return updated, nil
}

// afterStatusChange compares against the snapshot taken before the mutation,
// so unchanged statuses produce no notification.
func (s *OrderService) afterStatusChange(ctx context.Context, actor *domain.Actor, before, after *domain.Order) {
	kind := domain.ClassifyTransition(before.Status, after.Status)
	s.metrics.OrderTransition(string(after.Status), string(kind))
	fields := []zap.Field{
		zap.String("order_id", after.ID),
		zap.String("from", string(before.Status)),
		zap.String("to", string(after.Status)),
		zap.String("kind", string(kind)),
		zap.String("actor_id", actor.ID),
	}
	if kind == domain.TransitionBackward || kind == domain.TransitionReopen {
		s.logger.Warn("order moved backward", fields...)
	} else {
		s.logger.Info("order transition", fields...)
	}
	if kind == domain.TransitionUnchanged {
		return
	}
	s.events.publish(ctx, events.Event{
		Type:    events.EventOrderStatusChanged,
		OrderID: after.ID,
		OwnerID: after.UserID,
		Actor:   actorRef(actor),
		Payload: events.OrderStatusChangedPayload{
			OldStatus:      before.Status,
			NewStatus:      after.Status,
			Kind:           kind,
			DocumentType:   after.DocumentType,
			DeliveryMethod: after.DeliveryMethod,
		},
	})
}

func (s *OrderService) afterAssignmentChange(ctx context.Context, actor *domain.Actor, before, after *domain.Order) {
	if sameAssignee(before.AssignedPersonnelID, after.AssignedPersonnelID) {
		return
	}
	s.events.publish(ctx, events.Event{
		Type:    events.EventOrderPersonnelAssigned,
		OrderID: after.ID,
		OwnerID: after.UserID,
		Actor:   actorRef(actor),
		Payload: events.OrderPersonnelAssignedPayload{
			PersonnelID: after.AssignedPersonnelID,
			Name:        after.AssignedPersonName,
			Phone:       after.AssignedPersonPhone,
		},
	})
}

func sameAssignee(a, b *string) bool {
	switch {
	case a == nil || *a == "":
		return b == nil || *b == ""
	case b == nil:
		return false
	default:
		return *a == *b
	}
}

// Track resolves an order by id or tracking number into its public timeline.
func (s *OrderService) Track(ctx context.Context, key string) (*domain.TrackingView, error) {
	order, err := s.orders.FindByKey(ctx, key)
	if err != nil {
		return nil, notFound(err, "order", map[string]any{"key": key})
	}
	view := domain.BuildTrackingView(order)
	return &view, nil
}

// Get returns one order by id.
func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order", map[string]any{"order_id": orderID})
	}
	return order, nil
}

// ListForUser returns the user's orders newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	domain.SortNewestFirst(orders)
	return orders, nil
}

// ListAll returns every order matching filter, newest first. Free text also
// matches the owner's full name.
func (s *OrderService) ListAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.ownerNames(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	matched := make([]domain.Order, 0, len(orders))
	for i := range orders {
		if filter.Matches(&orders[i], names[orders[i].UserID], now) {
			matched = append(matched, orders[i])
		}
	}
	domain.SortNewestFirst(matched)
	return matched, nil
}

func (s *OrderService) ownerNames(ctx context.Context) (map[string]string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].FullName()
	}
	return names, nil
}

// Quote returns the catalog price of documentType as an estimate. It is never
// written to an order; only Transition sets prices.
func (s *OrderService) Quote(ctx context.Context, documentType string) (domain.Money, error) {
	return s.catalog.GetPrice(ctx, strings.ToLower(strings.TrimSpace(documentType)))
}
