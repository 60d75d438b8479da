package service

import (
	"context"
	"time"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/repository"
)

const (
	recentOrdersShown = 3
	unknownOwner      = "Unknown User"
	notAssigned       = "Not Assigned"
)

// ProjectionService builds read-only dashboard views from the store on every call.
type ProjectionService struct {
	orders        *OrderService
	users         repository.UserRepository
	notifications repository.NotificationRepository
	identity      *IdentityService
}

// ProjectionDependencies bundles collaborators for the projections.
type ProjectionDependencies struct {
	Orders           *OrderService
	UserRepo         repository.UserRepository
	NotificationRepo repository.NotificationRepository
	Identity         *IdentityService
}

// NewProjectionService constructs the service.
func NewProjectionService(deps ProjectionDependencies) *ProjectionService {
	return &ProjectionService{
		orders:        deps.Orders,
		users:         deps.UserRepo,
		notifications: deps.NotificationRepo,
		identity:      deps.Identity,
	}
}

// OrderStats aggregates orders by phase. Pending counts pending and processing.
type OrderStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InDelivery int `json:"in_delivery"`
	Finished   int `json:"finished"`
	Cancelled  int `json:"cancelled"`
}

func countOrders(orders []domain.Order) OrderStats {
	stats := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch {
		case o.Status.IsOpen():
			stats.Pending++
		case o.Status == domain.OrderStatusInDelivery:
			stats.InDelivery++
		case o.Status == domain.OrderStatusCompleted:
			stats.Finished++
		case o.Status == domain.OrderStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// ResidentDashboard is the resident's landing view.
type ResidentDashboard struct {
	Stats        OrderStats     `json:"stats"`
	RecentOrders []domain.Order `json:"recent_orders"`
	UnreadCount  int            `json:"unread_count"`
}

// ResidentDashboard returns counts, the most recent orders and the unread badge.
func (s *ProjectionService) ResidentDashboard(ctx context.Context, session *domain.Session) (*ResidentDashboard, error) {
	actor, err := s.identity.RequireResident(ctx, session)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	recent := orders
	if len(recent) > recentOrdersShown {
		recent = recent[:recentOrdersShown]
	}
	return &ResidentDashboard{Stats: countOrders(orders), RecentOrders: recent, UnreadCount: unread}, nil
}

// OrderHistory returns the resident's own orders matching filter, newest first.
func (s *ProjectionService) OrderHistory(ctx context.Context, session *domain.Session, filter domain.OrderFilter) ([]domain.Order, error) {
	actor, err := s.identity.RequireResident(ctx, session)
	if err != nil {
		return nil, err
	}
	filter.UserID = actor.ID
	return s.orders.ListAll(ctx, filter)
}

// AdminDashboard is the administrator's landing view.
type AdminDashboard struct {
	Orders     OrderStats `json:"orders"`
	TotalUsers int        `json:"total_users"`
}

// AdminDashboard returns order counts and the number of registered users.
func (s *ProjectionService) AdminDashboard(ctx context.Context, session *domain.Session) (*AdminDashboard, error) {
	if _, err := s.identity.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListAll(ctx, domain.OrderFilter{})
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{Orders: countOrders(orders), TotalUsers: len(users)}, nil
}

// AdminOrderRow is one line of the administrator's order table.
type AdminOrderRow struct {
	OrderID        string             `json:"order_id"`
	TrackingNumber string             `json:"tracking_number"`
	DocumentType   string             `json:"document_type"`
	DocumentLabel  string             `json:"document_label"`
	OwnerID        string             `json:"owner_id"`
	OwnerName      string             `json:"owner_name"`
	Status         domain.OrderStatus `json:"status"`
	StatusLabel    string             `json:"status_label"`
	Price          *domain.Money      `json:"price,omitempty"`
	PriceLabel     string             `json:"price_label"`
	AssignedTo     string             `json:"assigned_to"`
	SubmittedAt    time.Time          `json:"submitted_at"`
}

// AdminOrderTable lists orders matching filter with owner and assignee resolved for display.
func (s *ProjectionService) AdminOrderTable(ctx context.Context, session *domain.Session, filter domain.OrderFilter) ([]AdminOrderRow, error) {
	if _, err := s.identity.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	names, err := s.orders.ownerNames(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]AdminOrderRow, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		owner, ok := names[o.UserID]
		if !ok || owner == "" {
			owner = unknownOwner
		}
		assignee := o.AssignedPersonName
		if !o.IsAssigned() || assignee == "" || assignee == domain.Unassigned {
			assignee = notAssigned
		}
		priceLabel := "-"
		if o.Price != nil {
			priceLabel = o.Price.String()
		}
		rows = append(rows, AdminOrderRow{
			OrderID:        o.ID,
			TrackingNumber: o.TrackingNumber,
			DocumentType:   o.DocumentType,
			DocumentLabel:  domain.DocumentLabel(o.DocumentType),
			OwnerID:        o.UserID,
			OwnerName:      owner,
			Status:         o.Status,
			StatusLabel:    o.StatusLabel(),
			Price:          o.Price,
			PriceLabel:     priceLabel,
			AssignedTo:     assignee,
			SubmittedAt:    o.SubmittedAt,
		})
	}
	return rows, nil
}
