package events

import (
	"time"

	"github.com/spec-kit/docrequest-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderSubmitted         EventType = "order_submitted"
	EventOrderStatusChanged     EventType = "order_status_changed"
	EventOrderPersonnelAssigned EventType = "order_personnel_assigned"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role domain.Role `json:"role"`
	ID   string      `json:"id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OrderID   string      `json:"order_id"`
	OwnerID   string      `json:"owner_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderSubmittedPayload payload.
type OrderSubmittedPayload struct {
	DocumentType   string                `json:"document_type"`
	DeliveryMethod domain.DeliveryMethod `json:"delivery_method"`
	TrackingNumber string                `json:"tracking_number"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OldStatus      domain.OrderStatus    `json:"old_status"`
	NewStatus      domain.OrderStatus    `json:"new_status"`
	Kind           domain.TransitionKind `json:"kind"`
	DocumentType   string                `json:"document_type"`
	DeliveryMethod domain.DeliveryMethod `json:"delivery_method"`
}

// OrderPersonnelAssignedPayload payload. PersonnelID is nil when the assignment was cleared.
type OrderPersonnelAssignedPayload struct {
	PersonnelID *string `json:"personnel_id,omitempty"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
}
