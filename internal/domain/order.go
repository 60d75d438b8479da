package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus enumerates lifecycle states for document requests.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusInDelivery OrderStatus = "in-delivery"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// "delivered" is accepted on input and in stored records and folded into completed.
const legacyStatusDelivered = "delivered"

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusReady,
	OrderStatusInDelivery,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var statusRank = map[OrderStatus]int{
	OrderStatusPending:    1,
	OrderStatusProcessing: 2,
	OrderStatusReady:      3,
	OrderStatusInDelivery: 4,
	OrderStatusCompleted:  5,
}

var statusLabels = map[OrderStatus]string{
	OrderStatusPending:    "Pending",
	OrderStatusProcessing: "Processing",
	OrderStatusReady:      "Ready",
	OrderStatusInDelivery: "In Delivery",
	OrderStatusCompleted:  "Completed",
	OrderStatusCancelled:  "Cancelled",
}

// ParseOrderStatus validates raw and folds the legacy alias.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == legacyStatusDelivered {
		return OrderStatusCompleted, nil
	}
	status := OrderStatus(normalized)
	if _, ok := statusLabels[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return status, nil
}

// UnmarshalText normalizes stored status values. An empty value decodes as pending.
func (s *OrderStatus) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = OrderStatusPending
		return nil
	}
	parsed, err := ParseOrderStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Rank places the status in the fixed total order used for tracking.
// Cancelled has rank 0 and sits outside the progression.
func (s OrderStatus) Rank() int {
	return statusRank[s]
}

// IsTerminal reports whether no further progress is expected.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsOpen reports whether the order still counts as pending work for dashboards.
func (s OrderStatus) IsOpen() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// Label returns the display text for the status.
func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// TransitionKind classifies an admin status change.
type TransitionKind string

const (
	TransitionForward   TransitionKind = "forward"
	TransitionBackward  TransitionKind = "backward"
	TransitionUnchanged TransitionKind = "unchanged"
	TransitionCancel    TransitionKind = "cancel"
	TransitionReopen    TransitionKind = "reopen"
)

// ClassifyTransition describes the move from one status to another. Any move is
// permitted; backward moves are reported so callers can flag corrections.
func ClassifyTransition(from, to OrderStatus) TransitionKind {
	switch {
	case from == to:
		return TransitionUnchanged
	case to == OrderStatusCancelled:
		return TransitionCancel
	case from == OrderStatusCancelled:
		return TransitionReopen
	case to.Rank() > from.Rank():
		return TransitionForward
	default:
		return TransitionBackward
	}
}

// DeliveryMethod describes how the document reaches the resident.
type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodDelivery DeliveryMethod = "delivery"
)

// ParseDeliveryMethod validates raw.
func ParseDeliveryMethod(raw string) (DeliveryMethod, error) {
	method := DeliveryMethod(strings.ToLower(strings.TrimSpace(raw)))
	switch method {
	case DeliveryMethodPickup, DeliveryMethodDelivery:
		return method, nil
	}
	return "", fmt.Errorf("unknown delivery method %q", raw)
}

// Unassigned is the placeholder shown while no personnel is assigned.
const Unassigned = "TBD"

// Order is a resident's document request.
type Order struct {
	ID                  string         `json:"id"`
	UserID              string         `json:"user_id"`
	DocumentType        string         `json:"document_type"`
	Purpose             string         `json:"purpose"`
	PreferredDate       *time.Time     `json:"preferred_date,omitempty"`
	ContactNumber       string         `json:"contact_number,omitempty"`
	DeliveryMethod      DeliveryMethod `json:"delivery_method"`
	DeliveryAddress     *string        `json:"delivery_address,omitempty"`
	Status              OrderStatus    `json:"status"`
	Price               *Money         `json:"price,omitempty"`
	AssignedPersonnelID *string        `json:"assigned_personnel_id,omitempty"`
	AssignedPersonName  string         `json:"assigned_person_name"`
	AssignedPersonPhone string         `json:"assigned_person_phone"`
	TrackingNumber      string         `json:"tracking_number"`
	SpecialInstructions *string        `json:"special_instructions,omitempty"`
	SubmittedAt         time.Time      `json:"submitted_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	CompletedAt         *time.Time     `json:"completed_at,omitempty"`
}

// AssignTo snapshots the personnel's name and phone onto the order.
func (o *Order) AssignTo(p *Personnel) {
	id := p.ID
	o.AssignedPersonnelID = &id
	o.AssignedPersonName = p.Name
	o.AssignedPersonPhone = p.Phone
}

// ClearAssignment resets the assignment snapshot to the placeholder.
func (o *Order) ClearAssignment() {
	o.AssignedPersonnelID = nil
	o.AssignedPersonName = Unassigned
	o.AssignedPersonPhone = Unassigned
}

// IsAssigned reports whether personnel is attached.
func (o *Order) IsAssigned() bool {
	return o.AssignedPersonnelID != nil && *o.AssignedPersonnelID != ""
}

// StatusLabel renders the status, using the delivery method to name the finished state.
func (o *Order) StatusLabel() string {
	if o.Status == OrderStatusCompleted && o.DeliveryMethod == DeliveryMethodDelivery {
		return "Delivered"
	}
	return o.Status.Label()
}

// SetStatus overwrites the status and maintains CompletedAt.
func (o *Order) SetStatus(status OrderStatus, now time.Time) {
	o.Status = status
	if status == OrderStatusCompleted {
		if o.CompletedAt == nil {
			completed := now
			o.CompletedAt = &completed
		}
	} else {
		o.CompletedAt = nil
	}
	o.UpdatedAt = now
}
