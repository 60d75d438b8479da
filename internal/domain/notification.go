package domain

import "time"

// NotificationCategory groups notifications for presentation.
type NotificationCategory string

const (
	NotificationOrder       NotificationCategory = "order"
	NotificationOrderUpdate NotificationCategory = "order_update"
	NotificationDelivery    NotificationCategory = "delivery"
	NotificationReady       NotificationCategory = "ready"
)

// Notification is a persisted message for a resident.
type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	OrderID   string               `json:"order_id,omitempty"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Category  NotificationCategory `json:"category"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"created_at"`
}
