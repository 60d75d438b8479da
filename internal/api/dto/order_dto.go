package dto

import (
	"math"
	"time"

	"github.com/spec-kit/docrequest-service/internal/domain"
)

// AmountToMoney converts a peso amount from a request body to centavos.
func AmountToMoney(amount float64) domain.Money {
	return domain.Money(math.Round(amount * 100))
}

func moneyToAmount(m domain.Money) float64 {
	return float64(m) / 100
}

// UpdateOrderRequest is the administrator's full overwrite of an order.
// Omitted optional fields are cleared.
type UpdateOrderRequest struct {
	Status              string   `json:"status"`
	Price               *float64 `json:"price"`
	PersonnelID         *string  `json:"personnel_id"`
	SpecialInstructions *string  `json:"special_instructions"`
}

// AssignPersonnelRequest names the staff member to assign; empty clears it.
type AssignPersonnelRequest struct {
	PersonnelID string `json:"personnel_id"`
}

// OrderResponse is the wire shape of an order.
type OrderResponse struct {
	ID                  string                `json:"id"`
	TrackingNumber      string                `json:"tracking_number"`
	UserID              string                `json:"user_id"`
	DocumentType        string                `json:"document_type"`
	DocumentLabel       string                `json:"document_label"`
	Purpose             string                `json:"purpose"`
	PreferredDate       *time.Time            `json:"preferred_date,omitempty"`
	ContactNumber       string                `json:"contact_number,omitempty"`
	DeliveryMethod      domain.DeliveryMethod `json:"delivery_method"`
	DeliveryAddress     *string               `json:"delivery_address,omitempty"`
	Status              domain.OrderStatus    `json:"status"`
	StatusLabel         string                `json:"status_label"`
	Price               *float64              `json:"price"`
	PriceLabel          string                `json:"price_label"`
	AssignedPersonnelID *string               `json:"assigned_personnel_id,omitempty"`
	AssignedPersonName  string                `json:"assigned_person_name"`
	AssignedPersonPhone string                `json:"assigned_person_phone"`
	SpecialInstructions *string               `json:"special_instructions,omitempty"`
	SubmittedAt         time.Time             `json:"submitted_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
	CompletedAt         *time.Time            `json:"completed_at,omitempty"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:                  o.ID,
		TrackingNumber:      o.TrackingNumber,
		UserID:              o.UserID,
		DocumentType:        o.DocumentType,
		DocumentLabel:       domain.DocumentLabel(o.DocumentType),
		Purpose:             o.Purpose,
		PreferredDate:       o.PreferredDate,
		ContactNumber:       o.ContactNumber,
		DeliveryMethod:      o.DeliveryMethod,
		DeliveryAddress:     o.DeliveryAddress,
		Status:              o.Status,
		StatusLabel:         o.StatusLabel(),
		PriceLabel:          "-",
		AssignedPersonnelID: o.AssignedPersonnelID,
		AssignedPersonName:  o.AssignedPersonName,
		AssignedPersonPhone: o.AssignedPersonPhone,
		SpecialInstructions: o.SpecialInstructions,
		SubmittedAt:         o.SubmittedAt,
		UpdatedAt:           o.UpdatedAt,
		CompletedAt:         o.CompletedAt,
	}
	if o.Price != nil {
		amount := moneyToAmount(*o.Price)
		resp.Price = &amount
		resp.PriceLabel = o.Price.String()
	}
	return resp
}

// NewOrderResponses maps a slice of orders.
func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
