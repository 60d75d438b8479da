package dto

import "github.com/spec-kit/docrequest-service/internal/domain"

// SetPriceRequest payload; price is in pesos.
type SetPriceRequest struct {
	Price *float64 `json:"price"`
}

// PriceResponse is one row of the price list.
type PriceResponse struct {
	DocumentType string  `json:"document_type"`
	Label        string  `json:"label"`
	Price        float64 `json:"price"`
	PriceLabel   string  `json:"price_label"`
}

// NewPriceResponse maps a price entry.
func NewPriceResponse(documentType, label string, price domain.Money) PriceResponse {
	return PriceResponse{
		DocumentType: documentType,
		Label:        label,
		Price:        moneyToAmount(price),
		PriceLabel:   price.String(),
	}
}

// CreatePersonnelRequest payload.
type CreatePersonnelRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
