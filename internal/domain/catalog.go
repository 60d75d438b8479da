package domain

import (
	"fmt"
	"strings"
	"time"
)

// Money is an amount in centavos.
type Money int64

// MoneyFromPesos converts whole pesos to Money.
func MoneyFromPesos(pesos int64) Money {
	return Money(pesos * 100)
}

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s₱%d.%02d", sign, m/100, m%100)
}

// Known document types.
const (
	DocumentBarangayClearance      = "barangay-clearance"
	DocumentCertificateIndigency   = "certificate-of-indigency"
	DocumentCertificateOfResidency = "certificate-of-residency"
)

var documentLabels = map[string]string{
	DocumentBarangayClearance:      "Barangay Clearance",
	DocumentCertificateIndigency:   "Certificate of Indigency",
	DocumentCertificateOfResidency: "Certificate of Residency",
}

// DocumentLabel returns a human name for a document-type key.
func DocumentLabel(documentType string) string {
	if label, ok := documentLabels[documentType]; ok {
		return label
	}
	parts := strings.FieldsFunc(documentType, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, part := range parts {
		if part == "of" || part == "and" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

// DocumentPrefix builds the 2-3 letter tracking prefix for a document type,
// e.g. "BC" for barangay-clearance.
func DocumentPrefix(documentType string) string {
	parts := strings.FieldsFunc(strings.ToLower(documentType), func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	var b strings.Builder
	for _, part := range parts {
		if part == "of" || part == "and" || part == "the" {
			continue
		}
		b.WriteByte(part[0])
		if b.Len() == 3 {
			break
		}
	}
	prefix := b.String()
	if len(prefix) < 2 {
		letters := strings.Join(parts, "")
		switch {
		case len(letters) >= 2:
			prefix = letters[:2]
		default:
			prefix = "DOC"
		}
	}
	return strings.ToUpper(prefix)
}

// Pricing is the singleton document-type to unit price table.
type Pricing struct {
	Prices    map[string]Money `json:"prices"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// DefaultPricing returns the initial price list.
func DefaultPricing() Pricing {
	return Pricing{Prices: map[string]Money{
		DocumentBarangayClearance:      MoneyFromPesos(50),
		DocumentCertificateIndigency:   MoneyFromPesos(30),
		DocumentCertificateOfResidency: MoneyFromPesos(40),
	}}
}

// PersonnelStatus tracks whether staff can receive assignments.
type PersonnelStatus string

const (
	PersonnelStatusActive   PersonnelStatus = "active"
	PersonnelStatusInactive PersonnelStatus = "inactive"
)

// ParsePersonnelStatus validates raw.
func ParsePersonnelStatus(raw string) (PersonnelStatus, error) {
	status := PersonnelStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case PersonnelStatusActive, PersonnelStatusInactive:
		return status, nil
	}
	return "", fmt.Errorf("unknown personnel status %q", raw)
}

// Personnel is a staff member eligible for pickup/delivery assignment.
type Personnel struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Status    PersonnelStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// Active reports whether the personnel can be assigned.
func (p *Personnel) Active() bool {
	return p.Status == PersonnelStatusActive
}
