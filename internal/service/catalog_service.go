package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/repository"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

// DefaultRoster is the personnel installed by Seed on an empty store.
var DefaultRoster = []domain.Personnel{
	{Name: "Juan Dela Cruz", Phone: "+63 912 345 6789"},
	{Name: "Maria Santos", Phone: "+63 912 345 6790"},
	{Name: "Pedro Garcia", Phone: "+63 912 345 6791"},
	{Name: "Ana Rodriguez", Phone: "+63 912 345 6792"},
}

// CatalogService owns document pricing and the personnel roster.
type CatalogService struct {
	pricing   repository.PricingRepository
	personnel repository.PersonnelRepository
	identity  *IdentityService
	logger    *zap.Logger
	now       Clock
}

// CatalogDependencies bundles collaborators for the catalog.
type CatalogDependencies struct {
	PricingRepo   repository.PricingRepository
	PersonnelRepo repository.PersonnelRepository
	Identity      *IdentityService
	Logger        *zap.Logger
	Now           Clock
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		pricing:   deps.PricingRepo,
		personnel: deps.PersonnelRepo,
		identity:  deps.Identity,
		logger:    loggerOrNop(deps.Logger),
		now:       clockOrDefault(deps.Now),
	}
}

// PriceEntry is one row of the public price list.
type PriceEntry struct {
	DocumentType string       `json:"document_type"`
	Label        string       `json:"label"`
	Price        domain.Money `json:"price"`
}

// GetPrice returns the unit price of documentType.
func (s *CatalogService) GetPrice(ctx context.Context, documentType string) (domain.Money, error) {
	pricing, err := s.pricing.Get(ctx)
	if err != nil {
		return 0, err
	}
	price, ok := pricing.Prices[documentType]
	if !ok {
		return 0, util.NewNotFound("price", map[string]any{"document_type": documentType})
	}
	return price, nil
}

// ListPrices returns every priced document type sorted by key.
func (s *CatalogService) ListPrices(ctx context.Context) ([]PriceEntry, error) {
	pricing, err := s.pricing.Get(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]PriceEntry, 0, len(pricing.Prices))
	for docType, price := range pricing.Prices {
		entries = append(entries, PriceEntry{DocumentType: docType, Label: domain.DocumentLabel(docType), Price: price})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].DocumentType < entries[j].DocumentType })
	return entries, nil
}

// ListActivePersonnel returns staff that can take assignments.
func (s *CatalogService) ListActivePersonnel(ctx context.Context) ([]domain.Personnel, error) {
	all, err := s.personnel.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]domain.Personnel, 0, len(all))
	for _, p := range all {
		if p.Active() {
			active = append(active, p)
		}
	}
	return active, nil
}

// ListPersonnel returns the whole roster for administrators.
func (s *CatalogService) ListPersonnel(ctx context.Context, session *domain.Session) ([]domain.Personnel, error) {
	if _, err := s.identity.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}
	return s.personnel.List(ctx)
}

// SetPrice sets the unit price of a document type, adding it when new.
func (s *CatalogService) SetPrice(ctx context.Context, session *domain.Session, documentType string, price domain.Money) (domain.Pricing, error) {
	if _, err := s.identity.RequireAdmin(ctx, session); err != nil {
		return domain.Pricing{}, err
	}
	documentType = strings.ToLower(strings.TrimSpace(documentType))
	switch {
	case documentType == "":
		return domain.Pricing{}, util.NewValidationError("validation failed", map[string]any{"document_type": "is required"})
	case price < 0:
		return domain.Pricing{}, util.NewValidationError("validation failed", map[string]any{"price": "must not be negative"})
	}
	updated, err := s.pricing.Update(ctx, func(p *domain.Pricing) error {
		p.Prices[documentType] = price
		p.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return domain.Pricing{}, err
	}
	s.logger.Info("price updated", zap.String("document_type", documentType), zap.Int64("price", int64(price)))
	return updated, nil
}

// AddPersonnel registers a new active staff member.
func (s *CatalogService) AddPersonnel(ctx context.Context, session *domain.Session, name, phone string) (*domain.Personnel, error) {
	if _, err := s.identity.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}
	name, phone = strings.TrimSpace(name), strings.TrimSpace(phone)
	fields := map[string]any{}
	if name == "" {
		fields["name"] = "is required"
	}
	if !util.ValidPhone(phone) {
		fields["phone"] = "is invalid"
	}
	if len(fields) > 0 {
		return nil, util.NewValidationError("validation failed", fields)
	}

	p := &domain.Personnel{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Status:    domain.PersonnelStatusActive,
		CreatedAt: s.now(),
	}
	if err := s.personnel.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RemovePersonnel deletes a staff member. Orders keep their assignment snapshot.
func (s *CatalogService) RemovePersonnel(ctx context.Context, session *domain.Session, id string) error {
	if _, err := s.identity.RequireAdmin(ctx, session); err != nil {
		return err
	}
	if err := s.personnel.Delete(ctx, id); err != nil {
		return notFound(err, "personnel", map[string]any{"personnel_id": id})
	}
	return nil
}

// SetPersonnelStatus activates or deactivates a staff member.
func (s *CatalogService) SetPersonnelStatus(ctx context.Context, session *domain.Session, id string, status domain.PersonnelStatus) (*domain.Personnel, error) {
	if _, err := s.identity.RequireAdmin(ctx, session); err != nil {
		return nil, err
	}
	parsed, err := domain.ParsePersonnelStatus(string(status))
	if err != nil {
		return nil, util.NewValidationError("validation failed", map[string]any{"status": "is invalid"})
	}
	updated, err := s.personnel.Update(ctx, id, func(p *domain.Personnel) error {
		p.Status = parsed
		return nil
	})
	if err != nil {
		return nil, notFound(err, "personnel", map[string]any{"personnel_id": id})
	}
	return updated, nil
}

// personnelForAssignment resolves id to an assignable staff member.
func (s *CatalogService) personnelForAssignment(ctx context.Context, id string) (*domain.Personnel, error) {
	p, err := s.personnel.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "personnel", map[string]any{"personnel_id": id})
	}
	if !p.Active() {
		return nil, util.NewValidationError("personnel is inactive", map[string]any{"personnel_id": id})
	}
	return p, nil
}

// Seed installs default prices and the default roster into never-written collections.
func (s *CatalogService) Seed(ctx context.Context) error {
	pricing := domain.DefaultPricing()
	pricing.UpdatedAt = s.now()
	seeded, err := s.pricing.SeedIfEmpty(ctx, pricing)
	if err != nil && !util.HasCode(err, util.CodeConflict) {
		return err
	}
	if seeded {
		s.logger.Info("seeded default pricing")
	}

	roster := make([]domain.Personnel, len(DefaultRoster))
	for i, p := range DefaultRoster {
		p.ID = uuid.NewString()
		p.Status = domain.PersonnelStatusActive
		p.CreatedAt = s.now()
		roster[i] = p
	}
	seeded, err = s.personnel.SeedIfEmpty(ctx, roster)
	if err != nil && !util.HasCode(err, util.CodeConflict) {
		return err
	}
	if seeded {
		s.logger.Info("seeded default personnel", zap.Int("count", len(roster)))
	}
	return nil
}
