package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// CreateBuildingInput is the DTO for creating a building.
type CreateBuildingInput struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	CountryCode string `json:"country_code" binding:"omitempty,len=2"`
	StateCode   string `json:"state_code"`
}

// CreateUnitInput is the DTO for adding a unit to a building.
type CreateUnitInput struct {
	UnitNumber string `json:"unit_number" binding:"required"`
	UnitType   string `json:"unit_type"`
}

// CreateTenantInput is the DTO for registering a renter.
type CreateTenantInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	IDNumber string `json:"id_number"`
}

// PropertyService manages buildings, their units and the renters occupying them.
type PropertyService interface {
	CreateBuilding(ctx context.Context, companyID uuid.UUID, input CreateBuildingInput) (*domain.Building, error)
	GetBuilding(ctx context.Context, companyID, buildingID uuid.UUID) (*domain.Building, error)
	ListBuildings(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Building, int, error)

	CreateUnit(ctx context.Context, companyID, buildingID uuid.UUID, input CreateUnitInput) (*domain.Unit, error)
	ListUnits(ctx context.Context, companyID, buildingID uuid.UUID, offset, limit int) ([]domain.Unit, int, error)

	CreateTenant(ctx context.Context, companyID uuid.UUID, input CreateTenantInput) (*domain.Tenant, error)
	GetTenant(ctx context.Context, companyID, tenantID uuid.UUID) (*domain.Tenant, error)
	ListTenants(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Tenant, int, error)
}

type propertyService struct {
	buildingRepo port.BuildingRepository
	unitRepo     port.UnitRepository
	tenantRepo   port.TenantRepository
}

// NewPropertyService creates a new PropertyService implementation.
func NewPropertyService(
	buildingRepo port.BuildingRepository,
	unitRepo port.UnitRepository,
	tenantRepo port.TenantRepository,
) PropertyService {
	return &propertyService{
		buildingRepo: buildingRepo,
		unitRepo:     unitRepo,
		tenantRepo:   tenantRepo,
	}
}

func (s *propertyService) CreateBuilding(ctx context.Context, companyID uuid.UUID, input CreateBuildingInput) (*domain.Building, error) {
	b := &domain.Building{
		CompanyID:   companyID,
		Name:        strings.TrimSpace(input.Name),
		Address:     input.Address,
		CountryCode: strings.ToUpper(input.CountryCode),
		StateCode:   strings.ToUpper(input.StateCode),
	}
	if b.Name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if err := s.buildingRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *propertyService) GetBuilding(ctx context.Context, companyID, buildingID uuid.UUID) (*domain.Building, error) {
	return s.buildingRepo.GetByID(ctx, companyID, buildingID)
}

func (s *propertyService) ListBuildings(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Building, int, error) {
	return s.buildingRepo.List(ctx, companyID, offset, limit)
}

func (s *propertyService) CreateUnit(ctx context.Context, companyID, buildingID uuid.UUID, input CreateUnitInput) (*domain.Unit, error) {
	if _, err := s.buildingRepo.GetByID(ctx, companyID, buildingID); err != nil {
		return nil, err
	}
	u := &domain.Unit{
		CompanyID:  companyID,
		BuildingID: buildingID,
		UnitNumber: strings.TrimSpace(input.UnitNumber),
		UnitType:   input.UnitType,
		Status:     domain.UnitStatusVacant,
	}
	if u.UnitNumber == "" {
		return nil, domain.NewValidationError("unit_number", "must not be empty")
	}
	if err := s.unitRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *propertyService) ListUnits(ctx context.Context, companyID, buildingID uuid.UUID, offset, limit int) ([]domain.Unit, int, error) {
	if _, err := s.buildingRepo.GetByID(ctx, companyID, buildingID); err != nil {
		return nil, 0, err
	}
	return s.unitRepo.ListByBuilding(ctx, companyID, buildingID, offset, limit)
}

func (s *propertyService) CreateTenant(ctx context.Context, companyID uuid.UUID, input CreateTenantInput) (*domain.Tenant, error) {
	t := &domain.Tenant{
		CompanyID: companyID,
		FullName:  strings.TrimSpace(input.FullName),
		Email:     input.Email,
		Phone:     input.Phone,
		IDNumber:  input.IDNumber,
	}
	if t.FullName == "" {
		return nil, domain.NewValidationError("full_name", "must not be empty")
	}
	if err := s.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *propertyService) GetTenant(ctx context.Context, companyID, tenantID uuid.UUID) (*domain.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, companyID, tenantID)
}

func (s *propertyService) ListTenants(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Tenant, int, error) {
	return s.tenantRepo.List(ctx, companyID, offset, limit)
}
