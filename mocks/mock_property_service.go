package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
)

// MockPropertyService is a mock implementation of service.PropertyService.
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) CreateBuilding(ctx context.Context, companyID uuid.UUID, input service.CreateBuildingInput) (*domain.Building, error) {
	args := m.Called(ctx, companyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *MockPropertyService) GetBuilding(ctx context.Context, companyID, buildingID uuid.UUID) (*domain.Building, error) {
	args := m.Called(ctx, companyID, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *MockPropertyService) ListBuildings(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Building, int, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Building), args.Int(1), args.Error(2)
}

func (m *MockPropertyService) CreateUnit(ctx context.Context, companyID, buildingID uuid.UUID, input service.CreateUnitInput) (*domain.Unit, error) {
	args := m.Called(ctx, companyID, buildingID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockPropertyService) ListUnits(ctx context.Context, companyID, buildingID uuid.UUID, offset, limit int) ([]domain.Unit, int, error) {
	args := m.Called(ctx, companyID, buildingID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Unit), args.Int(1), args.Error(2)
}

func (m *MockPropertyService) CreateTenant(ctx context.Context, companyID uuid.UUID, input service.CreateTenantInput) (*domain.Tenant, error) {
	args := m.Called(ctx, companyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockPropertyService) GetTenant(ctx context.Context, companyID, tenantID uuid.UUID) (*domain.Tenant, error) {
	args := m.Called(ctx, companyID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockPropertyService) ListTenants(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Tenant, int, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Tenant), args.Int(1), args.Error(2)
}
