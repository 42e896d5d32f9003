package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
)

// MockBuildingRepo is a mock implementation of port.BuildingRepository.
type MockBuildingRepo struct {
	mock.Mock
}

func (m *MockBuildingRepo) Create(ctx context.Context, building *domain.Building) error {
	args := m.Called(ctx, building)
	return args.Error(0)
}

func (m *MockBuildingRepo) GetByID(ctx context.Context, companyID, buildingID uuid.UUID) (*domain.Building, error) {
	args := m.Called(ctx, companyID, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *MockBuildingRepo) List(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Building, int, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Building), args.Int(1), args.Error(2)
}

// MockUnitRepo is a mock implementation of port.UnitRepository.
type MockUnitRepo struct {
	mock.Mock
}

func (m *MockUnitRepo) Create(ctx context.Context, unit *domain.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepo) GetByID(ctx context.Context, companyID, unitID uuid.UUID) (*domain.Unit, error) {
	args := m.Called(ctx, companyID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockUnitRepo) ListByBuilding(ctx context.Context, companyID, buildingID uuid.UUID, offset, limit int) ([]domain.Unit, int, error) {
	args := m.Called(ctx, companyID, buildingID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Unit), args.Int(1), args.Error(2)
}

func (m *MockUnitRepo) UpdateStatus(ctx context.Context, companyID, unitID uuid.UUID, status domain.UnitStatus) error {
	args := m.Called(ctx, companyID, unitID, status)
	return args.Error(0)
}

// MockTenantRepo is a mock implementation of port.TenantRepository.
type MockTenantRepo struct {
	mock.Mock
}

func (m *MockTenantRepo) Create(ctx context.Context, tenant *domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepo) GetByID(ctx context.Context, companyID, tenantID uuid.UUID) (*domain.Tenant, error) {
	args := m.Called(ctx, companyID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepo) List(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Tenant, int, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Tenant), args.Int(1), args.Error(2)
}
