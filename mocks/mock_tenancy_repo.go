package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
)

// MockTenancyRepo is a mock implementation of port.TenancyRepository.
type MockTenancyRepo struct {
	mock.Mock
}

func (m *MockTenancyRepo) Create(ctx context.Context, tenancy *domain.Tenancy) error {
	args := m.Called(ctx, tenancy)
	return args.Error(0)
}

func (m *MockTenancyRepo) Update(ctx context.Context, tenancy *domain.Tenancy) error {
	args := m.Called(ctx, tenancy)
	return args.Error(0)
}

func (m *MockTenancyRepo) GetByID(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error) {
	args := m.Called(ctx, companyID, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenancy), args.Error(1)
}

func (m *MockTenancyRepo) GetForUpdate(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error) {
	args := m.Called(ctx, companyID, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenancy), args.Error(1)
}

func (m *MockTenancyRepo) List(ctx context.Context, companyID uuid.UUID, filter domain.TenancyFilter, offset, limit int) ([]domain.Tenancy, int, error) {
	args := m.Called(ctx, companyID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Tenancy), args.Int(1), args.Error(2)
}

func (m *MockTenancyRepo) UpdateStatus(ctx context.Context, companyID, tenancyID uuid.UUID, status domain.TenancyStatus) error {
	args := m.Called(ctx, companyID, tenancyID, status)
	return args.Error(0)
}

func (m *MockTenancyRepo) ListDueForInvoicing(ctx context.Context, dueBy time.Time, limit int) ([]domain.DueTenancy, error) {
	args := m.Called(ctx, dueBy, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DueTenancy), args.Error(1)
}
