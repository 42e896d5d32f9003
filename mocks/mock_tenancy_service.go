package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
)

// MockTenancyService is a mock implementation of service.TenancyService.
type MockTenancyService struct {
	mock.Mock
}

func (m *MockTenancyService) detail(args mock.Arguments) (*service.TenancyDetail, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TenancyDetail), args.Error(1)
}

func (m *MockTenancyService) tenancy(args mock.Arguments) (*domain.Tenancy, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenancy), args.Error(1)
}

func (m *MockTenancyService) Create(ctx context.Context, companyID, userID uuid.UUID, input service.CreateTenancyInput) (*service.TenancyDetail, error) {
	return m.detail(m.Called(ctx, companyID, userID, input))
}

func (m *MockTenancyService) Update(ctx context.Context, companyID, tenancyID uuid.UUID, input service.UpdateTenancyInput) (*service.TenancyDetail, error) {
	return m.detail(m.Called(ctx, companyID, tenancyID, input))
}

func (m *MockTenancyService) Activate(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error) {
	return m.tenancy(m.Called(ctx, companyID, tenancyID))
}

func (m *MockTenancyService) Renew(ctx context.Context, companyID, tenancyID uuid.UUID, input service.RenewTenancyInput) (*service.TenancyDetail, error) {
	return m.detail(m.Called(ctx, companyID, tenancyID, input))
}

func (m *MockTenancyService) Terminate(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error) {
	return m.tenancy(m.Called(ctx, companyID, tenancyID))
}

func (m *MockTenancyService) Close(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error) {
	return m.tenancy(m.Called(ctx, companyID, tenancyID))
}

func (m *MockTenancyService) Get(ctx context.Context, companyID, tenancyID uuid.UUID) (*service.TenancyDetail, error) {
	return m.detail(m.Called(ctx, companyID, tenancyID))
}

func (m *MockTenancyService) List(ctx context.Context, companyID uuid.UUID, filter domain.TenancyFilter, offset, limit int) ([]domain.Tenancy, int, error) {
	args := m.Called(ctx, companyID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Tenancy), args.Int(1), args.Error(2)
}

func (m *MockTenancyService) ListSchedules(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.LineItem, error) {
	args := m.Called(ctx, companyID, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockTenancyService) AddCharge(ctx context.Context, companyID, tenancyID uuid.UUID, input service.AddChargeInput) (*domain.LineItem, error) {
	args := m.Called(ctx, companyID, tenancyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineItem), args.Error(1)
}

func (m *MockTenancyService) ListCharges(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.LineItem, error) {
	args := m.Called(ctx, companyID, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockTenancyService) DeleteCharge(ctx context.Context, companyID, chargeID uuid.UUID) error {
	args := m.Called(ctx, companyID, chargeID)
	return args.Error(0)
}
