package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
)

// MockChargeService is a mock implementation of service.ChargeService.
type MockChargeService struct {
	mock.Mock
}

func (m *MockChargeService) CreateChargeType(ctx context.Context, companyID uuid.UUID, input service.CreateChargeTypeInput) (*domain.ChargeType, error) {
	args := m.Called(ctx, companyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChargeType), args.Error(1)
}

func (m *MockChargeService) UpdateChargeType(ctx context.Context, companyID, chargeTypeID uuid.UUID, input service.UpdateChargeTypeInput) (*domain.ChargeType, error) {
	args := m.Called(ctx, companyID, chargeTypeID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChargeType), args.Error(1)
}

func (m *MockChargeService) GetChargeType(ctx context.Context, companyID, chargeTypeID uuid.UUID) (*domain.ChargeType, error) {
	args := m.Called(ctx, companyID, chargeTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChargeType), args.Error(1)
}

func (m *MockChargeService) ListChargeTypes(ctx context.Context, companyID uuid.UUID) ([]domain.ChargeType, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChargeType), args.Error(1)
}

func (m *MockChargeService) CreateTax(ctx context.Context, companyID uuid.UUID, input service.CreateTaxInput) (*domain.Tax, error) {
	args := m.Called(ctx, companyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tax), args.Error(1)
}

func (m *MockChargeService) UpdateTax(ctx context.Context, companyID, taxID uuid.UUID, input service.UpdateTaxInput) (*domain.Tax, error) {
	args := m.Called(ctx, companyID, taxID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tax), args.Error(1)
}

func (m *MockChargeService) ListTaxes(ctx context.Context, companyID uuid.UUID) ([]domain.Tax, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tax), args.Error(1)
}

func (m *MockChargeService) PreviewTax(ctx context.Context, companyID, chargeTypeID uuid.UUID, amount decimal.Decimal, on time.Time) (*service.TaxPreview, error) {
	args := m.Called(ctx, companyID, chargeTypeID, amount, on)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaxPreview), args.Error(1)
}
