package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
)

// MockChargeTypeRepo is a mock implementation of port.ChargeTypeRepository.
type MockChargeTypeRepo struct {
	mock.Mock
}

func (m *MockChargeTypeRepo) Create(ctx context.Context, ct *domain.ChargeType) error {
	args := m.Called(ctx, ct)
	return args.Error(0)
}

func (m *MockChargeTypeRepo) Update(ctx context.Context, ct *domain.ChargeType) error {
	args := m.Called(ctx, ct)
	return args.Error(0)
}

func (m *MockChargeTypeRepo) GetByID(ctx context.Context, companyID, chargeTypeID uuid.UUID) (*domain.ChargeType, error) {
	args := m.Called(ctx, companyID, chargeTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChargeType), args.Error(1)
}

func (m *MockChargeTypeRepo) List(ctx context.Context, companyID uuid.UUID) ([]domain.ChargeType, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChargeType), args.Error(1)
}

func (m *MockChargeTypeRepo) GetByRoles(ctx context.Context, companyID uuid.UUID) ([]domain.ChargeType, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChargeType), args.Error(1)
}

func (m *MockChargeTypeRepo) SetTaxes(ctx context.Context, companyID, chargeTypeID uuid.UUID, taxIDs []uuid.UUID) error {
	args := m.Called(ctx, companyID, chargeTypeID, taxIDs)
	return args.Error(0)
}

func (m *MockChargeTypeRepo) IsReferenced(ctx context.Context, companyID, chargeTypeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, chargeTypeID)
	return args.Bool(0), args.Error(1)
}

// MockTaxRepo is a mock implementation of port.TaxRepository.
type MockTaxRepo struct {
	mock.Mock
}

func (m *MockTaxRepo) Create(ctx context.Context, tax *domain.Tax) error {
	args := m.Called(ctx, tax)
	return args.Error(0)
}

func (m *MockTaxRepo) Update(ctx context.Context, tax *domain.Tax) error {
	args := m.Called(ctx, tax)
	return args.Error(0)
}

func (m *MockTaxRepo) GetByID(ctx context.Context, companyID, taxID uuid.UUID) (*domain.Tax, error) {
	args := m.Called(ctx, companyID, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tax), args.Error(1)
}

func (m *MockTaxRepo) GetByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]domain.Tax, error) {
	args := m.Called(ctx, companyID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tax), args.Error(1)
}

func (m *MockTaxRepo) List(ctx context.Context, companyID uuid.UUID) ([]domain.Tax, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tax), args.Error(1)
}
