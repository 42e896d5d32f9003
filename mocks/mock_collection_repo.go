package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
)

// MockCollectionRepo is a mock implementation of port.CollectionRepository.
type MockCollectionRepo struct {
	mock.Mock
}

func (m *MockCollectionRepo) Create(ctx context.Context, collection *domain.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCollectionRepo) Update(ctx context.Context, collection *domain.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCollectionRepo) GetByID(ctx context.Context, companyID, collectionID uuid.UUID) (*domain.Collection, error) {
	args := m.Called(ctx, companyID, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

func (m *MockCollectionRepo) List(ctx context.Context, companyID uuid.UUID, filter domain.CollectionFilter, offset, limit int) ([]domain.Collection, int, error) {
	args := m.Called(ctx, companyID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Collection), args.Int(1), args.Error(2)
}

func (m *MockCollectionRepo) Delete(ctx context.Context, companyID, collectionID uuid.UUID) error {
	args := m.Called(ctx, companyID, collectionID)
	return args.Error(0)
}

func (m *MockCollectionRepo) SumCompleted(ctx context.Context, companyID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockDistributionRepo is a mock implementation of port.DistributionRepository.
type MockDistributionRepo struct {
	mock.Mock
}

func (m *MockDistributionRepo) CreateBatch(ctx context.Context, dists []domain.PaymentDistribution) error {
	args := m.Called(ctx, dists)
	return args.Error(0)
}

func (m *MockDistributionRepo) ListByCollection(ctx context.Context, companyID, collectionID uuid.UUID) ([]domain.PaymentDistribution, error) {
	args := m.Called(ctx, companyID, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentDistribution), args.Error(1)
}

func (m *MockDistributionRepo) ListCompletedByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID, exclude *uuid.UUID) ([]domain.PaymentDistribution, error) {
	args := m.Called(ctx, companyID, invoiceID, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentDistribution), args.Error(1)
}

func (m *MockDistributionRepo) DeleteByCollection(ctx context.Context, companyID, collectionID uuid.UUID) error {
	args := m.Called(ctx, companyID, collectionID)
	return args.Error(0)
}

// MockOverpaymentRepo is a mock implementation of port.OverpaymentRepository.
type MockOverpaymentRepo struct {
	mock.Mock
}

func (m *MockOverpaymentRepo) Create(ctx context.Context, op *domain.Overpayment) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOverpaymentRepo) ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.Overpayment, error) {
	args := m.Called(ctx, companyID, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Overpayment), args.Error(1)
}

func (m *MockOverpaymentRepo) ListByCollection(ctx context.Context, companyID, collectionID uuid.UUID) ([]domain.Overpayment, error) {
	args := m.Called(ctx, companyID, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Overpayment), args.Error(1)
}

func (m *MockOverpaymentRepo) DeleteByCollection(ctx context.Context, companyID, collectionID uuid.UUID) error {
	args := m.Called(ctx, companyID, collectionID)
	return args.Error(0)
}
