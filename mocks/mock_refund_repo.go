package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
)

// MockRefundRepo is a mock implementation of port.RefundRepository.
type MockRefundRepo struct {
	mock.Mock
}

func (m *MockRefundRepo) Create(ctx context.Context, refund *domain.Refund) error {
	args := m.Called(ctx, refund)
	return args.Error(0)
}

func (m *MockRefundRepo) Update(ctx context.Context, refund *domain.Refund) error {
	args := m.Called(ctx, refund)
	return args.Error(0)
}

func (m *MockRefundRepo) GetByID(ctx context.Context, companyID, refundID uuid.UUID) (*domain.Refund, error) {
	args := m.Called(ctx, companyID, refundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func (m *MockRefundRepo) ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.Refund, error) {
	args := m.Called(ctx, companyID, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Refund), args.Error(1)
}

func (m *MockRefundRepo) List(ctx context.Context, companyID uuid.UUID, filter domain.RefundFilter, offset, limit int) ([]domain.Refund, int, error) {
	args := m.Called(ctx, companyID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Refund), args.Int(1), args.Error(2)
}
