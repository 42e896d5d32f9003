package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
)

// MockLineItemRepo is a mock implementation of port.LineItemRepository.
type MockLineItemRepo struct {
	mock.Mock
}

func (m *MockLineItemRepo) Create(ctx context.Context, item *domain.LineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockLineItemRepo) CreateBatch(ctx context.Context, items []domain.LineItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockLineItemRepo) GetByID(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, id uuid.UUID) (*domain.LineItem, error) {
	args := m.Called(ctx, companyID, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineItem), args.Error(1)
}

func (m *MockLineItemRepo) GetByIDsForUpdate(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, ids []uuid.UUID) ([]domain.LineItem, error) {
	args := m.Called(ctx, companyID, kind, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockLineItemRepo) ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID, kind domain.LineItemKind) ([]domain.LineItem, error) {
	args := m.Called(ctx, companyID, tenancyID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockLineItemRepo) ListByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) ([]domain.LineItem, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockLineItemRepo) ListPendingDue(ctx context.Context, companyID, tenancyID uuid.UUID, dueBy time.Time) ([]domain.LineItem, error) {
	args := m.Called(ctx, companyID, tenancyID, dueBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockLineItemRepo) ListDeposits(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.LineItem, error) {
	args := m.Called(ctx, companyID, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockLineItemRepo) CountUnsettled(ctx context.Context, companyID, tenancyID uuid.UUID) (int, error) {
	args := m.Called(ctx, companyID, tenancyID)
	return args.Int(0), args.Error(1)
}

func (m *MockLineItemRepo) UpdateStatus(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, id uuid.UUID, status domain.LineItemStatus) error {
	args := m.Called(ctx, companyID, kind, id, status)
	return args.Error(0)
}

func (m *MockLineItemRepo) DeletePending(ctx context.Context, companyID, tenancyID uuid.UUID, kind domain.LineItemKind) (int64, error) {
	args := m.Called(ctx, companyID, tenancyID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLineItemRepo) Delete(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, id uuid.UUID) error {
	args := m.Called(ctx, companyID, kind, id)
	return args.Error(0)
}
