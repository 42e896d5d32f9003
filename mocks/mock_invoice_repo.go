package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepo) AttachItems(ctx context.Context, companyID, invoiceID uuid.UUID, items []domain.LineItem) error {
	args := m.Called(ctx, companyID, invoiceID, items)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, companyID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) GetForUpdate(ctx context.Context, companyID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) List(ctx context.Context, companyID uuid.UUID, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, companyID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceRepo) UpdateStatus(ctx context.Context, companyID, invoiceID uuid.UUID, status domain.InvoiceStatus) error {
	args := m.Called(ctx, companyID, invoiceID, status)
	return args.Error(0)
}

func (m *MockInvoiceRepo) LockNumbering(ctx context.Context, companyID uuid.UUID, base string) error {
	args := m.Called(ctx, companyID, base)
	return args.Error(0)
}

func (m *MockInvoiceRepo) LastNumber(ctx context.Context, companyID uuid.UUID, base string) (string, error) {
	args := m.Called(ctx, companyID, base)
	return args.String(0), args.Error(1)
}
