package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
	"rentdesk/internal/export"
	"rentdesk/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, companyID, userID uuid.UUID, input service.CreateInvoiceInput) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) CreateAutomated(ctx context.Context, companyID, tenancyID uuid.UUID, asOf time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, tenancyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, companyID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, companyID uuid.UUID, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, companyID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

// MockCollectionService is a mock implementation of service.CollectionService.
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) Create(ctx context.Context, companyID, userID uuid.UUID, input service.CreateCollectionInput) (*service.CollectionDetail, error) {
	args := m.Called(ctx, companyID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CollectionDetail), args.Error(1)
}

func (m *MockCollectionService) Update(ctx context.Context, companyID, collectionID uuid.UUID, input service.UpdateCollectionInput) (*service.CollectionDetail, error) {
	args := m.Called(ctx, companyID, collectionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CollectionDetail), args.Error(1)
}

func (m *MockCollectionService) Delete(ctx context.Context, companyID, collectionID uuid.UUID) error {
	args := m.Called(ctx, companyID, collectionID)
	return args.Error(0)
}

func (m *MockCollectionService) Get(ctx context.Context, companyID, collectionID uuid.UUID) (*service.CollectionDetail, error) {
	args := m.Called(ctx, companyID, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CollectionDetail), args.Error(1)
}

func (m *MockCollectionService) List(ctx context.Context, companyID uuid.UUID, filter domain.CollectionFilter, offset, limit int) ([]domain.Collection, int, error) {
	args := m.Called(ctx, companyID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Collection), args.Int(1), args.Error(2)
}

// MockRefundService is a mock implementation of service.RefundService.
type MockRefundService struct {
	mock.Mock
}

func (m *MockRefundService) Create(ctx context.Context, companyID, userID uuid.UUID, input service.CreateRefundInput) (*domain.Refund, error) {
	args := m.Called(ctx, companyID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func (m *MockRefundService) Update(ctx context.Context, companyID, refundID uuid.UUID, input service.UpdateRefundInput) (*domain.Refund, error) {
	args := m.Called(ctx, companyID, refundID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func (m *MockRefundService) Get(ctx context.Context, companyID, refundID uuid.UUID) (*domain.Refund, error) {
	args := m.Called(ctx, companyID, refundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func (m *MockRefundService) List(ctx context.Context, companyID uuid.UUID, filter domain.RefundFilter, offset, limit int) ([]domain.Refund, int, error) {
	args := m.Called(ctx, companyID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Refund), args.Int(1), args.Error(2)
}

func (m *MockRefundService) Balance(ctx context.Context, companyID, tenancyID uuid.UUID) (*service.RefundBalanceDetail, error) {
	args := m.Called(ctx, companyID, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RefundBalanceDetail), args.Error(1)
}

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) CollectionsSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.CollectionSummaryRow, error) {
	args := m.Called(ctx, companyID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollectionSummaryRow), args.Error(1)
}

func (m *MockReportService) Outstanding(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.OutstandingRow, int, error) {
	args := m.Called(ctx, companyID, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OutstandingRow), args.Int(1), args.Error(2)
}

func (m *MockReportService) TaxSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.TaxSummaryRow, error) {
	args := m.Called(ctx, companyID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxSummaryRow), args.Error(1)
}

// Export returns the stubbed table name; use .Run to write a body to w.
func (m *MockReportService) Export(ctx context.Context, companyID uuid.UUID, report string, format export.Format, filters domain.ReportFilters, w io.Writer) (string, error) {
	args := m.Called(ctx, companyID, report, format, filters, w)
	return args.String(0), args.Error(1)
}
