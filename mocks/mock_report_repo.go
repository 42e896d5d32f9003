package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
)

// MockReportRepo is a mock implementation of port.ReportRepository.
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) CollectionsSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.CollectionSummaryRow, error) {
	args := m.Called(ctx, companyID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollectionSummaryRow), args.Error(1)
}

func (m *MockReportRepo) Outstanding(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.OutstandingRow, int, error) {
	args := m.Called(ctx, companyID, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OutstandingRow), args.Int(1), args.Error(2)
}

func (m *MockReportRepo) TaxSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.TaxSummaryRow, error) {
	args := m.Called(ctx, companyID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxSummaryRow), args.Error(1)
}
