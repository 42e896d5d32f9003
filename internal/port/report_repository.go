package port

import (
	"context"

	"github.com/google/uuid"

	"rentdesk/internal/domain"
)

// ReportRepository provides aggregation queries for financial reports.
type ReportRepository interface {
	CollectionsSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.CollectionSummaryRow, error)
	Outstanding(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.OutstandingRow, int, error)
	TaxSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.TaxSummaryRow, error)
}
