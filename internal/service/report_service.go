package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"rentdesk/internal/domain"
	"rentdesk/internal/export"
	"rentdesk/internal/port"
)

// Report names accepted by Export.
const (
	ReportCollections = "collections"
	ReportOutstanding = "outstanding"
	ReportTax         = "tax"
)

// exportLimit caps the outstanding rows written to a download.
const exportLimit = 10000

var validGranularities = map[string]bool{
	"":          true,
	"daily":     true,
	"weekly":    true,
	"monthly":   true,
	"quarterly": true,
	"yearly":    true,
}

// ReportService provides financial reporting over collections and invoiced items.
type ReportService interface {
	CollectionsSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.CollectionSummaryRow, error)
	Outstanding(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.OutstandingRow, int, error)
	TaxSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.TaxSummaryRow, error)
	// Export writes the named report to w and returns the table name used for the file name.
	Export(ctx context.Context, companyID uuid.UUID, report string, format export.Format, filters domain.ReportFilters, w io.Writer) (string, error)
}

type reportService struct {
	reportRepo port.ReportRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(reportRepo port.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) CollectionsSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.CollectionSummaryRow, error) {
	if err := checkReportFilters(filters); err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.CollectionsSummary(ctx, companyID, filters)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.CollectionSummaryRow{}
	}
	return rows, nil
}

func (s *reportService) Outstanding(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.OutstandingRow, int, error) {
	rows, total, err := s.reportRepo.Outstanding(ctx, companyID, filters)
	if err != nil {
		return nil, 0, err
	}
	if rows == nil {
		rows = []domain.OutstandingRow{}
	}
	return rows, total, nil
}

func (s *reportService) TaxSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.TaxSummaryRow, error) {
	if err := checkReportFilters(filters); err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.TaxSummary(ctx, companyID, filters)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.TaxSummaryRow{}
	}
	return rows, nil
}

func (s *reportService) Export(ctx context.Context, companyID uuid.UUID, report string, format export.Format, filters domain.ReportFilters, w io.Writer) (string, error) {
	var table *export.Table
	switch report {
	case ReportCollections:
		rows, err := s.CollectionsSummary(ctx, companyID, filters)
		if err != nil {
			return "", err
		}
		table = export.CollectionsTable(rows)
	case ReportOutstanding:
		filters.Offset, filters.Limit = 0, exportLimit
		rows, _, err := s.Outstanding(ctx, companyID, filters)
		if err != nil {
			return "", err
		}
		table = export.OutstandingTable(rows)
	case ReportTax:
		rows, err := s.TaxSummary(ctx, companyID, filters)
		if err != nil {
			return "", err
		}
		table = export.TaxTable(rows)
	default:
		return "", domain.NewValidationError("report", "must be one of collections, outstanding, tax")
	}

	if err := export.Write(w, format, table); err != nil {
		return "", err
	}
	return table.Name, nil
}

func checkReportFilters(f domain.ReportFilters) error {
	if !validGranularities[f.Granularity] {
		return domain.NewValidationError("granularity", "must be one of daily, weekly, monthly, quarterly, yearly")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return domain.NewValidationError("to", "must not be before from")
	}
	return nil
}
