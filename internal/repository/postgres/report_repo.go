package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	clause string
	args   []interface{}
}

func newWhere(first string, arg interface{}) *whereBuilder {
	return &whereBuilder{clause: "WHERE " + first + " = $1", args: []interface{}{arg}}
}

func (w *whereBuilder) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clause += fmt.Sprintf(" AND "+cond, len(w.args))
}

// bind appends arg without a condition and returns its position.
func (w *whereBuilder) bind(arg interface{}) int {
	w.args = append(w.args, arg)
	return len(w.args)
}

func (w *whereBuilder) pageArgs(offset, limit int) string {
	w.args = append(w.args, offset, limit)
	return fmt.Sprintf("OFFSET $%d LIMIT $%d", len(w.args)-1, len(w.args))
}

// dateTruncExpr returns the PostgreSQL date_trunc expression over col for the granularity.
func dateTruncExpr(col, granularity string) string {
	switch granularity {
	case "daily":
		return "date_trunc('day', " + col + ")::date"
	case "weekly":
		return "date_trunc('week', " + col + ")::date"
	case "quarterly":
		return "date_trunc('quarter', " + col + ")::date"
	case "yearly":
		return "date_trunc('year', " + col + ")::date"
	default:
		return "date_trunc('month', " + col + ")::date"
	}
}

// formatPeriod formats a period start into a label such as 2025-03, 2025-Q1 or 2025-W07.
func formatPeriod(t time.Time, granularity string) string {
	switch granularity {
	case "daily":
		return t.Format(domain.DateLayout)
	case "weekly":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case "quarterly":
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case "yearly":
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}

// periodEnd is the last calendar day of the period starting at start.
func periodEnd(start time.Time, granularity string) time.Time {
	switch granularity {
	case "daily":
		return start
	case "weekly":
		return start.AddDate(0, 0, 6)
	case "quarterly":
		return start.AddDate(0, 3, -1)
	case "yearly":
		return start.AddDate(1, 0, -1)
	default:
		return start.AddDate(0, 1, -1)
	}
}

func (r *reportRepo) CollectionsSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.CollectionSummaryRow, error) {
	w := newWhere("c.company_id", companyID)
	w.add("c.status = $%d", domain.CollectionStatusCompleted)
	if filters.From != nil {
		w.add("c.collection_date >= $%d", domain.DateOnly(*filters.From))
	}
	if filters.To != nil {
		w.add("c.collection_date <= $%d", domain.DateOnly(*filters.To))
	}
	if filters.BuildingID != nil {
		w.add("t.building_id = $%d", *filters.BuildingID)
	}

	query := fmt.Sprintf(`SELECT %s AS period_start, c.collection_mode,
		COUNT(*) AS count, COALESCE(SUM(c.amount), 0) AS total_amount
	FROM collections c
	JOIN tenancies t ON t.id = c.tenancy_id
	%s
	GROUP BY 1, 2
	ORDER BY 1, 2`, dateTruncExpr("c.collection_date", filters.Granularity), w.clause)

	var rows []domain.CollectionSummaryRow
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("reportRepo.CollectionsSummary: %w", err)
	}
	for i := range rows {
		rows[i].Period = formatPeriod(rows[i].PeriodStart, filters.Granularity)
		rows[i].PeriodEnd = periodEnd(rows[i].PeriodStart, filters.Granularity)
	}
	return rows, nil
}

func (r *reportRepo) Outstanding(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.OutstandingRow, int, error) {
	asOf := time.Now().UTC()
	if filters.AsOf != nil {
		asOf = *filters.AsOf
	}
	w := newWhere("t.company_id", companyID)
	asOfArg := w.bind(domain.DateOnly(asOf))
	if filters.BuildingID != nil {
		w.add("t.building_id = $%d", *filters.BuildingID)
	}

	base := fmt.Sprintf(`WITH inv AS (
		SELECT tenancy_id, SUM(total_amount) AS invoiced
		FROM invoices WHERE company_id = $1 AND invoice_date <= $%[1]d
		GROUP BY tenancy_id
	), col AS (
		SELECT tenancy_id, SUM(amount) AS collected
		FROM collections WHERE company_id = $1 AND status = 'completed' AND collection_date <= $%[1]d
		GROUP BY tenancy_id
	), due AS (
		SELECT tenancy_id, MIN(due_date) AS oldest_due_date FROM (
			SELECT tenancy_id, due_date FROM payment_schedules
			WHERE company_id = $1 AND status IN ('invoice', 'partially_paid')
			UNION ALL
			SELECT tenancy_id, due_date FROM additional_charges
			WHERE company_id = $1 AND status IN ('invoice', 'partially_paid')
		) open_items GROUP BY tenancy_id
	)
	SELECT t.id::text AS tenancy_id, t.contract_number, tn.full_name AS tenant_name,
		b.name AS building_name, u.unit_number,
		inv.invoiced, COALESCE(col.collected, 0) AS collected,
		inv.invoiced - COALESCE(col.collected, 0) AS balance,
		due.oldest_due_date
	FROM inv
	JOIN tenancies t ON t.id = inv.tenancy_id
	JOIN tenants tn ON tn.id = t.tenant_id
	JOIN buildings b ON b.id = t.building_id
	JOIN units u ON u.id = t.unit_id
	LEFT JOIN col ON col.tenancy_id = t.id
	LEFT JOIN due ON due.tenancy_id = t.id
	%s
	AND inv.invoiced - COALESCE(col.collected, 0) > 0`, asOfArg, w.clause)

	q := conn(ctx, r.db)
	var total int
	if err := q.GetContext(ctx, &total, "SELECT COUNT(*) FROM ("+base+") s", w.args...); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.Outstanding count: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}
	page := w.pageArgs(filters.Offset, limit)
	var rows []domain.OutstandingRow
	if err := q.SelectContext(ctx, &rows, base+" ORDER BY balance DESC, t.contract_number "+page, w.args...); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.Outstanding: %w", err)
	}
	return rows, total, nil
}

func (r *reportRepo) TaxSummary(ctx context.Context, companyID uuid.UUID, filters domain.ReportFilters) ([]domain.TaxSummaryRow, error) {
	w := newWhere("li.company_id", companyID)
	if filters.From != nil {
		w.add("li.due_date >= $%d", domain.DateOnly(*filters.From))
	}
	if filters.To != nil {
		w.add("li.due_date <= $%d", domain.DateOnly(*filters.To))
	}
	if filters.BuildingID != nil {
		w.add("t.building_id = $%d", *filters.BuildingID)
	}

	query := fmt.Sprintf(`SELECT %s AS period_start, ct.name AS charge_type_name,
		COALESCE(SUM(li.amount), 0) AS taxable_amount,
		COALESCE(SUM(li.tax), 0) AS tax_amount,
		COALESCE(SUM(li.total), 0) AS total_amount
	FROM (
		SELECT company_id, tenancy_id, charge_type_id, due_date, amount, tax, total
		FROM payment_schedules WHERE company_id = $1 AND status <> 'pending'
		UNION ALL
		SELECT company_id, tenancy_id, charge_type_id, due_date, amount, tax, total
		FROM additional_charges WHERE company_id = $1 AND status <> 'pending'
	) li
	JOIN charge_types ct ON ct.id = li.charge_type_id
	JOIN tenancies t ON t.id = li.tenancy_id
	%s
	GROUP BY 1, 2
	ORDER BY 1, 2`, dateTruncExpr("li.due_date", filters.Granularity), w.clause)

	var rows []domain.TaxSummaryRow
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("reportRepo.TaxSummary: %w", err)
	}
	for i := range rows {
		rows[i].Period = formatPeriod(rows[i].PeriodStart, filters.Granularity)
	}
	return rows, nil
}
