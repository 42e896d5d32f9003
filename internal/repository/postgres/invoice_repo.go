package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	inv.ID = uuid.New()
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO invoices (id, company_id, tenancy_id, invoice_number, invoice_date, start_date, end_date,
		 total_amount, status, source, remarks, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		inv.ID, inv.CompanyID, inv.TenancyID, inv.InvoiceNumber, inv.InvoiceDate, inv.StartDate, inv.EndDate,
		inv.TotalAmount, inv.Status, inv.Source, inv.Remarks, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) AttachItems(ctx context.Context, companyID, invoiceID uuid.UUID, items []domain.LineItem) error {
	q := conn(ctx, r.db)
	for i := range items {
		col, ok := invoiceLinkColumns[items[i].Kind]
		if !ok {
			return domain.NewValidationError("type", fmt.Sprintf("unknown line item type %q", items[i].Kind))
		}
		_, err := q.ExecContext(ctx,
			`INSERT INTO invoice_line_items (invoice_id, `+col+`)
			SELECT id, $2 FROM invoices WHERE id = $1 AND company_id = $3`,
			invoiceID, items[i].ID, companyID)
		if err != nil {
			if isDuplicate(err) {
				return domain.ErrLineItemNotPending
			}
			return fmt.Errorf("invoiceRepo.AttachItems: %w", err)
		}
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, companyID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return r.get(ctx, "invoiceRepo.GetByID",
		"SELECT * FROM invoices WHERE id = $1 AND company_id = $2", invoiceID, companyID)
}

func (r *invoiceRepo) GetForUpdate(ctx context.Context, companyID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return r.get(ctx, "invoiceRepo.GetForUpdate",
		"SELECT * FROM invoices WHERE id = $1 AND company_id = $2 FOR UPDATE", invoiceID, companyID)
}

func (r *invoiceRepo) get(ctx context.Context, op, query string, args ...interface{}) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := conn(ctx, r.db).GetContext(ctx, &inv, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, companyID uuid.UUID, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	where := []string{"company_id = $1"}
	args := []interface{}{companyID}
	if filter.TenancyID != nil {
		args = append(args, *filter.TenancyID)
		where = append(where, fmt.Sprintf("tenancy_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	q := conn(ctx, r.db)
	var total int
	if err := q.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices WHERE "+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM invoices WHERE %s ORDER BY invoice_date DESC, invoice_number DESC LIMIT $%d OFFSET $%d",
		clause, len(args)-1, len(args))
	var invoices []domain.Invoice
	if err := q.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, companyID, invoiceID uuid.UUID, status domain.InvoiceStatus) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3 AND company_id = $4",
		status, time.Now().UTC(), invoiceID, companyID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) LockNumbering(ctx context.Context, companyID uuid.UUID, base string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"SELECT pg_advisory_xact_lock(hashtext($1))", companyID.String()+":"+base)
	if err != nil {
		return fmt.Errorf("invoiceRepo.LockNumbering: %w", err)
	}
	return nil
}

func (r *invoiceRepo) LastNumber(ctx context.Context, companyID uuid.UUID, base string) (string, error) {
	var number string
	err := conn(ctx, r.db).GetContext(ctx, &number,
		`SELECT invoice_number FROM invoices
		WHERE company_id = $1 AND invoice_number LIKE $2 AND invoice_number ~ $3
		ORDER BY LENGTH(invoice_number) DESC, invoice_number DESC
		LIMIT 1`,
		companyID, base+"%", "^"+base+"[0-9]+$")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("invoiceRepo.LastNumber: %w", err)
	}
	return number, nil
}
