package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

var lineItemTables = map[domain.LineItemKind]string{
	domain.LineItemPaymentSchedule:  "payment_schedules",
	domain.LineItemAdditionalCharge: "additional_charges",
}

// invoiceLinkColumns maps each kind to its column in invoice_line_items.
var invoiceLinkColumns = map[domain.LineItemKind]string{
	domain.LineItemPaymentSchedule:  "payment_schedule_id",
	domain.LineItemAdditionalCharge: "additional_charge_id",
}

func lineItemTable(kind domain.LineItemKind) (string, error) {
	table, ok := lineItemTables[kind]
	if !ok {
		return "", domain.NewValidationError("type", fmt.Sprintf("unknown line item type %q", kind))
	}
	return table, nil
}

func setKind(items []domain.LineItem, kind domain.LineItemKind) {
	for i := range items {
		items[i].Kind = kind
	}
}

type lineItemRepo struct {
	db *sqlx.DB
}

// NewLineItemRepo creates a PostgreSQL-backed LineItemRepository over the
// payment_schedules and additional_charges tables.
func NewLineItemRepo(db *sqlx.DB) port.LineItemRepository {
	return &lineItemRepo{db: db}
}

func (r *lineItemRepo) Create(ctx context.Context, item *domain.LineItem) error {
	return r.CreateBatch(ctx, []domain.LineItem{*item})
}

func (r *lineItemRepo) CreateBatch(ctx context.Context, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UTC()
	byKind := make(map[domain.LineItemKind][]domain.LineItem, 2)
	for i := range items {
		it := items[i]
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		it.CreatedAt = now
		it.UpdatedAt = now
		it.RecomputeTotal()
		byKind[it.Kind] = append(byKind[it.Kind], it)
	}

	q := conn(ctx, r.db)
	for kind, rows := range byKind {
		table, err := lineItemTable(kind)
		if err != nil {
			return err
		}
		query := `INSERT INTO ` + table + ` (id, company_id, tenancy_id, charge_type_id, reason, due_date,
			amount, tax, total, status, created_at, updated_at)
			VALUES (:id, :company_id, :tenancy_id, :charge_type_id, :reason, :due_date,
			:amount, :tax, :total, :status, :created_at, :updated_at)`
		if _, err := q.NamedExecContext(ctx, query, rows); err != nil {
			return fmt.Errorf("lineItemRepo.CreateBatch %s: %w", table, err)
		}
	}
	return nil
}

func (r *lineItemRepo) GetByID(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, id uuid.UUID) (*domain.LineItem, error) {
	table, err := lineItemTable(kind)
	if err != nil {
		return nil, err
	}
	var item domain.LineItem
	err = conn(ctx, r.db).GetContext(ctx, &item,
		"SELECT * FROM "+table+" WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLineItemNotFound
		}
		return nil, fmt.Errorf("lineItemRepo.GetByID: %w", err)
	}
	item.Kind = kind
	return &item, nil
}

func (r *lineItemRepo) GetByIDsForUpdate(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, ids []uuid.UUID) ([]domain.LineItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	table, err := lineItemTable(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := sqlx.In(
		"SELECT * FROM "+table+" WHERE company_id = ? AND id IN (?) ORDER BY due_date, created_at FOR UPDATE",
		companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("lineItemRepo.GetByIDsForUpdate build: %w", err)
	}
	q := conn(ctx, r.db)
	var items []domain.LineItem
	if err := q.SelectContext(ctx, &items, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lineItemRepo.GetByIDsForUpdate: %w", err)
	}
	setKind(items, kind)
	return items, nil
}

func (r *lineItemRepo) ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID, kind domain.LineItemKind) ([]domain.LineItem, error) {
	table, err := lineItemTable(kind)
	if err != nil {
		return nil, err
	}
	var items []domain.LineItem
	err = conn(ctx, r.db).SelectContext(ctx, &items,
		"SELECT * FROM "+table+" WHERE company_id = $1 AND tenancy_id = $2 ORDER BY due_date, created_at",
		companyID, tenancyID)
	if err != nil {
		return nil, fmt.Errorf("lineItemRepo.ListByTenancy: %w", err)
	}
	setKind(items, kind)
	return items, nil
}

func (r *lineItemRepo) ListByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) ([]domain.LineItem, error) {
	var out []domain.LineItem
	for _, kind := range []domain.LineItemKind{domain.LineItemPaymentSchedule, domain.LineItemAdditionalCharge} {
		var items []domain.LineItem
		err := conn(ctx, r.db).SelectContext(ctx, &items,
			`SELECT li.* FROM `+lineItemTables[kind]+` li
			JOIN invoice_line_items il ON il.`+invoiceLinkColumns[kind]+` = li.id
			WHERE il.invoice_id = $1 AND li.company_id = $2
			ORDER BY li.due_date, li.created_at`,
			invoiceID, companyID)
		if err != nil {
			return nil, fmt.Errorf("lineItemRepo.ListByInvoice %s: %w", kind, err)
		}
		setKind(items, kind)
		out = append(out, items...)
	}
	return out, nil
}

func (r *lineItemRepo) ListPendingDue(ctx context.Context, companyID, tenancyID uuid.UUID, dueBy time.Time) ([]domain.LineItem, error) {
	var out []domain.LineItem
	for _, kind := range []domain.LineItemKind{domain.LineItemPaymentSchedule, domain.LineItemAdditionalCharge} {
		var items []domain.LineItem
		err := conn(ctx, r.db).SelectContext(ctx, &items,
			`SELECT * FROM `+lineItemTables[kind]+`
			WHERE company_id = $1 AND tenancy_id = $2 AND status = $3 AND due_date <= $4
			ORDER BY due_date, created_at`,
			companyID, tenancyID, domain.LineItemStatusPending, domain.DateOnly(dueBy))
		if err != nil {
			return nil, fmt.Errorf("lineItemRepo.ListPendingDue %s: %w", kind, err)
		}
		setKind(items, kind)
		out = append(out, items...)
	}
	return out, nil
}

func (r *lineItemRepo) ListDeposits(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.LineItem, error) {
	var out []domain.LineItem
	for _, kind := range []domain.LineItemKind{domain.LineItemPaymentSchedule, domain.LineItemAdditionalCharge} {
		var items []domain.LineItem
		err := conn(ctx, r.db).SelectContext(ctx, &items,
			`SELECT li.* FROM `+lineItemTables[kind]+` li
			JOIN charge_types ct ON ct.id = li.charge_type_id
			WHERE li.company_id = $1 AND li.tenancy_id = $2 AND ct.role = $3
			ORDER BY li.due_date`,
			companyID, tenancyID, domain.ChargeRoleDeposit)
		if err != nil {
			return nil, fmt.Errorf("lineItemRepo.ListDeposits %s: %w", kind, err)
		}
		setKind(items, kind)
		out = append(out, items...)
	}
	return out, nil
}

func (r *lineItemRepo) CountUnsettled(ctx context.Context, companyID, tenancyID uuid.UUID) (int, error) {
	var n int
	err := conn(ctx, r.db).GetContext(ctx, &n,
		`SELECT
		 (SELECT COUNT(*) FROM payment_schedules WHERE company_id = $1 AND tenancy_id = $2 AND status <> $3) +
		 (SELECT COUNT(*) FROM additional_charges WHERE company_id = $1 AND tenancy_id = $2 AND status <> $3)`,
		companyID, tenancyID, domain.LineItemStatusPaid)
	if err != nil {
		return 0, fmt.Errorf("lineItemRepo.CountUnsettled: %w", err)
	}
	return n, nil
}

func (r *lineItemRepo) UpdateStatus(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, id uuid.UUID, status domain.LineItemStatus) error {
	table, err := lineItemTable(kind)
	if err != nil {
		return err
	}
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE "+table+" SET status = $1, updated_at = $2 WHERE id = $3 AND company_id = $4",
		status, time.Now().UTC(), id, companyID)
	if err != nil {
		return fmt.Errorf("lineItemRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrLineItemNotFound
	}
	return nil
}

func (r *lineItemRepo) DeletePending(ctx context.Context, companyID, tenancyID uuid.UUID, kind domain.LineItemKind) (int64, error) {
	table, err := lineItemTable(kind)
	if err != nil {
		return 0, err
	}
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"DELETE FROM "+table+" WHERE company_id = $1 AND tenancy_id = $2 AND status = $3",
		companyID, tenancyID, domain.LineItemStatusPending)
	if err != nil {
		return 0, fmt.Errorf("lineItemRepo.DeletePending: %w", err)
	}
	return result.RowsAffected()
}

func (r *lineItemRepo) Delete(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, id uuid.UUID) error {
	table, err := lineItemTable(kind)
	if err != nil {
		return err
	}
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"DELETE FROM "+table+" WHERE id = $1 AND company_id = $2 AND status = $3",
		id, companyID, domain.LineItemStatusPending)
	if err != nil {
		return fmt.Errorf("lineItemRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrLineItemNotPending
	}
	return nil
}
