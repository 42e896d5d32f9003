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

type refundRepo struct {
	db *sqlx.DB
}

// NewRefundRepo creates a new PostgreSQL-backed RefundRepository.
func NewRefundRepo(db *sqlx.DB) port.RefundRepository {
	return &refundRepo{db: db}
}

func (r *refundRepo) Create(ctx context.Context, rf *domain.Refund) error {
	rf.ID = uuid.New()
	now := time.Now().UTC()
	rf.ProcessedAt = now
	rf.UpdatedAt = now

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO refunds (id, company_id, tenancy_id, invoice_id, refund_type, amount, payment_method,
		 payment_date, bank_account_holder, bank_account_number, cheque_number, cheque_date, remarks,
		 processed_by, processed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		rf.ID, rf.CompanyID, rf.TenancyID, rf.InvoiceID, rf.RefundType, rf.Amount, rf.PaymentMethod,
		rf.PaymentDate, rf.BankAccountHolder, rf.BankAccountNumber, rf.ChequeNumber, rf.ChequeDate,
		rf.Remarks, rf.ProcessedBy, rf.ProcessedAt, rf.UpdatedAt)
	if err != nil {
		return fmt.Errorf("refundRepo.Create: %w", err)
	}
	return nil
}

func (r *refundRepo) Update(ctx context.Context, rf *domain.Refund) error {
	rf.UpdatedAt = time.Now().UTC()
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE refunds SET refund_type = $1, amount = $2, payment_method = $3, payment_date = $4,
		 bank_account_holder = $5, bank_account_number = $6, cheque_number = $7, cheque_date = $8,
		 remarks = $9, updated_at = $10
		WHERE id = $11 AND company_id = $12`,
		rf.RefundType, rf.Amount, rf.PaymentMethod, rf.PaymentDate, rf.BankAccountHolder,
		rf.BankAccountNumber, rf.ChequeNumber, rf.ChequeDate, rf.Remarks, rf.UpdatedAt, rf.ID, rf.CompanyID)
	if err != nil {
		return fmt.Errorf("refundRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRefundNotFound
	}
	return nil
}

func (r *refundRepo) GetByID(ctx context.Context, companyID, refundID uuid.UUID) (*domain.Refund, error) {
	var rf domain.Refund
	err := conn(ctx, r.db).GetContext(ctx, &rf,
		"SELECT * FROM refunds WHERE id = $1 AND company_id = $2", refundID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRefundNotFound
		}
		return nil, fmt.Errorf("refundRepo.GetByID: %w", err)
	}
	return &rf, nil
}

func (r *refundRepo) ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.Refund, error) {
	var refunds []domain.Refund
	err := conn(ctx, r.db).SelectContext(ctx, &refunds,
		"SELECT * FROM refunds WHERE company_id = $1 AND tenancy_id = $2 ORDER BY payment_date, processed_at",
		companyID, tenancyID)
	if err != nil {
		return nil, fmt.Errorf("refundRepo.ListByTenancy: %w", err)
	}
	return refunds, nil
}

func (r *refundRepo) List(ctx context.Context, companyID uuid.UUID, filter domain.RefundFilter, offset, limit int) ([]domain.Refund, int, error) {
	where := []string{"company_id = $1"}
	args := []interface{}{companyID}
	if filter.TenancyID != nil {
		args = append(args, *filter.TenancyID)
		where = append(where, fmt.Sprintf("tenancy_id = $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	q := conn(ctx, r.db)
	var total int
	if err := q.GetContext(ctx, &total, "SELECT COUNT(*) FROM refunds WHERE "+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("refundRepo.List count: %w", err)
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM refunds WHERE %s ORDER BY payment_date DESC, processed_at DESC LIMIT $%d OFFSET $%d",
		clause, len(args)-1, len(args))
	var refunds []domain.Refund
	if err := q.SelectContext(ctx, &refunds, query, args...); err != nil {
		return nil, 0, fmt.Errorf("refundRepo.List: %w", err)
	}
	return refunds, total, nil
}
