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
	"github.com/shopspring/decimal"

	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

type collectionRepo struct {
	db *sqlx.DB
}

// NewCollectionRepo creates a new PostgreSQL-backed CollectionRepository.
func NewCollectionRepo(db *sqlx.DB) port.CollectionRepository {
	return &collectionRepo{db: db}
}

func (r *collectionRepo) Create(ctx context.Context, c *domain.Collection) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO collections (id, company_id, invoice_id, tenancy_id, amount, collection_date,
		 collection_mode, status, bank_name, account_number, cheque_number, cheque_date,
		 transaction_reference, remarks, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		c.ID, c.CompanyID, c.InvoiceID, c.TenancyID, c.Amount, c.CollectionDate,
		c.CollectionMode, c.Status, c.BankName, c.AccountNumber, c.ChequeNumber, c.ChequeDate,
		c.TransactionReference, c.Remarks, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("collectionRepo.Create: %w", err)
	}
	return nil
}

func (r *collectionRepo) Update(ctx context.Context, c *domain.Collection) error {
	c.UpdatedAt = time.Now().UTC()
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE collections SET amount = $1, collection_date = $2, collection_mode = $3, status = $4,
		 bank_name = $5, account_number = $6, cheque_number = $7, cheque_date = $8,
		 transaction_reference = $9, remarks = $10, updated_at = $11
		WHERE id = $12 AND company_id = $13`,
		c.Amount, c.CollectionDate, c.CollectionMode, c.Status, c.BankName, c.AccountNumber,
		c.ChequeNumber, c.ChequeDate, c.TransactionReference, c.Remarks, c.UpdatedAt, c.ID, c.CompanyID)
	if err != nil {
		return fmt.Errorf("collectionRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCollectionNotFound
	}
	return nil
}

func (r *collectionRepo) GetByID(ctx context.Context, companyID, collectionID uuid.UUID) (*domain.Collection, error) {
	var c domain.Collection
	err := conn(ctx, r.db).GetContext(ctx, &c,
		"SELECT * FROM collections WHERE id = $1 AND company_id = $2", collectionID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCollectionNotFound
		}
		return nil, fmt.Errorf("collectionRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *collectionRepo) List(ctx context.Context, companyID uuid.UUID, filter domain.CollectionFilter, offset, limit int) ([]domain.Collection, int, error) {
	where := []string{"company_id = $1"}
	args := []interface{}{companyID}
	if filter.InvoiceID != nil {
		args = append(args, *filter.InvoiceID)
		where = append(where, fmt.Sprintf("invoice_id = $%d", len(args)))
	}
	if filter.TenancyID != nil {
		args = append(args, *filter.TenancyID)
		where = append(where, fmt.Sprintf("tenancy_id = $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	q := conn(ctx, r.db)
	var total int
	if err := q.GetContext(ctx, &total, "SELECT COUNT(*) FROM collections WHERE "+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("collectionRepo.List count: %w", err)
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM collections WHERE %s ORDER BY collection_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		clause, len(args)-1, len(args))
	var collections []domain.Collection
	if err := q.SelectContext(ctx, &collections, query, args...); err != nil {
		return nil, 0, fmt.Errorf("collectionRepo.List: %w", err)
	}
	return collections, total, nil
}

func (r *collectionRepo) Delete(ctx context.Context, companyID, collectionID uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"DELETE FROM collections WHERE id = $1 AND company_id = $2", collectionID, companyID)
	if err != nil {
		return fmt.Errorf("collectionRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCollectionNotFound
	}
	return nil
}

func (r *collectionRepo) SumCompleted(ctx context.Context, companyID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := conn(ctx, r.db).GetContext(ctx, &sum,
		`SELECT COALESCE(SUM(amount), 0) FROM collections
		WHERE company_id = $1 AND invoice_id = $2 AND status = $3`,
		companyID, invoiceID, domain.CollectionStatusCompleted)
	if err != nil {
		return decimal.Zero, fmt.Errorf("collectionRepo.SumCompleted: %w", err)
	}
	return sum, nil
}

type distributionRepo struct {
	db *sqlx.DB
}

// NewDistributionRepo creates a new PostgreSQL-backed DistributionRepository.
func NewDistributionRepo(db *sqlx.DB) port.DistributionRepository {
	return &distributionRepo{db: db}
}

func (r *distributionRepo) CreateBatch(ctx context.Context, dists []domain.PaymentDistribution) error {
	if len(dists) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range dists {
		if err := dists[i].Validate(); err != nil {
			return err
		}
		if dists[i].ID == uuid.Nil {
			dists[i].ID = uuid.New()
		}
		dists[i].CreatedAt = now
	}
	_, err := conn(ctx, r.db).NamedExecContext(ctx,
		`INSERT INTO payment_distributions (id, company_id, collection_id, payment_schedule_id,
		 additional_charge_id, amount, created_at)
		VALUES (:id, :company_id, :collection_id, :payment_schedule_id, :additional_charge_id, :amount, :created_at)`,
		dists)
	if err != nil {
		return fmt.Errorf("distributionRepo.CreateBatch: %w", err)
	}
	return nil
}

func (r *distributionRepo) ListByCollection(ctx context.Context, companyID, collectionID uuid.UUID) ([]domain.PaymentDistribution, error) {
	var dists []domain.PaymentDistribution
	err := conn(ctx, r.db).SelectContext(ctx, &dists,
		"SELECT * FROM payment_distributions WHERE company_id = $1 AND collection_id = $2 ORDER BY created_at",
		companyID, collectionID)
	if err != nil {
		return nil, fmt.Errorf("distributionRepo.ListByCollection: %w", err)
	}
	return dists, nil
}

func (r *distributionRepo) ListCompletedByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID, exclude *uuid.UUID) ([]domain.PaymentDistribution, error) {
	query := `SELECT pd.* FROM payment_distributions pd
		JOIN collections c ON c.id = pd.collection_id
		WHERE pd.company_id = $1 AND c.invoice_id = $2 AND c.status = $3`
	args := []interface{}{companyID, invoiceID, domain.CollectionStatusCompleted}
	if exclude != nil {
		query += " AND c.id <> $4"
		args = append(args, *exclude)
	}
	var dists []domain.PaymentDistribution
	if err := conn(ctx, r.db).SelectContext(ctx, &dists, query, args...); err != nil {
		return nil, fmt.Errorf("distributionRepo.ListCompletedByInvoice: %w", err)
	}
	return dists, nil
}

func (r *distributionRepo) DeleteByCollection(ctx context.Context, companyID, collectionID uuid.UUID) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"DELETE FROM payment_distributions WHERE company_id = $1 AND collection_id = $2", companyID, collectionID)
	if err != nil {
		return fmt.Errorf("distributionRepo.DeleteByCollection: %w", err)
	}
	return nil
}

type overpaymentRepo struct {
	db *sqlx.DB
}

// NewOverpaymentRepo creates a new PostgreSQL-backed OverpaymentRepository.
func NewOverpaymentRepo(db *sqlx.DB) port.OverpaymentRepository {
	return &overpaymentRepo{db: db}
}

func (r *overpaymentRepo) Create(ctx context.Context, op *domain.Overpayment) error {
	op.ID = uuid.New()
	now := time.Now().UTC()
	op.CreatedAt = now
	op.UpdatedAt = now
	if op.Status == "" {
		op.Status = domain.OverpaymentStatusAvailable
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO overpayments (id, company_id, tenancy_id, invoice_id, collection_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		op.ID, op.CompanyID, op.TenancyID, op.InvoiceID, op.CollectionID, op.Amount, op.Status,
		op.CreatedAt, op.UpdatedAt)
	if err != nil {
		return fmt.Errorf("overpaymentRepo.Create: %w", err)
	}
	return nil
}

func (r *overpaymentRepo) ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.Overpayment, error) {
	var ops []domain.Overpayment
	err := conn(ctx, r.db).SelectContext(ctx, &ops,
		"SELECT * FROM overpayments WHERE company_id = $1 AND tenancy_id = $2 ORDER BY created_at",
		companyID, tenancyID)
	if err != nil {
		return nil, fmt.Errorf("overpaymentRepo.ListByTenancy: %w", err)
	}
	return ops, nil
}

func (r *overpaymentRepo) ListByCollection(ctx context.Context, companyID, collectionID uuid.UUID) ([]domain.Overpayment, error) {
	var ops []domain.Overpayment
	err := conn(ctx, r.db).SelectContext(ctx, &ops,
		"SELECT * FROM overpayments WHERE company_id = $1 AND collection_id = $2 ORDER BY created_at",
		companyID, collectionID)
	if err != nil {
		return nil, fmt.Errorf("overpaymentRepo.ListByCollection: %w", err)
	}
	return ops, nil
}

func (r *overpaymentRepo) DeleteByCollection(ctx context.Context, companyID, collectionID uuid.UUID) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"DELETE FROM overpayments WHERE company_id = $1 AND collection_id = $2", companyID, collectionID)
	if err != nil {
		return fmt.Errorf("overpaymentRepo.DeleteByCollection: %w", err)
	}
	return nil
}
