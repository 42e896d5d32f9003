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

type tenancyRepo struct {
	db *sqlx.DB
}

// NewTenancyRepo creates a new PostgreSQL-backed TenancyRepository.
func NewTenancyRepo(db *sqlx.DB) port.TenancyRepository {
	return &tenancyRepo{db: db}
}

func (r *tenancyRepo) Create(ctx context.Context, t *domain.Tenancy) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.RecomputeReceivable()

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO tenancies (id, company_id, tenant_id, building_id, unit_id, contract_number,
		 start_date, end_date, rental_months, no_payments, rent_per_frequency, first_rent_due_on,
		 deposit, commission, total_rent_receivable, status, previous_tenancy_id, remarks,
		 created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		t.ID, t.CompanyID, t.TenantID, t.BuildingID, t.UnitID, t.ContractNumber,
		t.StartDate, t.EndDate, t.RentalMonths, t.NoPayments, t.RentPerFrequency, t.FirstRentDueOn,
		t.Deposit, t.Commission, t.TotalRentReceivable, t.Status, t.PreviousTenancyID, t.Remarks,
		t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return domain.NewValidationError("contract_number", "already used by another tenancy")
		}
		return fmt.Errorf("tenancyRepo.Create: %w", err)
	}
	return nil
}

func (r *tenancyRepo) Update(ctx context.Context, t *domain.Tenancy) error {
	t.UpdatedAt = time.Now().UTC()
	t.RecomputeReceivable()

	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE tenancies SET contract_number = $1, start_date = $2, end_date = $3, rental_months = $4,
		 no_payments = $5, rent_per_frequency = $6, first_rent_due_on = $7, deposit = $8,
		 commission = $9, total_rent_receivable = $10, status = $11, remarks = $12, updated_at = $13
		WHERE id = $14 AND company_id = $15`,
		t.ContractNumber, t.StartDate, t.EndDate, t.RentalMonths, t.NoPayments, t.RentPerFrequency,
		t.FirstRentDueOn, t.Deposit, t.Commission, t.TotalRentReceivable, t.Status, t.Remarks,
		t.UpdatedAt, t.ID, t.CompanyID)
	if err != nil {
		if isDuplicate(err) {
			return domain.NewValidationError("contract_number", "already used by another tenancy")
		}
		return fmt.Errorf("tenancyRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTenancyNotFound
	}
	return nil
}

func (r *tenancyRepo) GetByID(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error) {
	return r.get(ctx, "tenancyRepo.GetByID",
		"SELECT * FROM tenancies WHERE id = $1 AND company_id = $2", tenancyID, companyID)
}

func (r *tenancyRepo) GetForUpdate(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error) {
	return r.get(ctx, "tenancyRepo.GetForUpdate",
		"SELECT * FROM tenancies WHERE id = $1 AND company_id = $2 FOR UPDATE", tenancyID, companyID)
}

func (r *tenancyRepo) get(ctx context.Context, op, query string, args ...interface{}) (*domain.Tenancy, error) {
	var t domain.Tenancy
	if err := conn(ctx, r.db).GetContext(ctx, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTenancyNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

func (r *tenancyRepo) List(ctx context.Context, companyID uuid.UUID, filter domain.TenancyFilter, offset, limit int) ([]domain.Tenancy, int, error) {
	where := []string{"company_id = $1"}
	args := []interface{}{companyID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.BuildingID != nil {
		args = append(args, *filter.BuildingID)
		where = append(where, fmt.Sprintf("building_id = $%d", len(args)))
	}
	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		where = append(where, fmt.Sprintf("tenant_id = $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	q := conn(ctx, r.db)
	var total int
	if err := q.GetContext(ctx, &total, "SELECT COUNT(*) FROM tenancies WHERE "+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("tenancyRepo.List count: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM tenancies WHERE %s ORDER BY start_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		clause, len(args)-1, len(args))
	var tenancies []domain.Tenancy
	if err := q.SelectContext(ctx, &tenancies, query, args...); err != nil {
		return nil, 0, fmt.Errorf("tenancyRepo.List: %w", err)
	}
	return tenancies, total, nil
}

func (r *tenancyRepo) UpdateStatus(ctx context.Context, companyID, tenancyID uuid.UUID, status domain.TenancyStatus) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE tenancies SET status = $1, updated_at = $2 WHERE id = $3 AND company_id = $4",
		status, time.Now().UTC(), tenancyID, companyID)
	if err != nil {
		return fmt.Errorf("tenancyRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTenancyNotFound
	}
	return nil
}

func (r *tenancyRepo) ListDueForInvoicing(ctx context.Context, dueBy time.Time, limit int) ([]domain.DueTenancy, error) {
	var due []domain.DueTenancy
	err := conn(ctx, r.db).SelectContext(ctx, &due,
		`SELECT t.company_id, t.id AS tenancy_id
		FROM tenancies t
		JOIN companies c ON c.id = t.company_id AND c.is_active
		WHERE t.status IN ($1, $2)
		  AND (EXISTS (SELECT 1 FROM payment_schedules ps
		               WHERE ps.tenancy_id = t.id AND ps.status = $3 AND ps.due_date <= $4)
		    OR EXISTS (SELECT 1 FROM additional_charges ac
		               WHERE ac.tenancy_id = t.id AND ac.status = $3 AND ac.due_date <= $4))
		ORDER BY t.company_id, t.id
		LIMIT $5`,
		domain.TenancyStatusActive, domain.TenancyStatusRenewed,
		domain.LineItemStatusPending, domain.DateOnly(dueBy), limit)
	if err != nil {
		return nil, fmt.Errorf("tenancyRepo.ListDueForInvoicing: %w", err)
	}
	return due, nil
}
