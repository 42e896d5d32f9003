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

type chargeTypeRepo struct {
	db *sqlx.DB
}

// NewChargeTypeRepo creates a new PostgreSQL-backed ChargeTypeRepository.
func NewChargeTypeRepo(db *sqlx.DB) port.ChargeTypeRepository {
	return &chargeTypeRepo{db: db}
}

func (r *chargeTypeRepo) Create(ctx context.Context, ct *domain.ChargeType) error {
	ct.ID = uuid.New()
	now := time.Now().UTC()
	ct.CreatedAt = now
	ct.UpdatedAt = now

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO charge_types (id, company_id, name, role, vat_percentage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ct.ID, ct.CompanyID, ct.Name, ct.Role, ct.VATPercentage, ct.CreatedAt, ct.UpdatedAt)
	if err != nil {
		return chargeTypeWriteError("chargeTypeRepo.Create", err)
	}
	return nil
}

func (r *chargeTypeRepo) Update(ctx context.Context, ct *domain.ChargeType) error {
	ct.UpdatedAt = time.Now().UTC()
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE charge_types SET name = $1, role = $2, vat_percentage = $3, updated_at = $4
		WHERE id = $5 AND company_id = $6`,
		ct.Name, ct.Role, ct.VATPercentage, ct.UpdatedAt, ct.ID, ct.CompanyID)
	if err != nil {
		return chargeTypeWriteError("chargeTypeRepo.Update", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrChargeTypeNotFound
	}
	return nil
}

func chargeTypeWriteError(op string, err error) error {
	if isDuplicate(err) {
		if containsAny(err.Error(), "idx_charge_types_company_role") {
			return domain.ErrDuplicateRole
		}
		return domain.NewValidationError("name", "a charge type with this name already exists")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *chargeTypeRepo) GetByID(ctx context.Context, companyID, chargeTypeID uuid.UUID) (*domain.ChargeType, error) {
	var ct domain.ChargeType
	err := conn(ctx, r.db).GetContext(ctx, &ct,
		"SELECT * FROM charge_types WHERE id = $1 AND company_id = $2", chargeTypeID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChargeTypeNotFound
		}
		return nil, fmt.Errorf("chargeTypeRepo.GetByID: %w", err)
	}
	list := []domain.ChargeType{ct}
	if err := r.attachTaxes(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *chargeTypeRepo) List(ctx context.Context, companyID uuid.UUID) ([]domain.ChargeType, error) {
	var cts []domain.ChargeType
	err := conn(ctx, r.db).SelectContext(ctx, &cts,
		"SELECT * FROM charge_types WHERE company_id = $1 ORDER BY name", companyID)
	if err != nil {
		return nil, fmt.Errorf("chargeTypeRepo.List: %w", err)
	}
	if err := r.attachTaxes(ctx, cts); err != nil {
		return nil, err
	}
	return cts, nil
}

func (r *chargeTypeRepo) GetByRoles(ctx context.Context, companyID uuid.UUID) ([]domain.ChargeType, error) {
	var cts []domain.ChargeType
	err := conn(ctx, r.db).SelectContext(ctx, &cts,
		"SELECT * FROM charge_types WHERE company_id = $1 AND role <> $2",
		companyID, domain.ChargeRoleOther)
	if err != nil {
		return nil, fmt.Errorf("chargeTypeRepo.GetByRoles: %w", err)
	}
	if err := r.attachTaxes(ctx, cts); err != nil {
		return nil, err
	}
	return cts, nil
}

func (r *chargeTypeRepo) SetTaxes(ctx context.Context, companyID, chargeTypeID uuid.UUID, taxIDs []uuid.UUID) error {
	q := conn(ctx, r.db)
	if _, err := q.ExecContext(ctx,
		"DELETE FROM charge_type_taxes WHERE charge_type_id = $1", chargeTypeID); err != nil {
		return fmt.Errorf("chargeTypeRepo.SetTaxes delete: %w", err)
	}
	if len(taxIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		`INSERT INTO charge_type_taxes (charge_type_id, tax_id)
		SELECT ct.id, t.id FROM charge_types ct JOIN taxes t ON t.company_id = ct.company_id
		WHERE ct.id = ? AND ct.company_id = ? AND t.id IN (?)`,
		chargeTypeID, companyID, taxIDs)
	if err != nil {
		return fmt.Errorf("chargeTypeRepo.SetTaxes build: %w", err)
	}
	if _, err := q.ExecContext(ctx, q.Rebind(query), args...); err != nil {
		return fmt.Errorf("chargeTypeRepo.SetTaxes: %w", err)
	}
	return nil
}

func (r *chargeTypeRepo) IsReferenced(ctx context.Context, companyID, chargeTypeID uuid.UUID) (bool, error) {
	var used bool
	err := conn(ctx, r.db).GetContext(ctx, &used,
		`SELECT EXISTS (SELECT 1 FROM payment_schedules WHERE charge_type_id = $1 AND company_id = $2)
		 OR EXISTS (SELECT 1 FROM additional_charges WHERE charge_type_id = $1 AND company_id = $2)`,
		chargeTypeID, companyID)
	if err != nil {
		return false, fmt.Errorf("chargeTypeRepo.IsReferenced: %w", err)
	}
	return used, nil
}

type chargeTypeTaxRow struct {
	ChargeTypeID uuid.UUID `db:"charge_type_id"`
	domain.Tax
}

// attachTaxes loads the linked tax rules of every charge type in cts.
func (r *chargeTypeRepo) attachTaxes(ctx context.Context, cts []domain.ChargeType) error {
	if len(cts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(cts))
	index := make(map[uuid.UUID]int, len(cts))
	for i := range cts {
		ids[i] = cts[i].ID
		index[cts[i].ID] = i
	}

	query, args, err := sqlx.In(
		`SELECT ctt.charge_type_id, t.*
		FROM charge_type_taxes ctt JOIN taxes t ON t.id = ctt.tax_id
		WHERE ctt.charge_type_id IN (?)
		ORDER BY t.applicable_from, t.kind`, ids)
	if err != nil {
		return fmt.Errorf("chargeTypeRepo.attachTaxes build: %w", err)
	}
	q := conn(ctx, r.db)
	var rows []chargeTypeTaxRow
	if err := q.SelectContext(ctx, &rows, q.Rebind(query), args...); err != nil {
		return fmt.Errorf("chargeTypeRepo.attachTaxes: %w", err)
	}
	for _, row := range rows {
		i := index[row.ChargeTypeID]
		cts[i].Taxes = append(cts[i].Taxes, row.Tax)
	}
	return nil
}

type taxRepo struct {
	db *sqlx.DB
}

// NewTaxRepo creates a new PostgreSQL-backed TaxRepository.
func NewTaxRepo(db *sqlx.DB) port.TaxRepository {
	return &taxRepo{db: db}
}

func (r *taxRepo) Create(ctx context.Context, t *domain.Tax) error {
	t.ID = uuid.New()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO taxes (id, company_id, kind, percentage, country_code, state_code,
		 applicable_from, applicable_to, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.CompanyID, t.Kind, t.Percentage, t.CountryCode, t.StateCode,
		t.ApplicableFrom, t.ApplicableTo, t.IsActive, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("taxRepo.Create: %w", err)
	}
	return nil
}

func (r *taxRepo) Update(ctx context.Context, t *domain.Tax) error {
	t.UpdatedAt = time.Now().UTC()
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE taxes SET kind = $1, percentage = $2, country_code = $3, state_code = $4,
		 applicable_from = $5, applicable_to = $6, is_active = $7, updated_at = $8
		WHERE id = $9 AND company_id = $10`,
		t.Kind, t.Percentage, t.CountryCode, t.StateCode, t.ApplicableFrom, t.ApplicableTo,
		t.IsActive, t.UpdatedAt, t.ID, t.CompanyID)
	if err != nil {
		return fmt.Errorf("taxRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTaxNotFound
	}
	return nil
}

func (r *taxRepo) GetByID(ctx context.Context, companyID, taxID uuid.UUID) (*domain.Tax, error) {
	var t domain.Tax
	err := conn(ctx, r.db).GetContext(ctx, &t,
		"SELECT * FROM taxes WHERE id = $1 AND company_id = $2", taxID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaxNotFound
		}
		return nil, fmt.Errorf("taxRepo.GetByID: %w", err)
	}
	return &t, nil
}

func (r *taxRepo) GetByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]domain.Tax, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM taxes WHERE company_id = ? AND id IN (?)", companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("taxRepo.GetByIDs build: %w", err)
	}
	q := conn(ctx, r.db)
	var taxes []domain.Tax
	if err := q.SelectContext(ctx, &taxes, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("taxRepo.GetByIDs: %w", err)
	}
	return taxes, nil
}

func (r *taxRepo) List(ctx context.Context, companyID uuid.UUID) ([]domain.Tax, error) {
	var taxes []domain.Tax
	err := conn(ctx, r.db).SelectContext(ctx, &taxes,
		"SELECT * FROM taxes WHERE company_id = $1 ORDER BY kind, applicable_from DESC", companyID)
	if err != nil {
		return nil, fmt.Errorf("taxRepo.List: %w", err)
	}
	return taxes, nil
}
