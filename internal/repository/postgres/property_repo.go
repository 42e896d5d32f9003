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

type buildingRepo struct {
	db *sqlx.DB
}

// NewBuildingRepo creates a new PostgreSQL-backed BuildingRepository.
func NewBuildingRepo(db *sqlx.DB) port.BuildingRepository {
	return &buildingRepo{db: db}
}

func (r *buildingRepo) Create(ctx context.Context, b *domain.Building) error {
	b.ID = uuid.New()
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO buildings (id, company_id, name, address, country_code, state_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.CompanyID, b.Name, b.Address, b.CountryCode, b.StateCode, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("buildingRepo.Create: %w", err)
	}
	return nil
}

func (r *buildingRepo) GetByID(ctx context.Context, companyID, buildingID uuid.UUID) (*domain.Building, error) {
	var b domain.Building
	err := conn(ctx, r.db).GetContext(ctx, &b,
		"SELECT * FROM buildings WHERE id = $1 AND company_id = $2", buildingID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBuildingNotFound
		}
		return nil, fmt.Errorf("buildingRepo.GetByID: %w", err)
	}
	return &b, nil
}

func (r *buildingRepo) List(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Building, int, error) {
	q := conn(ctx, r.db)
	var total int
	if err := q.GetContext(ctx, &total, "SELECT COUNT(*) FROM buildings WHERE company_id = $1", companyID); err != nil {
		return nil, 0, fmt.Errorf("buildingRepo.List count: %w", err)
	}
	var buildings []domain.Building
	err := q.SelectContext(ctx, &buildings,
		"SELECT * FROM buildings WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3",
		companyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("buildingRepo.List: %w", err)
	}
	return buildings, total, nil
}

type unitRepo struct {
	db *sqlx.DB
}

// NewUnitRepo creates a new PostgreSQL-backed UnitRepository.
func NewUnitRepo(db *sqlx.DB) port.UnitRepository {
	return &unitRepo{db: db}
}

func (r *unitRepo) Create(ctx context.Context, u *domain.Unit) error {
	u.ID = uuid.New()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Status == "" {
		u.Status = domain.UnitStatusVacant
	}

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO units (id, company_id, building_id, unit_number, unit_type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.CompanyID, u.BuildingID, u.UnitNumber, u.UnitType, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return domain.NewValidationError("unit_number", "already exists in this building")
		}
		return fmt.Errorf("unitRepo.Create: %w", err)
	}
	return nil
}

func (r *unitRepo) GetByID(ctx context.Context, companyID, unitID uuid.UUID) (*domain.Unit, error) {
	var u domain.Unit
	err := conn(ctx, r.db).GetContext(ctx, &u,
		"SELECT * FROM units WHERE id = $1 AND company_id = $2", unitID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnitNotFound
		}
		return nil, fmt.Errorf("unitRepo.GetByID: %w", err)
	}
	return &u, nil
}

func (r *unitRepo) ListByBuilding(ctx context.Context, companyID, buildingID uuid.UUID, offset, limit int) ([]domain.Unit, int, error) {
	q := conn(ctx, r.db)
	var total int
	err := q.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM units WHERE company_id = $1 AND building_id = $2", companyID, buildingID)
	if err != nil {
		return nil, 0, fmt.Errorf("unitRepo.ListByBuilding count: %w", err)
	}
	var units []domain.Unit
	err = q.SelectContext(ctx, &units,
		`SELECT * FROM units WHERE company_id = $1 AND building_id = $2
		 ORDER BY unit_number LIMIT $3 OFFSET $4`,
		companyID, buildingID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("unitRepo.ListByBuilding: %w", err)
	}
	return units, total, nil
}

func (r *unitRepo) UpdateStatus(ctx context.Context, companyID, unitID uuid.UUID, status domain.UnitStatus) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE units SET status = $1, updated_at = $2 WHERE id = $3 AND company_id = $4",
		status, time.Now().UTC(), unitID, companyID)
	if err != nil {
		return fmt.Errorf("unitRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

type tenantRepo struct {
	db *sqlx.DB
}

// NewTenantRepo creates a new PostgreSQL-backed TenantRepository.
func NewTenantRepo(db *sqlx.DB) port.TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	t.ID = uuid.New()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO tenants (id, company_id, full_name, email, phone, id_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.CompanyID, t.FullName, t.Email, t.Phone, t.IDNumber, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("tenantRepo.Create: %w", err)
	}
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, companyID, tenantID uuid.UUID) (*domain.Tenant, error) {
	var t domain.Tenant
	err := conn(ctx, r.db).GetContext(ctx, &t,
		"SELECT * FROM tenants WHERE id = $1 AND company_id = $2", tenantID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenantRepo.GetByID: %w", err)
	}
	return &t, nil
}

func (r *tenantRepo) List(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Tenant, int, error) {
	q := conn(ctx, r.db)
	var total int
	if err := q.GetContext(ctx, &total, "SELECT COUNT(*) FROM tenants WHERE company_id = $1", companyID); err != nil {
		return nil, 0, fmt.Errorf("tenantRepo.List count: %w", err)
	}
	var tenants []domain.Tenant
	err := q.SelectContext(ctx, &tenants,
		"SELECT * FROM tenants WHERE company_id = $1 ORDER BY full_name LIMIT $2 OFFSET $3",
		companyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("tenantRepo.List: %w", err)
	}
	return tenants, total, nil
}
