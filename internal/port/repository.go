package port

import (
	"context"

	"github.com/google/uuid"

	"rentdesk/internal/domain"
)

// CompanyRepository defines the contract for company persistence.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Company, error)
	Update(ctx context.Context, company *domain.Company) error
}

// UserRepository defines the contract for user persistence.
// All query methods include companyID to enforce isolation at the data layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, companyID, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, companyID uuid.UUID, email string) (*domain.User, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, companyID, userID uuid.UUID) error
}

// FileMetaRepository defines the contract for tenancy document metadata.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, companyID, fileID uuid.UUID) (*domain.FileMeta, error)
	ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
	UpdateStatus(ctx context.Context, companyID, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, companyID, fileID uuid.UUID) error
}

// BuildingRepository defines the contract for building persistence.
type BuildingRepository interface {
	Create(ctx context.Context, building *domain.Building) error
	GetByID(ctx context.Context, companyID, buildingID uuid.UUID) (*domain.Building, error)
	List(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Building, int, error)
}

// UnitRepository defines the contract for unit persistence.
type UnitRepository interface {
	Create(ctx context.Context, unit *domain.Unit) error
	GetByID(ctx context.Context, companyID, unitID uuid.UUID) (*domain.Unit, error)
	ListByBuilding(ctx context.Context, companyID, buildingID uuid.UUID, offset, limit int) ([]domain.Unit, int, error)
	UpdateStatus(ctx context.Context, companyID, unitID uuid.UUID, status domain.UnitStatus) error
}

// TenantRepository defines the contract for renter persistence.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	GetByID(ctx context.Context, companyID, tenantID uuid.UUID) (*domain.Tenant, error)
	List(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Tenant, int, error)
}
