package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentdesk/internal/domain"
)

// ChargeTypeRepository defines the contract for the charge catalog.
// Charge types returned by Get* and List carry their linked taxes.
type ChargeTypeRepository interface {
	Create(ctx context.Context, ct *domain.ChargeType) error
	Update(ctx context.Context, ct *domain.ChargeType) error
	GetByID(ctx context.Context, companyID, chargeTypeID uuid.UUID) (*domain.ChargeType, error)
	List(ctx context.Context, companyID uuid.UUID) ([]domain.ChargeType, error)
	// GetByRoles returns the company's rent, deposit and commission charge types.
	GetByRoles(ctx context.Context, companyID uuid.UUID) ([]domain.ChargeType, error)
	SetTaxes(ctx context.Context, companyID, chargeTypeID uuid.UUID, taxIDs []uuid.UUID) error
	// IsReferenced reports whether any schedule row or additional charge uses the charge type.
	IsReferenced(ctx context.Context, companyID, chargeTypeID uuid.UUID) (bool, error)
}

// TaxRepository defines the contract for tax rule persistence.
type TaxRepository interface {
	Create(ctx context.Context, tax *domain.Tax) error
	Update(ctx context.Context, tax *domain.Tax) error
	GetByID(ctx context.Context, companyID, taxID uuid.UUID) (*domain.Tax, error)
	GetByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]domain.Tax, error)
	List(ctx context.Context, companyID uuid.UUID) ([]domain.Tax, error)
}

// TenancyRepository defines the contract for tenancy persistence.
type TenancyRepository interface {
	Create(ctx context.Context, tenancy *domain.Tenancy) error
	Update(ctx context.Context, tenancy *domain.Tenancy) error
	GetByID(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error)
	// GetForUpdate locks the tenancy row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.TenancyFilter, offset, limit int) ([]domain.Tenancy, int, error)
	UpdateStatus(ctx context.Context, companyID, tenancyID uuid.UUID, status domain.TenancyStatus) error
	// ListDueForInvoicing spans all companies; it is only used by the recurring worker.
	ListDueForInvoicing(ctx context.Context, dueBy time.Time, limit int) ([]domain.DueTenancy, error)
}

// LineItemRepository persists payment schedule rows and additional charges.
// The kind argument (or item.Kind) selects the table.
type LineItemRepository interface {
	Create(ctx context.Context, item *domain.LineItem) error
	CreateBatch(ctx context.Context, items []domain.LineItem) error
	GetByID(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, id uuid.UUID) (*domain.LineItem, error)
	// GetByIDsForUpdate locks and returns the rows among ids that belong to the company.
	GetByIDsForUpdate(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, ids []uuid.UUID) ([]domain.LineItem, error)
	ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID, kind domain.LineItemKind) ([]domain.LineItem, error)
	ListByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) ([]domain.LineItem, error)
	ListPendingDue(ctx context.Context, companyID, tenancyID uuid.UUID, dueBy time.Time) ([]domain.LineItem, error)
	// ListDeposits returns the tenancy's line items whose charge type has the deposit role.
	ListDeposits(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.LineItem, error)
	CountUnsettled(ctx context.Context, companyID, tenancyID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, id uuid.UUID, status domain.LineItemStatus) error
	DeletePending(ctx context.Context, companyID, tenancyID uuid.UUID, kind domain.LineItemKind) (int64, error)
	Delete(ctx context.Context, companyID uuid.UUID, kind domain.LineItemKind, id uuid.UUID) error
}

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	AttachItems(ctx context.Context, companyID, invoiceID uuid.UUID, items []domain.LineItem) error
	GetByID(ctx context.Context, companyID, invoiceID uuid.UUID) (*domain.Invoice, error)
	// GetForUpdate locks the invoice row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, companyID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
	UpdateStatus(ctx context.Context, companyID, invoiceID uuid.UUID, status domain.InvoiceStatus) error
	// LockNumbering serializes number allocation for one company and number base.
	LockNumbering(ctx context.Context, companyID uuid.UUID, base string) error
	// LastNumber returns the highest number issued with base, or "" when none exists.
	LastNumber(ctx context.Context, companyID uuid.UUID, base string) (string, error)
}

// CollectionRepository defines the contract for collection persistence.
type CollectionRepository interface {
	Create(ctx context.Context, collection *domain.Collection) error
	Update(ctx context.Context, collection *domain.Collection) error
	GetByID(ctx context.Context, companyID, collectionID uuid.UUID) (*domain.Collection, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.CollectionFilter, offset, limit int) ([]domain.Collection, int, error)
	Delete(ctx context.Context, companyID, collectionID uuid.UUID) error
	SumCompleted(ctx context.Context, companyID, invoiceID uuid.UUID) (decimal.Decimal, error)
}

// DistributionRepository persists how collections were applied to line items.
type DistributionRepository interface {
	CreateBatch(ctx context.Context, dists []domain.PaymentDistribution) error
	ListByCollection(ctx context.Context, companyID, collectionID uuid.UUID) ([]domain.PaymentDistribution, error)
	// ListCompletedByInvoice returns distributions of the invoice's completed
	// collections, leaving out the collection identified by exclude.
	ListCompletedByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID, exclude *uuid.UUID) ([]domain.PaymentDistribution, error)
	DeleteByCollection(ctx context.Context, companyID, collectionID uuid.UUID) error
}

// OverpaymentRepository defines the contract for overpayment persistence.
type OverpaymentRepository interface {
	Create(ctx context.Context, op *domain.Overpayment) error
	ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.Overpayment, error)
	ListByCollection(ctx context.Context, companyID, collectionID uuid.UUID) ([]domain.Overpayment, error)
	DeleteByCollection(ctx context.Context, companyID, collectionID uuid.UUID) error
}

// RefundRepository defines the contract for refund persistence.
type RefundRepository interface {
	Create(ctx context.Context, refund *domain.Refund) error
	Update(ctx context.Context, refund *domain.Refund) error
	GetByID(ctx context.Context, companyID, refundID uuid.UUID) (*domain.Refund, error)
	ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID) ([]domain.Refund, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.RefundFilter, offset, limit int) ([]domain.Refund, int, error)
}
