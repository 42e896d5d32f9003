package domain

import "github.com/google/uuid"

// TenancyFilter narrows tenancy listings.
type TenancyFilter struct {
	Status     *TenancyStatus
	BuildingID *uuid.UUID
	TenantID   *uuid.UUID
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	TenancyID *uuid.UUID
	Status    *InvoiceStatus
}

// CollectionFilter narrows collection listings.
type CollectionFilter struct {
	InvoiceID *uuid.UUID
	TenancyID *uuid.UUID
}

// RefundFilter narrows refund listings.
type RefundFilter struct {
	TenancyID *uuid.UUID
}

// DueTenancy identifies a tenancy with pending items ready for automated invoicing.
type DueTenancy struct {
	CompanyID uuid.UUID `db:"company_id"`
	TenancyID uuid.UUID `db:"tenancy_id"`
}
