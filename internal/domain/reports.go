package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportFilters holds the common query parameters for financial reports.
type ReportFilters struct {
	From        *time.Time
	To          *time.Time
	AsOf        *time.Time
	BuildingID  *uuid.UUID
	Granularity string
	Offset      int
	Limit       int
}

// CollectionSummaryRow is money received in one period through one mode.
type CollectionSummaryRow struct {
	Period         string          `db:"-" json:"period"`
	PeriodStart    time.Time       `db:"period_start" json:"period_start"`
	PeriodEnd      time.Time       `db:"-" json:"period_end"`
	CollectionMode CollectionMode  `db:"collection_mode" json:"collection_mode"`
	Count          int             `db:"count" json:"count"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
}

// OutstandingRow is the receivable position of one tenancy.
type OutstandingRow struct {
	TenancyID      string          `db:"tenancy_id" json:"tenancy_id"`
	ContractNumber string          `db:"contract_number" json:"contract_number"`
	TenantName     string          `db:"tenant_name" json:"tenant_name"`
	BuildingName   string          `db:"building_name" json:"building_name"`
	UnitNumber     string          `db:"unit_number" json:"unit_number"`
	Invoiced       decimal.Decimal `db:"invoiced" json:"invoiced"`
	Collected      decimal.Decimal `db:"collected" json:"collected"`
	Balance        decimal.Decimal `db:"balance" json:"balance"`
	OldestDueDate  *time.Time      `db:"oldest_due_date" json:"oldest_due_date"`
}

// TaxSummaryRow is tax billed in one period for one charge type.
type TaxSummaryRow struct {
	Period         string          `db:"-" json:"period"`
	PeriodStart    time.Time       `db:"period_start" json:"period_start"`
	ChargeTypeName string          `db:"charge_type_name" json:"charge_type_name"`
	TaxableAmount  decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`
	TaxAmount      decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
}
