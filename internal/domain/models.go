package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Company is the isolation boundary; every other row carries its id.
type Company struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Currency  string    `db:"currency" json:"currency"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a company.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CompanyID    uuid.UUID `db:"company_id" json:"company_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Building groups rentable units.
type Building struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CompanyID   uuid.UUID `db:"company_id" json:"company_id"`
	Name        string    `db:"name" json:"name"`
	Address     string    `db:"address" json:"address"`
	CountryCode string    `db:"country_code" json:"country_code"`
	StateCode   string    `db:"state_code" json:"state_code"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Unit is a rentable space inside a building.
type Unit struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	CompanyID  uuid.UUID  `db:"company_id" json:"company_id"`
	BuildingID uuid.UUID  `db:"building_id" json:"building_id"`
	UnitNumber string     `db:"unit_number" json:"unit_number"`
	UnitType   string     `db:"unit_type" json:"unit_type"`
	Status     UnitStatus `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Tenant is the person or business renting a unit.
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CompanyID uuid.UUID `db:"company_id" json:"company_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	IDNumber  string    `db:"id_number" json:"id_number"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Tax is a time-bounded percentage rule attached to charge types.
type Tax struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	CompanyID      uuid.UUID       `db:"company_id" json:"company_id"`
	Kind           string          `db:"kind" json:"kind"`
	Percentage     decimal.Decimal `db:"percentage" json:"percentage"`
	CountryCode    *string         `db:"country_code" json:"country_code"`
	StateCode      *string         `db:"state_code" json:"state_code"`
	ApplicableFrom time.Time       `db:"applicable_from" json:"applicable_from"`
	ApplicableTo   *time.Time      `db:"applicable_to" json:"applicable_to"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// AppliesOn reports whether the rule is in force on the given date.
func (t *Tax) AppliesOn(on time.Time) bool {
	if !t.IsActive {
		return false
	}
	day := DateOnly(on)
	if DateOnly(t.ApplicableFrom).After(day) {
		return false
	}
	return t.ApplicableTo == nil || !DateOnly(*t.ApplicableTo).Before(day)
}

// ChargeType is a named category of money owed.
type ChargeType struct {
	ID            uuid.UUID           `db:"id" json:"id"`
	CompanyID     uuid.UUID           `db:"company_id" json:"company_id"`
	Name          string              `db:"name" json:"name"`
	Role          ChargeRole          `db:"role" json:"role"`
	VATPercentage decimal.NullDecimal `db:"vat_percentage" json:"vat_percentage"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updated_at"`

	Taxes []Tax `db:"-" json:"taxes,omitempty"`
}

// Tenancy is a rental contract between the company and a tenant for one unit.
type Tenancy struct {
	ID                  uuid.UUID           `db:"id" json:"id"`
	CompanyID           uuid.UUID           `db:"company_id" json:"company_id"`
	TenantID            uuid.UUID           `db:"tenant_id" json:"tenant_id"`
	BuildingID          uuid.UUID           `db:"building_id" json:"building_id"`
	UnitID              uuid.UUID           `db:"unit_id" json:"unit_id"`
	ContractNumber      string              `db:"contract_number" json:"contract_number"`
	StartDate           time.Time           `db:"start_date" json:"start_date"`
	EndDate             *time.Time          `db:"end_date" json:"end_date"`
	RentalMonths        int                 `db:"rental_months" json:"rental_months"`
	NoPayments          int                 `db:"no_payments" json:"no_payments"`
	RentPerFrequency    decimal.NullDecimal `db:"rent_per_frequency" json:"rent_per_frequency"`
	FirstRentDueOn      *time.Time          `db:"first_rent_due_on" json:"first_rent_due_on"`
	Deposit             decimal.NullDecimal `db:"deposit" json:"deposit"`
	Commission          decimal.NullDecimal `db:"commission" json:"commission"`
	TotalRentReceivable decimal.Decimal     `db:"total_rent_receivable" json:"total_rent_receivable"`
	Status              TenancyStatus       `db:"status" json:"status"`
	PreviousTenancyID   *uuid.UUID          `db:"previous_tenancy_id" json:"previous_tenancy_id"`
	Remarks             string              `db:"remarks" json:"remarks"`
	CreatedBy           uuid.UUID           `db:"created_by" json:"created_by"`
	CreatedAt           time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time           `db:"updated_at" json:"updated_at"`
}

// RecomputeReceivable refreshes the derived total_rent_receivable.
func (t *Tenancy) RecomputeReceivable() {
	if !t.RentPerFrequency.Valid || t.NoPayments <= 0 {
		t.TotalRentReceivable = decimal.Zero
		return
	}
	t.TotalRentReceivable = t.RentPerFrequency.Decimal.Mul(decimal.NewFromInt(int64(t.NoPayments)))
}

// LineItem is a payment schedule row or an additional charge; Kind says which table it lives in.
type LineItem struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	CompanyID    uuid.UUID       `db:"company_id" json:"company_id"`
	TenancyID    uuid.UUID       `db:"tenancy_id" json:"tenancy_id"`
	ChargeTypeID uuid.UUID       `db:"charge_type_id" json:"charge_type_id"`
	Reason       string          `db:"reason" json:"reason"`
	DueDate      time.Time       `db:"due_date" json:"due_date"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Tax          decimal.Decimal `db:"tax" json:"tax"`
	Total        decimal.Decimal `db:"total" json:"total"`
	Status       LineItemStatus  `db:"status" json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`

	Kind LineItemKind `db:"-" json:"kind"`
}

// RecomputeTotal keeps total = amount + tax.
func (l *LineItem) RecomputeTotal() {
	l.Total = l.Amount.Add(l.Tax)
}

// Invoice groups line items into one payable document.
type Invoice struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	CompanyID     uuid.UUID       `db:"company_id" json:"company_id"`
	TenancyID     uuid.UUID       `db:"tenancy_id" json:"tenancy_id"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	InvoiceDate   time.Time       `db:"invoice_date" json:"invoice_date"`
	StartDate     time.Time       `db:"start_date" json:"start_date"`
	EndDate       time.Time       `db:"end_date" json:"end_date"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status        InvoiceStatus   `db:"status" json:"status"`
	Source        InvoiceSource   `db:"source" json:"source"`
	Remarks       string          `db:"remarks" json:"remarks"`
	CreatedBy     *uuid.UUID      `db:"created_by" json:"created_by"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`

	Items []LineItem `db:"-" json:"items,omitempty"`
}

// Collection is an incoming payment recorded against an invoice.
type Collection struct {
	ID                   uuid.UUID        `db:"id" json:"id"`
	CompanyID            uuid.UUID        `db:"company_id" json:"company_id"`
	InvoiceID            uuid.UUID        `db:"invoice_id" json:"invoice_id"`
	TenancyID            uuid.UUID        `db:"tenancy_id" json:"tenancy_id"`
	Amount               decimal.Decimal  `db:"amount" json:"amount"`
	CollectionDate       time.Time        `db:"collection_date" json:"collection_date"`
	CollectionMode       CollectionMode   `db:"collection_mode" json:"collection_mode"`
	Status               CollectionStatus `db:"status" json:"status"`
	BankName             string           `db:"bank_name" json:"bank_name"`
	AccountNumber        string           `db:"account_number" json:"account_number"`
	ChequeNumber         string           `db:"cheque_number" json:"cheque_number"`
	ChequeDate           *time.Time       `db:"cheque_date" json:"cheque_date"`
	TransactionReference string           `db:"transaction_reference" json:"transaction_reference"`
	Remarks              string           `db:"remarks" json:"remarks"`
	CreatedBy            uuid.UUID        `db:"created_by" json:"created_by"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time        `db:"updated_at" json:"updated_at"`
}

// PaymentDistribution is the part of a collection applied to one line item.
// Exactly one of PaymentScheduleID and AdditionalChargeID is set.
type PaymentDistribution struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	CompanyID          uuid.UUID       `db:"company_id" json:"company_id"`
	CollectionID       uuid.UUID       `db:"collection_id" json:"collection_id"`
	PaymentScheduleID  *uuid.UUID      `db:"payment_schedule_id" json:"payment_schedule_id"`
	AdditionalChargeID *uuid.UUID      `db:"additional_charge_id" json:"additional_charge_id"`
	Amount             decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}

// NewDistribution builds a distribution row pointing at the table matching item.Kind.
func NewDistribution(companyID, collectionID uuid.UUID, item *LineItem, amount decimal.Decimal) PaymentDistribution {
	d := PaymentDistribution{
		ID:           uuid.New(),
		CompanyID:    companyID,
		CollectionID: collectionID,
		Amount:       amount,
	}
	id := item.ID
	if item.Kind == LineItemAdditionalCharge {
		d.AdditionalChargeID = &id
	} else {
		d.PaymentScheduleID = &id
	}
	return d
}

// Validate enforces the exactly-one-target invariant.
func (d *PaymentDistribution) Validate() error {
	if (d.PaymentScheduleID == nil) == (d.AdditionalChargeID == nil) {
		return NewValidationError("distribution", "exactly one of payment_schedule_id and additional_charge_id must be set")
	}
	return nil
}

// ItemID returns the referenced line item id and kind.
func (d *PaymentDistribution) ItemID() (uuid.UUID, LineItemKind) {
	if d.AdditionalChargeID != nil {
		return *d.AdditionalChargeID, LineItemAdditionalCharge
	}
	if d.PaymentScheduleID != nil {
		return *d.PaymentScheduleID, LineItemPaymentSchedule
	}
	return uuid.Nil, ""
}

// Overpayment holds money collected beyond an invoice's outstanding balance.
type Overpayment struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	CompanyID    uuid.UUID         `db:"company_id" json:"company_id"`
	TenancyID    uuid.UUID         `db:"tenancy_id" json:"tenancy_id"`
	InvoiceID    uuid.UUID         `db:"invoice_id" json:"invoice_id"`
	CollectionID uuid.UUID         `db:"collection_id" json:"collection_id"`
	Amount       decimal.Decimal   `db:"amount" json:"amount"`
	Status       OverpaymentStatus `db:"status" json:"status"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

// Refund is money returned to a tenant out of settled deposits and overpayments.
type Refund struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	CompanyID         uuid.UUID       `db:"company_id" json:"company_id"`
	TenancyID         uuid.UUID       `db:"tenancy_id" json:"tenancy_id"`
	InvoiceID         *uuid.UUID      `db:"invoice_id" json:"invoice_id"`
	RefundType        RefundType      `db:"refund_type" json:"refund_type"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod     RefundMethod    `db:"payment_method" json:"payment_method"`
	PaymentDate       time.Time       `db:"payment_date" json:"payment_date"`
	BankAccountHolder string          `db:"bank_account_holder" json:"bank_account_holder"`
	BankAccountNumber string          `db:"bank_account_number" json:"bank_account_number"`
	ChequeNumber      string          `db:"cheque_number" json:"cheque_number"`
	ChequeDate        *time.Time      `db:"cheque_date" json:"cheque_date"`
	Remarks           string          `db:"remarks" json:"remarks"`
	ProcessedBy       uuid.UUID       `db:"processed_by" json:"processed_by"`
	ProcessedAt       time.Time       `db:"processed_at" json:"processed_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// FileMeta stores metadata about a document uploaded for a tenancy.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	CompanyID    uuid.UUID  `db:"company_id" json:"company_id"`
	TenancyID    uuid.UUID  `db:"tenancy_id" json:"tenancy_id"`
	UploadedBy   uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
