package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
)

// UserRole defines the role hierarchy within a company.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleManager    UserRole = "manager"
	RoleAccountant UserRole = "accountant"
	RoleViewer     UserRole = "viewer"
)

// ValidUserRoles is the set of assignable roles.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:      true,
	RoleManager:    true,
	RoleAccountant: true,
	RoleViewer:     true,
}

// PropertyWriters may manage the catalog, buildings, renters and tenancies.
var PropertyWriters = []UserRole{RoleAdmin, RoleManager}

// FinanceWriters may issue invoices, record collections and refunds.
var FinanceWriters = []UserRole{RoleAdmin, RoleManager, RoleAccountant}

// UnitStatus tracks whether a unit is let.
type UnitStatus string

const (
	UnitStatusVacant   UnitStatus = "vacant"
	UnitStatusOccupied UnitStatus = "occupied"
)

// ChargeRole marks the charge types the schedule generator looks for.
type ChargeRole string

const (
	ChargeRoleRent       ChargeRole = "rent"
	ChargeRoleDeposit    ChargeRole = "deposit"
	ChargeRoleCommission ChargeRole = "commission"
	ChargeRoleOther      ChargeRole = "other"
)

// ValidChargeRoles is the set of accepted charge roles.
var ValidChargeRoles = map[ChargeRole]bool{
	ChargeRoleRent:       true,
	ChargeRoleDeposit:    true,
	ChargeRoleCommission: true,
	ChargeRoleOther:      true,
}

// TenancyStatus is the lifecycle of a tenancy contract.
type TenancyStatus string

const (
	TenancyStatusPending    TenancyStatus = "pending"
	TenancyStatusActive     TenancyStatus = "active"
	TenancyStatusRenewed    TenancyStatus = "renewed"
	TenancyStatusTerminated TenancyStatus = "terminated"
	TenancyStatusClosed     TenancyStatus = "closed"
)

// IsOpen reports whether the tenancy still accepts billing changes.
func (s TenancyStatus) IsOpen() bool {
	return s == TenancyStatusPending || s == TenancyStatusActive || s == TenancyStatusRenewed
}

// LineItemKind distinguishes generated schedule rows from ad hoc charges.
type LineItemKind string

const (
	LineItemPaymentSchedule  LineItemKind = "payment_schedule"
	LineItemAdditionalCharge LineItemKind = "additional_charge"
)

// LineItemStatus is the billing state of a schedule row or additional charge.
type LineItemStatus string

const (
	LineItemStatusPending       LineItemStatus = "pending"
	LineItemStatusInvoiced      LineItemStatus = "invoice"
	LineItemStatusPartiallyPaid LineItemStatus = "partially_paid"
	LineItemStatusPaid          LineItemStatus = "paid"
)

// InvoiceStatus moves unpaid -> partially_paid -> paid as collections land.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "unpaid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
)

// InvoiceSource records who issued the invoice; it also selects the number prefix.
type InvoiceSource string

const (
	InvoiceSourceManual    InvoiceSource = "manual"
	InvoiceSourceAutomated InvoiceSource = "automated"
)

// Prefix returns the invoice number prefix for the source.
func (s InvoiceSource) Prefix() string {
	if s == InvoiceSourceAutomated {
		return "AUTO"
	}
	return "INV"
}

// CollectionMode is how a payment was received.
type CollectionMode string

const (
	CollectionModeCash         CollectionMode = "cash"
	CollectionModeCheque       CollectionMode = "cheque"
	CollectionModeBankTransfer CollectionMode = "bank_transfer"
	CollectionModeCard         CollectionMode = "card"
	CollectionModeOnline       CollectionMode = "online"
)

// ValidCollectionModes is the set of accepted collection modes.
var ValidCollectionModes = map[CollectionMode]bool{
	CollectionModeCash:         true,
	CollectionModeCheque:       true,
	CollectionModeBankTransfer: true,
	CollectionModeCard:         true,
	CollectionModeOnline:       true,
}

// CollectionStatus is the clearing state of a payment.
type CollectionStatus string

const (
	CollectionStatusCompleted          CollectionStatus = "completed"
	CollectionStatusPartiallyCollected CollectionStatus = "partially_collected"
	CollectionStatusFailed             CollectionStatus = "failed"
)

// ValidCollectionStatuses is the set of accepted collection statuses.
var ValidCollectionStatuses = map[CollectionStatus]bool{
	CollectionStatusCompleted:          true,
	CollectionStatusPartiallyCollected: true,
	CollectionStatusFailed:             true,
}

// OverpaymentStatus tracks what happened to excess money.
type OverpaymentStatus string

const (
	OverpaymentStatusAvailable OverpaymentStatus = "available"
	OverpaymentStatusRefunded  OverpaymentStatus = "refunded"
	OverpaymentStatusAdjusted  OverpaymentStatus = "adjusted"
)

// RefundType is inferred from the refundable balance composition.
type RefundType string

const (
	RefundTypeDeposit RefundType = "deposit"
	RefundTypeExcess  RefundType = "excess"
	RefundTypeOther   RefundType = "other"
)

// RefundMethod is how money goes back to the tenant.
type RefundMethod string

const (
	RefundMethodCash         RefundMethod = "cash"
	RefundMethodBankTransfer RefundMethod = "bank_transfer"
	RefundMethodCheque       RefundMethod = "cheque"
)

// ValidRefundMethods is the set of accepted refund methods.
var ValidRefundMethods = map[RefundMethod]bool{
	RefundMethodCash:         true,
	RefundMethodBankTransfer: true,
	RefundMethodCheque:       true,
}
