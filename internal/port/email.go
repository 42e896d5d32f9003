package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceNotice is the content of the "invoice issued" email.
type InvoiceNotice struct {
	ToEmail       string
	ToName        string
	CompanyName   string
	InvoiceNumber string
	InvoiceDate   time.Time
	TotalAmount   decimal.Decimal
	Currency      string
}

// PaymentReceipt is the content of the "payment received" email.
type PaymentReceipt struct {
	ToEmail        string
	ToName         string
	CompanyName    string
	InvoiceNumber  string
	Amount         decimal.Decimal
	Currency       string
	CollectionDate time.Time
	CollectionMode string
	Balance        decimal.Decimal
}

// EmailSender defines the contract for tenant notifications.
type EmailSender interface {
	SendInvoiceNotice(ctx context.Context, notice InvoiceNotice) error
	SendPaymentReceipt(ctx context.Context, receipt PaymentReceipt) error
}
