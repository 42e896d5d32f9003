package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// notifier emails renters about billing events. Delivery is best effort:
// failures are logged and never reach the caller, whose transaction has
// already committed.
type notifier struct {
	sender      port.EmailSender
	companyRepo port.CompanyRepository
	tenancyRepo port.TenancyRepository
	tenantRepo  port.TenantRepository
}

func newNotifier(
	sender port.EmailSender,
	companyRepo port.CompanyRepository,
	tenancyRepo port.TenancyRepository,
	tenantRepo port.TenantRepository,
) *notifier {
	return &notifier{
		sender:      sender,
		companyRepo: companyRepo,
		tenancyRepo: tenancyRepo,
		tenantRepo:  tenantRepo,
	}
}

// recipient resolves the renter and company behind a tenancy. ok is false
// when there is nobody to email.
func (n *notifier) recipient(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Company, *domain.Tenant, bool) {
	if n == nil || n.sender == nil {
		return nil, nil, false
	}
	company, err := n.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		zap.S().Warnw("notifier: loading company failed", "company_id", companyID, "error", err)
		return nil, nil, false
	}
	tenancy, err := n.tenancyRepo.GetByID(ctx, companyID, tenancyID)
	if err != nil {
		zap.S().Warnw("notifier: loading tenancy failed", "tenancy_id", tenancyID, "error", err)
		return nil, nil, false
	}
	tenant, err := n.tenantRepo.GetByID(ctx, companyID, tenancy.TenantID)
	if err != nil {
		zap.S().Warnw("notifier: loading tenant failed", "tenant_id", tenancy.TenantID, "error", err)
		return nil, nil, false
	}
	if tenant.Email == "" {
		return nil, nil, false
	}
	return company, tenant, true
}

func (n *notifier) invoiceIssued(ctx context.Context, inv *domain.Invoice) {
	company, tenant, ok := n.recipient(ctx, inv.CompanyID, inv.TenancyID)
	if !ok {
		return
	}
	err := n.sender.SendInvoiceNotice(ctx, port.InvoiceNotice{
		ToEmail:       tenant.Email,
		ToName:        tenant.FullName,
		CompanyName:   company.Name,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		TotalAmount:   inv.TotalAmount,
		Currency:      company.Currency,
	})
	if err != nil {
		zap.S().Errorw("notifier: invoice notice failed", "invoice_id", inv.ID, "error", err)
	}
}

func (n *notifier) paymentReceived(ctx context.Context, inv *domain.Invoice, c *domain.Collection, balance decimal.Decimal) {
	company, tenant, ok := n.recipient(ctx, c.CompanyID, c.TenancyID)
	if !ok {
		return
	}
	err := n.sender.SendPaymentReceipt(ctx, port.PaymentReceipt{
		ToEmail:        tenant.Email,
		ToName:         tenant.FullName,
		CompanyName:    company.Name,
		InvoiceNumber:  inv.InvoiceNumber,
		Amount:         c.Amount,
		Currency:       company.Currency,
		CollectionDate: c.CollectionDate,
		CollectionMode: string(c.CollectionMode),
		Balance:        balance,
	})
	if err != nil {
		zap.S().Errorw("notifier: payment receipt failed", "collection_id", c.ID, "error", err)
	}
}

// clock returns the current time; tests replace it.
type clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }
