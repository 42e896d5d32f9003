package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentdesk/internal/billing"
	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// CollectionFields are the payment details shared by create and update.
type CollectionFields struct {
	Amount               decimal.Decimal         `json:"amount" swaggertype:"string"`
	CollectionDate       string                  `json:"collection_date" binding:"required"`
	CollectionMode       domain.CollectionMode   `json:"collection_mode" binding:"required"`
	Status               domain.CollectionStatus `json:"status"`
	BankName             string                  `json:"bank_name"`
	AccountNumber        string                  `json:"account_number"`
	ChequeNumber         string                  `json:"cheque_number"`
	ChequeDate           *string                 `json:"cheque_date"`
	TransactionReference string                  `json:"transaction_reference"`
	Remarks              string                  `json:"remarks"`
}

// CreateCollectionInput is the DTO for recording a payment against an invoice.
type CreateCollectionInput struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
	CollectionFields
}

// UpdateCollectionInput is the DTO for correcting a recorded payment. The
// payment is redistributed from scratch.
type UpdateCollectionInput struct {
	CollectionFields
}

// CollectionItem is one invoiced line item as seen from a collection.
type CollectionItem struct {
	ItemID     uuid.UUID             `json:"item_id"`
	Type       domain.LineItemKind   `json:"type"`
	Reason     string                `json:"reason"`
	DueDate    time.Time             `json:"due_date"`
	Amount     decimal.Decimal       `json:"amount"`
	Tax        decimal.Decimal       `json:"tax"`
	Total      decimal.Decimal       `json:"total"`
	AmountPaid decimal.Decimal       `json:"amount_paid"`
	Balance    decimal.Decimal       `json:"balance"`
	Applied    decimal.Decimal       `json:"applied"`
	Status     domain.LineItemStatus `json:"status"`
}

// CollectionDetail is a collection with its distribution breakdown.
type CollectionDetail struct {
	*domain.Collection
	InvoiceNumber string               `json:"invoice_number"`
	InvoiceStatus domain.InvoiceStatus `json:"invoice_status"`
	InvoiceTotal  decimal.Decimal      `json:"invoice_total"`
	Items         []CollectionItem     `json:"items"`
	Overpayment   decimal.Decimal      `json:"overpayment"`
}

// CollectionService records payments and distributes them over invoiced items.
type CollectionService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, input CreateCollectionInput) (*CollectionDetail, error)
	Update(ctx context.Context, companyID, collectionID uuid.UUID, input UpdateCollectionInput) (*CollectionDetail, error)
	Delete(ctx context.Context, companyID, collectionID uuid.UUID) error
	Get(ctx context.Context, companyID, collectionID uuid.UUID) (*CollectionDetail, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.CollectionFilter, offset, limit int) ([]domain.Collection, int, error)
}

type collectionService struct {
	tx              port.Transactor
	collectionRepo  port.CollectionRepository
	distRepo        port.DistributionRepository
	overpaymentRepo port.OverpaymentRepository
	invoiceRepo     port.InvoiceRepository
	lineItemRepo    port.LineItemRepository
	notify          *notifier
}

// NewCollectionService creates a new CollectionService implementation.
func NewCollectionService(
	tx port.Transactor,
	collectionRepo port.CollectionRepository,
	distRepo port.DistributionRepository,
	overpaymentRepo port.OverpaymentRepository,
	invoiceRepo port.InvoiceRepository,
	lineItemRepo port.LineItemRepository,
	companyRepo port.CompanyRepository,
	tenancyRepo port.TenancyRepository,
	tenantRepo port.TenantRepository,
	sender port.EmailSender,
) CollectionService {
	return &collectionService{
		tx:              tx,
		collectionRepo:  collectionRepo,
		distRepo:        distRepo,
		overpaymentRepo: overpaymentRepo,
		invoiceRepo:     invoiceRepo,
		lineItemRepo:    lineItemRepo,
		notify:          newNotifier(sender, companyRepo, tenancyRepo, tenantRepo),
	}
}

func (s *collectionService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateCollectionInput) (*CollectionDetail, error) {
	c := &domain.Collection{
		CompanyID: companyID,
		InvoiceID: input.InvoiceID,
		CreatedBy: userID,
	}
	if err := applyCollectionFields(c, input.CollectionFields); err != nil {
		return nil, err
	}

	var inv *domain.Invoice
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invoiceRepo.GetForUpdate(ctx, companyID, input.InvoiceID)
		if err != nil {
			return err
		}
		if inv.Status != domain.InvoiceStatusUnpaid {
			return domain.ErrInvoiceNotUnpaid
		}

		c.TenancyID = inv.TenancyID
		if err := s.collectionRepo.Create(ctx, c); err != nil {
			return err
		}
		return s.redistribute(ctx, inv, c)
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("collection.Create: payment recorded",
		"company_id", companyID, "invoice_id", inv.ID, "collection_id", c.ID,
		"amount", c.Amount.String(), "invoice_status", inv.Status)

	detail, err := s.Get(ctx, companyID, c.ID)
	if err != nil {
		return nil, err
	}
	if c.Status == domain.CollectionStatusCompleted {
		s.notify.paymentReceived(ctx, inv, c, detailBalance(detail))
	}
	return detail, nil
}

func (s *collectionService) Update(ctx context.Context, companyID, collectionID uuid.UUID, input UpdateCollectionInput) (*CollectionDetail, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.collectionRepo.GetByID(ctx, companyID, collectionID)
		if err != nil {
			return err
		}
		inv, err := s.invoiceRepo.GetForUpdate(ctx, companyID, c.InvoiceID)
		if err != nil {
			return err
		}

		if err := applyCollectionFields(c, input.CollectionFields); err != nil {
			return err
		}
		if err := s.teardown(ctx, companyID, collectionID); err != nil {
			return err
		}
		if err := s.collectionRepo.Update(ctx, c); err != nil {
			return err
		}
		return s.redistribute(ctx, inv, c)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, companyID, collectionID)
}

func (s *collectionService) Delete(ctx context.Context, companyID, collectionID uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.collectionRepo.GetByID(ctx, companyID, collectionID)
		if err != nil {
			return err
		}
		inv, err := s.invoiceRepo.GetForUpdate(ctx, companyID, c.InvoiceID)
		if err != nil {
			return err
		}
		if err := s.teardown(ctx, companyID, collectionID); err != nil {
			return err
		}
		if err := s.collectionRepo.Delete(ctx, companyID, collectionID); err != nil {
			return err
		}
		// Nothing left to apply; this only re-derives item and invoice statuses.
		return s.reconcile(ctx, inv, collectionID, decimal.Zero)
	})
}

func (s *collectionService) teardown(ctx context.Context, companyID, collectionID uuid.UUID) error {
	if err := s.distRepo.DeleteByCollection(ctx, companyID, collectionID); err != nil {
		return err
	}
	return s.overpaymentRepo.DeleteByCollection(ctx, companyID, collectionID)
}

// redistribute applies c to the invoice. Only completed collections move money;
// any other status still re-derives statuses from the remaining collections.
func (s *collectionService) redistribute(ctx context.Context, inv *domain.Invoice, c *domain.Collection) error {
	amount := decimal.Zero
	if c.Status == domain.CollectionStatusCompleted {
		amount = c.Amount
	}
	return s.reconcile(ctx, inv, c.ID, amount, c)
}

// reconcile runs one sequential allocation pass of amount over the invoice's
// items, counting what other completed collections already paid, then writes
// distributions, any overpayment, item statuses and the invoice status.
// The invoice row must be locked by the caller.
func (s *collectionService) reconcile(ctx context.Context, inv *domain.Invoice, collectionID uuid.UUID, amount decimal.Decimal, applied ...*domain.Collection) error {
	items, err := s.lineItemRepo.ListByInvoice(ctx, inv.CompanyID, inv.ID)
	if err != nil {
		return err
	}
	others, err := s.distRepo.ListCompletedByInvoice(ctx, inv.CompanyID, inv.ID, &collectionID)
	if err != nil {
		return err
	}
	paid := billing.PaidByItem(others)

	outstanding := make([]billing.Outstanding, len(items))
	for i := range items {
		outstanding[i] = billing.Outstanding{Item: &items[i], AlreadyPaid: paid[items[i].ID]}
	}
	billing.SortForAllocation(outstanding)
	alloc := billing.Allocate(outstanding, amount)

	if len(applied) > 0 && amount.IsPositive() {
		c := applied[0]
		var dists []domain.PaymentDistribution
		for _, it := range alloc.Distributed() {
			d := domain.NewDistribution(inv.CompanyID, c.ID, it.Item, it.Applied)
			if err := d.Validate(); err != nil {
				return err
			}
			dists = append(dists, d)
		}
		if err := s.distRepo.CreateBatch(ctx, dists); err != nil {
			return err
		}
		if alloc.Excess.IsPositive() {
			if err := s.overpaymentRepo.Create(ctx, &domain.Overpayment{
				CompanyID:    inv.CompanyID,
				TenancyID:    inv.TenancyID,
				InvoiceID:    inv.ID,
				CollectionID: c.ID,
				Amount:       alloc.Excess,
				Status:       domain.OverpaymentStatusAvailable,
			}); err != nil {
				return err
			}
		}
	}

	for _, it := range alloc.Items {
		if it.Status == it.Item.Status {
			continue
		}
		if err := s.lineItemRepo.UpdateStatus(ctx, inv.CompanyID, it.Item.Kind, it.Item.ID, it.Status); err != nil {
			return err
		}
		it.Item.Status = it.Status
	}

	collected, err := s.collectionRepo.SumCompleted(ctx, inv.CompanyID, inv.ID)
	if err != nil {
		return err
	}
	status := billing.InvoiceStatus(inv.TotalAmount, collected)
	if status != inv.Status {
		if err := s.invoiceRepo.UpdateStatus(ctx, inv.CompanyID, inv.ID, status); err != nil {
			return err
		}
		inv.Status = status
	}
	return nil
}

func (s *collectionService) Get(ctx context.Context, companyID, collectionID uuid.UUID) (*CollectionDetail, error) {
	c, err := s.collectionRepo.GetByID(ctx, companyID, collectionID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.GetByID(ctx, companyID, c.InvoiceID)
	if err != nil {
		return nil, err
	}
	items, err := s.lineItemRepo.ListByInvoice(ctx, companyID, inv.ID)
	if err != nil {
		return nil, err
	}
	all, err := s.distRepo.ListCompletedByInvoice(ctx, companyID, inv.ID, nil)
	if err != nil {
		return nil, err
	}
	own, err := s.distRepo.ListByCollection(ctx, companyID, collectionID)
	if err != nil {
		return nil, err
	}
	ops, err := s.overpaymentRepo.ListByCollection(ctx, companyID, collectionID)
	if err != nil {
		return nil, err
	}

	paid := billing.PaidByItem(all)
	mine := billing.PaidByItem(own)
	outstanding := make([]billing.Outstanding, len(items))
	for i := range items {
		outstanding[i] = billing.Outstanding{Item: &items[i], AlreadyPaid: paid[items[i].ID]}
	}
	billing.SortForAllocation(outstanding)

	detail := &CollectionDetail{
		Collection:    c,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceStatus: inv.Status,
		InvoiceTotal:  inv.TotalAmount,
		Items:         make([]CollectionItem, 0, len(items)),
		Overpayment:   decimal.Zero,
	}
	for _, o := range outstanding {
		it := o.Item
		detail.Items = append(detail.Items, CollectionItem{
			ItemID:     it.ID,
			Type:       it.Kind,
			Reason:     it.Reason,
			DueDate:    it.DueDate,
			Amount:     it.Amount,
			Tax:        it.Tax,
			Total:      it.Total,
			AmountPaid: o.AlreadyPaid,
			Balance:    o.Remaining(),
			Applied:    mine[it.ID],
			Status:     it.Status,
		})
	}
	for i := range ops {
		detail.Overpayment = detail.Overpayment.Add(ops[i].Amount)
	}
	return detail, nil
}

func (s *collectionService) List(ctx context.Context, companyID uuid.UUID, filter domain.CollectionFilter, offset, limit int) ([]domain.Collection, int, error) {
	return s.collectionRepo.List(ctx, companyID, filter, offset, limit)
}

// applyCollectionFields validates the payment details and copies them onto c.
// Reference fields that do not belong to the payment mode are cleared.
func applyCollectionFields(c *domain.Collection, in CollectionFields) error {
	if err := checkPositive("amount", in.Amount); err != nil {
		return err
	}
	date, err := parseDate("collection_date", in.CollectionDate)
	if err != nil {
		return err
	}
	if !domain.ValidCollectionModes[in.CollectionMode] {
		return domain.NewValidationError("collection_mode", "must be one of cash, cheque, bank_transfer, card, online")
	}
	status := in.Status
	if status == "" {
		status = domain.CollectionStatusCompleted
	}
	if !domain.ValidCollectionStatuses[status] {
		return domain.NewValidationError("status", "must be one of completed, partially_collected, failed")
	}

	c.Amount = money(in.Amount)
	c.CollectionDate = date
	c.CollectionMode = in.CollectionMode
	c.Status = status
	c.Remarks = in.Remarks
	c.BankName, c.AccountNumber, c.ChequeNumber, c.TransactionReference = "", "", "", ""
	c.ChequeDate = nil

	switch in.CollectionMode {
	case domain.CollectionModeCheque:
		chequeDate, err := parseOptionalDate("cheque_date", in.ChequeDate)
		if err != nil {
			return err
		}
		if strings.TrimSpace(in.ChequeNumber) == "" {
			return domain.NewValidationError("cheque_number", "is required for cheque payments")
		}
		if chequeDate == nil {
			return domain.NewValidationError("cheque_date", "is required for cheque payments")
		}
		c.ChequeNumber = strings.TrimSpace(in.ChequeNumber)
		c.ChequeDate = chequeDate
		c.BankName = in.BankName
	case domain.CollectionModeBankTransfer:
		if strings.TrimSpace(in.BankName) == "" {
			return domain.NewValidationError("bank_name", "is required for bank transfers")
		}
		if strings.TrimSpace(in.TransactionReference) == "" {
			return domain.NewValidationError("transaction_reference", "is required for bank transfers")
		}
		c.BankName = strings.TrimSpace(in.BankName)
		c.TransactionReference = strings.TrimSpace(in.TransactionReference)
		c.AccountNumber = in.AccountNumber
	}
	return nil
}

// detailBalance is what remains unpaid on the invoice.
func detailBalance(d *CollectionDetail) decimal.Decimal {
	bal := decimal.Zero
	for i := range d.Items {
		bal = bal.Add(d.Items[i].Balance)
	}
	return bal
}
