package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentdesk/internal/billing"
	"rentdesk/internal/config"
	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// InvoiceItemInput references one pending line item to be invoiced. Exactly
// one of ScheduleID and ChargeID is set, matching Type.
type InvoiceItemInput struct {
	Type       domain.LineItemKind `json:"type" binding:"required"`
	ScheduleID *uuid.UUID          `json:"schedule_id"`
	ChargeID   *uuid.UUID          `json:"charge_id"`
	Total      decimal.Decimal     `json:"total" swaggertype:"string"`
}

func (in InvoiceItemInput) itemID() (uuid.UUID, error) {
	switch in.Type {
	case domain.LineItemPaymentSchedule:
		if in.ScheduleID == nil || in.ChargeID != nil {
			return uuid.Nil, domain.NewValidationError("items", "payment_schedule items need schedule_id only")
		}
		return *in.ScheduleID, nil
	case domain.LineItemAdditionalCharge:
		if in.ChargeID == nil || in.ScheduleID != nil {
			return uuid.Nil, domain.NewValidationError("items", "additional_charge items need charge_id only")
		}
		return *in.ChargeID, nil
	default:
		return uuid.Nil, domain.NewValidationError("items", fmt.Sprintf("unknown item type %q", in.Type))
	}
}

// CreateInvoiceInput is the DTO for manual invoice creation.
type CreateInvoiceInput struct {
	TenancyID   uuid.UUID          `json:"tenancy_id" binding:"required"`
	InvoiceDate *string            `json:"invoice_date"`
	StartDate   *string            `json:"start_date"`
	EndDate     *string            `json:"end_date"`
	Items       []InvoiceItemInput `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount" swaggertype:"string"`
	Remarks     string             `json:"remarks"`
}

// InvoiceService groups pending line items into invoices.
type InvoiceService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, input CreateInvoiceInput) (*domain.Invoice, error)
	// CreateAutomated invoices every pending item of the tenancy due within the
	// configured lead time of asOf. It returns nil when nothing is due.
	CreateAutomated(ctx context.Context, companyID, tenancyID uuid.UUID, asOf time.Time) (*domain.Invoice, error)
	Get(ctx context.Context, companyID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
}

type invoiceService struct {
	tx           port.Transactor
	invoiceRepo  port.InvoiceRepository
	tenancyRepo  port.TenancyRepository
	lineItemRepo port.LineItemRepository
	notify       *notifier
	cfg          config.BillingConfig
	now          clock
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	tx port.Transactor,
	invoiceRepo port.InvoiceRepository,
	tenancyRepo port.TenancyRepository,
	lineItemRepo port.LineItemRepository,
	companyRepo port.CompanyRepository,
	tenantRepo port.TenantRepository,
	sender port.EmailSender,
	cfg config.BillingConfig,
) InvoiceService {
	return &invoiceService{
		tx:           tx,
		invoiceRepo:  invoiceRepo,
		tenancyRepo:  tenancyRepo,
		lineItemRepo: lineItemRepo,
		notify:       newNotifier(sender, companyRepo, tenancyRepo, tenantRepo),
		cfg:          cfg,
		now:          systemClock,
	}
}

// lineItemKinds fixes the order in which kinds are read and invoiced.
var lineItemKinds = []domain.LineItemKind{domain.LineItemPaymentSchedule, domain.LineItemAdditionalCharge}

// invoiceDraft is a validated selection ready to be numbered and persisted.
type invoiceDraft struct {
	tenancy   *domain.Tenancy
	items     []domain.LineItem
	total     decimal.Decimal
	date      time.Time
	start     *time.Time
	end       *time.Time
	source    domain.InvoiceSource
	remarks   string
	createdBy *uuid.UUID
}

func (s *invoiceService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateInvoiceInput) (*domain.Invoice, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrNoInvoiceItems
	}

	date := domain.DateOnly(s.now())
	if input.InvoiceDate != nil && *input.InvoiceDate != "" {
		d, err := parseDate("invoice_date", *input.InvoiceDate)
		if err != nil {
			return nil, err
		}
		date = d
	}
	start, err := parseOptionalDate("start_date", input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", input.EndDate)
	if err != nil {
		return nil, err
	}

	// Exact decimal equality; callers must round the same way the items were stored.
	sum := decimal.Zero
	ids := make(map[domain.LineItemKind][]uuid.UUID, 2)
	claimed := make(map[domain.LineItemKind]map[uuid.UUID]decimal.Decimal, 2)
	for _, in := range input.Items {
		id, err := in.itemID()
		if err != nil {
			return nil, err
		}
		if claimed[in.Type] == nil {
			claimed[in.Type] = make(map[uuid.UUID]decimal.Decimal)
		}
		if _, dup := claimed[in.Type][id]; dup {
			return nil, domain.NewValidationError("items", fmt.Sprintf("item %s is listed twice", id))
		}
		claimed[in.Type][id] = in.Total
		ids[in.Type] = append(ids[in.Type], id)
		sum = sum.Add(in.Total)
	}
	if !sum.Equal(input.TotalAmount) {
		return nil, domain.ErrInvoiceTotal
	}

	var inv *domain.Invoice
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		tenancy, err := s.tenancyRepo.GetByID(ctx, companyID, input.TenancyID)
		if err != nil {
			return err
		}

		var items []domain.LineItem
		for _, kind := range lineItemKinds {
			kindIDs := ids[kind]
			if len(kindIDs) == 0 {
				continue
			}
			rows, err := s.lineItemRepo.GetByIDsForUpdate(ctx, companyID, kind, kindIDs)
			if err != nil {
				return err
			}
			if len(rows) != len(kindIDs) {
				return domain.ErrLineItemNotFound
			}
			for i := range rows {
				if rows[i].TenancyID != tenancy.ID {
					return domain.NewValidationError("items", fmt.Sprintf("item %s belongs to another tenancy", rows[i].ID))
				}
				if rows[i].Status != domain.LineItemStatusPending {
					return domain.ErrLineItemNotPending
				}
				if !rows[i].Total.Equal(claimed[kind][rows[i].ID]) {
					return domain.ErrInvoiceItemTotal
				}
			}
			items = append(items, rows...)
		}

		inv, err = s.issue(ctx, invoiceDraft{
			tenancy:   tenancy,
			items:     items,
			total:     input.TotalAmount,
			date:      date,
			start:     start,
			end:       end,
			source:    domain.InvoiceSourceManual,
			remarks:   input.Remarks,
			createdBy: &userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("invoice.Create: invoice issued",
		"company_id", companyID, "invoice_number", inv.InvoiceNumber, "items", len(inv.Items))
	s.notify.invoiceIssued(ctx, inv)
	return inv, nil
}

func (s *invoiceService) CreateAutomated(ctx context.Context, companyID, tenancyID uuid.UUID, asOf time.Time) (*domain.Invoice, error) {
	date := domain.DateOnly(asOf)
	dueBy := date.AddDate(0, 0, s.cfg.LeadDays)

	var inv *domain.Invoice
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		tenancy, err := s.tenancyRepo.GetForUpdate(ctx, companyID, tenancyID)
		if err != nil {
			return err
		}
		if tenancy.Status != domain.TenancyStatusActive && tenancy.Status != domain.TenancyStatusRenewed {
			return nil
		}

		due, err := s.lineItemRepo.ListPendingDue(ctx, companyID, tenancyID, dueBy)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			return nil
		}
		// Re-read under lock so a concurrent manual invoice cannot claim the same rows.
		var items []domain.LineItem
		for _, kind := range lineItemKinds {
			var kindIDs []uuid.UUID
			for i := range due {
				if due[i].Kind == kind {
					kindIDs = append(kindIDs, due[i].ID)
				}
			}
			if len(kindIDs) == 0 {
				continue
			}
			rows, err := s.lineItemRepo.GetByIDsForUpdate(ctx, companyID, kind, kindIDs)
			if err != nil {
				return err
			}
			for i := range rows {
				if rows[i].Status == domain.LineItemStatusPending {
					items = append(items, rows[i])
				}
			}
		}
		if len(items) == 0 {
			return nil
		}

		total := decimal.Zero
		for i := range items {
			total = total.Add(items[i].Total)
		}

		inv, err = s.issue(ctx, invoiceDraft{
			tenancy: tenancy,
			items:   items,
			total:   total,
			date:    date,
			source:  domain.InvoiceSourceAutomated,
			remarks: "Automated invoice",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, nil
	}

	zap.S().Infow("invoice.CreateAutomated: invoice issued",
		"company_id", companyID, "tenancy_id", tenancyID, "invoice_number", inv.InvoiceNumber)
	s.notify.invoiceIssued(ctx, inv)
	return inv, nil
}

// issue numbers and persists a draft and marks its items invoiced. It must
// run inside a transaction.
func (s *invoiceService) issue(ctx context.Context, d invoiceDraft) (*domain.Invoice, error) {
	prefix := d.source.Prefix()
	base := billing.InvoiceNumberBase(prefix, d.date)
	if err := s.invoiceRepo.LockNumbering(ctx, d.tenancy.CompanyID, base); err != nil {
		return nil, err
	}
	last, err := s.invoiceRepo.LastNumber(ctx, d.tenancy.CompanyID, base)
	if err != nil {
		return nil, err
	}
	number, err := billing.NextInvoiceNumber(prefix, d.date, last)
	if err != nil {
		return nil, fmt.Errorf("invoice.issue: %w", err)
	}

	start, end := d.start, d.end
	for i := range d.items {
		due := d.items[i].DueDate
		if d.start == nil && (start == nil || due.Before(*start)) {
			start = &due
		}
		if d.end == nil && (end == nil || due.After(*end)) {
			end = &due
		}
	}
	if end.Before(*start) {
		return nil, domain.NewValidationError("end_date", "must not be before start_date")
	}

	inv := &domain.Invoice{
		CompanyID:     d.tenancy.CompanyID,
		TenancyID:     d.tenancy.ID,
		InvoiceNumber: number,
		InvoiceDate:   d.date,
		StartDate:     *start,
		EndDate:       *end,
		TotalAmount:   d.total,
		Status:        domain.InvoiceStatusUnpaid,
		Source:        d.source,
		Remarks:       d.remarks,
		CreatedBy:     d.createdBy,
	}
	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.AttachItems(ctx, inv.CompanyID, inv.ID, d.items); err != nil {
		return nil, err
	}
	for i := range d.items {
		it := &d.items[i]
		if err := s.lineItemRepo.UpdateStatus(ctx, inv.CompanyID, it.Kind, it.ID, domain.LineItemStatusInvoiced); err != nil {
			return nil, err
		}
		it.Status = domain.LineItemStatusInvoiced
	}
	inv.Items = d.items
	return inv, nil
}

func (s *invoiceService) Get(ctx context.Context, companyID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := s.lineItemRepo.ListByInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Items = nonNilItems(items)
	return inv, nil
}

func (s *invoiceService) List(ctx context.Context, companyID uuid.UUID, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	return s.invoiceRepo.List(ctx, companyID, filter, offset, limit)
}
