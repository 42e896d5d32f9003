package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentdesk/internal/billing"
	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// RefundFields are the refund details shared by create and update.
type RefundFields struct {
	Amount            decimal.Decimal     `json:"amount_refunded" swaggertype:"string"`
	PaymentMethod     domain.RefundMethod `json:"payment_method" binding:"required"`
	PaymentDate       string              `json:"payment_date" binding:"required"`
	BankAccountHolder string              `json:"bank_account_holder"`
	BankAccountNumber string              `json:"bank_account_number"`
	ChequeNumber      string              `json:"cheque_number"`
	ChequeDate        *string             `json:"cheque_date"`
	Remarks           string              `json:"remarks"`
}

// CreateRefundInput is the DTO for paying money back to a tenant.
type CreateRefundInput struct {
	TenancyID uuid.UUID  `json:"tenancy_id" binding:"required"`
	InvoiceID *uuid.UUID `json:"invoice_id"`
	RefundFields
}

// UpdateRefundInput is the DTO for correcting a refund.
type UpdateRefundInput struct {
	RefundFields
}

// RefundBalanceDetail is the refundable balance of a tenancy with what it is made of.
type RefundBalanceDetail struct {
	TenancyID uuid.UUID `json:"tenancy_id"`
	billing.RefundBalance
	Deposits     []domain.LineItem    `json:"deposits"`
	Overpayments []domain.Overpayment `json:"overpayments"`
	Refunds      []domain.Refund      `json:"refunds"`
}

// RefundService records refunds against a tenancy's refundable balance.
type RefundService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, input CreateRefundInput) (*domain.Refund, error)
	Update(ctx context.Context, companyID, refundID uuid.UUID, input UpdateRefundInput) (*domain.Refund, error)
	Get(ctx context.Context, companyID, refundID uuid.UUID) (*domain.Refund, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.RefundFilter, offset, limit int) ([]domain.Refund, int, error)
	Balance(ctx context.Context, companyID, tenancyID uuid.UUID) (*RefundBalanceDetail, error)
}

type refundService struct {
	tx              port.Transactor
	refundRepo      port.RefundRepository
	tenancyRepo     port.TenancyRepository
	invoiceRepo     port.InvoiceRepository
	lineItemRepo    port.LineItemRepository
	overpaymentRepo port.OverpaymentRepository
	now             clock
}

// NewRefundService creates a new RefundService implementation.
func NewRefundService(
	tx port.Transactor,
	refundRepo port.RefundRepository,
	tenancyRepo port.TenancyRepository,
	invoiceRepo port.InvoiceRepository,
	lineItemRepo port.LineItemRepository,
	overpaymentRepo port.OverpaymentRepository,
) RefundService {
	return &refundService{
		tx:              tx,
		refundRepo:      refundRepo,
		tenancyRepo:     tenancyRepo,
		invoiceRepo:     invoiceRepo,
		lineItemRepo:    lineItemRepo,
		overpaymentRepo: overpaymentRepo,
		now:             systemClock,
	}
}

func (s *refundService) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateRefundInput) (*domain.Refund, error) {
	r := &domain.Refund{
		CompanyID:   companyID,
		TenancyID:   input.TenancyID,
		InvoiceID:   input.InvoiceID,
		ProcessedBy: userID,
	}
	if err := applyRefundFields(r, input.RefundFields); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.tenancyRepo.GetForUpdate(ctx, companyID, input.TenancyID); err != nil {
			return err
		}
		if input.InvoiceID != nil {
			inv, err := s.invoiceRepo.GetByID(ctx, companyID, *input.InvoiceID)
			if err != nil {
				return err
			}
			if inv.TenancyID != input.TenancyID {
				return domain.NewValidationError("invoice_id", "invoice belongs to a different tenancy")
			}
		}

		bal, err := s.balance(ctx, companyID, input.TenancyID, nil)
		if err != nil {
			return err
		}
		if err := billing.CheckRefund(r.Amount, bal.RefundBalance); err != nil {
			return err
		}

		r.RefundType = billing.InferRefundType(bal.RefundBalance)
		r.ProcessedAt = s.now()
		return s.refundRepo.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("refund.Create: refund recorded",
		"company_id", companyID, "tenancy_id", r.TenancyID, "refund_id", r.ID,
		"amount", r.Amount.String(), "type", r.RefundType)
	return r, nil
}

func (s *refundService) Update(ctx context.Context, companyID, refundID uuid.UUID, input UpdateRefundInput) (*domain.Refund, error) {
	var r *domain.Refund
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.refundRepo.GetByID(ctx, companyID, refundID)
		if err != nil {
			return err
		}
		if _, err := s.tenancyRepo.GetForUpdate(ctx, companyID, r.TenancyID); err != nil {
			return err
		}
		if err := applyRefundFields(r, input.RefundFields); err != nil {
			return err
		}

		bal, err := s.balance(ctx, companyID, r.TenancyID, &r.ID)
		if err != nil {
			return err
		}
		if err := billing.CheckRefund(r.Amount, bal.RefundBalance); err != nil {
			return err
		}
		r.RefundType = billing.InferRefundType(bal.RefundBalance)
		return s.refundRepo.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *refundService) Get(ctx context.Context, companyID, refundID uuid.UUID) (*domain.Refund, error) {
	return s.refundRepo.GetByID(ctx, companyID, refundID)
}

func (s *refundService) List(ctx context.Context, companyID uuid.UUID, filter domain.RefundFilter, offset, limit int) ([]domain.Refund, int, error) {
	return s.refundRepo.List(ctx, companyID, filter, offset, limit)
}

func (s *refundService) Balance(ctx context.Context, companyID, tenancyID uuid.UUID) (*RefundBalanceDetail, error) {
	if _, err := s.tenancyRepo.GetByID(ctx, companyID, tenancyID); err != nil {
		return nil, err
	}
	return s.balance(ctx, companyID, tenancyID, nil)
}

// balance loads everything the refundable computation needs. Only settled
// deposits and available overpayments are returned in the breakdown.
func (s *refundService) balance(ctx context.Context, companyID, tenancyID uuid.UUID, exclude *uuid.UUID) (*RefundBalanceDetail, error) {
	deposits, err := s.lineItemRepo.ListDeposits(ctx, companyID, tenancyID)
	if err != nil {
		return nil, err
	}
	ops, err := s.overpaymentRepo.ListByTenancy(ctx, companyID, tenancyID)
	if err != nil {
		return nil, err
	}
	refunds, err := s.refundRepo.ListByTenancy(ctx, companyID, tenancyID)
	if err != nil {
		return nil, err
	}

	detail := &RefundBalanceDetail{
		TenancyID:     tenancyID,
		RefundBalance: billing.ComputeRefundable(deposits, ops, refunds, exclude),
		Deposits:      []domain.LineItem{},
		Overpayments:  []domain.Overpayment{},
		Refunds:       refunds,
	}
	for i := range deposits {
		if billing.IsSettledDeposit(deposits[i].Status) {
			detail.Deposits = append(detail.Deposits, deposits[i])
		}
	}
	for i := range ops {
		if ops[i].Status == domain.OverpaymentStatusAvailable {
			detail.Overpayments = append(detail.Overpayments, ops[i])
		}
	}
	if detail.Refunds == nil {
		detail.Refunds = []domain.Refund{}
	}
	return detail, nil
}

// applyRefundFields validates the refund details and copies them onto r.
func applyRefundFields(r *domain.Refund, in RefundFields) error {
	if !in.Amount.IsPositive() {
		return domain.NewValidationError("amount_refunded", "must be greater than zero")
	}
	date, err := parseDate("payment_date", in.PaymentDate)
	if err != nil {
		return err
	}
	if !domain.ValidRefundMethods[in.PaymentMethod] {
		return domain.NewValidationError("payment_method", "must be one of cash, bank_transfer, cheque")
	}

	r.Amount = money(in.Amount)
	r.PaymentMethod = in.PaymentMethod
	r.PaymentDate = date
	r.Remarks = in.Remarks
	r.BankAccountHolder, r.BankAccountNumber, r.ChequeNumber = "", "", ""
	r.ChequeDate = nil

	switch in.PaymentMethod {
	case domain.RefundMethodBankTransfer:
		if strings.TrimSpace(in.BankAccountHolder) == "" {
			return domain.NewValidationError("bank_account_holder", "is required for bank transfers")
		}
		if strings.TrimSpace(in.BankAccountNumber) == "" {
			return domain.NewValidationError("bank_account_number", "is required for bank transfers")
		}
		r.BankAccountHolder = strings.TrimSpace(in.BankAccountHolder)
		r.BankAccountNumber = strings.TrimSpace(in.BankAccountNumber)
	case domain.RefundMethodCheque:
		chequeDate, err := parseOptionalDate("cheque_date", in.ChequeDate)
		if err != nil {
			return err
		}
		if strings.TrimSpace(in.ChequeNumber) == "" {
			return domain.NewValidationError("cheque_number", "is required for cheque refunds")
		}
		if chequeDate == nil {
			return domain.NewValidationError("cheque_date", "is required for cheque refunds")
		}
		r.ChequeNumber = strings.TrimSpace(in.ChequeNumber)
		r.ChequeDate = chequeDate
	}
	return nil
}
