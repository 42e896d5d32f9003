package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
	"rentdesk/mocks"
)

type refundFixture struct {
	tx        *mocks.PassthroughTransactor
	refunds   *mocks.MockRefundRepo
	tenancies *mocks.MockTenancyRepo
	invoices  *mocks.MockInvoiceRepo
	items     *mocks.MockLineItemRepo
	overpays  *mocks.MockOverpaymentRepo
	svc       service.RefundService

	companyID uuid.UUID
	tenancy   *domain.Tenancy
}

func newRefundFixture() *refundFixture {
	f := &refundFixture{
		tx:        &mocks.PassthroughTransactor{},
		refunds:   new(mocks.MockRefundRepo),
		tenancies: new(mocks.MockTenancyRepo),
		invoices:  new(mocks.MockInvoiceRepo),
		items:     new(mocks.MockLineItemRepo),
		overpays:  new(mocks.MockOverpaymentRepo),
		companyID: uuid.New(),
	}
	f.tenancy = &domain.Tenancy{ID: uuid.New(), CompanyID: f.companyID, Status: domain.TenancyStatusTerminated}
	f.svc = service.NewRefundService(f.tx, f.refunds, f.tenancies, f.invoices, f.items, f.overpays)
	return f
}

// expectBalance wires the three reads behind the refundable balance.
func (f *refundFixture) expectBalance(deposits []domain.LineItem, ops []domain.Overpayment, refunds []domain.Refund) {
	f.items.On("ListDeposits", mock.Anything, f.companyID, f.tenancy.ID).Return(deposits, nil)
	f.overpays.On("ListByTenancy", mock.Anything, f.companyID, f.tenancy.ID).Return(ops, nil)
	f.refunds.On("ListByTenancy", mock.Anything, f.companyID, f.tenancy.ID).Return(refunds, nil)
}

func (f *refundFixture) deposit(total string, status domain.LineItemStatus) domain.LineItem {
	return lineItem(domain.LineItemPaymentSchedule, f.tenancy.ID, day(2025, 1, 1), total, status)
}

func cashRefund(tenancyID uuid.UUID, amount string) service.CreateRefundInput {
	return service.CreateRefundInput{
		TenancyID: tenancyID,
		RefundFields: service.RefundFields{
			Amount:        dec(amount),
			PaymentMethod: domain.RefundMethodCash,
			PaymentDate:   "2026-01-10",
		},
	}
}

func TestRefundService_Create_Deposit(t *testing.T) {
	f := newRefundFixture()
	processedAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	service.SetRefundClock(f.svc, func() time.Time { return processedAt })
	userID := uuid.New()

	f.tenancies.On("GetForUpdate", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.expectBalance(
		[]domain.LineItem{f.deposit("10000", domain.LineItemStatusPaid)},
		[]domain.Overpayment{{Amount: dec("250"), Status: domain.OverpaymentStatusAvailable}},
		[]domain.Refund{},
	)
	f.refunds.On("Create", mock.Anything, mock.AnythingOfType("*domain.Refund")).Return(nil)

	r, err := f.svc.Create(context.Background(), f.companyID, userID, cashRefund(f.tenancy.ID, "10250"))
	require.NoError(t, err)
	assert.Equal(t, domain.RefundTypeDeposit, r.RefundType)
	assert.True(t, r.Amount.Equal(dec("10250")))
	assert.Equal(t, userID, r.ProcessedBy)
	assert.Equal(t, processedAt, r.ProcessedAt)
	assert.Equal(t, day(2026, 1, 10), r.PaymentDate)
	f.refunds.AssertExpectations(t)
}

func TestRefundService_Create_ExcessOnly(t *testing.T) {
	f := newRefundFixture()
	f.tenancies.On("GetForUpdate", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.expectBalance(
		// A pending deposit has not been billed yet and does not count.
		[]domain.LineItem{f.deposit("10000", domain.LineItemStatusPending)},
		[]domain.Overpayment{
			{Amount: dec("300"), Status: domain.OverpaymentStatusAvailable},
			{Amount: dec("900"), Status: domain.OverpaymentStatusAdjusted},
		},
		nil,
	)
	f.refunds.On("Create", mock.Anything, mock.Anything).Return(nil)

	r, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), cashRefund(f.tenancy.ID, "300"))
	require.NoError(t, err)
	assert.Equal(t, domain.RefundTypeExcess, r.RefundType)
}

func TestRefundService_Create_ExceedsRefundable(t *testing.T) {
	f := newRefundFixture()
	f.tenancies.On("GetForUpdate", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.expectBalance(
		[]domain.LineItem{f.deposit("500", domain.LineItemStatusInvoiced)},
		nil,
		[]domain.Refund{{ID: uuid.New(), Amount: dec("500")}},
	)

	_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), cashRefund(f.tenancy.ID, "0.01"))
	assert.ErrorIs(t, err, domain.ErrRefundExceeds)
	f.refunds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRefundService_Create_InvoiceOfAnotherTenancy(t *testing.T) {
	f := newRefundFixture()
	invoiceID := uuid.New()
	f.tenancies.On("GetForUpdate", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.invoices.On("GetByID", mock.Anything, f.companyID, invoiceID).
		Return(&domain.Invoice{ID: invoiceID, TenancyID: uuid.New()}, nil)

	in := cashRefund(f.tenancy.ID, "100")
	in.InvoiceID = &invoiceID
	_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), in)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "invoice_id", ve.Field)
}

func TestRefundService_Create_TenancyNotFound(t *testing.T) {
	f := newRefundFixture()
	f.tenancies.On("GetForUpdate", mock.Anything, f.companyID, f.tenancy.ID).Return(nil, domain.ErrTenancyNotFound)

	_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), cashRefund(f.tenancy.ID, "100"))
	assert.ErrorIs(t, err, domain.ErrTenancyNotFound)
}

func TestRefundService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(in *service.CreateRefundInput)
	}{
		{"zero amount", "amount_refunded", func(in *service.CreateRefundInput) { in.Amount = dec("0") }},
		{"bad date", "payment_date", func(in *service.CreateRefundInput) { in.PaymentDate = "" }},
		{"unknown method", "payment_method", func(in *service.CreateRefundInput) { in.PaymentMethod = "crypto" }},
		{"transfer without holder", "bank_account_holder", func(in *service.CreateRefundInput) {
			in.PaymentMethod = domain.RefundMethodBankTransfer
			in.BankAccountNumber = "AE070331234567890123456"
		}},
		{"transfer without account", "bank_account_number", func(in *service.CreateRefundInput) {
			in.PaymentMethod = domain.RefundMethodBankTransfer
			in.BankAccountHolder = "Jane Doe"
		}},
		{"cheque without date", "cheque_date", func(in *service.CreateRefundInput) {
			in.PaymentMethod = domain.RefundMethodCheque
			in.ChequeNumber = "100200"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRefundFixture()
			in := cashRefund(f.tenancy.ID, "100")
			tt.edit(&in)

			_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, f.tx.Calls)
		})
	}
}

func TestRefundService_Update_ExcludesItself(t *testing.T) {
	f := newRefundFixture()
	existing := &domain.Refund{
		ID: uuid.New(), CompanyID: f.companyID, TenancyID: f.tenancy.ID,
		Amount: dec("400"), PaymentMethod: domain.RefundMethodCash, RefundType: domain.RefundTypeDeposit,
	}
	f.refunds.On("GetByID", mock.Anything, f.companyID, existing.ID).Return(existing, nil)
	f.tenancies.On("GetForUpdate", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.expectBalance(
		[]domain.LineItem{f.deposit("500", domain.LineItemStatusPaid)},
		nil,
		[]domain.Refund{*existing},
	)
	f.refunds.On("Update", mock.Anything, existing).Return(nil)

	chequeDate := "2026-02-01"
	r, err := f.svc.Update(context.Background(), f.companyID, existing.ID, service.UpdateRefundInput{
		RefundFields: service.RefundFields{
			Amount:        dec("500"),
			PaymentMethod: domain.RefundMethodCheque,
			PaymentDate:   "2026-02-01",
			ChequeNumber:  " 000981 ",
			ChequeDate:    &chequeDate,
		},
	})
	require.NoError(t, err)
	assert.True(t, r.Amount.Equal(dec("500")))
	assert.Equal(t, "000981", r.ChequeNumber)
	require.NotNil(t, r.ChequeDate)
	assert.Equal(t, day(2026, 2, 1), *r.ChequeDate)
	f.refunds.AssertExpectations(t)
}

func TestRefundService_Update_StillBoundedByOthers(t *testing.T) {
	f := newRefundFixture()
	existing := &domain.Refund{ID: uuid.New(), CompanyID: f.companyID, TenancyID: f.tenancy.ID, Amount: dec("100")}
	f.refunds.On("GetByID", mock.Anything, f.companyID, existing.ID).Return(existing, nil)
	f.tenancies.On("GetForUpdate", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.expectBalance(
		[]domain.LineItem{f.deposit("500", domain.LineItemStatusPaid)},
		nil,
		[]domain.Refund{*existing, {ID: uuid.New(), Amount: dec("300")}},
	)

	_, err := f.svc.Update(context.Background(), f.companyID, existing.ID, service.UpdateRefundInput{
		RefundFields: service.RefundFields{Amount: dec("200.01"), PaymentMethod: domain.RefundMethodCash, PaymentDate: "2026-02-01"},
	})
	assert.ErrorIs(t, err, domain.ErrRefundExceeds)
	f.refunds.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRefundService_Balance(t *testing.T) {
	f := newRefundFixture()
	paid := f.deposit("5000", domain.LineItemStatusPaid)
	pending := f.deposit("5000", domain.LineItemStatusPending)
	available := domain.Overpayment{ID: uuid.New(), Amount: dec("120.50"), Status: domain.OverpaymentStatusAvailable}
	refunded := domain.Overpayment{ID: uuid.New(), Amount: dec("80"), Status: domain.OverpaymentStatusRefunded}

	f.tenancies.On("GetByID", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.expectBalance(
		[]domain.LineItem{paid, pending},
		[]domain.Overpayment{available, refunded},
		[]domain.Refund{{ID: uuid.New(), Amount: dec("1000")}},
	)

	bal, err := f.svc.Balance(context.Background(), f.companyID, f.tenancy.ID)
	require.NoError(t, err)
	assert.Equal(t, f.tenancy.ID, bal.TenancyID)
	assert.True(t, bal.TotalDeposit.Equal(dec("5000")))
	assert.True(t, bal.TotalExcess.Equal(dec("120.50")))
	assert.True(t, bal.TotalRefunded.Equal(dec("1000")))
	assert.True(t, bal.Refundable.Equal(dec("4120.50")))
	require.Len(t, bal.Deposits, 1)
	assert.Equal(t, paid.ID, bal.Deposits[0].ID)
	require.Len(t, bal.Overpayments, 1)
	assert.Equal(t, available.ID, bal.Overpayments[0].ID)
	assert.Len(t, bal.Refunds, 1)
}

func TestRefundService_Balance_Empty(t *testing.T) {
	f := newRefundFixture()
	f.tenancies.On("GetByID", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.expectBalance(nil, nil, nil)

	bal, err := f.svc.Balance(context.Background(), f.companyID, f.tenancy.ID)
	require.NoError(t, err)
	assert.True(t, bal.Refundable.IsZero())
	assert.NotNil(t, bal.Deposits)
	assert.NotNil(t, bal.Overpayments)
	assert.NotNil(t, bal.Refunds)
}
