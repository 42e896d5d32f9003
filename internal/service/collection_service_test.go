package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentdesk/internal/domain"
	"rentdesk/internal/port"
	"rentdesk/internal/service"
	"rentdesk/mocks"
)

type collectionFixture struct {
	tx          *mocks.PassthroughTransactor
	collections *mocks.MockCollectionRepo
	dists       *mocks.MockDistributionRepo
	overpays    *mocks.MockOverpaymentRepo
	invoices    *mocks.MockInvoiceRepo
	items       *mocks.MockLineItemRepo
	companies   *mocks.MockCompanyRepo
	tenancies   *mocks.MockTenancyRepo
	tenants     *mocks.MockTenantRepo
	sender      *mocks.MockEmailSender
	svc         service.CollectionService

	companyID uuid.UUID
	invoice   *domain.Invoice
}

func newCollectionFixture(withSender bool) *collectionFixture {
	f := &collectionFixture{
		tx:          &mocks.PassthroughTransactor{},
		collections: new(mocks.MockCollectionRepo),
		dists:       new(mocks.MockDistributionRepo),
		overpays:    new(mocks.MockOverpaymentRepo),
		invoices:    new(mocks.MockInvoiceRepo),
		items:       new(mocks.MockLineItemRepo),
		companies:   new(mocks.MockCompanyRepo),
		tenancies:   new(mocks.MockTenancyRepo),
		tenants:     new(mocks.MockTenantRepo),
		sender:      new(mocks.MockEmailSender),
		companyID:   uuid.New(),
	}
	var sender port.EmailSender
	if withSender {
		sender = f.sender
	}
	f.svc = service.NewCollectionService(f.tx, f.collections, f.dists, f.overpays, f.invoices,
		f.items, f.companies, f.tenancies, f.tenants, sender)
	f.invoice = &domain.Invoice{
		ID:            uuid.New(),
		CompanyID:     f.companyID,
		TenancyID:     uuid.New(),
		InvoiceNumber: "INV250001",
		TotalAmount:   dec("3000"),
		Status:        domain.InvoiceStatusUnpaid,
	}
	return f
}

// invoiceItems returns two schedule rows and one additional charge due before
// both of them; allocation must still drain the schedule rows first.
func (f *collectionFixture) invoiceItems() []domain.LineItem {
	tid := f.invoice.TenancyID
	return []domain.LineItem{
		lineItem(domain.LineItemAdditionalCharge, tid, day(2024, 12, 15), "1000", domain.LineItemStatusInvoiced),
		lineItem(domain.LineItemPaymentSchedule, tid, day(2025, 2, 1), "1000", domain.LineItemStatusInvoiced),
		lineItem(domain.LineItemPaymentSchedule, tid, day(2025, 1, 1), "1000", domain.LineItemStatusInvoiced),
	}
}

// expectGet wires the read path used to build the returned breakdown.
func (f *collectionFixture) expectGet(c *domain.Collection, items []domain.LineItem, dists []domain.PaymentDistribution, ops []domain.Overpayment) {
	f.collections.On("GetByID", mock.Anything, f.companyID, c.ID).Return(c, nil)
	f.invoices.On("GetByID", mock.Anything, f.companyID, f.invoice.ID).Return(f.invoice, nil)
	f.items.On("ListByInvoice", mock.Anything, f.companyID, f.invoice.ID).Return(items, nil)
	f.dists.On("ListCompletedByInvoice", mock.Anything, f.companyID, f.invoice.ID, noID).Return(dists, nil)
	f.dists.On("ListByCollection", mock.Anything, f.companyID, c.ID).Return(dists, nil)
	f.overpays.On("ListByCollection", mock.Anything, f.companyID, c.ID).Return(ops, nil)
}

func cashInput(invoiceID uuid.UUID, amount string) service.CreateCollectionInput {
	return service.CreateCollectionInput{
		InvoiceID: invoiceID,
		CollectionFields: service.CollectionFields{
			Amount:         dec(amount),
			CollectionDate: "2025-01-10",
			CollectionMode: domain.CollectionModeCash,
		},
	}
}

func TestCollectionService_Create_SequentialPartialAllocation(t *testing.T) {
	f := newCollectionFixture(false)
	items := f.invoiceItems()
	charge, feb, jan := &items[0], &items[1], &items[2]
	collectionID := uuid.New()

	f.invoices.On("GetForUpdate", mock.Anything, f.companyID, f.invoice.ID).Return(f.invoice, nil)
	f.collections.On("Create", mock.Anything, mock.AnythingOfType("*domain.Collection")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Collection).ID = collectionID
		}).Return(nil)
	f.items.On("ListByInvoice", mock.Anything, f.companyID, f.invoice.ID).Return(items, nil)
	f.dists.On("ListCompletedByInvoice", mock.Anything, f.companyID, f.invoice.ID, someID).
		Return([]domain.PaymentDistribution{}, nil)

	var written []domain.PaymentDistribution
	f.dists.On("CreateBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written = args.Get(1).([]domain.PaymentDistribution)
		}).Return(nil)
	f.items.On("UpdateStatus", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, jan.ID, domain.LineItemStatusPaid).Return(nil)
	f.items.On("UpdateStatus", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, feb.ID, domain.LineItemStatusPartiallyPaid).Return(nil)
	f.collections.On("SumCompleted", mock.Anything, f.companyID, f.invoice.ID).Return(dec("1500"), nil)
	f.invoices.On("UpdateStatus", mock.Anything, f.companyID, f.invoice.ID, domain.InvoiceStatusPartiallyPaid).Return(nil)

	stored := &domain.Collection{ID: collectionID, CompanyID: f.companyID, InvoiceID: f.invoice.ID, Amount: dec("1500"), Status: domain.CollectionStatusCompleted}
	f.collections.On("GetByID", mock.Anything, f.companyID, collectionID).Return(stored, nil)
	f.invoices.On("GetByID", mock.Anything, f.companyID, f.invoice.ID).Return(f.invoice, nil)
	persisted := []domain.PaymentDistribution{
		domain.NewDistribution(f.companyID, collectionID, jan, dec("1000")),
		domain.NewDistribution(f.companyID, collectionID, feb, dec("500")),
	}
	f.dists.On("ListCompletedByInvoice", mock.Anything, f.companyID, f.invoice.ID, noID).Return(persisted, nil)
	f.dists.On("ListByCollection", mock.Anything, f.companyID, collectionID).Return(persisted, nil)
	f.overpays.On("ListByCollection", mock.Anything, f.companyID, collectionID).Return([]domain.Overpayment{}, nil)

	detail, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), cashInput(f.invoice.ID, "1500"))
	require.NoError(t, err)

	require.Len(t, written, 2)
	assert.Equal(t, jan.ID, *written[0].PaymentScheduleID)
	assert.True(t, written[0].Amount.Equal(dec("1000")))
	assert.Equal(t, feb.ID, *written[1].PaymentScheduleID)
	assert.True(t, written[1].Amount.Equal(dec("500")))

	assert.Equal(t, domain.InvoiceStatusPartiallyPaid, f.invoice.Status)
	require.Len(t, detail.Items, 3)
	assert.Equal(t, jan.ID, detail.Items[0].ItemID)
	assert.True(t, detail.Items[0].Balance.IsZero())
	assert.True(t, detail.Items[1].Applied.Equal(dec("500")))
	assert.True(t, detail.Items[1].Balance.Equal(dec("500")))
	assert.Equal(t, charge.ID, detail.Items[2].ItemID)
	assert.True(t, detail.Items[2].Applied.IsZero())
	assert.Equal(t, domain.LineItemStatusInvoiced, detail.Items[2].Status)
	assert.True(t, detail.Overpayment.IsZero())

	f.overpays.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.items.AssertExpectations(t)
	f.invoices.AssertExpectations(t)
}

func TestCollectionService_Create_Overpayment(t *testing.T) {
	f := newCollectionFixture(false)
	f.invoice.TotalAmount = dec("1000")
	items := []domain.LineItem{
		lineItem(domain.LineItemPaymentSchedule, f.invoice.TenancyID, day(2025, 1, 1), "1000", domain.LineItemStatusInvoiced),
	}
	collectionID := uuid.New()

	f.invoices.On("GetForUpdate", mock.Anything, f.companyID, f.invoice.ID).Return(f.invoice, nil)
	f.collections.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Collection).ID = collectionID }).Return(nil)
	f.items.On("ListByInvoice", mock.Anything, f.companyID, f.invoice.ID).Return(items, nil)
	f.dists.On("ListCompletedByInvoice", mock.Anything, f.companyID, f.invoice.ID, someID).Return([]domain.PaymentDistribution{}, nil)
	f.dists.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.overpays.On("Create", mock.Anything, mock.MatchedBy(func(op *domain.Overpayment) bool {
		return op.Amount.Equal(dec("250")) &&
			op.CollectionID == collectionID &&
			op.TenancyID == f.invoice.TenancyID &&
			op.Status == domain.OverpaymentStatusAvailable
	})).Return(nil)
	f.items.On("UpdateStatus", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, items[0].ID, domain.LineItemStatusPaid).Return(nil)
	f.collections.On("SumCompleted", mock.Anything, f.companyID, f.invoice.ID).Return(dec("1250"), nil)
	f.invoices.On("UpdateStatus", mock.Anything, f.companyID, f.invoice.ID, domain.InvoiceStatusPaid).Return(nil)

	stored := &domain.Collection{ID: collectionID, CompanyID: f.companyID, InvoiceID: f.invoice.ID, Amount: dec("1250"), Status: domain.CollectionStatusCompleted}
	f.expectGet(stored, items, nil, []domain.Overpayment{{Amount: dec("250")}})

	detail, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), cashInput(f.invoice.ID, "1250"))
	require.NoError(t, err)
	assert.True(t, detail.Overpayment.Equal(dec("250")))
	assert.Equal(t, domain.InvoiceStatusPaid, f.invoice.Status)
	f.overpays.AssertExpectations(t)
}

func TestCollectionService_Create_InvoiceNotUnpaid(t *testing.T) {
	f := newCollectionFixture(false)
	f.invoice.Status = domain.InvoiceStatusPartiallyPaid
	f.invoices.On("GetForUpdate", mock.Anything, f.companyID, f.invoice.ID).Return(f.invoice, nil)

	_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), cashInput(f.invoice.ID, "100"))
	assert.ErrorIs(t, err, domain.ErrInvoiceNotUnpaid)
	f.collections.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCollectionService_Create_FailedCollectionDoesNotAllocate(t *testing.T) {
	f := newCollectionFixture(true)
	items := f.invoiceItems()
	collectionID := uuid.New()

	input := cashInput(f.invoice.ID, "500")
	input.Status = domain.CollectionStatusFailed

	f.invoices.On("GetForUpdate", mock.Anything, f.companyID, f.invoice.ID).Return(f.invoice, nil)
	f.collections.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Collection).ID = collectionID }).Return(nil)
	f.items.On("ListByInvoice", mock.Anything, f.companyID, f.invoice.ID).Return(items, nil)
	f.dists.On("ListCompletedByInvoice", mock.Anything, f.companyID, f.invoice.ID, someID).Return([]domain.PaymentDistribution{}, nil)
	f.collections.On("SumCompleted", mock.Anything, f.companyID, f.invoice.ID).Return(decimal.Zero, nil)

	stored := &domain.Collection{ID: collectionID, CompanyID: f.companyID, InvoiceID: f.invoice.ID, Amount: dec("500"), Status: domain.CollectionStatusFailed}
	f.expectGet(stored, items, nil, nil)

	_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), input)
	require.NoError(t, err)

	f.dists.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	f.items.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.invoices.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.sender.AssertNotCalled(t, "SendPaymentReceipt", mock.Anything, mock.Anything)
}

func TestCollectionService_Create_SendsReceipt(t *testing.T) {
	f := newCollectionFixture(true)
	f.invoice.TotalAmount = dec("1000")
	items := []domain.LineItem{
		lineItem(domain.LineItemPaymentSchedule, f.invoice.TenancyID, day(2025, 1, 1), "1000", domain.LineItemStatusInvoiced),
	}
	collectionID := uuid.New()
	tenantID := uuid.New()

	f.invoices.On("GetForUpdate", mock.Anything, f.companyID, f.invoice.ID).Return(f.invoice, nil)
	f.collections.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Collection).ID = collectionID }).Return(nil)
	f.items.On("ListByInvoice", mock.Anything, f.companyID, f.invoice.ID).Return(items, nil)
	f.dists.On("ListCompletedByInvoice", mock.Anything, f.companyID, f.invoice.ID, someID).Return([]domain.PaymentDistribution{}, nil)
	f.dists.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.items.On("UpdateStatus", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, items[0].ID, domain.LineItemStatusPartiallyPaid).Return(nil)
	f.collections.On("SumCompleted", mock.Anything, f.companyID, f.invoice.ID).Return(dec("400"), nil)
	f.invoices.On("UpdateStatus", mock.Anything, f.companyID, f.invoice.ID, domain.InvoiceStatusPartiallyPaid).Return(nil)

	stored := &domain.Collection{ID: collectionID, CompanyID: f.companyID, InvoiceID: f.invoice.ID, Amount: dec("400"), Status: domain.CollectionStatusCompleted}
	dists := []domain.PaymentDistribution{domain.NewDistribution(f.companyID, collectionID, &items[0], dec("400"))}
	f.expectGet(stored, items, dists, nil)

	f.companies.On("GetByID", mock.Anything, f.companyID).Return(&domain.Company{ID: f.companyID, Name: "Acme Properties", Currency: "AED"}, nil)
	f.tenancies.On("GetByID", mock.Anything, f.companyID, f.invoice.TenancyID).Return(&domain.Tenancy{ID: f.invoice.TenancyID, TenantID: tenantID}, nil)
	f.tenants.On("GetByID", mock.Anything, f.companyID, tenantID).Return(&domain.Tenant{ID: tenantID, FullName: "Jane Doe", Email: "jane@example.com"}, nil)
	f.sender.On("SendPaymentReceipt", mock.Anything, mock.MatchedBy(func(r port.PaymentReceipt) bool {
		return r.ToEmail == "jane@example.com" &&
			r.InvoiceNumber == "INV250001" &&
			r.Amount.Equal(dec("400")) &&
			r.Balance.Equal(dec("600")) &&
			r.Currency == "AED"
	})).Return(nil)

	input := cashInput(f.invoice.ID, "400")
	_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), input)
	require.NoError(t, err)
	f.sender.AssertExpectations(t)
}

func TestCollectionService_Create_Validation(t *testing.T) {
	invoiceID := uuid.New()
	chequeDate := "2025-01-05"

	tests := []struct {
		name  string
		field string
		edit  func(in *service.CreateCollectionInput)
	}{
		{"zero amount", "amount", func(in *service.CreateCollectionInput) { in.Amount = decimal.Zero }},
		{"bad date", "collection_date", func(in *service.CreateCollectionInput) { in.CollectionDate = "10/01/2025" }},
		{"unknown mode", "collection_mode", func(in *service.CreateCollectionInput) { in.CollectionMode = "barter" }},
		{"unknown status", "status", func(in *service.CreateCollectionInput) { in.Status = "bounced" }},
		{"cheque without number", "cheque_number", func(in *service.CreateCollectionInput) {
			in.CollectionMode = domain.CollectionModeCheque
			in.ChequeDate = &chequeDate
		}},
		{"cheque without date", "cheque_date", func(in *service.CreateCollectionInput) {
			in.CollectionMode = domain.CollectionModeCheque
			in.ChequeNumber = "000123"
		}},
		{"transfer without bank", "bank_name", func(in *service.CreateCollectionInput) {
			in.CollectionMode = domain.CollectionModeBankTransfer
			in.TransactionReference = "TRX-1"
		}},
		{"transfer without reference", "transaction_reference", func(in *service.CreateCollectionInput) {
			in.CollectionMode = domain.CollectionModeBankTransfer
			in.BankName = "Emirates NBD"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCollectionFixture(false)
			in := cashInput(invoiceID, "100")
			tt.edit(&in)

			_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), in)
			require.ErrorIs(t, err, domain.ErrValidation)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, f.tx.Calls)
		})
	}
}

func TestCollectionService_Delete_ResyncsStatuses(t *testing.T) {
	f := newCollectionFixture(false)
	f.invoice.Status = domain.InvoiceStatusPartiallyPaid
	items := []domain.LineItem{
		lineItem(domain.LineItemPaymentSchedule, f.invoice.TenancyID, day(2025, 1, 1), "1000", domain.LineItemStatusPaid),
		lineItem(domain.LineItemPaymentSchedule, f.invoice.TenancyID, day(2025, 2, 1), "1000", domain.LineItemStatusPartiallyPaid),
	}
	doomed := &domain.Collection{ID: uuid.New(), CompanyID: f.companyID, InvoiceID: f.invoice.ID, Amount: dec("500"), Status: domain.CollectionStatusCompleted}
	// Another completed collection of 1000 still covers the first row.
	remaining := []domain.PaymentDistribution{domain.NewDistribution(f.companyID, uuid.New(), &items[0], dec("1000"))}

	f.collections.On("GetByID", mock.Anything, f.companyID, doomed.ID).Return(doomed, nil)
	f.invoices.On("GetForUpdate", mock.Anything, f.companyID, f.invoice.ID).Return(f.invoice, nil)
	f.dists.On("DeleteByCollection", mock.Anything, f.companyID, doomed.ID).Return(nil)
	f.overpays.On("DeleteByCollection", mock.Anything, f.companyID, doomed.ID).Return(nil)
	f.collections.On("Delete", mock.Anything, f.companyID, doomed.ID).Return(nil)
	f.items.On("ListByInvoice", mock.Anything, f.companyID, f.invoice.ID).Return(items, nil)
	f.dists.On("ListCompletedByInvoice", mock.Anything, f.companyID, f.invoice.ID, someID).Return(remaining, nil)
	f.items.On("UpdateStatus", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, items[1].ID, domain.LineItemStatusInvoiced).Return(nil)
	f.collections.On("SumCompleted", mock.Anything, f.companyID, f.invoice.ID).Return(dec("1000"), nil)

	err := f.svc.Delete(context.Background(), f.companyID, doomed.ID)
	require.NoError(t, err)

	f.items.AssertExpectations(t)
	f.items.AssertNotCalled(t, "UpdateStatus", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, items[0].ID, mock.Anything)
	f.dists.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	f.invoices.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCollectionService_Update_Reallocates(t *testing.T) {
	f := newCollectionFixture(false)
	f.invoice.Status = domain.InvoiceStatusPartiallyPaid
	f.invoice.TotalAmount = dec("2000")
	items := []domain.LineItem{
		lineItem(domain.LineItemPaymentSchedule, f.invoice.TenancyID, day(2025, 1, 1), "1000", domain.LineItemStatusPartiallyPaid),
		lineItem(domain.LineItemPaymentSchedule, f.invoice.TenancyID, day(2025, 2, 1), "1000", domain.LineItemStatusInvoiced),
	}
	existing := &domain.Collection{
		ID: uuid.New(), CompanyID: f.companyID, InvoiceID: f.invoice.ID, TenancyID: f.invoice.TenancyID,
		Amount: dec("500"), CollectionMode: domain.CollectionModeCash, Status: domain.CollectionStatusCompleted,
	}

	f.collections.On("GetByID", mock.Anything, f.companyID, existing.ID).Return(existing, nil)
	f.invoices.On("GetForUpdate", mock.Anything, f.companyID, f.invoice.ID).Return(f.invoice, nil)
	f.dists.On("DeleteByCollection", mock.Anything, f.companyID, existing.ID).Return(nil)
	f.overpays.On("DeleteByCollection", mock.Anything, f.companyID, existing.ID).Return(nil)
	f.collections.On("Update", mock.Anything, existing).Return(nil)
	f.items.On("ListByInvoice", mock.Anything, f.companyID, f.invoice.ID).Return(items, nil)
	f.dists.On("ListCompletedByInvoice", mock.Anything, f.companyID, f.invoice.ID, someID).Return([]domain.PaymentDistribution{}, nil)
	f.dists.On("CreateBatch", mock.Anything, mock.MatchedBy(func(d []domain.PaymentDistribution) bool {
		return len(d) == 2 && d[0].Amount.Equal(dec("1000")) && d[1].Amount.Equal(dec("200"))
	})).Return(nil)
	f.items.On("UpdateStatus", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, items[0].ID, domain.LineItemStatusPaid).Return(nil)
	f.items.On("UpdateStatus", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, items[1].ID, domain.LineItemStatusPartiallyPaid).Return(nil)
	f.collections.On("SumCompleted", mock.Anything, f.companyID, f.invoice.ID).Return(dec("1200"), nil)
	f.dists.On("ListCompletedByInvoice", mock.Anything, f.companyID, f.invoice.ID, noID).Return([]domain.PaymentDistribution{}, nil)
	f.invoices.On("GetByID", mock.Anything, f.companyID, f.invoice.ID).Return(f.invoice, nil)
	f.dists.On("ListByCollection", mock.Anything, f.companyID, existing.ID).Return([]domain.PaymentDistribution{}, nil)
	f.overpays.On("ListByCollection", mock.Anything, f.companyID, existing.ID).Return([]domain.Overpayment{}, nil)

	_, err := f.svc.Update(context.Background(), f.companyID, existing.ID, service.UpdateCollectionInput{
		CollectionFields: service.CollectionFields{
			Amount:         dec("1200"),
			CollectionDate: "2025-01-12",
			CollectionMode: domain.CollectionModeCash,
		},
	})
	require.NoError(t, err)
	assert.True(t, existing.Amount.Equal(dec("1200")))
	f.dists.AssertExpectations(t)
	f.items.AssertExpectations(t)
}
