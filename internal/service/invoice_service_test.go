package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentdesk/internal/config"
	"rentdesk/internal/domain"
	"rentdesk/internal/port"
	"rentdesk/internal/service"
	"rentdesk/mocks"
)

type invoiceFixture struct {
	tx        *mocks.PassthroughTransactor
	invoices  *mocks.MockInvoiceRepo
	tenancies *mocks.MockTenancyRepo
	items     *mocks.MockLineItemRepo
	companies *mocks.MockCompanyRepo
	tenants   *mocks.MockTenantRepo
	sender    *mocks.MockEmailSender
	svc       service.InvoiceService

	companyID uuid.UUID
	tenancy   *domain.Tenancy
}

func newInvoiceFixture(withSender bool) *invoiceFixture {
	f := &invoiceFixture{
		tx:        &mocks.PassthroughTransactor{},
		invoices:  new(mocks.MockInvoiceRepo),
		tenancies: new(mocks.MockTenancyRepo),
		items:     new(mocks.MockLineItemRepo),
		companies: new(mocks.MockCompanyRepo),
		tenants:   new(mocks.MockTenantRepo),
		sender:    new(mocks.MockEmailSender),
		companyID: uuid.New(),
	}
	f.tenancy = &domain.Tenancy{
		ID:        uuid.New(),
		CompanyID: f.companyID,
		TenantID:  uuid.New(),
		Status:    domain.TenancyStatusActive,
	}
	var sender port.EmailSender
	if withSender {
		sender = f.sender
	}
	f.svc = service.NewInvoiceService(f.tx, f.invoices, f.tenancies, f.items, f.companies, f.tenants,
		sender, config.BillingConfig{LeadDays: 7})
	return f
}

func (f *invoiceFixture) pending(kind domain.LineItemKind, due time.Time, total string) domain.LineItem {
	it := lineItem(kind, f.tenancy.ID, due, total, domain.LineItemStatusPending)
	it.CompanyID = f.companyID
	return it
}

func itemRef(it domain.LineItem) service.InvoiceItemInput {
	id := it.ID
	in := service.InvoiceItemInput{Type: it.Kind, Total: it.Total}
	if it.Kind == domain.LineItemAdditionalCharge {
		in.ChargeID = &id
	} else {
		in.ScheduleID = &id
	}
	return in
}

func strPtr(s string) *string { return &s }

func TestInvoiceService_Create_Manual(t *testing.T) {
	f := newInvoiceFixture(true)
	mar := f.pending(domain.LineItemPaymentSchedule, day(2025, 3, 1), "5250")
	apr := f.pending(domain.LineItemPaymentSchedule, day(2025, 4, 1), "5250")
	fee := f.pending(domain.LineItemAdditionalCharge, day(2025, 2, 20), "300")
	userID := uuid.New()

	f.tenancies.On("GetByID", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.items.On("GetByIDsForUpdate", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, []uuid.UUID{mar.ID, apr.ID}).
		Return([]domain.LineItem{mar, apr}, nil)
	f.items.On("GetByIDsForUpdate", mock.Anything, f.companyID, domain.LineItemAdditionalCharge, []uuid.UUID{fee.ID}).
		Return([]domain.LineItem{fee}, nil)
	f.invoices.On("LockNumbering", mock.Anything, f.companyID, "INV25").Return(nil)
	f.invoices.On("LastNumber", mock.Anything, f.companyID, "INV25").Return("INV250002", nil)

	var created *domain.Invoice
	f.invoices.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Invoice)
			created.ID = uuid.New()
		}).Return(nil)
	f.invoices.On("AttachItems", mock.Anything, f.companyID, mock.Anything, mock.MatchedBy(func(items []domain.LineItem) bool {
		return len(items) == 3
	})).Return(nil)
	for _, it := range []domain.LineItem{mar, apr, fee} {
		f.items.On("UpdateStatus", mock.Anything, f.companyID, it.Kind, it.ID, domain.LineItemStatusInvoiced).Return(nil).Once()
	}

	f.companies.On("GetByID", mock.Anything, f.companyID).Return(&domain.Company{ID: f.companyID, Name: "Acme", Currency: "AED"}, nil)
	f.tenants.On("GetByID", mock.Anything, f.companyID, f.tenancy.TenantID).
		Return(&domain.Tenant{ID: f.tenancy.TenantID, FullName: "Omar Ali", Email: "omar@example.com"}, nil)
	f.sender.On("SendInvoiceNotice", mock.Anything, mock.MatchedBy(func(n port.InvoiceNotice) bool {
		return n.InvoiceNumber == "INV250003" && n.TotalAmount.Equal(dec("10800")) && n.ToEmail == "omar@example.com"
	})).Return(nil)

	inv, err := f.svc.Create(context.Background(), f.companyID, userID, service.CreateInvoiceInput{
		TenancyID:   f.tenancy.ID,
		InvoiceDate: strPtr("2025-03-01"),
		Items:       []service.InvoiceItemInput{itemRef(mar), itemRef(fee), itemRef(apr)},
		TotalAmount: dec("10800"),
	})
	require.NoError(t, err)

	assert.Same(t, created, inv)
	assert.Equal(t, "INV250003", inv.InvoiceNumber)
	assert.Equal(t, domain.InvoiceStatusUnpaid, inv.Status)
	assert.Equal(t, domain.InvoiceSourceManual, inv.Source)
	assert.Equal(t, day(2025, 3, 1), inv.InvoiceDate)
	assert.Equal(t, day(2025, 2, 20), inv.StartDate)
	assert.Equal(t, day(2025, 4, 1), inv.EndDate)
	require.NotNil(t, inv.CreatedBy)
	assert.Equal(t, userID, *inv.CreatedBy)
	require.Len(t, inv.Items, 3)
	for _, it := range inv.Items {
		assert.Equal(t, domain.LineItemStatusInvoiced, it.Status)
	}
	f.items.AssertExpectations(t)
	f.sender.AssertExpectations(t)
}

func TestInvoiceService_Create_DefaultsDateToToday(t *testing.T) {
	f := newInvoiceFixture(false)
	service.SetInvoiceClock(f.svc, func() time.Time { return time.Date(2026, 1, 5, 16, 30, 0, 0, time.UTC) })
	rent := f.pending(domain.LineItemPaymentSchedule, day(2026, 1, 1), "4000")

	f.tenancies.On("GetByID", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.items.On("GetByIDsForUpdate", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, []uuid.UUID{rent.ID}).
		Return([]domain.LineItem{rent}, nil)
	f.invoices.On("LockNumbering", mock.Anything, f.companyID, "INV26").Return(nil)
	f.invoices.On("LastNumber", mock.Anything, f.companyID, "INV26").Return("", nil)
	f.invoices.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.invoices.On("AttachItems", mock.Anything, f.companyID, mock.Anything, mock.Anything).Return(nil)
	f.items.On("UpdateStatus", mock.Anything, f.companyID, rent.Kind, rent.ID, domain.LineItemStatusInvoiced).Return(nil)

	inv, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), service.CreateInvoiceInput{
		TenancyID:   f.tenancy.ID,
		StartDate:   strPtr("2026-01-01"),
		EndDate:     strPtr("2026-03-31"),
		Items:       []service.InvoiceItemInput{itemRef(rent)},
		TotalAmount: dec("4000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "INV260001", inv.InvoiceNumber)
	assert.Equal(t, day(2026, 1, 5), inv.InvoiceDate)
	assert.Equal(t, day(2026, 3, 31), inv.EndDate)
}

func TestInvoiceService_Create_Rejections(t *testing.T) {
	t.Run("no items", func(t *testing.T) {
		f := newInvoiceFixture(false)
		_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), service.CreateInvoiceInput{TenancyID: f.tenancy.ID})
		assert.ErrorIs(t, err, domain.ErrNoInvoiceItems)
	})

	t.Run("total mismatch", func(t *testing.T) {
		f := newInvoiceFixture(false)
		rent := f.pending(domain.LineItemPaymentSchedule, day(2025, 3, 1), "5250")
		_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), service.CreateInvoiceInput{
			TenancyID:   f.tenancy.ID,
			Items:       []service.InvoiceItemInput{itemRef(rent)},
			TotalAmount: dec("5000"),
		})
		assert.ErrorIs(t, err, domain.ErrInvoiceTotal)
		assert.Zero(t, f.tx.Calls)
	})

	t.Run("duplicate item", func(t *testing.T) {
		f := newInvoiceFixture(false)
		rent := f.pending(domain.LineItemPaymentSchedule, day(2025, 3, 1), "100")
		_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), service.CreateInvoiceInput{
			TenancyID:   f.tenancy.ID,
			Items:       []service.InvoiceItemInput{itemRef(rent), itemRef(rent)},
			TotalAmount: dec("200"),
		})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "items", ve.Field)
	})

	t.Run("schedule reference carries a charge id", func(t *testing.T) {
		f := newInvoiceFixture(false)
		id := uuid.New()
		_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), service.CreateInvoiceInput{
			TenancyID:   f.tenancy.ID,
			Items:       []service.InvoiceItemInput{{Type: domain.LineItemPaymentSchedule, ChargeID: &id, Total: dec("1")}},
			TotalAmount: dec("1"),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	lockedCases := []struct {
		name    string
		mutate  func(f *invoiceFixture, it *domain.LineItem)
		returns func(it domain.LineItem) []domain.LineItem
		want    error
	}{
		{
			name:    "item already invoiced",
			mutate:  func(_ *invoiceFixture, it *domain.LineItem) { it.Status = domain.LineItemStatusInvoiced },
			returns: func(it domain.LineItem) []domain.LineItem { return []domain.LineItem{it} },
			want:    domain.ErrLineItemNotPending,
		},
		{
			name:    "stored total differs",
			mutate:  func(_ *invoiceFixture, it *domain.LineItem) { it.Total = dec("5249.99") },
			returns: func(it domain.LineItem) []domain.LineItem { return []domain.LineItem{it} },
			want:    domain.ErrInvoiceItemTotal,
		},
		{
			name:    "item of another tenancy",
			mutate:  func(_ *invoiceFixture, it *domain.LineItem) { it.TenancyID = uuid.New() },
			returns: func(it domain.LineItem) []domain.LineItem { return []domain.LineItem{it} },
			want:    domain.ErrValidation,
		},
		{
			name:    "item missing",
			mutate:  func(*invoiceFixture, *domain.LineItem) {},
			returns: func(domain.LineItem) []domain.LineItem { return []domain.LineItem{} },
			want:    domain.ErrLineItemNotFound,
		},
	}
	for _, tc := range lockedCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newInvoiceFixture(false)
			rent := f.pending(domain.LineItemPaymentSchedule, day(2025, 3, 1), "5250")
			ref := itemRef(rent)
			stored := rent
			tc.mutate(f, &stored)

			f.tenancies.On("GetByID", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
			f.items.On("GetByIDsForUpdate", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, []uuid.UUID{rent.ID}).
				Return(tc.returns(stored), nil)

			_, err := f.svc.Create(context.Background(), f.companyID, uuid.New(), service.CreateInvoiceInput{
				TenancyID:   f.tenancy.ID,
				Items:       []service.InvoiceItemInput{ref},
				TotalAmount: dec("5250"),
			})
			assert.ErrorIs(t, err, tc.want)
			f.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestInvoiceService_CreateAutomated(t *testing.T) {
	f := newInvoiceFixture(false)
	asOf := time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)
	rent := f.pending(domain.LineItemPaymentSchedule, day(2025, 3, 5), "5250")
	fee := f.pending(domain.LineItemAdditionalCharge, day(2025, 3, 2), "150")
	claimed := fee
	claimed.Status = domain.LineItemStatusInvoiced

	f.tenancies.On("GetForUpdate", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
	f.items.On("ListPendingDue", mock.Anything, f.companyID, f.tenancy.ID, day(2025, 3, 8)).
		Return([]domain.LineItem{rent, fee}, nil)
	f.items.On("GetByIDsForUpdate", mock.Anything, f.companyID, domain.LineItemPaymentSchedule, []uuid.UUID{rent.ID}).
		Return([]domain.LineItem{rent}, nil)
	// A manual invoice took the fee between the scan and the lock.
	f.items.On("GetByIDsForUpdate", mock.Anything, f.companyID, domain.LineItemAdditionalCharge, []uuid.UUID{fee.ID}).
		Return([]domain.LineItem{claimed}, nil)
	f.invoices.On("LockNumbering", mock.Anything, f.companyID, "AUTO25").Return(nil)
	f.invoices.On("LastNumber", mock.Anything, f.companyID, "AUTO25").Return("AUTO250041", nil)
	f.invoices.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.invoices.On("AttachItems", mock.Anything, f.companyID, mock.Anything, mock.Anything).Return(nil)
	f.items.On("UpdateStatus", mock.Anything, f.companyID, rent.Kind, rent.ID, domain.LineItemStatusInvoiced).Return(nil)

	inv, err := f.svc.CreateAutomated(context.Background(), f.companyID, f.tenancy.ID, asOf)
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, "AUTO250042", inv.InvoiceNumber)
	assert.Equal(t, domain.InvoiceSourceAutomated, inv.Source)
	assert.True(t, inv.TotalAmount.Equal(dec("5250")))
	assert.Nil(t, inv.CreatedBy)
	assert.Equal(t, day(2025, 3, 1), inv.InvoiceDate)
	assert.Equal(t, day(2025, 3, 5), inv.StartDate)
	assert.Equal(t, day(2025, 3, 5), inv.EndDate)
	f.items.AssertNotCalled(t, "UpdateStatus", mock.Anything, f.companyID, fee.Kind, fee.ID, mock.Anything)
}

func TestInvoiceService_CreateAutomated_NothingToDo(t *testing.T) {
	t.Run("nothing due", func(t *testing.T) {
		f := newInvoiceFixture(false)
		f.tenancies.On("GetForUpdate", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)
		f.items.On("ListPendingDue", mock.Anything, f.companyID, f.tenancy.ID, mock.Anything).Return([]domain.LineItem{}, nil)

		inv, err := f.svc.CreateAutomated(context.Background(), f.companyID, f.tenancy.ID, day(2025, 3, 1))
		require.NoError(t, err)
		assert.Nil(t, inv)
		f.invoices.AssertNotCalled(t, "LockNumbering", mock.Anything, mock.Anything, mock.Anything)
	})

	for _, status := range []domain.TenancyStatus{domain.TenancyStatusPending, domain.TenancyStatusTerminated, domain.TenancyStatusClosed} {
		t.Run(string(status), func(t *testing.T) {
			f := newInvoiceFixture(false)
			f.tenancy.Status = status
			f.tenancies.On("GetForUpdate", mock.Anything, f.companyID, f.tenancy.ID).Return(f.tenancy, nil)

			inv, err := f.svc.CreateAutomated(context.Background(), f.companyID, f.tenancy.ID, day(2025, 3, 1))
			require.NoError(t, err)
			assert.Nil(t, inv)
			f.items.AssertNotCalled(t, "ListPendingDue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestInvoiceService_Get(t *testing.T) {
	f := newInvoiceFixture(false)
	inv := &domain.Invoice{ID: uuid.New(), CompanyID: f.companyID, TotalAmount: decimal.Zero}
	f.invoices.On("GetByID", mock.Anything, f.companyID, inv.ID).Return(inv, nil)
	f.items.On("ListByInvoice", mock.Anything, f.companyID, inv.ID).Return(nil, nil)

	got, err := f.svc.Get(context.Background(), f.companyID, inv.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestInvoiceService_Get_NotFound(t *testing.T) {
	f := newInvoiceFixture(false)
	id := uuid.New()
	f.invoices.On("GetByID", mock.Anything, f.companyID, id).Return(nil, domain.ErrInvoiceNotFound)

	_, err := f.svc.Get(context.Background(), f.companyID, id)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}
