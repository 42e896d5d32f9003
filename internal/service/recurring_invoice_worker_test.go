package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/config"
	"rentdesk/internal/domain"
	"rentdesk/internal/service"
	"rentdesk/mocks"
)

func TestRecurringInvoiceWorker_RunOnce(t *testing.T) {
	tenancies := new(mocks.MockTenancyRepo)
	invoices := new(mocks.MockInvoiceService)
	w := service.NewRecurringInvoiceWorker(tenancies, invoices, config.BillingConfig{Concurrency: 2, LeadDays: 5})
	now := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	service.SetWorkerClock(w, func() time.Time { return now })

	due := []domain.DueTenancy{
		{CompanyID: uuid.New(), TenancyID: uuid.New()},
		{CompanyID: uuid.New(), TenancyID: uuid.New()},
		{CompanyID: uuid.New(), TenancyID: uuid.New()},
	}
	tenancies.On("ListDueForInvoicing", mock.Anything, day(2025, 3, 6), 2).Return(due, nil).Once()
	invoices.On("CreateAutomated", mock.Anything, due[0].CompanyID, due[0].TenancyID, now).
		Return(&domain.Invoice{InvoiceNumber: "AUTO250001"}, nil).Once()
	invoices.On("CreateAutomated", mock.Anything, due[1].CompanyID, due[1].TenancyID, now).
		Return(nil, nil).Once()
	invoices.On("CreateAutomated", mock.Anything, due[2].CompanyID, due[2].TenancyID, now).
		Return(nil, errors.New("connection reset")).Once()

	w.RunOnce(context.Background())

	tenancies.AssertExpectations(t)
	invoices.AssertExpectations(t)
}

func TestRecurringInvoiceWorker_SkipsTenancyInFlight(t *testing.T) {
	tenancies := new(mocks.MockTenancyRepo)
	invoices := new(mocks.MockInvoiceService)
	w := service.NewRecurringInvoiceWorker(tenancies, invoices, config.BillingConfig{Concurrency: 2})

	d := domain.DueTenancy{CompanyID: uuid.New(), TenancyID: uuid.New()}
	tenancies.On("ListDueForInvoicing", mock.Anything, mock.Anything, 2).Return([]domain.DueTenancy{d, d}, nil)
	invoices.On("CreateAutomated", mock.Anything, d.CompanyID, d.TenancyID, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(50 * time.Millisecond) }).
		Return(nil, nil)

	w.RunOnce(context.Background())

	invoices.AssertNumberOfCalls(t, "CreateAutomated", 1)
}

func TestRecurringInvoiceWorker_ListFailure(t *testing.T) {
	tenancies := new(mocks.MockTenancyRepo)
	invoices := new(mocks.MockInvoiceService)
	w := service.NewRecurringInvoiceWorker(tenancies, invoices, config.BillingConfig{})
	tenancies.On("ListDueForInvoicing", mock.Anything, mock.Anything, 1).Return(nil, errors.New("db down"))

	w.RunOnce(context.Background())

	invoices.AssertNotCalled(t, "CreateAutomated", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecurringInvoiceWorker_StartStopsOnCancel(t *testing.T) {
	tenancies := new(mocks.MockTenancyRepo)
	invoices := new(mocks.MockInvoiceService)
	w := service.NewRecurringInvoiceWorker(tenancies, invoices, config.BillingConfig{PollInterval: time.Hour})

	polled := make(chan struct{}, 1)
	tenancies.On("ListDueForInvoicing", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case polled <- struct{}{}:
			default:
			}
		}).
		Return([]domain.DueTenancy{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-polled:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not poll on start")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
