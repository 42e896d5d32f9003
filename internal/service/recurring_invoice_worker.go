package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rentdesk/internal/config"
	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// RecurringInvoiceWorker periodically issues automated invoices for tenancies
// whose pending line items have come due.
type RecurringInvoiceWorker struct {
	tenancyRepo port.TenancyRepository
	invoiceSvc  InvoiceService
	cfg         config.BillingConfig
	now         clock

	wg       sync.WaitGroup
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewRecurringInvoiceWorker creates a new RecurringInvoiceWorker.
func NewRecurringInvoiceWorker(tenancyRepo port.TenancyRepository, invoiceSvc InvoiceService, cfg config.BillingConfig) *RecurringInvoiceWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Hour
	}
	return &RecurringInvoiceWorker{
		tenancyRepo: tenancyRepo,
		invoiceSvc:  invoiceSvc,
		cfg:         cfg,
		now:         systemClock,
		inFlight:    make(map[uuid.UUID]struct{}),
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight invoice runs have finished.
func (w *RecurringInvoiceWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	zap.S().Infow("recurringInvoiceWorker: started",
		"poll", w.cfg.PollInterval.String(), "concurrency", w.cfg.Concurrency, "lead_days", w.cfg.LeadDays)

	w.tick(ctx, sem)
	for {
		select {
		case <-ctx.Done():
			zap.S().Info("recurringInvoiceWorker: shutting down, waiting for in-flight runs")
			w.wg.Wait()
			zap.S().Info("recurringInvoiceWorker: shutdown complete")
			return
		case <-ticker.C:
			w.tick(ctx, sem)
		}
	}
}

// RunOnce issues invoices for every due tenancy and waits for the runs to finish.
func (w *RecurringInvoiceWorker) RunOnce(ctx context.Context) {
	sem := make(chan struct{}, w.cfg.Concurrency)
	w.tick(ctx, sem)
	w.wg.Wait()
}

func (w *RecurringInvoiceWorker) tick(ctx context.Context, sem chan struct{}) {
	available := w.cfg.Concurrency - len(sem)
	if available <= 0 {
		return
	}

	asOf := w.now()
	dueBy := domain.DateOnly(asOf).AddDate(0, 0, w.cfg.LeadDays)
	due, err := w.tenancyRepo.ListDueForInvoicing(ctx, dueBy, available+w.inFlightCount())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		zap.S().Errorw("recurringInvoiceWorker: listing due tenancies failed", "error", err)
		return
	}

	for i := range due {
		d := due[i]
		if !w.claim(d.TenancyID) {
			continue
		}

		sem <- struct{}{}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }()
			defer w.release(d.TenancyID)

			// Detached from the poll context so a run in progress completes during shutdown.
			runCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			inv, err := w.invoiceSvc.CreateAutomated(runCtx, d.CompanyID, d.TenancyID, asOf)
			if err != nil {
				zap.S().Errorw("recurringInvoiceWorker: automated invoice failed",
					"company_id", d.CompanyID, "tenancy_id", d.TenancyID, "error", err)
				return
			}
			if inv != nil {
				zap.S().Infow("recurringInvoiceWorker: invoice issued",
					"company_id", d.CompanyID, "tenancy_id", d.TenancyID, "invoice_number", inv.InvoiceNumber)
			}
		}()
	}
}

func (w *RecurringInvoiceWorker) claim(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.inFlight[id]; ok {
		return false
	}
	w.inFlight[id] = struct{}{}
	return true
}

func (w *RecurringInvoiceWorker) release(id uuid.UUID) {
	w.mu.Lock()
	delete(w.inFlight, id)
	w.mu.Unlock()
}

func (w *RecurringInvoiceWorker) inFlightCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.inFlight)
}
