package service

import "time"

// SetInvoiceClock replaces the clock used for default invoice dates.
func SetInvoiceClock(s InvoiceService, now func() time.Time) {
	s.(*invoiceService).now = now
}

// SetRefundClock replaces the clock used for processed_at.
func SetRefundClock(s RefundService, now func() time.Time) {
	s.(*refundService).now = now
}

// SetWorkerClock replaces the clock used to compute the due horizon.
func SetWorkerClock(w *RecurringInvoiceWorker, now func() time.Time) {
	w.now = now
}
