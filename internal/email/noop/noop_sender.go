package noop

import (
	"context"

	"go.uber.org/zap"

	"rentdesk/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates an EmailSender that only logs what it would have sent.
func NewNoopSender(frontendURL string) port.EmailSender {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendInvoiceNotice(_ context.Context, n port.InvoiceNotice) error {
	zap.S().Infow("noopSender.SendInvoiceNotice: email suppressed",
		"to", n.ToEmail,
		"invoice_number", n.InvoiceNumber,
		"total", n.TotalAmount.StringFixed(2),
		"currency", n.Currency,
		"link", s.frontendURL,
	)
	return nil
}

func (s *noopSender) SendPaymentReceipt(_ context.Context, r port.PaymentReceipt) error {
	zap.S().Infow("noopSender.SendPaymentReceipt: email suppressed",
		"to", r.ToEmail,
		"invoice_number", r.InvoiceNumber,
		"amount", r.Amount.StringFixed(2),
		"balance", r.Balance.StringFixed(2),
		"currency", r.Currency,
	)
	return nil
}
