package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rentdesk/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendInvoiceNotice(ctx context.Context, notice port.InvoiceNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockEmailSender) SendPaymentReceipt(ctx context.Context, receipt port.PaymentReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}
