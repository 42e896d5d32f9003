package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentdesk/internal/domain"
)

// RefundBalance is what a tenancy may still be paid back.
type RefundBalance struct {
	TotalDeposit  decimal.Decimal `json:"total_deposit"`
	TotalExcess   decimal.Decimal `json:"total_excess"`
	TotalRefunded decimal.Decimal `json:"total_refunded"`
	Refundable    decimal.Decimal `json:"refundable"`
}

// IsSettledDeposit reports whether a deposit row counts toward the refundable balance.
func IsSettledDeposit(status domain.LineItemStatus) bool {
	return status == domain.LineItemStatusPaid || status == domain.LineItemStatusInvoiced
}

// ComputeRefundable sums settled deposit rows and available overpayments and
// subtracts refunds already made. The refund identified by exclude, if any, is
// left out so that an update can be checked against its own previous amount.
func ComputeRefundable(deposits []domain.LineItem, overpayments []domain.Overpayment, refunds []domain.Refund, exclude *uuid.UUID) RefundBalance {
	bal := RefundBalance{
		TotalDeposit:  decimal.Zero,
		TotalExcess:   decimal.Zero,
		TotalRefunded: decimal.Zero,
	}
	for i := range deposits {
		if IsSettledDeposit(deposits[i].Status) {
			bal.TotalDeposit = bal.TotalDeposit.Add(deposits[i].Total)
		}
	}
	for i := range overpayments {
		if overpayments[i].Status == domain.OverpaymentStatusAvailable {
			bal.TotalExcess = bal.TotalExcess.Add(overpayments[i].Amount)
		}
	}
	for i := range refunds {
		if exclude != nil && refunds[i].ID == *exclude {
			continue
		}
		bal.TotalRefunded = bal.TotalRefunded.Add(refunds[i].Amount)
	}
	bal.Refundable = bal.TotalDeposit.Add(bal.TotalExcess).Sub(bal.TotalRefunded)
	return bal
}

// InferRefundType picks the refund type from the balance composition.
func InferRefundType(bal RefundBalance) domain.RefundType {
	switch {
	case bal.TotalDeposit.IsPositive():
		return domain.RefundTypeDeposit
	case bal.TotalExcess.IsPositive():
		return domain.RefundTypeExcess
	default:
		return domain.RefundTypeOther
	}
}

// CheckRefund rejects non-positive amounts and amounts above the refundable balance.
func CheckRefund(amount decimal.Decimal, bal RefundBalance) error {
	if !amount.IsPositive() {
		return domain.NewValidationError("amount", "must be greater than zero")
	}
	if amount.GreaterThan(bal.Refundable) {
		return domain.ErrRefundExceeds
	}
	return nil
}
