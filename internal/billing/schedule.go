package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentdesk/internal/domain"
)

// DefaultRentalMonths is the contract length assumed when a tenancy leaves it unset.
const DefaultRentalMonths = 12

// ChargeTypes holds the role-bearing charge types of one company.
type ChargeTypes map[domain.ChargeRole]*domain.ChargeType

var frequencyNames = map[int]string{
	1:  "Monthly",
	2:  "Bi-Monthly",
	3:  "Quarterly",
	6:  "Semi-Annual",
	12: "Annual",
}

// FrequencyMonths is the number of months between rent payments.
func FrequencyMonths(rentalMonths, noPayments int) int {
	if rentalMonths <= 0 {
		rentalMonths = DefaultRentalMonths
	}
	if noPayments <= 0 {
		return 1
	}
	freq := rentalMonths / noPayments
	if freq < 1 {
		freq = 1
	}
	return freq
}

// RentReason is the human readable label of a rent row.
func RentReason(freqMonths int) string {
	if name, ok := frequencyNames[freqMonths]; ok {
		return name + " Rent"
	}
	return fmt.Sprintf("%d-Monthly Rent", freqMonths)
}

// GenerateSchedule synthesizes the pending payment schedule of a tenancy:
// a deposit row and a commission row due on the start date, then NoPayments
// rent rows spaced FrequencyMonths apart from FirstRentDueOn. A component is
// skipped when its amount is unset or zero or the company has no charge type
// with the matching role.
func GenerateSchedule(t *domain.Tenancy, charges ChargeTypes) []domain.LineItem {
	var items []domain.LineItem
	start := domain.DateOnly(t.StartDate)

	if isSet(t.Deposit) {
		if ct := charges[domain.ChargeRoleDeposit]; ct != nil {
			items = append(items, newScheduleItem(t, ct, "Deposit", start, t.Deposit.Decimal))
		}
	}

	if isSet(t.Commission) {
		if ct := charges[domain.ChargeRoleCommission]; ct != nil {
			items = append(items, newScheduleItem(t, ct, "Commission", start, t.Commission.Decimal))
		}
	}

	if isSet(t.RentPerFrequency) && t.NoPayments > 0 {
		if ct := charges[domain.ChargeRoleRent]; ct != nil {
			freq := FrequencyMonths(t.RentalMonths, t.NoPayments)
			reason := RentReason(freq)
			first := start
			if t.FirstRentDueOn != nil {
				first = domain.DateOnly(*t.FirstRentDueOn)
			}
			for i := 0; i < t.NoPayments; i++ {
				due := domain.AddMonths(first, i*freq)
				items = append(items, newScheduleItem(t, ct, reason, due, t.RentPerFrequency.Decimal))
			}
		}
	}

	return items
}

// SkipPreserved drops generated rows that duplicate a preserved (already
// invoiced or paid) row with the same charge type and due date.
func SkipPreserved(generated, preserved []domain.LineItem) []domain.LineItem {
	if len(preserved) == 0 {
		return generated
	}
	type key struct {
		chargeType uuid.UUID
		due        time.Time
	}
	kept := make(map[key]int, len(preserved))
	for i := range preserved {
		kept[key{preserved[i].ChargeTypeID, domain.DateOnly(preserved[i].DueDate)}]++
	}

	out := make([]domain.LineItem, 0, len(generated))
	for i := range generated {
		k := key{generated[i].ChargeTypeID, domain.DateOnly(generated[i].DueDate)}
		if kept[k] > 0 {
			kept[k]--
			continue
		}
		out = append(out, generated[i])
	}
	return out
}

// NewLineItem builds a pending line item with tax resolved as of the due date.
func NewLineItem(kind domain.LineItemKind, t *domain.Tenancy, ct *domain.ChargeType, reason string, due time.Time, amount decimal.Decimal) domain.LineItem {
	item := domain.LineItem{
		ID:           uuid.New(),
		CompanyID:    t.CompanyID,
		TenancyID:    t.ID,
		ChargeTypeID: ct.ID,
		Reason:       reason,
		DueDate:      domain.DateOnly(due),
		Amount:       amount,
		Status:       domain.LineItemStatusPending,
		Kind:         kind,
	}
	item.Tax, _ = ComputeTax(amount, ct, item.DueDate)
	item.RecomputeTotal()
	return item
}

func newScheduleItem(t *domain.Tenancy, ct *domain.ChargeType, reason string, due time.Time, amount decimal.Decimal) domain.LineItem {
	return NewLineItem(domain.LineItemPaymentSchedule, t, ct, reason, due, amount)
}

func isSet(d decimal.NullDecimal) bool {
	return d.Valid && !d.Decimal.IsZero()
}
