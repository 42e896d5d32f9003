package billing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentdesk/internal/domain"
)

// Outstanding is an invoiced line item and what completed collections have
// already paid on it.
type Outstanding struct {
	Item        *domain.LineItem
	AlreadyPaid decimal.Decimal
}

// Remaining is the unpaid part of the item, never negative.
func (o Outstanding) Remaining() decimal.Decimal {
	r := o.Item.Total.Sub(o.AlreadyPaid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// ItemAllocation is the outcome of one allocation pass for a single item.
type ItemAllocation struct {
	Item    *domain.LineItem
	Applied decimal.Decimal
	PaidNow decimal.Decimal
	Status  domain.LineItemStatus
}

// Allocation is the outcome of applying one collection to an invoice.
type Allocation struct {
	TotalOutstanding decimal.Decimal
	Allocated        decimal.Decimal
	Excess           decimal.Decimal
	Items            []ItemAllocation
}

// Distributed returns the items that received part of the collection.
func (a Allocation) Distributed() []ItemAllocation {
	var out []ItemAllocation
	for _, it := range a.Items {
		if it.Applied.IsPositive() {
			out = append(out, it)
		}
	}
	return out
}

// SortForAllocation orders items the way collections consume them: schedule
// rows by due date, then additional charges by due date.
func SortForAllocation(items []Outstanding) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Item, items[j].Item
		if a.Kind != b.Kind {
			return a.Kind == domain.LineItemPaymentSchedule
		}
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// Allocate walks items in order and applies amount sequentially: each item
// takes min(remaining amount, item remaining) until the amount runs out.
// Anything above the invoice's total outstanding is reported as Excess.
// Items must already be sorted with SortForAllocation.
func Allocate(items []Outstanding, amount decimal.Decimal) Allocation {
	res := Allocation{
		TotalOutstanding: decimal.Zero,
		Allocated:        decimal.Zero,
		Excess:           decimal.Zero,
		Items:            make([]ItemAllocation, 0, len(items)),
	}
	for _, it := range items {
		res.TotalOutstanding = res.TotalOutstanding.Add(it.Remaining())
	}

	left := amount
	if left.GreaterThan(res.TotalOutstanding) {
		res.Excess = left.Sub(res.TotalOutstanding)
		left = res.TotalOutstanding
	}

	for _, it := range items {
		applied := decimal.Zero
		if left.IsPositive() {
			remaining := it.Remaining()
			if remaining.IsPositive() {
				applied = decimal.Min(left, remaining)
				left = left.Sub(applied)
			}
		}
		paid := it.AlreadyPaid.Add(applied)
		res.Items = append(res.Items, ItemAllocation{
			Item:    it.Item,
			Applied: applied,
			PaidNow: paid,
			Status:  ItemStatus(it.Item.Total, paid),
		})
		res.Allocated = res.Allocated.Add(applied)
	}

	return res
}

// ItemStatus derives an invoiced item's status from what has been paid on it.
func ItemStatus(total, paid decimal.Decimal) domain.LineItemStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return domain.LineItemStatusPaid
	case paid.IsPositive():
		return domain.LineItemStatusPartiallyPaid
	default:
		return domain.LineItemStatusInvoiced
	}
}

// InvoiceStatus derives an invoice's status from the sum of its completed collections.
func InvoiceStatus(total, collected decimal.Decimal) domain.InvoiceStatus {
	switch {
	case collected.IsPositive() && collected.GreaterThanOrEqual(total):
		return domain.InvoiceStatusPaid
	case collected.IsPositive():
		return domain.InvoiceStatusPartiallyPaid
	default:
		return domain.InvoiceStatusUnpaid
	}
}

// PaidByItem sums distribution amounts per line item id.
func PaidByItem(dists []domain.PaymentDistribution) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(dists))
	for i := range dists {
		id, _ := dists[i].ItemID()
		if id == uuid.Nil {
			continue
		}
		out[id] = out[id].Add(dists[i].Amount)
	}
	return out
}
