// Package billing holds the money rules of the tenancy workflow: tax resolution,
// schedule generation, invoice numbering, collection allocation and refundable
// balances. Nothing here touches storage; services load rows, call these
// functions and persist the outcome inside one transaction.
package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/domain"
)

// VATKind labels the flat fallback rate carried by a charge type.
const VATKind = "VAT"

var hundred = decimal.NewFromInt(100)

// TaxLine is one rule's contribution to a line item's tax.
type TaxLine struct {
	Kind         string          `json:"kind"`
	Percentage   decimal.Decimal `json:"percentage"`
	Contribution decimal.Decimal `json:"contribution"`
}

// ComputeTax returns the tax on amount for charge type ct as of date on, plus the
// itemized breakdown. Every active rule of the charge type's company whose
// validity window covers on contributes amount*percentage/100, rounded to cents
// per rule. When no rule fires the flat VAT percentage, if any, is used instead.
func ComputeTax(amount decimal.Decimal, ct *domain.ChargeType, on time.Time) (decimal.Decimal, []TaxLine) {
	total := decimal.Zero
	if ct == nil {
		return total, nil
	}

	var lines []TaxLine
	for i := range ct.Taxes {
		t := &ct.Taxes[i]
		if t.CompanyID != ct.CompanyID || !t.AppliesOn(on) {
			continue
		}
		c := contribution(amount, t.Percentage)
		lines = append(lines, TaxLine{Kind: t.Kind, Percentage: t.Percentage, Contribution: c})
		total = total.Add(c)
	}

	if len(lines) == 0 && ct.VATPercentage.Valid && ct.VATPercentage.Decimal.IsPositive() {
		c := contribution(amount, ct.VATPercentage.Decimal)
		lines = append(lines, TaxLine{Kind: VATKind, Percentage: ct.VATPercentage.Decimal, Contribution: c})
		total = total.Add(c)
	}

	return total, lines
}

func contribution(amount, percentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(percentage).Div(hundred).Round(2)
}
