package service

import (
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// parseDate parses a required YYYY-MM-DD request field.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// parseOptionalDate parses an optional YYYY-MM-DD request field; nil and "" yield nil.
func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func checkPercentage(field string, p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return domain.NewValidationError(field, "must be between 0 and 100")
	}
	return nil
}

func checkPositive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return domain.NewValidationError(field, "must be greater than zero")
	}
	return nil
}

func checkNonNegative(field string, d decimal.NullDecimal) error {
	if d.Valid && d.Decimal.IsNegative() {
		return domain.NewValidationError(field, "must not be negative")
	}
	return nil
}

// money rounds an amount to the 2 places stored in NUMERIC(14,2) columns.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
