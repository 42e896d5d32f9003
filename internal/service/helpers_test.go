package service_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentdesk/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func lineItem(kind domain.LineItemKind, tenancyID uuid.UUID, due time.Time, total string, status domain.LineItemStatus) domain.LineItem {
	return domain.LineItem{
		ID:        uuid.New(),
		TenancyID: tenancyID,
		DueDate:   due,
		Amount:    dec(total),
		Tax:       decimal.Zero,
		Total:     dec(total),
		Status:    status,
		Kind:      kind,
	}
}

// someID matches a non-nil *uuid.UUID argument.
var someID = mock.MatchedBy(func(p *uuid.UUID) bool { return p != nil })

// noID matches a nil *uuid.UUID argument.
var noID = mock.MatchedBy(func(p *uuid.UUID) bool { return p == nil })
