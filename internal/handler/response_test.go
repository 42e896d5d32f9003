package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"rentdesk/internal/domain"
	"rentdesk/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domain.NewValidationError("start_date", "is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped tenancy not found", fmt.Errorf("loading: %w", domain.ErrTenancyNotFound), http.StatusNotFound, "TENANCY_NOT_FOUND"},
		{"invoice not found", domain.ErrInvoiceNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND"},
		{"generic not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unit occupied", domain.ErrUnitOccupied, http.StatusBadRequest, "UNIT_OCCUPIED"},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusBadRequest, "INVALID_TRANSITION"},
		{"refund exceeds", domain.ErrRefundExceeds, http.StatusBadRequest, "REFUND_EXCEEDS_BALANCE"},
		{"invoice total", domain.ErrInvoiceTotal, http.StatusBadRequest, "INVOICE_TOTAL_MISMATCH"},
		{"file too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"duplicate slug", domain.ErrDuplicateSlug, http.StatusConflict, "DUPLICATE_SLUG"},
		{"duplicate charge role", domain.ErrDuplicateRole, http.StatusConflict, "DUPLICATE_CHARGE_ROLE"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"company inactive", domain.ErrCompanyInactive, http.StatusForbidden, "COMPANY_INACTIVE"},
		{"upload failed", domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestMapDomainError_InternalMessageHidden(t *testing.T) {
	_, _, msg := handler.MapDomainError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "an internal error occurred", msg)
}

func TestRespondPaginated(t *testing.T) {
	c, w := newContext(http.MethodGet, "/", nil)

	handler.RespondPaginated(c, []string{"a", "b"}, handler.PagMeta{Total: 12, Offset: 10, Limit: 2})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	if assert.NotNil(t, resp.Meta) {
		assert.Equal(t, 12, resp.Meta.Total)
		assert.Equal(t, 10, resp.Meta.Offset)
		assert.Equal(t, 2, resp.Meta.Limit)
	}
}
