package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrCompanyInactive     = errors.New("company is inactive")
	ErrUserInactive        = errors.New("user is inactive")
	ErrInsufficientRole    = errors.New("insufficient role for this action")
	ErrDuplicateEmail      = errors.New("email already exists for this company")
	ErrDuplicateSlug       = errors.New("company slug already exists")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")

	ErrBuildingNotFound   = errors.New("building not found")
	ErrUnitNotFound       = errors.New("unit not found")
	ErrUnitOccupied       = errors.New("unit is already occupied")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrChargeTypeNotFound = errors.New("charge type not found")
	ErrDuplicateRole      = errors.New("a charge type with this role already exists")
	ErrTaxNotFound        = errors.New("tax not found")
	ErrTenancyNotFound    = errors.New("tenancy not found")
	ErrTenancyNotOpen     = errors.New("tenancy is not open for billing changes")
	ErrInvalidTransition  = errors.New("tenancy status transition not allowed")
	ErrTenancyHasBalance  = errors.New("tenancy still has unsettled line items")
	ErrLineItemNotFound   = errors.New("line item not found")
	ErrLineItemNotPending = errors.New("line item is not pending")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrNoInvoiceItems     = errors.New("invoice requires at least one item")
	ErrInvoiceTotal       = errors.New("invoice total does not match the sum of selected items")
	ErrInvoiceItemTotal   = errors.New("item total does not match the stored line item")
	ErrInvoiceNotUnpaid   = errors.New("collections can only be recorded against unpaid invoices")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrRefundNotFound     = errors.New("refund not found")
	ErrRefundExceeds      = errors.New("refund amount exceeds refundable balance")

	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports an invalid or missing request field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
