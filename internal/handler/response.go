package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rentdesk/internal/domain"
	"rentdesk/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "VALIDATION_ERROR", ve.Error()
	}

	switch {
	case errors.Is(err, domain.ErrBuildingNotFound):
		return http.StatusNotFound, "BUILDING_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrUnitNotFound):
		return http.StatusNotFound, "UNIT_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrTenantNotFound):
		return http.StatusNotFound, "TENANT_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrChargeTypeNotFound):
		return http.StatusNotFound, "CHARGE_TYPE_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrTaxNotFound):
		return http.StatusNotFound, "TAX_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrTenancyNotFound):
		return http.StatusNotFound, "TENANCY_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrLineItemNotFound):
		return http.StatusNotFound, "LINE_ITEM_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, "INVOICE_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrCollectionNotFound):
		return http.StatusNotFound, "COLLECTION_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrRefundNotFound):
		return http.StatusNotFound, "REFUND_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"

	case errors.Is(err, domain.ErrUnitOccupied):
		return http.StatusBadRequest, "UNIT_OCCUPIED", err.Error()
	case errors.Is(err, domain.ErrTenancyNotOpen):
		return http.StatusBadRequest, "TENANCY_NOT_OPEN", err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, "INVALID_TRANSITION", err.Error()
	case errors.Is(err, domain.ErrTenancyHasBalance):
		return http.StatusBadRequest, "TENANCY_HAS_BALANCE", err.Error()
	case errors.Is(err, domain.ErrLineItemNotPending):
		return http.StatusBadRequest, "LINE_ITEM_NOT_PENDING", err.Error()
	case errors.Is(err, domain.ErrNoInvoiceItems):
		return http.StatusBadRequest, "NO_INVOICE_ITEMS", err.Error()
	case errors.Is(err, domain.ErrInvoiceTotal):
		return http.StatusBadRequest, "INVOICE_TOTAL_MISMATCH", err.Error()
	case errors.Is(err, domain.ErrInvoiceItemTotal):
		return http.StatusBadRequest, "INVOICE_ITEM_TOTAL_MISMATCH", err.Error()
	case errors.Is(err, domain.ErrInvoiceNotUnpaid):
		return http.StatusBadRequest, "INVOICE_NOT_UNPAID", err.Error()
	case errors.Is(err, domain.ErrRefundExceeds):
		return http.StatusBadRequest, "REFUND_EXCEEDS_BALANCE", err.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error()

	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", err.Error()
	case errors.Is(err, domain.ErrDuplicateSlug):
		return http.StatusConflict, "DUPLICATE_SLUG", err.Error()
	case errors.Is(err, domain.ErrDuplicateRole):
		return http.StatusConflict, "DUPLICATE_CHARGE_ROLE", err.Error()

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "INSUFFICIENT_ROLE", err.Error()
	case errors.Is(err, domain.ErrCompanyInactive):
		return http.StatusForbidden, "COMPANY_INACTIVE", err.Error()
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", err.Error()

	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		zap.S().Errorw("handler: internal error",
			"request_id", c.GetString(middleware.ContextKeyRequestID),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	RespondError(c, status, code, msg)
}

// respondBindError reports a request body or query that failed to bind.
func respondBindError(c *gin.Context, err error) {
	RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}

// extractAuthContext extracts company and user IDs from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (companyID, userID uuid.UUID, ok bool) {
	var err error
	companyID, err = middleware.GetCompanyID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing company context")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, false
	}
	return companyID, userID, true
}

// companyContext is extractAuthContext for handlers that only need the company.
func companyContext(c *gin.Context) (uuid.UUID, bool) {
	companyID, _, ok := extractAuthContext(c)
	return companyID, ok
}

// paramID parses a UUID path parameter, writing a 400 when it is malformed.
func paramID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional UUID query parameter.
func queryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid '"+name+"': must be a valid UUID")
		return nil, false
	}
	return &id, true
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
