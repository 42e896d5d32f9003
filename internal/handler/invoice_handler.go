package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
)

var validInvoiceStatuses = map[domain.InvoiceStatus]bool{
	domain.InvoiceStatusUnpaid:        true,
	domain.InvoiceStatusPartiallyPaid: true,
	domain.InvoiceStatusPaid:          true,
}

// InvoiceHandler serves invoices.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles POST /api/v1/invoices
// @Summary Issue an invoice
// @Description Bills the selected pending schedule rows and charges of one tenancy. total_amount must equal the sum of item totals.
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body service.CreateInvoiceInput true "Invoice"
// @Success 201 {object} Response{data=domain.Invoice}
// @Failure 400 {object} ErrorResponseBody "Validation error, total mismatch or item not pending"
// @Failure 404 {object} ErrorResponseBody "Tenancy or item not found"
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	companyID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}
	var input service.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), companyID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, invoice)
}

// List handles GET /api/v1/invoices
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param tenancy_id query string false "Tenancy ID"
// @Param status query string false "unpaid, partially_paid or paid"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Invoice,meta=PagMeta}
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}

	var filter domain.InvoiceFilter
	if filter.TenancyID, ok = queryID(c, "tenancy_id"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.InvoiceStatus(raw)
		if !validInvoiceStatuses[status] {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid 'status'")
			return
		}
		filter.Status = &status
	}
	offset, limit := parsePagination(c)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), companyID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/invoices/:id
// @Summary Get an invoice with its items
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} Response{data=domain.Invoice}
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, invoice)
}
