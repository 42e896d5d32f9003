package handler

import (
	"github.com/gin-gonic/gin"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
)

// RefundHandler serves refunds and the refundable balance of a tenancy.
type RefundHandler struct {
	refundService service.RefundService
}

// NewRefundHandler creates a new RefundHandler.
func NewRefundHandler(refundService service.RefundService) *RefundHandler {
	return &RefundHandler{refundService: refundService}
}

// Create handles POST /api/v1/refunds
// @Summary Refund money to a renter
// @Description The amount is bounded by settled deposits plus available overpayments less earlier refunds
// @Tags refunds
// @Accept json
// @Produce json
// @Param request body service.CreateRefundInput true "Refund"
// @Success 201 {object} Response{data=domain.Refund}
// @Failure 400 {object} ErrorResponseBody "Validation error or amount exceeds refundable balance"
// @Failure 404 {object} ErrorResponseBody "Tenancy or invoice not found"
// @Security BearerAuth
// @Router /refunds [post]
func (h *RefundHandler) Create(c *gin.Context) {
	companyID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}
	var input service.CreateRefundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	refund, err := h.refundService.Create(c.Request.Context(), companyID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, refund)
}

// List handles GET /api/v1/refunds
// @Summary List refunds
// @Tags refunds
// @Produce json
// @Param tenancy_id query string false "Tenancy ID"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Refund,meta=PagMeta}
// @Security BearerAuth
// @Router /refunds [get]
func (h *RefundHandler) List(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}

	var filter domain.RefundFilter
	if filter.TenancyID, ok = queryID(c, "tenancy_id"); !ok {
		return
	}
	offset, limit := parsePagination(c)

	refunds, total, err := h.refundService.List(c.Request.Context(), companyID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, refunds, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/refunds/:id
// @Summary Get a refund
// @Tags refunds
// @Produce json
// @Param id path string true "Refund ID"
// @Success 200 {object} Response{data=domain.Refund}
// @Failure 404 {object} ErrorResponseBody "Refund not found"
// @Security BearerAuth
// @Router /refunds/{id} [get]
func (h *RefundHandler) Get(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "refund")
	if !ok {
		return
	}

	refund, err := h.refundService.Get(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, refund)
}

// Update handles PUT /api/v1/refunds/:id
// @Summary Update a refund
// @Description The refund's own previous amount is excluded from the bound
// @Tags refunds
// @Accept json
// @Produce json
// @Param id path string true "Refund ID"
// @Param request body service.UpdateRefundInput true "Refund"
// @Success 200 {object} Response{data=domain.Refund}
// @Failure 400 {object} ErrorResponseBody "Validation error or amount exceeds refundable balance"
// @Security BearerAuth
// @Router /refunds/{id} [put]
func (h *RefundHandler) Update(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "refund")
	if !ok {
		return
	}
	var input service.UpdateRefundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	refund, err := h.refundService.Update(c.Request.Context(), companyID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, refund)
}

// Balance handles GET /api/v1/tenancies/:id/excess-deposits
// @Summary Refundable balance of a tenancy
// @Description Settled deposits, available overpayments, refunds so far and the remaining refundable amount
// @Tags refunds
// @Produce json
// @Param id path string true "Tenancy ID"
// @Success 200 {object} Response{data=service.RefundBalanceDetail}
// @Failure 404 {object} ErrorResponseBody "Tenancy not found"
// @Security BearerAuth
// @Router /tenancies/{id}/excess-deposits [get]
func (h *RefundHandler) Balance(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	tenancyID, ok := paramID(c, "id", "tenancy")
	if !ok {
		return
	}

	balance, err := h.refundService.Balance(c.Request.Context(), companyID, tenancyID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, balance)
}
