package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
)

// ChargeHandler serves the charge catalog and tax rules.
type ChargeHandler struct {
	chargeService service.ChargeService
}

// NewChargeHandler creates a new ChargeHandler.
func NewChargeHandler(chargeService service.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

// CreateChargeType handles POST /api/v1/charge-types
// @Summary Create a charge type
// @Description Roles rent, deposit and commission may each be used by one charge type per company
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body service.CreateChargeTypeInput true "Charge type"
// @Success 201 {object} Response{data=domain.ChargeType}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Role already taken"
// @Security BearerAuth
// @Router /charge-types [post]
func (h *ChargeHandler) CreateChargeType(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	var input service.CreateChargeTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	ct, err := h.chargeService.CreateChargeType(c.Request.Context(), companyID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, ct)
}

// ListChargeTypes handles GET /api/v1/charge-types
// @Summary List charge types
// @Tags catalog
// @Produce json
// @Success 200 {object} Response{data=[]domain.ChargeType}
// @Security BearerAuth
// @Router /charge-types [get]
func (h *ChargeHandler) ListChargeTypes(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}

	cts, err := h.chargeService.ListChargeTypes(c.Request.Context(), companyID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cts)
}

// GetChargeType handles GET /api/v1/charge-types/:id
// @Summary Get a charge type with its taxes
// @Tags catalog
// @Produce json
// @Param id path string true "Charge type ID"
// @Success 200 {object} Response{data=domain.ChargeType}
// @Failure 404 {object} ErrorResponseBody "Charge type not found"
// @Security BearerAuth
// @Router /charge-types/{id} [get]
func (h *ChargeHandler) GetChargeType(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "charge type")
	if !ok {
		return
	}

	ct, err := h.chargeService.GetChargeType(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ct)
}

// UpdateChargeType handles PUT /api/v1/charge-types/:id
// @Summary Update a charge type
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Charge type ID"
// @Param request body service.UpdateChargeTypeInput true "Fields to update"
// @Success 200 {object} Response{data=domain.ChargeType}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Charge type not found"
// @Security BearerAuth
// @Router /charge-types/{id} [put]
func (h *ChargeHandler) UpdateChargeType(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "charge type")
	if !ok {
		return
	}
	var input service.UpdateChargeTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	ct, err := h.chargeService.UpdateChargeType(c.Request.Context(), companyID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ct)
}

// PreviewTax handles GET /api/v1/charge-types/:id/tax-preview
// @Summary Preview tax for an amount
// @Description Applies the charge type's tax rules effective on date, falling back to its VAT percentage
// @Tags catalog
// @Produce json
// @Param id path string true "Charge type ID"
// @Param amount query string true "Amount before tax"
// @Param date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} Response{data=service.TaxPreview}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /charge-types/{id}/tax-preview [get]
func (h *ChargeHandler) PreviewTax(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "charge type")
	if !ok {
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid 'amount': must be a decimal number")
		return
	}
	on := domain.DateOnly(time.Now())
	if raw := c.Query("date"); raw != "" {
		on, err = time.Parse(domain.DateLayout, raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid 'date': must be YYYY-MM-DD")
			return
		}
	}

	preview, err := h.chargeService.PreviewTax(c.Request.Context(), companyID, id, amount, on)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, preview)
}

// CreateTax handles POST /api/v1/taxes
// @Summary Create a tax rule
// @Tags taxes
// @Accept json
// @Produce json
// @Param request body service.CreateTaxInput true "Tax rule"
// @Success 201 {object} Response{data=domain.Tax}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /taxes [post]
func (h *ChargeHandler) CreateTax(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	var input service.CreateTaxInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	tax, err := h.chargeService.CreateTax(c.Request.Context(), companyID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, tax)
}

// ListTaxes handles GET /api/v1/taxes
// @Summary List tax rules
// @Tags taxes
// @Produce json
// @Success 200 {object} Response{data=[]domain.Tax}
// @Security BearerAuth
// @Router /taxes [get]
func (h *ChargeHandler) ListTaxes(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}

	taxes, err := h.chargeService.ListTaxes(c.Request.Context(), companyID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, taxes)
}

// UpdateTax handles PUT /api/v1/taxes/:id
// @Summary Update a tax rule
// @Description An empty applicable_to reopens the window
// @Tags taxes
// @Accept json
// @Produce json
// @Param id path string true "Tax ID"
// @Param request body service.UpdateTaxInput true "Fields to update"
// @Success 200 {object} Response{data=domain.Tax}
// @Failure 404 {object} ErrorResponseBody "Tax not found"
// @Security BearerAuth
// @Router /taxes/{id} [put]
func (h *ChargeHandler) UpdateTax(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "tax")
	if !ok {
		return
	}
	var input service.UpdateTaxInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	tax, err := h.chargeService.UpdateTax(c.Request.Context(), companyID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tax)
}
