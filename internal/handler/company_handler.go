package handler

import (
	"github.com/gin-gonic/gin"

	"rentdesk/internal/service"
)

// CompanyHandler serves the caller's own company.
type CompanyHandler struct {
	companyService service.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Get handles GET /api/v1/company
// @Summary Get company
// @Tags company
// @Produce json
// @Success 200 {object} Response{data=domain.Company}
// @Security BearerAuth
// @Router /company [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}

	company, err := h.companyService.Get(c.Request.Context(), companyID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, company)
}

// Update handles PUT /api/v1/company
// @Summary Update company
// @Description Rename the company or change its billing currency (admin only)
// @Tags company
// @Accept json
// @Produce json
// @Param request body service.UpdateCompanyInput true "Fields to update"
// @Success 200 {object} Response{data=domain.Company}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /company [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}

	var input service.UpdateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), companyID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, company)
}
