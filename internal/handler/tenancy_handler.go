package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
)

var validTenancyStatuses = map[domain.TenancyStatus]bool{
	domain.TenancyStatusPending:    true,
	domain.TenancyStatusActive:     true,
	domain.TenancyStatusRenewed:    true,
	domain.TenancyStatusTerminated: true,
	domain.TenancyStatusClosed:     true,
}

// TenancyHandler serves tenancy contracts, their lifecycle and line items.
type TenancyHandler struct {
	tenancyService service.TenancyService
}

// NewTenancyHandler creates a new TenancyHandler.
func NewTenancyHandler(tenancyService service.TenancyService) *TenancyHandler {
	return &TenancyHandler{tenancyService: tenancyService}
}

// Create handles POST /api/v1/tenancies
// @Summary Create a tenancy
// @Description Persists the contract, generates its payment schedule and marks the unit occupied
// @Tags tenancies
// @Accept json
// @Produce json
// @Param request body service.CreateTenancyInput true "Tenancy"
// @Success 201 {object} Response{data=service.TenancyDetail}
// @Failure 400 {object} ErrorResponseBody "Validation error or unit occupied"
// @Failure 404 {object} ErrorResponseBody "Tenant, building or unit not found"
// @Security BearerAuth
// @Router /tenancies [post]
func (h *TenancyHandler) Create(c *gin.Context) {
	companyID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}
	var input service.CreateTenancyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	detail, err := h.tenancyService.Create(c.Request.Context(), companyID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, detail)
}

// List handles GET /api/v1/tenancies
// @Summary List tenancies
// @Tags tenancies
// @Produce json
// @Param status query string false "pending, active, renewed, terminated or closed"
// @Param building_id query string false "Building ID"
// @Param tenant_id query string false "Tenant ID"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Tenancy,meta=PagMeta}
// @Security BearerAuth
// @Router /tenancies [get]
func (h *TenancyHandler) List(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}

	var filter domain.TenancyFilter
	if raw := c.Query("status"); raw != "" {
		status := domain.TenancyStatus(raw)
		if !validTenancyStatuses[status] {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid 'status'")
			return
		}
		filter.Status = &status
	}
	if filter.BuildingID, ok = queryID(c, "building_id"); !ok {
		return
	}
	if filter.TenantID, ok = queryID(c, "tenant_id"); !ok {
		return
	}
	offset, limit := parsePagination(c)

	tenancies, total, err := h.tenancyService.List(c.Request.Context(), companyID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, tenancies, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/tenancies/:id
// @Summary Get a tenancy with schedules and charges
// @Tags tenancies
// @Produce json
// @Param id path string true "Tenancy ID"
// @Success 200 {object} Response{data=service.TenancyDetail}
// @Failure 404 {object} ErrorResponseBody "Tenancy not found"
// @Security BearerAuth
// @Router /tenancies/{id} [get]
func (h *TenancyHandler) Get(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "tenancy")
	if !ok {
		return
	}

	detail, err := h.tenancyService.Get(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Update handles PUT /api/v1/tenancies/:id
// @Summary Update tenancy terms
// @Description Regenerates pending schedule rows; invoiced or paid rows are kept
// @Tags tenancies
// @Accept json
// @Produce json
// @Param id path string true "Tenancy ID"
// @Param request body service.UpdateTenancyInput true "Terms"
// @Success 200 {object} Response{data=service.TenancyDetail}
// @Failure 400 {object} ErrorResponseBody "Validation error or tenancy not open"
// @Security BearerAuth
// @Router /tenancies/{id} [put]
func (h *TenancyHandler) Update(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "tenancy")
	if !ok {
		return
	}
	var input service.UpdateTenancyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	detail, err := h.tenancyService.Update(c.Request.Context(), companyID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Activate handles POST /api/v1/tenancies/:id/activate
// @Summary Activate a pending tenancy
// @Tags tenancies
// @Produce json
// @Param id path string true "Tenancy ID"
// @Success 200 {object} Response{data=domain.Tenancy}
// @Failure 400 {object} ErrorResponseBody "Invalid transition"
// @Security BearerAuth
// @Router /tenancies/{id}/activate [post]
func (h *TenancyHandler) Activate(c *gin.Context) {
	h.transition(c, h.tenancyService.Activate)
}

// Terminate handles POST /api/v1/tenancies/:id/terminate
// @Summary Terminate a tenancy
// @Description Drops pending schedule rows and vacates the unit
// @Tags tenancies
// @Produce json
// @Param id path string true "Tenancy ID"
// @Success 200 {object} Response{data=domain.Tenancy}
// @Failure 400 {object} ErrorResponseBody "Invalid transition"
// @Security BearerAuth
// @Router /tenancies/{id}/terminate [post]
func (h *TenancyHandler) Terminate(c *gin.Context) {
	h.transition(c, h.tenancyService.Terminate)
}

// Close handles POST /api/v1/tenancies/:id/close
// @Summary Close a settled tenancy
// @Tags tenancies
// @Produce json
// @Param id path string true "Tenancy ID"
// @Success 200 {object} Response{data=domain.Tenancy}
// @Failure 400 {object} ErrorResponseBody "Unsettled items or invalid transition"
// @Security BearerAuth
// @Router /tenancies/{id}/close [post]
func (h *TenancyHandler) Close(c *gin.Context) {
	h.transition(c, h.tenancyService.Close)
}

func (h *TenancyHandler) transition(c *gin.Context, fn func(ctx context.Context, companyID, tenancyID uuid.UUID) (*domain.Tenancy, error)) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "tenancy")
	if !ok {
		return
	}

	tenancy, err := fn(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tenancy)
}

// Renew handles POST /api/v1/tenancies/:id/renew
// @Summary Renew a tenancy with new terms
// @Tags tenancies
// @Accept json
// @Produce json
// @Param id path string true "Tenancy ID"
// @Param request body service.RenewTenancyInput true "New terms"
// @Success 200 {object} Response{data=service.TenancyDetail}
// @Failure 400 {object} ErrorResponseBody "Validation error or invalid transition"
// @Security BearerAuth
// @Router /tenancies/{id}/renew [post]
func (h *TenancyHandler) Renew(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "tenancy")
	if !ok {
		return
	}
	var input service.RenewTenancyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	detail, err := h.tenancyService.Renew(c.Request.Context(), companyID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// ListSchedules handles GET /api/v1/tenancies/:id/schedules
// @Summary List payment schedule rows
// @Tags line-items
// @Produce json
// @Param id path string true "Tenancy ID"
// @Success 200 {object} Response{data=[]domain.LineItem}
// @Failure 404 {object} ErrorResponseBody "Tenancy not found"
// @Security BearerAuth
// @Router /tenancies/{id}/schedules [get]
func (h *TenancyHandler) ListSchedules(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "tenancy")
	if !ok {
		return
	}

	items, err := h.tenancyService.ListSchedules(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, items)
}

// AddCharge handles POST /api/v1/tenancies/:id/charges
// @Summary Add an additional charge
// @Tags line-items
// @Accept json
// @Produce json
// @Param id path string true "Tenancy ID"
// @Param request body service.AddChargeInput true "Charge"
// @Success 201 {object} Response{data=domain.LineItem}
// @Failure 400 {object} ErrorResponseBody "Validation error or tenancy not open"
// @Security BearerAuth
// @Router /tenancies/{id}/charges [post]
func (h *TenancyHandler) AddCharge(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "tenancy")
	if !ok {
		return
	}
	var input service.AddChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.tenancyService.AddCharge(c.Request.Context(), companyID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, item)
}

// ListCharges handles GET /api/v1/tenancies/:id/charges
// @Summary List additional charges
// @Tags line-items
// @Produce json
// @Param id path string true "Tenancy ID"
// @Success 200 {object} Response{data=[]domain.LineItem}
// @Security BearerAuth
// @Router /tenancies/{id}/charges [get]
func (h *TenancyHandler) ListCharges(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "tenancy")
	if !ok {
		return
	}

	items, err := h.tenancyService.ListCharges(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, items)
}

// DeleteCharge handles DELETE /api/v1/charges/:id
// @Summary Delete a pending additional charge
// @Tags line-items
// @Produce json
// @Param id path string true "Charge ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 400 {object} ErrorResponseBody "Charge is not pending"
// @Failure 404 {object} ErrorResponseBody "Charge not found"
// @Security BearerAuth
// @Router /charges/{id} [delete]
func (h *TenancyHandler) DeleteCharge(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "charge")
	if !ok {
		return
	}

	if err := h.tenancyService.DeleteCharge(c.Request.Context(), companyID, id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "charge deleted"})
}
