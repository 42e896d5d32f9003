package handler

import (
	"github.com/gin-gonic/gin"

	"rentdesk/internal/service"
)

// PropertyHandler serves buildings, units and renters.
type PropertyHandler struct {
	propertyService service.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// CreateBuilding handles POST /api/v1/buildings
// @Summary Create a building
// @Tags properties
// @Accept json
// @Produce json
// @Param request body service.CreateBuildingInput true "Building"
// @Success 201 {object} Response{data=domain.Building}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /buildings [post]
func (h *PropertyHandler) CreateBuilding(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	var input service.CreateBuildingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	b, err := h.propertyService.CreateBuilding(c.Request.Context(), companyID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, b)
}

// ListBuildings handles GET /api/v1/buildings
// @Summary List buildings
// @Tags properties
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Building,meta=PagMeta}
// @Security BearerAuth
// @Router /buildings [get]
func (h *PropertyHandler) ListBuildings(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	buildings, total, err := h.propertyService.ListBuildings(c.Request.Context(), companyID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, buildings, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetBuilding handles GET /api/v1/buildings/:id
// @Summary Get a building
// @Tags properties
// @Produce json
// @Param id path string true "Building ID"
// @Success 200 {object} Response{data=domain.Building}
// @Failure 404 {object} ErrorResponseBody "Building not found"
// @Security BearerAuth
// @Router /buildings/{id} [get]
func (h *PropertyHandler) GetBuilding(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	buildingID, ok := paramID(c, "id", "building")
	if !ok {
		return
	}

	b, err := h.propertyService.GetBuilding(c.Request.Context(), companyID, buildingID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, b)
}

// CreateUnit handles POST /api/v1/buildings/:id/units
// @Summary Add a unit to a building
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "Building ID"
// @Param request body service.CreateUnitInput true "Unit"
// @Success 201 {object} Response{data=domain.Unit}
// @Failure 404 {object} ErrorResponseBody "Building not found"
// @Security BearerAuth
// @Router /buildings/{id}/units [post]
func (h *PropertyHandler) CreateUnit(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	buildingID, ok := paramID(c, "id", "building")
	if !ok {
		return
	}
	var input service.CreateUnitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	u, err := h.propertyService.CreateUnit(c.Request.Context(), companyID, buildingID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, u)
}

// ListUnits handles GET /api/v1/buildings/:id/units
// @Summary List units of a building
// @Tags properties
// @Produce json
// @Param id path string true "Building ID"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Unit,meta=PagMeta}
// @Security BearerAuth
// @Router /buildings/{id}/units [get]
func (h *PropertyHandler) ListUnits(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	buildingID, ok := paramID(c, "id", "building")
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	units, total, err := h.propertyService.ListUnits(c.Request.Context(), companyID, buildingID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, units, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// CreateTenant handles POST /api/v1/tenants
// @Summary Register a renter
// @Tags tenants
// @Accept json
// @Produce json
// @Param request body service.CreateTenantInput true "Renter"
// @Success 201 {object} Response{data=domain.Tenant}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /tenants [post]
func (h *PropertyHandler) CreateTenant(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	var input service.CreateTenantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := h.propertyService.CreateTenant(c.Request.Context(), companyID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, t)
}

// ListTenants handles GET /api/v1/tenants
// @Summary List renters
// @Tags tenants
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Tenant,meta=PagMeta}
// @Security BearerAuth
// @Router /tenants [get]
func (h *PropertyHandler) ListTenants(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	tenants, total, err := h.propertyService.ListTenants(c.Request.Context(), companyID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, tenants, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetTenant handles GET /api/v1/tenants/:id
// @Summary Get a renter
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} Response{data=domain.Tenant}
// @Failure 404 {object} ErrorResponseBody "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{id} [get]
func (h *PropertyHandler) GetTenant(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	tenantID, ok := paramID(c, "id", "tenant")
	if !ok {
		return
	}

	t, err := h.propertyService.GetTenant(c.Request.Context(), companyID, tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, t)
}
