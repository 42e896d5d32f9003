package handler

import (
	"github.com/gin-gonic/gin"

	"rentdesk/internal/domain"
	"rentdesk/internal/service"
)

// CollectionHandler serves payments received against invoices.
type CollectionHandler struct {
	collectionService service.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(collectionService service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// Create handles POST /api/v1/collections
// @Summary Record a collection
// @Description Completed collections are allocated to the invoice items in due date order; excess becomes an overpayment
// @Tags collections
// @Accept json
// @Produce json
// @Param request body service.CreateCollectionInput true "Collection"
// @Success 201 {object} Response{data=service.CollectionDetail}
// @Failure 400 {object} ErrorResponseBody "Validation error or invoice not unpaid"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /collections [post]
func (h *CollectionHandler) Create(c *gin.Context) {
	companyID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}
	var input service.CreateCollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	detail, err := h.collectionService.Create(c.Request.Context(), companyID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, detail)
}

// List handles GET /api/v1/collections
// @Summary List collections
// @Tags collections
// @Produce json
// @Param invoice_id query string false "Invoice ID"
// @Param tenancy_id query string false "Tenancy ID"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Collection,meta=PagMeta}
// @Security BearerAuth
// @Router /collections [get]
func (h *CollectionHandler) List(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}

	var filter domain.CollectionFilter
	if filter.InvoiceID, ok = queryID(c, "invoice_id"); !ok {
		return
	}
	if filter.TenancyID, ok = queryID(c, "tenancy_id"); !ok {
		return
	}
	offset, limit := parsePagination(c)

	collections, total, err := h.collectionService.List(c.Request.Context(), companyID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, collections, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/collections/:id
// @Summary Get a collection with its allocation breakdown
// @Tags collections
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} Response{data=service.CollectionDetail}
// @Failure 404 {object} ErrorResponseBody "Collection not found"
// @Security BearerAuth
// @Router /collections/{id} [get]
func (h *CollectionHandler) Get(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "collection")
	if !ok {
		return
	}

	detail, err := h.collectionService.Get(c.Request.Context(), companyID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Update handles PUT /api/v1/collections/:id
// @Summary Update a collection
// @Description Replaces the collection's allocations and re-derives item and invoice statuses
// @Tags collections
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Param request body service.UpdateCollectionInput true "Collection"
// @Success 200 {object} Response{data=service.CollectionDetail}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Collection not found"
// @Security BearerAuth
// @Router /collections/{id} [put]
func (h *CollectionHandler) Update(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "collection")
	if !ok {
		return
	}
	var input service.UpdateCollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	detail, err := h.collectionService.Update(c.Request.Context(), companyID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Delete handles DELETE /api/v1/collections/:id
// @Summary Delete a collection
// @Tags collections
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Collection not found"
// @Security BearerAuth
// @Router /collections/{id} [delete]
func (h *CollectionHandler) Delete(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "collection")
	if !ok {
		return
	}

	if err := h.collectionService.Delete(c.Request.Context(), companyID, id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "collection deleted"})
}
