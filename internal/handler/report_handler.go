package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rentdesk/internal/domain"
	"rentdesk/internal/export"
	"rentdesk/internal/service"
)

// ReportHandler handles financial report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid '%s' date: must be YYYY-MM-DD", name)
	}
	return &t, nil
}

// parseReportFilters extracts common report filter parameters from query params.
// Granularity is checked by the service.
func parseReportFilters(c *gin.Context) (domain.ReportFilters, error) {
	filters := domain.ReportFilters{Offset: 0, Limit: 20}

	var err error
	if filters.From, err = parseDateQuery(c, "from"); err != nil {
		return filters, err
	}
	if filters.To, err = parseDateQuery(c, "to"); err != nil {
		return filters, err
	}
	if filters.AsOf, err = parseDateQuery(c, "as_of"); err != nil {
		return filters, err
	}

	if bidStr := c.Query("building_id"); bidStr != "" {
		bid, err := uuid.Parse(bidStr)
		if err != nil {
			return filters, fmt.Errorf("invalid 'building_id': must be a valid UUID")
		}
		filters.BuildingID = &bid
	}

	filters.Granularity = c.DefaultQuery("granularity", "monthly")

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return filters, fmt.Errorf("invalid 'offset': must be a non-negative integer")
		}
		filters.Offset = offset
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 100 {
			return filters, fmt.Errorf("invalid 'limit': must be between 1 and 100")
		}
		filters.Limit = limit
	}

	return filters, nil
}

// Collections handles GET /api/v1/reports/collections
// @Summary      Collections summary
// @Description  Money received per period and collection mode
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        building_id query string false "Building ID"
// @Param        granularity query string false "Time granularity" Enums(daily, weekly, monthly, quarterly, yearly) default(monthly)
// @Success      200 {object} Response{data=[]domain.CollectionSummaryRow}
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/collections [get]
func (h *ReportHandler) Collections(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rows, err := h.reportService.CollectionsSummary(c.Request.Context(), companyID, filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// Outstanding handles GET /api/v1/reports/outstanding
// @Summary      Outstanding receivables
// @Description  Per tenancy invoiced total, collected amount, balance and oldest unpaid due date
// @Tags         reports
// @Produce      json
// @Param        as_of query string false "Position date (YYYY-MM-DD), defaults to today"
// @Param        building_id query string false "Building ID"
// @Param        offset query int false "Pagination offset" default(0)
// @Param        limit query int false "Pagination limit" default(20)
// @Success      200 {object} Response{data=[]domain.OutstandingRow,meta=PagMeta}
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/outstanding [get]
func (h *ReportHandler) Outstanding(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rows, total, err := h.reportService.Outstanding(c.Request.Context(), companyID, filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, rows, PagMeta{Total: total, Offset: filters.Offset, Limit: filters.Limit})
}

// Tax handles GET /api/v1/reports/tax
// @Summary      Tax summary
// @Description  Tax billed per period and charge type from invoiced items
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        building_id query string false "Building ID"
// @Param        granularity query string false "Time granularity" Enums(daily, weekly, monthly, quarterly, yearly) default(monthly)
// @Success      200 {object} Response{data=[]domain.TaxSummaryRow}
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/tax [get]
func (h *ReportHandler) Tax(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rows, err := h.reportService.TaxSummary(c.Request.Context(), companyID, filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// Export handles GET /api/v1/reports/:name/export
// @Summary      Download a report
// @Description  Streams the collections, outstanding or tax report as CSV or XLSX
// @Tags         reports
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        name path string true "Report" Enums(collections, outstanding, tax)
// @Param        format query string false "File format" Enums(csv, xlsx) default(csv)
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        as_of query string false "Position date (YYYY-MM-DD)"
// @Param        granularity query string false "Time granularity" default(monthly)
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/{name}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}
	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	// Buffered so a failed query still gets a JSON error response.
	var buf bytes.Buffer
	name, err := h.reportService.Export(c.Request.Context(), companyID, c.Param("name"), format, filters, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(name, format, time.Now().UTC())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
