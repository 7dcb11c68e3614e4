package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ateliersante/room-planner-api/internal/dto"
	"github.com/ateliersante/room-planner-api/internal/service"
	appErrors "github.com/ateliersante/room-planner-api/pkg/errors"
	"github.com/ateliersante/room-planner-api/pkg/response"
)

// ReportHandler wires availability and export reports to HTTP routes.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Availability godoc
// @Summary Per-room free hours over a date range
// @Tags Reports
// @Produce json
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string false "Last date, defaults to from"
// @Success 200 {object} response.Envelope
// @Router /reports/availability [get]
func (h *ReportHandler) Availability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability query"))
		return
	}
	report, err := h.reports.Availability(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// SearchSlots godoc
// @Summary Bookable starts for a person on one day
// @Tags Reports
// @Produce json
// @Param personId query string true "Person ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param duration query int true "Duration in minutes"
// @Success 200 {object} response.Envelope
// @Router /reports/slots [get]
func (h *ReportHandler) SearchSlots(c *gin.Context) {
	var req dto.SlotSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot search query"))
		return
	}
	slots, err := h.reports.SearchSlots(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// WeeklyGridPDF godoc
// @Summary Printable weekly planning grid
// @Tags Reports
// @Produce application/pdf
// @Param start query string true "Any date inside the week (YYYY-MM-DD)"
// @Param roomId query string false "Restrict to one room"
// @Param personId query string false "Restrict to one person"
// @Success 200 {file} binary
// @Router /reports/weekly-grid.pdf [get]
func (h *ReportHandler) WeeklyGridPDF(c *gin.Context) {
	var req dto.WeeklyGridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid weekly grid query"))
		return
	}
	payload, err := h.reports.WeeklyGridPDF(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=weekly-grid-%s.pdf", req.Start))
	c.Data(http.StatusOK, "application/pdf", payload)
}

// WeeklyGridCSV godoc
// @Summary Weekly planning grid as CSV
// @Tags Reports
// @Produce text/csv
// @Param start query string true "Any date inside the week (YYYY-MM-DD)"
// @Param roomId query string false "Restrict to one room"
// @Param personId query string false "Restrict to one person"
// @Success 200 {file} binary
// @Router /reports/weekly-grid.csv [get]
func (h *ReportHandler) WeeklyGridCSV(c *gin.Context) {
	var req dto.WeeklyGridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid weekly grid query"))
		return
	}
	payload, err := h.reports.WeeklyGridCSV(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=weekly-grid-%s.csv", req.Start))
	c.Data(http.StatusOK, "text/csv", payload)
}
