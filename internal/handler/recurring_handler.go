package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ateliersante/room-planner-api/internal/dto"
	"github.com/ateliersante/room-planner-api/internal/service"
	appErrors "github.com/ateliersante/room-planner-api/pkg/errors"
	"github.com/ateliersante/room-planner-api/pkg/response"
)

// RecurringHandler wires recurring-schedule expansion to HTTP routes.
type RecurringHandler struct {
	recurring *service.RecurringService
}

// NewRecurringHandler constructs a new RecurringHandler.
func NewRecurringHandler(recurring *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurring: recurring}
}

// Preview godoc
// @Summary Preview a weekly schedule expansion
// @Description Computes the delete/insert diff the template would produce
// @Description without touching storage.
// @Tags Recurring
// @Accept json
// @Produce json
// @Param id path string true "Person ID"
// @Param payload body dto.RecurringScheduleRequest true "Weekly template"
// @Success 200 {object} response.Envelope
// @Router /people/{id}/recurring-schedule/preview [post]
func (h *RecurringHandler) Preview(c *gin.Context) {
	var req dto.RecurringScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid recurring schedule payload"))
		return
	}
	preview, err := h.recurring.Preview(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// Commit godoc
// @Summary Apply a weekly schedule expansion
// @Description Replaces the person's bookings over the range with the
// @Description template expansion in one atomic batch.
// @Tags Recurring
// @Accept json
// @Produce json
// @Param id path string true "Person ID"
// @Param payload body dto.RecurringScheduleRequest true "Weekly template"
// @Success 200 {object} response.Envelope
// @Router /people/{id}/recurring-schedule/commit [post]
func (h *RecurringHandler) Commit(c *gin.Context) {
	var req dto.RecurringScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid recurring schedule payload"))
		return
	}
	result, err := h.recurring.Commit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
