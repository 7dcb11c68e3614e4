package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ateliersante/room-planner-api/internal/dto"
	"github.com/ateliersante/room-planner-api/internal/models"
	"github.com/ateliersante/room-planner-api/internal/service"
	appErrors "github.com/ateliersante/room-planner-api/pkg/errors"
	"github.com/ateliersante/room-planner-api/pkg/response"
)

// BookingHandler wires booking services to HTTP routes.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs a new BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// List godoc
// @Summary List bookings
// @Tags Bookings
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param personId query string false "Filter by person"
// @Param roomId query string false "Filter by room"
// @Param conflictsOnly query bool false "Only bookings without a room"
// @Success 200 {object} response.Envelope
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	filter := models.BookingFilter{
		DateFrom:     strings.TrimSpace(c.Query("from")),
		DateTo:       strings.TrimSpace(c.Query("to")),
		PersonID:     strings.TrimSpace(c.Query("personId")),
		RoomID:       strings.TrimSpace(c.Query("roomId")),
		OnlyConflict: strings.EqualFold(c.Query("conflictsOnly"), "true"),
	}

	bookings, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.FromBookings(bookings), nil)
}

// Get godoc
// @Summary Get booking detail
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.FromBooking(*booking), nil)
}

// Create godoc
// @Summary Create booking
// @Description Creates a booking. With an empty roomId the planner picks the
// @Description first free room from the person's preferences; the response
// @Description meta reports which one it took.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body dto.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}
	booking, suggestion, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	var meta map[string]interface{}
	if suggestion != nil {
		meta = map[string]interface{}{"suggestion": suggestion}
	}
	response.JSON(c, http.StatusCreated, dto.FromBooking(*booking), nil, meta)
}

// Update godoc
// @Summary Reschedule booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param payload body dto.UpdateBookingRequest true "Booking payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookings/{id} [put]
func (h *BookingHandler) Update(c *gin.Context) {
	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}
	booking, collision, err := h.bookings.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if collision != nil {
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{Error: appErr, Meta: map[string]interface{}{"collision": collision}})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.FromBooking(*booking), nil)
}

// Delete godoc
// @Summary Delete booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.bookings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
