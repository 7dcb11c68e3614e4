package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ateliersante/room-planner-api/internal/dto"
	"github.com/ateliersante/room-planner-api/internal/service"
	appErrors "github.com/ateliersante/room-planner-api/pkg/errors"
	"github.com/ateliersante/room-planner-api/pkg/response"
)

// PersonHandler wires person services to HTTP routes.
type PersonHandler struct {
	people *service.PersonService
}

// NewPersonHandler constructs a new PersonHandler.
func NewPersonHandler(people *service.PersonService) *PersonHandler {
	return &PersonHandler{people: people}
}

// List godoc
// @Summary List people
// @Tags People
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /people [get]
func (h *PersonHandler) List(c *gin.Context) {
	people, err := h.people.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, people, nil)
}

// Get godoc
// @Summary Get person detail
// @Tags People
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /people/{id} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	person, err := h.people.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Create godoc
// @Summary Create person
// @Tags People
// @Accept json
// @Produce json
// @Param payload body dto.PersonPayload true "Person payload"
// @Success 201 {object} response.Envelope
// @Router /people [post]
func (h *PersonHandler) Create(c *gin.Context) {
	var req dto.PersonPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid person payload"))
		return
	}
	person, err := h.people.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// Update godoc
// @Summary Update person and room preferences
// @Tags People
// @Accept json
// @Produce json
// @Param id path string true "Person ID"
// @Param payload body dto.PersonPayload true "Person payload"
// @Success 200 {object} response.Envelope
// @Router /people/{id} [put]
func (h *PersonHandler) Update(c *gin.Context) {
	var req dto.PersonPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid person payload"))
		return
	}
	person, err := h.people.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Delete godoc
// @Summary Delete person and their bookings
// @Tags People
// @Produce json
// @Param id path string true "Person ID"
// @Success 204
// @Router /people/{id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	if err := h.people.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
