package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ateliersante/room-planner-api/internal/models"
	"github.com/ateliersante/room-planner-api/pkg/response"
)

// RoomHandler exposes the static room registry.
type RoomHandler struct {
	rooms *models.RoomRegistry
}

// NewRoomHandler constructs a new RoomHandler.
func NewRoomHandler(rooms *models.RoomRegistry) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List godoc
// @Summary List configured rooms
// @Tags Rooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.rooms.All(), nil)
}
