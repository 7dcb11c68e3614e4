package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ateliersante/room-planner-api/internal/service"
	"github.com/ateliersante/room-planner-api/pkg/response"
)

// ReoptimizeHandler exposes the manual sweep trigger.
type ReoptimizeHandler struct {
	reoptimizer *service.ReoptimizeService
}

// NewReoptimizeHandler constructs a new ReoptimizeHandler.
func NewReoptimizeHandler(reoptimizer *service.ReoptimizeService) *ReoptimizeHandler {
	return &ReoptimizeHandler{reoptimizer: reoptimizer}
}

// Trigger godoc
// @Summary Trigger a reoptimization sweep
// @Description Queues one sweep over the rolling horizon. Sweeps run one at
// @Description a time; concurrent triggers are serialized.
// @Tags Reoptimize
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /reoptimize [post]
func (h *ReoptimizeHandler) Trigger(c *gin.Context) {
	if err := h.reoptimizer.EnqueueSweep(nil); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"status": "queued"}, nil)
}
