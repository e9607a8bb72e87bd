package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/engine"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
	"github.com/youngclement/preziq-canvas-backend/internal/services"
)

type ActivityHandler struct {
	log *logger.Logger
	svc services.ActivityService
}

func NewActivityHandler(log *logger.Logger, svc services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		log: log.With("handler", "ActivityHandler"),
		svc: svc,
	}
}

// GET /api/activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}
	row, err := h.svc.GetWithSlides(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

// PUT /api/activities/:id/background
func (h *ActivityHandler) UpdateBackground(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}
	var payload engine.BackgroundPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateBackground(c.Request.Context(), nil, id, payload); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
