package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/engine"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
	"github.com/youngclement/preziq-canvas-backend/internal/services"
)

type ElementHandler struct {
	log *logger.Logger
	svc services.ElementService
}

func NewElementHandler(log *logger.Logger, svc services.ElementService) *ElementHandler {
	return &ElementHandler{
		log: log.With("handler", "ElementHandler"),
		svc: svc,
	}
}

// GET /api/slides/:id/elements
func (h *ElementHandler) List(c *gin.Context) {
	slideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide id"})
		return
	}
	rows, err := h.svc.ListBySlide(c.Request.Context(), nil, slideID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"elements": rows})
}

// POST /api/slides/:id/elements
func (h *ElementHandler) Create(c *gin.Context) {
	slideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide id"})
		return
	}
	var payload engine.ElementPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := h.svc.Create(c.Request.Context(), nil, slideID, payload)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// PUT /api/slides/:id/elements/:elementId
func (h *ElementHandler) Update(c *gin.Context) {
	slideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide id"})
		return
	}
	elementID, err := uuid.Parse(c.Param("elementId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid element id"})
		return
	}
	var payload engine.ElementPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := h.svc.Update(c.Request.Context(), nil, slideID, elementID, payload)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

// DELETE /api/slides/:id/elements/:elementId
func (h *ElementHandler) Delete(c *gin.Context) {
	slideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide id"})
		return
	}
	elementID, err := uuid.Parse(c.Param("elementId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid element id"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), nil, slideID, elementID); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
