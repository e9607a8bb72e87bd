package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
	"github.com/youngclement/preziq-canvas-backend/internal/services"
)

type CollectionHandler struct {
	log *logger.Logger
	svc services.CollectionService
}

func NewCollectionHandler(log *logger.Logger, svc services.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		log: log.With("handler", "CollectionHandler"),
		svc: svc,
	}
}

// GET /api/collections
func (h *CollectionHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), nil)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": rows})
}

// GET /api/collections/:id
func (h *CollectionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}
	row, err := h.svc.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

// GET /api/collections/:id/deck
// Everything the editor needs to open a collection: the collection, its
// activities, and every slide with elements in paint order.
func (h *CollectionHandler) Deck(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}
	collection, activities, err := h.svc.Deck(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection, "activities": activities})
}
