package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/geometry"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
	"github.com/youngclement/preziq-canvas-backend/internal/services"
)

type RenderHandler struct {
	log           *logger.Logger
	svc           services.RenderService
	defaultCanvas geometry.Size
}

func NewRenderHandler(log *logger.Logger, svc services.RenderService, defaultCanvas geometry.Size) *RenderHandler {
	return &RenderHandler{
		log:           log.With("handler", "RenderHandler"),
		svc:           svc,
		defaultCanvas: defaultCanvas,
	}
}

// GET /api/slides/:id/render?width=1280&height=720
// Rasterizes the slide to PNG. Width and height fall back to the configured
// default canvas.
func (h *RenderHandler) RenderSlide(c *gin.Context) {
	slideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide id"})
		return
	}

	canvas := h.defaultCanvas
	if raw := c.Query("width"); raw != "" {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || w <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid width"})
			return
		}
		canvas.Width = w
	}
	if raw := c.Query("height"); raw != "" {
		hgt, err := strconv.ParseFloat(raw, 64)
		if err != nil || hgt <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid height"})
			return
		}
		canvas.Height = hgt
	}

	png, err := h.svc.RenderSlide(c.Request.Context(), nil, slideID, canvas)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
