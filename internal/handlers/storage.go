package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
	"github.com/youngclement/preziq-canvas-backend/internal/services"
)

type StorageHandler struct {
	log *logger.Logger
	svc services.AssetService
}

func NewStorageHandler(log *logger.Logger, svc services.AssetService) *StorageHandler {
	return &StorageHandler{
		log: log.With("handler", "StorageHandler"),
		svc: svc,
	}
}

type deleteObjectRequest struct {
	Path string `json:"path" binding:"required"`
}

// POST /api/storage/delete
// Used by editors to clean up image objects whose elements were deleted.
func (h *StorageHandler) Delete(c *gin.Context) {
	var req deleteObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.DeleteObject(c.Request.Context(), req.Path); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/slides/:id/assets
// Multipart upload of an element image. Responds with the public URL the
// element's sourceUrl should carry.
func (h *StorageHandler) UploadSlideImage(c *gin.Context) {
	slideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide id"})
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	url, err := h.svc.UploadSlideImage(c.Request.Context(), slideID, header.Filename, file)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// POST /api/activities/:id/background-image
func (h *StorageHandler) UploadBackgroundImage(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	url, err := h.svc.UploadBackgroundImage(c.Request.Context(), activityID, header.Filename, file)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
