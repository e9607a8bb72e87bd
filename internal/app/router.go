package app

import (
	"github.com/gin-gonic/gin"

	"github.com/youngclement/preziq-canvas-backend/internal/server"
)

func wireRouter(cfg Config, h Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:       cfg.ServiceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		CollectionHandler: h.Collection,
		ActivityHandler:   h.Activity,
		ElementHandler:    h.Element,
		StorageHandler:    h.Storage,
		RenderHandler:     h.Render,
	})
}
