package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/youngclement/preziq-canvas-backend/internal/handlers"
)

type RouterConfig struct {
	ServiceName       string
	AllowedOrigins    []string
	CollectionHandler *handlers.CollectionHandler
	ActivityHandler   *handlers.ActivityHandler
	ElementHandler    *handlers.ElementHandler
	StorageHandler    *handlers.StorageHandler
	RenderHandler     *handlers.RenderHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "preziq-canvas"
	}
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Collections
		api.GET("/collections", cfg.CollectionHandler.List)
		api.GET("/collections/:id", cfg.CollectionHandler.Get)
		api.GET("/collections/:id/deck", cfg.CollectionHandler.Deck)

		// Activities
		api.GET("/activities/:id", cfg.ActivityHandler.Get)
		api.PUT("/activities/:id/background", cfg.ActivityHandler.UpdateBackground)
		api.POST("/activities/:id/background-image", cfg.StorageHandler.UploadBackgroundImage)

		// Slide elements
		api.GET("/slides/:id/elements", cfg.ElementHandler.List)
		api.POST("/slides/:id/elements", cfg.ElementHandler.Create)
		api.PUT("/slides/:id/elements/:elementId", cfg.ElementHandler.Update)
		api.DELETE("/slides/:id/elements/:elementId", cfg.ElementHandler.Delete)

		// Assets
		api.POST("/slides/:id/assets", cfg.StorageHandler.UploadSlideImage)
		api.POST("/storage/delete", cfg.StorageHandler.Delete)

		// Rendering
		api.GET("/slides/:id/render", cfg.RenderHandler.RenderSlide)
	}

	return router
}
