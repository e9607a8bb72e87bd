package app

import (
	"github.com/youngclement/preziq-canvas-backend/internal/handlers"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

type Handlers struct {
	Collection *handlers.CollectionHandler
	Activity   *handlers.ActivityHandler
	Element    *handlers.ElementHandler
	Storage    *handlers.StorageHandler
	Render     *handlers.RenderHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Collection: handlers.NewCollectionHandler(log, services.Collection),
		Activity:   handlers.NewActivityHandler(log, services.Activity),
		Element:    handlers.NewElementHandler(log, services.Element),
		Storage:    handlers.NewStorageHandler(log, services.Asset),
		Render:     handlers.NewRenderHandler(log, services.Render, cfg.DefaultCanvas),
	}
}
