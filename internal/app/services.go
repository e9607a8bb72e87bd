package app

import (
	"gorm.io/gorm"

	"github.com/youngclement/preziq-canvas-backend/internal/engine"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
	"github.com/youngclement/preziq-canvas-backend/internal/services"
)

type Services struct {
	Collection services.CollectionService
	Activity   services.ActivityService
	Element    services.ElementService
	Asset      services.AssetService
	Render     services.RenderService
	// Sync lets an in-process editor engine write through the services
	// without HTTP.
	Sync *services.SyncAdapter
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	asset := services.NewAssetService(log, clients.Bucket)
	element := services.NewElementService(db, log, repos.Slide, repos.Element, asset)
	activity := services.NewActivityService(db, log, repos.Activity, asset, clients.Bus)
	collection := services.NewCollectionService(db, log, repos.Collection, repos.Activity)

	var fonts *engine.FontLibrary
	if cfg.FontManifestPath != "" {
		lib, err := engine.LoadFontLibrary(cfg.FontManifestPath)
		if err != nil {
			return Services{}, err
		}
		fonts = lib
	} else {
		log.Warn("FONT_MANIFEST_PATH not set, text elements will not render")
	}
	loader := engine.NewHTTPImageLoader(cfg.ImageLoadTimeout)
	renderer := engine.NewRenderer(log, loader, fonts)
	render := services.NewRenderService(db, log, repos.Slide, repos.Activity, renderer)

	return Services{
		Collection: collection,
		Activity:   activity,
		Element:    element,
		Asset:      asset,
		Render:     render,
		Sync:       services.NewSyncAdapter(element, activity, asset),
	}, nil
}
