package app

import (
	"gorm.io/gorm"

	"github.com/youngclement/preziq-canvas-backend/internal/data/repos/slides"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

type Repos struct {
	Collection slides.CollectionRepo
	Activity   slides.ActivityRepo
	Slide      slides.SlideRepo
	Element    slides.ElementRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Collection: slides.NewCollectionRepo(db, log),
		Activity:   slides.NewActivityRepo(db, log),
		Slide:      slides.NewSlideRepo(db, log),
		Element:    slides.NewElementRepo(db, log),
	}
}
