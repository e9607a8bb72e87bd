package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youngclement/preziq-canvas-backend/internal/data/repos/slides"
	"github.com/youngclement/preziq-canvas-backend/internal/engine"
	"github.com/youngclement/preziq-canvas-backend/internal/geometry"
	pkgerrors "github.com/youngclement/preziq-canvas-backend/internal/pkg/errors"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

// RenderService rasterizes persisted slides to PNG at a requested canvas
// size. Because all stored geometry is percent-based, any canvas size yields
// the same composition.
type RenderService interface {
	RenderSlide(ctx context.Context, tx *gorm.DB, slideID uuid.UUID, canvas geometry.Size) ([]byte, error)
}

type renderService struct {
	db           *gorm.DB
	log          *logger.Logger
	slideRepo    slides.SlideRepo
	activityRepo slides.ActivityRepo
	renderer     *engine.Renderer
}

func NewRenderService(db *gorm.DB, log *logger.Logger, slideRepo slides.SlideRepo, activityRepo slides.ActivityRepo, renderer *engine.Renderer) RenderService {
	return &renderService{
		db:           db,
		log:          log.With("service", "RenderService"),
		slideRepo:    slideRepo,
		activityRepo: activityRepo,
		renderer:     renderer,
	}
}

func (s *renderService) RenderSlide(ctx context.Context, tx *gorm.DB, slideID uuid.UUID, canvas geometry.Size) ([]byte, error) {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, fmt.Errorf("canvas must have positive dimensions: %w", pkgerrors.ErrInvalidArgument)
	}

	slide, err := s.slideRepo.GetByIDWithElements(ctx, tx, slideID)
	if err != nil {
		return nil, err
	}
	if slide == nil {
		return nil, fmt.Errorf("slide %s: %w", slideID, pkgerrors.ErrNotFound)
	}
	activity, err := s.activityRepo.GetByID(ctx, tx, slide.ActivityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, fmt.Errorf("activity %s: %w", slide.ActivityID, pkgerrors.ErrNotFound)
	}

	scene, err := engine.BuildScene(s.log, activity, slide, canvas, false)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, scene)
}
