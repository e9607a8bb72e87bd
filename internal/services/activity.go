package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youngclement/preziq-canvas-backend/internal/data/repos/slides"
	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/engine"
	"github.com/youngclement/preziq-canvas-backend/internal/events"
	pkgerrors "github.com/youngclement/preziq-canvas-backend/internal/pkg/errors"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

// ActivityService owns activity reads and background writes. A background is
// a solid color or an image, never both; whichever side a write sets, the
// other is cleared in the same update. Replaced background images are deleted
// from storage best-effort after the row is saved.
type ActivityService interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Activity, error)
	GetWithSlides(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Activity, error)
	ListByCollection(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) ([]*domain.Activity, error)
	UpdateBackground(ctx context.Context, tx *gorm.DB, id uuid.UUID, payload engine.BackgroundPayload) error
}

type activityService struct {
	db           *gorm.DB
	log          *logger.Logger
	activityRepo slides.ActivityRepo
	assets       AssetService
	bus          events.Bus
}

func NewActivityService(db *gorm.DB, log *logger.Logger, activityRepo slides.ActivityRepo, assets AssetService, bus events.Bus) ActivityService {
	return &activityService{
		db:           db,
		log:          log.With("service", "ActivityService"),
		activityRepo: activityRepo,
		assets:       assets,
		bus:          bus,
	}
}

func (s *activityService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Activity, error) {
	row, err := s.activityRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("activity %s: %w", id, pkgerrors.ErrNotFound)
	}
	return row, nil
}

func (s *activityService) GetWithSlides(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Activity, error) {
	row, err := s.activityRepo.GetByIDWithSlides(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("activity %s: %w", id, pkgerrors.ErrNotFound)
	}
	return row, nil
}

func (s *activityService) ListByCollection(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) ([]*domain.Activity, error) {
	return s.activityRepo.ListByCollection(ctx, tx, collectionID)
}

func (s *activityService) UpdateBackground(ctx context.Context, tx *gorm.DB, id uuid.UUID, payload engine.BackgroundPayload) error {
	color := strings.TrimSpace(payload.BackgroundColor)
	image := strings.TrimSpace(payload.BackgroundImage)
	if color != "" && image != "" {
		return fmt.Errorf("background color and image are mutually exclusive: %w", pkgerrors.ErrInvalidArgument)
	}

	activity, err := s.Get(ctx, tx, id)
	if err != nil {
		return err
	}
	oldImage := activity.BackgroundImage

	switch {
	case color != "":
		activity.SetBackgroundColor(color)
	case image != "":
		activity.SetBackgroundImage(image)
	default:
		activity.BackgroundColor = ""
		activity.BackgroundImage = ""
	}

	updates := map[string]interface{}{
		"background_color": activity.BackgroundColor,
		"background_image": activity.BackgroundImage,
	}
	if err := s.activityRepo.UpdateFields(ctx, tx, id, updates); err != nil {
		return err
	}

	// Best-effort delete of the replaced image, only after the row is saved.
	if oldImage != "" && oldImage != activity.BackgroundImage && s.assets != nil {
		if err := s.assets.DeleteObjectURL(ctx, oldImage); err != nil {
			s.log.Warn("failed to delete old background image (ignored)", "activityID", id, "url", oldImage, "error", err)
		}
	}

	if s.bus != nil {
		change := events.BackgroundChange{
			ActivityID: id,
			Color:      activity.BackgroundColor,
			Image:      activity.BackgroundImage,
		}
		if err := s.bus.Publish(ctx, change); err != nil {
			s.log.Warn("failed to publish background change (ignored)", "activityID", id, "error", err)
		}
	}

	s.log.Info("activity background updated", "activityID", id, "color", activity.BackgroundColor, "image", activity.BackgroundImage)
	return nil
}
