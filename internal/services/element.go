package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/youngclement/preziq-canvas-backend/internal/data/repos/slides"
	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/engine"
	pkgerrors "github.com/youngclement/preziq-canvas-backend/internal/pkg/errors"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

// ElementService owns slide element writes. It assigns layer numbers on
// create (highest live layer plus one) so layer order stays unique per slide
// without a database constraint.
type ElementService interface {
	Create(ctx context.Context, tx *gorm.DB, slideID uuid.UUID, payload engine.ElementPayload) (*domain.SlideElement, error)
	Update(ctx context.Context, tx *gorm.DB, slideID, elementID uuid.UUID, payload engine.ElementPayload) (*domain.SlideElement, error)
	Delete(ctx context.Context, tx *gorm.DB, slideID, elementID uuid.UUID) error
	ListBySlide(ctx context.Context, tx *gorm.DB, slideID uuid.UUID) ([]*domain.SlideElement, error)
}

type elementService struct {
	db          *gorm.DB
	log         *logger.Logger
	slideRepo   slides.SlideRepo
	elementRepo slides.ElementRepo
	assets      AssetService
}

func NewElementService(db *gorm.DB, log *logger.Logger, slideRepo slides.SlideRepo, elementRepo slides.ElementRepo, assets AssetService) ElementService {
	return &elementService{
		db:          db,
		log:         log.With("service", "ElementService"),
		slideRepo:   slideRepo,
		elementRepo: elementRepo,
		assets:      assets,
	}
}

func (s *elementService) Create(ctx context.Context, tx *gorm.DB, slideID uuid.UUID, payload engine.ElementPayload) (*domain.SlideElement, error) {
	if err := validateElementPayload(payload); err != nil {
		return nil, err
	}
	slide, err := s.slideRepo.GetByID(ctx, tx, slideID)
	if err != nil {
		return nil, err
	}
	if slide == nil {
		return nil, fmt.Errorf("slide %s: %w", slideID, pkgerrors.ErrNotFound)
	}

	max, err := s.elementRepo.MaxLayerOrder(ctx, tx, slideID)
	if err != nil {
		return nil, err
	}

	row := &domain.SlideElement{
		SlideID:    slideID,
		Kind:       payload.SlideElementType,
		PositionX:  payload.PositionX,
		PositionY:  payload.PositionY,
		Width:      payload.Width,
		Height:     payload.Height,
		Rotation:   payload.Rotation,
		LayerOrder: max + 1,
		SourceURL:  payload.SourceURL,
	}
	if len(payload.Content) > 0 {
		row.Content = datatypes.JSON(payload.Content)
	}
	if _, err := s.elementRepo.Create(ctx, tx, []*domain.SlideElement{row}); err != nil {
		return nil, err
	}
	s.log.Info("element created", "slideID", slideID, "elementID", row.ID, "kind", row.Kind, "layer", row.LayerOrder)
	return row, nil
}

func (s *elementService) Update(ctx context.Context, tx *gorm.DB, slideID, elementID uuid.UUID, payload engine.ElementPayload) (*domain.SlideElement, error) {
	if err := validateElementPayload(payload); err != nil {
		return nil, err
	}
	row, err := s.elementRepo.GetByID(ctx, tx, elementID)
	if err != nil {
		return nil, err
	}
	if row == nil || row.SlideID != slideID {
		return nil, fmt.Errorf("element %s on slide %s: %w", elementID, slideID, pkgerrors.ErrNotFound)
	}

	oldURL := row.SourceURL

	row.Kind = payload.SlideElementType
	row.PositionX = payload.PositionX
	row.PositionY = payload.PositionY
	row.Width = payload.Width
	row.Height = payload.Height
	row.Rotation = payload.Rotation
	row.LayerOrder = payload.LayerOrder
	row.SourceURL = payload.SourceURL
	if len(payload.Content) > 0 {
		row.Content = datatypes.JSON(payload.Content)
	}
	if err := s.elementRepo.Update(ctx, tx, row); err != nil {
		return nil, err
	}

	// A swapped image orphans the old object. Best-effort delete, only after
	// the row points at the new one.
	if row.Kind == domain.ElementKindImage && oldURL != "" && oldURL != row.SourceURL && s.assets != nil {
		if err := s.assets.DeleteObjectURL(ctx, oldURL); err != nil {
			s.log.Warn("failed to delete replaced element asset (ignored)", "elementID", elementID, "url", oldURL, "error", err)
		}
	}
	return row, nil
}

// Delete is idempotent: deleting an element that is already gone succeeds.
// For image elements whose URL points at our bucket, the binary asset is
// deleted best-effort after the row.
func (s *elementService) Delete(ctx context.Context, tx *gorm.DB, slideID, elementID uuid.UUID) error {
	row, err := s.elementRepo.GetByID(ctx, tx, elementID)
	if err != nil {
		return err
	}
	if row == nil || row.SlideID != slideID {
		return nil
	}
	if err := s.elementRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{elementID}); err != nil {
		return err
	}
	if row.Kind == domain.ElementKindImage && row.SourceURL != "" && s.assets != nil {
		if err := s.assets.DeleteObjectURL(ctx, row.SourceURL); err != nil {
			s.log.Warn("failed to delete element asset (ignored)", "elementID", elementID, "url", row.SourceURL, "error", err)
		}
	}
	s.log.Info("element deleted", "slideID", slideID, "elementID", elementID)
	return nil
}

func (s *elementService) ListBySlide(ctx context.Context, tx *gorm.DB, slideID uuid.UUID) ([]*domain.SlideElement, error) {
	return s.elementRepo.ListBySlide(ctx, tx, slideID)
}

func validateElementPayload(payload engine.ElementPayload) error {
	switch payload.SlideElementType {
	case domain.ElementKindText:
		if _, err := domain.ParseTextContent([]byte(payload.Content)); err != nil {
			return fmt.Errorf("text content: %v: %w", err, pkgerrors.ErrInvalidArgument)
		}
	case domain.ElementKindImage:
		if payload.SourceURL == "" {
			return fmt.Errorf("image element requires sourceUrl: %w", pkgerrors.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("unknown element kind %q: %w", payload.SlideElementType, pkgerrors.ErrInvalidArgument)
	}

	if payload.Width <= 0 || payload.Height <= 0 {
		return fmt.Errorf("element size must be positive percentages: %w", pkgerrors.ErrInvalidArgument)
	}
	if payload.Width > 100 || payload.Height > 100 {
		return fmt.Errorf("element size exceeds canvas: %w", pkgerrors.ErrInvalidArgument)
	}
	if payload.PositionX < 0 || payload.PositionX > 100 || payload.PositionY < 0 || payload.PositionY > 100 {
		return fmt.Errorf("element position out of canvas range: %w", pkgerrors.ErrInvalidArgument)
	}
	return nil
}
