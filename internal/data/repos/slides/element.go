package slides

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

type ElementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.SlideElement) ([]*domain.SlideElement, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.SlideElement, error)
	ListBySlide(ctx context.Context, tx *gorm.DB, slideID uuid.UUID) ([]*domain.SlideElement, error)
	MaxLayerOrder(ctx context.Context, tx *gorm.DB, slideID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.SlideElement) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type elementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewElementRepo(db *gorm.DB, baseLog *logger.Logger) ElementRepo {
	return &elementRepo{db: db, log: baseLog.With("repo", "ElementRepo")}
}

func (r *elementRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.SlideElement) ([]*domain.SlideElement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.SlideElement{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *elementRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.SlideElement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.SlideElement
	if err := t.WithContext(ctx).Where("id = ?", id).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *elementRepo) ListBySlide(ctx context.Context, tx *gorm.DB, slideID uuid.UUID) ([]*domain.SlideElement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.SlideElement
	if slideID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("slide_id = ?", slideID).
		Order("layer_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MaxLayerOrder returns the highest live layer number on the slide, or -1 for
// an empty slide. The element service assigns max+1 on create so layer
// numbers stay unique per slide.
func (r *elementRepo) MaxLayerOrder(ctx context.Context, tx *gorm.DB, slideID uuid.UUID) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var max *int
	if err := t.WithContext(ctx).
		Model(&domain.SlideElement{}).
		Where("slide_id = ?", slideID).
		Select("MAX(layer_order)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *elementRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.SlideElement) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *elementRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.SlideElement{}).Error
}
