package slides

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

type SlideRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.Slide) ([]*domain.Slide, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Slide, error)
	GetByIDWithElements(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Slide, error)
	ListByActivity(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*domain.Slide, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.Slide) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type slideRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSlideRepo(db *gorm.DB, baseLog *logger.Logger) SlideRepo {
	return &slideRepo{db: db, log: baseLog.With("repo", "SlideRepo")}
}

func (r *slideRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.Slide) ([]*domain.Slide, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.Slide{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *slideRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Slide, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.Slide
	if err := t.WithContext(ctx).Where("id = ?", id).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *slideRepo) GetByIDWithElements(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Slide, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.Slide
	if err := t.WithContext(ctx).
		Preload("Elements", func(db *gorm.DB) *gorm.DB {
			return db.Order("layer_order ASC")
		}).
		Where("id = ?", id).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *slideRepo) ListByActivity(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*domain.Slide, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Slide
	if activityID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *slideRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.Slide) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *slideRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Slide{}).Error
}
