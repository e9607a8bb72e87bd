package slides

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.Activity) ([]*domain.Activity, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Activity, error)
	GetByIDWithSlides(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Activity, error)
	ListByCollection(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) ([]*domain.Activity, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.Activity) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.Activity) ([]*domain.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.Activity{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *activityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.Activity
	if err := t.WithContext(ctx).Where("id = ?", id).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *activityRepo) GetByIDWithSlides(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.Activity
	if err := t.WithContext(ctx).
		Preload("Slides").
		Preload("Slides.Elements", func(db *gorm.DB) *gorm.DB {
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

func (r *activityRepo) ListByCollection(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) ([]*domain.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Activity
	if collectionID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("order_index ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.Activity) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *activityRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(ctx).Model(&domain.Activity{}).Where("id = ?", id).Updates(updates).Error
}

func (r *activityRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Activity{}).Error
}
