package slides

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

type CollectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.Collection) ([]*domain.Collection, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Collection, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.Collection, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.Collection) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type collectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollectionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionRepo {
	return &collectionRepo{db: db, log: baseLog.With("repo", "CollectionRepo")}
}

func (r *collectionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.Collection) ([]*domain.Collection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.Collection{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *collectionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Collection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.Collection
	if err := t.WithContext(ctx).Where("id = ?", id).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *collectionRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.Collection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Collection
	if err := t.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *collectionRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.Collection) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *collectionRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Collection{}).Error
}
