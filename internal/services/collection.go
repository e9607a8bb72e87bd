package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youngclement/preziq-canvas-backend/internal/data/repos/slides"
	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	pkgerrors "github.com/youngclement/preziq-canvas-backend/internal/pkg/errors"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

type CollectionService interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Collection, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.Collection, error)
	// Deck loads a collection with its activities, each activity carrying its
	// slides and elements in paint order. This is the editor's initial load.
	Deck(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Collection, []*domain.Activity, error)
}

type collectionService struct {
	db             *gorm.DB
	log            *logger.Logger
	collectionRepo slides.CollectionRepo
	activityRepo   slides.ActivityRepo
}

func NewCollectionService(db *gorm.DB, log *logger.Logger, collectionRepo slides.CollectionRepo, activityRepo slides.ActivityRepo) CollectionService {
	return &collectionService{
		db:             db,
		log:            log.With("service", "CollectionService"),
		collectionRepo: collectionRepo,
		activityRepo:   activityRepo,
	}
}

func (s *collectionService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Collection, error) {
	row, err := s.collectionRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("collection %s: %w", id, pkgerrors.ErrNotFound)
	}
	return row, nil
}

func (s *collectionService) List(ctx context.Context, tx *gorm.DB) ([]*domain.Collection, error) {
	return s.collectionRepo.List(ctx, tx)
}

func (s *collectionService) Deck(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Collection, []*domain.Activity, error) {
	collection, err := s.Get(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}
	activities, err := s.activityRepo.ListByCollection(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}
	out := make([]*domain.Activity, 0, len(activities))
	for _, a := range activities {
		full, err := s.activityRepo.GetByIDWithSlides(ctx, tx, a.ID)
		if err != nil {
			return nil, nil, err
		}
		if full != nil {
			out = append(out, full)
		}
	}
	return collection, out, nil
}
