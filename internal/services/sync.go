package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/engine"
)

// SyncAdapter exposes the element and activity services as an
// engine.SyncClient, so an editor embedded in the same process writes
// straight to the database instead of going over HTTP.
type SyncAdapter struct {
	elements   ElementService
	activities ActivityService
	assets     AssetService
}

var _ engine.SyncClient = (*SyncAdapter)(nil)

func NewSyncAdapter(elements ElementService, activities ActivityService, assets AssetService) *SyncAdapter {
	return &SyncAdapter{
		elements:   elements,
		activities: activities,
		assets:     assets,
	}
}

func (a *SyncAdapter) AddElement(ctx context.Context, slideID uuid.UUID, payload engine.ElementPayload) (*domain.SlideElement, error) {
	return a.elements.Create(ctx, nil, slideID, payload)
}

func (a *SyncAdapter) UpdateElement(ctx context.Context, slideID, elementID uuid.UUID, payload engine.ElementPayload) (*domain.SlideElement, error) {
	return a.elements.Update(ctx, nil, slideID, elementID, payload)
}

func (a *SyncAdapter) DeleteElement(ctx context.Context, slideID, elementID uuid.UUID) error {
	return a.elements.Delete(ctx, nil, slideID, elementID)
}

func (a *SyncAdapter) DeleteStorageObject(ctx context.Context, path string) error {
	return a.assets.DeleteObject(ctx, path)
}

func (a *SyncAdapter) UpdateActivityBackground(ctx context.Context, activityID uuid.UUID, payload engine.BackgroundPayload) error {
	return a.activities.UpdateBackground(ctx, nil, activityID, payload)
}
