package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
)

type recordedWrite struct {
	slideID   uuid.UUID
	elementID uuid.UUID
	payload   ElementPayload
}

// fakeSyncClient records every call and can be told to fail writes.
type fakeSyncClient struct {
	mu             sync.Mutex
	adds           []recordedWrite
	updates        []recordedWrite
	deletes        []recordedWrite
	storageDeletes []string
	backgrounds    map[uuid.UUID]BackgroundPayload

	failWrites bool
}

func newFakeSyncClient() *fakeSyncClient {
	return &fakeSyncClient{backgrounds: make(map[uuid.UUID]BackgroundPayload)}
}

func (f *fakeSyncClient) AddElement(_ context.Context, slideID uuid.UUID, payload ElementPayload) (*domain.SlideElement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return nil, fmt.Errorf("simulated add failure")
	}
	f.adds = append(f.adds, recordedWrite{slideID: slideID, payload: payload})
	return &domain.SlideElement{ID: uuid.New(), SlideID: slideID, Kind: payload.SlideElementType}, nil
}

func (f *fakeSyncClient) UpdateElement(_ context.Context, slideID, elementID uuid.UUID, payload ElementPayload) (*domain.SlideElement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return nil, fmt.Errorf("simulated update failure")
	}
	f.updates = append(f.updates, recordedWrite{slideID: slideID, elementID: elementID, payload: payload})
	return &domain.SlideElement{ID: elementID, SlideID: slideID, Kind: payload.SlideElementType}, nil
}

func (f *fakeSyncClient) DeleteElement(_ context.Context, slideID, elementID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, recordedWrite{slideID: slideID, elementID: elementID})
	return nil
}

func (f *fakeSyncClient) DeleteStorageObject(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storageDeletes = append(f.storageDeletes, path)
	return nil
}

func (f *fakeSyncClient) UpdateActivityBackground(_ context.Context, activityID uuid.UUID, payload BackgroundPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backgrounds[activityID] = payload
	return nil
}

func (f *fakeSyncClient) setFailWrites(fail bool) {
	f.mu.Lock()
	f.failWrites = fail
	f.mu.Unlock()
}

func (f *fakeSyncClient) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeSyncClient) lastUpdate() (recordedWrite, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return recordedWrite{}, false
	}
	return f.updates[len(f.updates)-1], true
}
