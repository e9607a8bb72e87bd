// Package events carries cross-component notifications inside the editor.
// The canvas and the settings panel both care about activity backgrounds, so
// the last-known background lives in an explicit shared store with a typed
// publish/subscribe interface instead of ad hoc global state.
package events

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

type Event string

const (
	EventBackgroundChanged Event = "BackgroundChanged"
)

// BackgroundChange announces that an activity's background was edited.
// Exactly one of Color and Image is non-empty.
type BackgroundChange struct {
	ActivityID uuid.UUID `json:"activity_id"`
	Color      string    `json:"color"`
	Image      string    `json:"image"`
}

// Bus fans BackgroundChange events out to subscribers. The in-process Hub
// covers a single editor instance; the redis implementation in
// internal/clients/redis spans instances.
type Bus interface {
	Publish(ctx context.Context, change BackgroundChange) error
	Subscribe(fn func(change BackgroundChange)) (unsubscribe func())
}

// Hub is the in-process Bus.
type Hub struct {
	mu          sync.RWMutex
	log         *logger.Logger
	subscribers map[int]func(change BackgroundChange)
	nextID      int
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:         log.With("component", "BackgroundHub"),
		subscribers: make(map[int]func(change BackgroundChange)),
	}
}

func (h *Hub) Publish(_ context.Context, change BackgroundChange) error {
	h.mu.RLock()
	fns := make([]func(change BackgroundChange), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
	h.log.Debug("background change published", "activityID", change.ActivityID, "color", change.Color, "image", change.Image)
	return nil
}

func (h *Hub) Subscribe(fn func(change BackgroundChange)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subscribers[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subscribers, id)
		h.mu.Unlock()
	}
}

// BackgroundStore remembers the last-known background per activity and
// publishes every change on the bus. Safe for concurrent use.
type BackgroundStore struct {
	mu     sync.RWMutex
	bus    Bus
	colors map[uuid.UUID]string
	images map[uuid.UUID]string
}

func NewBackgroundStore(bus Bus) *BackgroundStore {
	return &BackgroundStore{
		bus:    bus,
		colors: make(map[uuid.UUID]string),
		images: make(map[uuid.UUID]string),
	}
}

// SetColor records a solid background and clears any remembered image.
func (s *BackgroundStore) SetColor(ctx context.Context, activityID uuid.UUID, color string) error {
	s.mu.Lock()
	s.colors[activityID] = color
	delete(s.images, activityID)
	s.mu.Unlock()

	if s.bus == nil {
		return nil
	}
	return s.bus.Publish(ctx, BackgroundChange{ActivityID: activityID, Color: color})
}

// SetImage records an image background and clears any remembered color.
func (s *BackgroundStore) SetImage(ctx context.Context, activityID uuid.UUID, url string) error {
	s.mu.Lock()
	s.images[activityID] = url
	delete(s.colors, activityID)
	s.mu.Unlock()

	if s.bus == nil {
		return nil
	}
	return s.bus.Publish(ctx, BackgroundChange{ActivityID: activityID, Image: url})
}

// Color returns the last-known background color for the activity.
func (s *BackgroundStore) Color(activityID uuid.UUID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.colors[activityID]
	return c, ok
}

// Image returns the last-known background image for the activity.
func (s *BackgroundStore) Image(activityID uuid.UUID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.images[activityID]
	return u, ok
}
