package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/geometry"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

// TrackerConfig tunes the mutation tracker. Zero values pick the defaults.
type TrackerConfig struct {
	// Debounce collapses rapid successive edits to one element into a single
	// write. Drag and resize gestures fire many events per second; each one
	// must not round-trip to the remote store.
	Debounce time.Duration
	// MaxRetries bounds the retry loop on a failed write.
	MaxRetries int
	// RetryBackoff is the initial backoff, doubled per attempt.
	RetryBackoff time.Duration
	// WriteTimeout caps a single write attempt so a hung transport cannot
	// leave the saving indicator stuck.
	WriteTimeout time.Duration
}

func (c TrackerConfig) withDefaults() TrackerConfig {
	if c.Debounce <= 0 {
		c.Debounce = 500 * time.Millisecond
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 250 * time.Millisecond
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	return c
}

type pendingWrite struct {
	slideID uuid.UUID
	node    *Node
	payload ElementPayload
	isAdd   bool
	timer   *time.Timer
}

// MutationTracker watches local scene edits and pushes them to the sync
// client, debounced per element. Local state is truth: a failed write is
// retried with bounded backoff, then marked dirty and surfaced through the
// error callback, but the canvas is never rolled back.
type MutationTracker struct {
	mu       sync.Mutex
	log      *logger.Logger
	client   SyncClient
	cfg      TrackerConfig
	pending  map[*Node]*pendingWrite
	dirty    map[*Node]*pendingWrite
	inflight int

	// OnWriteSettled, if set, fires after every write completes (success or
	// terminal failure). err is nil on success.
	OnWriteSettled func(slideID, elementID uuid.UUID, err error)
}

func NewMutationTracker(log *logger.Logger, client SyncClient, cfg TrackerConfig) *MutationTracker {
	return &MutationTracker{
		log:     log.With("component", "MutationTracker"),
		client:  client,
		cfg:     cfg.withDefaults(),
		pending: make(map[*Node]*pendingWrite),
		dirty:   make(map[*Node]*pendingWrite),
	}
}

// RecordNodeChange captures a move/resize/rotate edit. A pending write for
// the same node is rescheduled with the new state, never duplicated.
func (t *MutationTracker) RecordNodeChange(scene *Scene, node *Node) error {
	return t.record(scene, node)
}

// RecordNodeAdded captures a newly placed node. The create write assigns the
// element id, which is backfilled onto the node when the write settles.
func (t *MutationTracker) RecordNodeAdded(scene *Scene, node *Node) error {
	return t.record(scene, node)
}

// RecordTextChange captures a text-content edit. The node's pixel font sizes
// are converted back to percent-of-canvas-width in the serialized payload.
func (t *MutationTracker) RecordTextChange(scene *Scene, node *Node) error {
	if node == nil || node.Text == nil {
		return fmt.Errorf("text change recorded for non-text node")
	}
	return t.record(scene, node)
}

func (t *MutationTracker) record(scene *Scene, node *Node) error {
	if scene == nil || node == nil {
		return fmt.Errorf("scene and node required")
	}
	if !scene.EditMode {
		return fmt.Errorf("mutations are only tracked in edit mode")
	}
	payload, err := PayloadFromNode(scene, node)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if pw, ok := t.pending[node]; ok {
		pw.payload = payload
		pw.isAdd = node.ElementID == uuid.Nil
		pw.timer.Reset(t.cfg.Debounce)
		return nil
	}
	pw := &pendingWrite{
		slideID: scene.SlideID,
		node:    node,
		payload: payload,
		isAdd:   node.ElementID == uuid.Nil,
	}
	pw.timer = time.AfterFunc(t.cfg.Debounce, func() { t.fire(node) })
	t.pending[node] = pw
	delete(t.dirty, node)
	return nil
}

// Saving reports whether any write is pending or in flight. The UI shows a
// transient saving indicator while this is true.
func (t *MutationTracker) Saving() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending) > 0 || t.inflight > 0
}

// DirtyElements lists elements whose last write terminally failed and is
// waiting for a manual re-save.
func (t *MutationTracker) DirtyElements() []uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]uuid.UUID, 0, len(t.dirty))
	for node := range t.dirty {
		out = append(out, node.ElementID)
	}
	return out
}

// Flush forces every pending and dirty write out synchronously.
func (t *MutationTracker) Flush(ctx context.Context) error {
	return t.flush(ctx, nil)
}

// FlushSlide forces out writes targeting one slide. The navigator calls this
// before a transition so no write lands against a stale slide context.
func (t *MutationTracker) FlushSlide(ctx context.Context, slideID uuid.UUID) error {
	return t.flush(ctx, &slideID)
}

func (t *MutationTracker) flush(ctx context.Context, slideID *uuid.UUID) error {
	t.mu.Lock()
	var writes []*pendingWrite
	for node, pw := range t.pending {
		if slideID != nil && pw.slideID != *slideID {
			continue
		}
		pw.timer.Stop()
		delete(t.pending, node)
		writes = append(writes, pw)
	}
	for node, pw := range t.dirty {
		if slideID != nil && pw.slideID != *slideID {
			continue
		}
		delete(t.dirty, node)
		writes = append(writes, pw)
	}
	t.inflight += len(writes)
	t.mu.Unlock()

	var firstErr error
	for _, pw := range writes {
		if err := t.perform(ctx, pw); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// fire runs when a debounce timer elapses.
func (t *MutationTracker) fire(node *Node) {
	t.mu.Lock()
	pw, ok := t.pending[node]
	if !ok {
		t.mu.Unlock()
		return
	}
	delete(t.pending, node)
	t.inflight++
	t.mu.Unlock()

	_ = t.perform(context.Background(), pw)
}

// perform issues the write with bounded exponential backoff. A terminal
// failure marks the element dirty; local visual state is never rolled back.
func (t *MutationTracker) perform(ctx context.Context, pw *pendingWrite) error {
	var lastErr error
	backoff := t.cfg.RetryBackoff
	for attempt := 0; attempt < t.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = t.cfg.MaxRetries
			case <-time.After(backoff):
				backoff *= 2
			}
			if lastErr != nil {
				break
			}
		}
		lastErr = t.writeOnce(ctx, pw)
		if lastErr == nil {
			break
		}
		t.log.Warn("element write failed",
			"slideID", pw.slideID, "elementID", pw.node.ElementID, "attempt", attempt+1, "error", lastErr)
	}

	t.mu.Lock()
	t.inflight--
	if lastErr != nil {
		t.dirty[pw.node] = pw
	}
	t.mu.Unlock()

	if lastErr != nil {
		t.log.Error("element write abandoned after retries, element marked dirty",
			"slideID", pw.slideID, "elementID", pw.node.ElementID, "error", lastErr)
	}
	if t.OnWriteSettled != nil {
		t.OnWriteSettled(pw.slideID, pw.node.ElementID, lastErr)
	}
	return lastErr
}

func (t *MutationTracker) writeOnce(ctx context.Context, pw *pendingWrite) error {
	wctx, cancel := context.WithTimeout(ctx, t.cfg.WriteTimeout)
	defer cancel()

	if pw.isAdd {
		created, err := t.client.AddElement(wctx, pw.slideID, pw.payload)
		if err != nil {
			return err
		}
		if created != nil {
			pw.node.ElementID = created.ID
			pw.isAdd = false
		}
		return nil
	}
	_, err := t.client.UpdateElement(wctx, pw.slideID, pw.node.ElementID, pw.payload)
	return err
}

// PayloadFromNode serializes a node back to its persisted form: absolute
// pixel geometry to percentages, layer order derived from the node's current
// paint-order index, and text font sizes back to percent-of-canvas-width.
func PayloadFromNode(scene *Scene, node *Node) (ElementPayload, error) {
	idx := scene.PaintIndex(node)
	if idx < 0 {
		return ElementPayload{}, fmt.Errorf("node is not part of the scene")
	}

	rect := geometry.ToPercentRect(node.Rect, scene.Canvas)
	payload := ElementPayload{
		SlideElementType: node.Kind,
		PositionX:        geometry.ClampPercent(rect.X),
		PositionY:        geometry.ClampPercent(rect.Y),
		Width:            geometry.ClampPercent(rect.Width),
		Height:           geometry.ClampPercent(rect.Height),
		Rotation:         node.Rotation,
		LayerOrder:       idx,
	}

	switch node.Kind {
	case domain.ElementKindImage:
		payload.SourceURL = node.SourceURL
	case domain.ElementKindText:
		if node.Text == nil {
			return ElementPayload{}, fmt.Errorf("text node has no content")
		}
		doc := node.Text.Doc
		doc.FontSize = geometry.FontToPercent(node.Text.FontSize, scene.Canvas)
		doc.Runs = make([]domain.StyleRun, len(node.Text.Doc.Runs))
		copy(doc.Runs, node.Text.Doc.Runs)
		for i := range doc.Runs {
			if doc.Runs[i].FontSize == nil {
				continue
			}
			pct := geometry.FontToPercent(node.Text.RunSizes[i], scene.Canvas)
			doc.Runs[i].FontSize = &pct
		}
		raw, err := doc.Serialize()
		if err != nil {
			return ElementPayload{}, err
		}
		payload.Content = raw
	default:
		return ElementPayload{}, fmt.Errorf("unknown element kind %q", node.Kind)
	}

	return payload, nil
}
