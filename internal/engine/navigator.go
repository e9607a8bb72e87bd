package engine

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/geometry"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/errors"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

// Key is a keyboard binding understood by the navigator.
type Key string

const (
	KeyArrowRight Key = "ArrowRight"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyDelete     Key = "Delete"
)

// Entry pairs an activity with one of its slides; the navigator walks an
// ordered flattened list of these.
type Entry struct {
	Activity *domain.Activity
	Slide    *domain.Slide
}

// Navigator tracks which slide is currently displayed and rebuilds the scene
// on every transition. Each switch is a full rebuild; there is no diffing
// across slides.
type Navigator struct {
	log      *logger.Logger
	client   SyncClient
	tracker  *MutationTracker
	entries  []Entry
	canvas   geometry.Size
	editMode bool

	// assetHosts are URL hosts whose objects live in our storage bucket and
	// must be deleted when the referencing element goes away.
	assetHosts []string

	index int
	scene *Scene

	// OnSceneChanged, if set, fires after every rebuild so the caller can
	// re-render.
	OnSceneChanged func(scene *Scene)
}

// Entries flattens activities into navigator entries, ordered by activity
// order index with slides in stored order.
func Entries(activities []*domain.Activity) []Entry {
	var out []Entry
	for _, activity := range activities {
		for i := range activity.Slides {
			out = append(out, Entry{Activity: activity, Slide: &activity.Slides[i]})
		}
	}
	return out
}

func NewNavigator(log *logger.Logger, client SyncClient, tracker *MutationTracker, entries []Entry, canvas geometry.Size, editMode bool, assetHosts []string) (*Navigator, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("navigator needs at least one slide")
	}
	nav := &Navigator{
		log:        log.With("component", "Navigator"),
		client:     client,
		tracker:    tracker,
		entries:    entries,
		canvas:     canvas,
		editMode:   editMode,
		assetHosts: assetHosts,
	}
	if err := nav.rebuild(); err != nil {
		return nil, err
	}
	return nav, nil
}

// Index is the current slide position.
func (n *Navigator) Index() int { return n.index }

// Len is the slide count.
func (n *Navigator) Len() int { return len(n.entries) }

// Scene is the scene for the current slide.
func (n *Navigator) Scene() *Scene { return n.scene }

// Current returns the entry being displayed.
func (n *Navigator) Current() Entry { return n.entries[n.index] }

// Next advances one slide. At the last slide it is a no-op.
func (n *Navigator) Next(ctx context.Context) error {
	if n.index >= len(n.entries)-1 {
		return nil
	}
	return n.transition(ctx, n.index+1)
}

// Previous steps back one slide. At the first slide it is a no-op.
func (n *Navigator) Previous(ctx context.Context) error {
	if n.index <= 0 {
		return nil
	}
	return n.transition(ctx, n.index-1)
}

// JumpTo moves directly to slide i.
func (n *Navigator) JumpTo(ctx context.Context, i int) error {
	if i < 0 || i >= len(n.entries) {
		return fmt.Errorf("slide index %d: %w", i, errors.ErrOutOfRange)
	}
	if i == n.index {
		return nil
	}
	return n.transition(ctx, i)
}

// HandleKey dispatches a keyboard binding: right and left arrows navigate,
// delete removes the selected node (edit mode only).
func (n *Navigator) HandleKey(ctx context.Context, key Key) error {
	switch key {
	case KeyArrowRight:
		return n.Next(ctx)
	case KeyArrowLeft:
		return n.Previous(ctx)
	case KeyDelete:
		if !n.editMode {
			return nil
		}
		return n.DeleteSelected(ctx)
	default:
		return nil
	}
}

// DeleteSelected removes the selected node from the scene, deletes the
// persisted record, and for images backed by our storage also requests
// deletion of the binary asset. Asset deletion failures are logged and
// swallowed; a stale orphaned object is accepted over a hard failure.
func (n *Navigator) DeleteSelected(ctx context.Context) error {
	node := n.scene.Selected()
	if node == nil {
		return nil
	}
	n.scene.RemoveNode(node)

	if node.ElementID != uuid.Nil {
		if err := n.client.DeleteElement(ctx, n.scene.SlideID, node.ElementID); err != nil {
			return fmt.Errorf("delete element %s: %w", node.ElementID, err)
		}
	}

	if node.Kind == domain.ElementKindImage {
		if path, ok := StorageObjectPath(node.SourceURL, n.assetHosts); ok {
			if err := n.client.DeleteStorageObject(ctx, path); err != nil {
				n.log.Warn("failed to delete orphaned asset (ignored)", "path", path, "error", err)
			}
		}
	}
	return nil
}

// transition flushes pending writes for the outgoing slide, then rebuilds
// the scene for the target. Writes are forced out rather than dropped so the
// store never silently misses an edit made just before navigating.
func (n *Navigator) transition(ctx context.Context, target int) error {
	if n.tracker != nil {
		if err := n.tracker.FlushSlide(ctx, n.scene.SlideID); err != nil {
			n.log.Warn("flush before navigation failed, local edits remain dirty",
				"slideID", n.scene.SlideID, "error", err)
		}
	}
	n.index = target
	return n.rebuild()
}

func (n *Navigator) rebuild() error {
	entry := n.entries[n.index]
	scene, err := BuildScene(n.log, entry.Activity, entry.Slide, n.canvas, n.editMode)
	if err != nil {
		return fmt.Errorf("rebuild scene for slide %s: %w", entry.Slide.ID, err)
	}
	n.scene = scene
	if n.OnSceneChanged != nil {
		n.OnSceneChanged(scene)
	}
	return nil
}

// StorageObjectPath extracts the bucket object path from a source URL when
// the URL points at one of the given asset hosts.
func StorageObjectPath(sourceURL string, assetHosts []string) (string, bool) {
	if strings.TrimSpace(sourceURL) == "" {
		return "", false
	}
	u, err := url.Parse(sourceURL)
	if err != nil {
		return "", false
	}
	for _, host := range assetHosts {
		if strings.EqualFold(u.Host, host) {
			return strings.TrimPrefix(u.Path, "/"), true
		}
	}
	return "", false
}
