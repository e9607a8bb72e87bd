package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/geometry"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

func editScene(t *testing.T, elements ...domain.SlideElement) *Scene {
	t.Helper()
	activity, slide := testActivitySlide(elements...)
	scene, err := BuildScene(logger.NewNop(), activity, slide, geometry.Size{Width: 800, Height: 600}, true)
	if err != nil {
		t.Fatalf("BuildScene error: %v", err)
	}
	return scene
}

func TestDebounceCollapsesRapidEdits(t *testing.T) {
	client := newFakeSyncClient()
	tracker := NewMutationTracker(logger.NewNop(), client, TrackerConfig{Debounce: time.Hour})
	scene := editScene(t, imageElement(uuid.New(), 0, "https://cdn.example.com/a.png"))
	node := scene.Nodes()[0]

	// Simulate a drag gesture: many intermediate positions in quick succession.
	for i := 1; i <= 5; i++ {
		node.Rect.X = float64(i * 40)
		if err := tracker.RecordNodeChange(scene, node); err != nil {
			t.Fatalf("RecordNodeChange error: %v", err)
		}
	}
	if !tracker.Saving() {
		t.Fatalf("tracker not saving while a write is pending")
	}

	if err := tracker.Flush(context.Background()); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if got := client.updateCount(); got != 1 {
		t.Fatalf("update count = %d, want 1 (debounce must collapse)", got)
	}
	last, _ := client.lastUpdate()
	// Final position was x=200px on an 800px canvas: 25 percent.
	if last.payload.PositionX != 25 {
		t.Fatalf("persisted positionX = %v, want 25", last.payload.PositionX)
	}
	if tracker.Saving() {
		t.Fatalf("tracker still saving after flush")
	}
}

func TestDebounceFiresOnTimer(t *testing.T) {
	client := newFakeSyncClient()
	tracker := NewMutationTracker(logger.NewNop(), client, TrackerConfig{Debounce: 20 * time.Millisecond})
	scene := editScene(t, imageElement(uuid.New(), 0, "https://cdn.example.com/a.png"))
	node := scene.Nodes()[0]

	settled := make(chan error, 1)
	tracker.OnWriteSettled = func(_, _ uuid.UUID, err error) { settled <- err }

	node.Rect.X = 80
	if err := tracker.RecordNodeChange(scene, node); err != nil {
		t.Fatalf("RecordNodeChange error: %v", err)
	}

	select {
	case err := <-settled:
		if err != nil {
			t.Fatalf("write settled with error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("debounced write never fired")
	}
	if got := client.updateCount(); got != 1 {
		t.Fatalf("update count = %d, want 1", got)
	}
}

func TestFailedWriteMarksDirtyAndRecovers(t *testing.T) {
	client := newFakeSyncClient()
	client.setFailWrites(true)
	tracker := NewMutationTracker(logger.NewNop(), client, TrackerConfig{
		Debounce:     time.Hour,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	})
	scene := editScene(t, imageElement(uuid.New(), 0, "https://cdn.example.com/a.png"))
	node := scene.Nodes()[0]

	node.Rect.Y = 60
	if err := tracker.RecordNodeChange(scene, node); err != nil {
		t.Fatalf("RecordNodeChange error: %v", err)
	}
	if err := tracker.Flush(context.Background()); err == nil {
		t.Fatalf("Flush succeeded despite failing client")
	}

	dirty := tracker.DirtyElements()
	if len(dirty) != 1 || dirty[0] != node.ElementID {
		t.Fatalf("dirty elements = %v, want [%s]", dirty, node.ElementID)
	}
	// Local state must not roll back.
	if node.Rect.Y != 60 {
		t.Fatalf("local state rolled back to %v", node.Rect.Y)
	}

	// A manual re-save drains the dirty set once the store recovers.
	client.setFailWrites(false)
	if err := tracker.Flush(context.Background()); err != nil {
		t.Fatalf("recovery flush error: %v", err)
	}
	if len(tracker.DirtyElements()) != 0 {
		t.Fatalf("dirty elements remain after successful re-save")
	}
	if got := client.updateCount(); got != 1 {
		t.Fatalf("update count = %d, want 1", got)
	}
}

func TestAddBackfillsElementID(t *testing.T) {
	client := newFakeSyncClient()
	tracker := NewMutationTracker(logger.NewNop(), client, TrackerConfig{Debounce: time.Hour})
	scene := editScene(t)

	node := scene.AddNode(&Node{
		Kind:      domain.ElementKindImage,
		Rect:      geometry.Rect{X: 80, Y: 60, Width: 160, Height: 120},
		SourceURL: "https://cdn.example.com/new.png",
	})
	if err := tracker.RecordNodeAdded(scene, node); err != nil {
		t.Fatalf("RecordNodeAdded error: %v", err)
	}
	if err := tracker.Flush(context.Background()); err != nil {
		t.Fatalf("Flush error: %v", err)
	}

	if node.ElementID == uuid.Nil {
		t.Fatalf("element id not backfilled after create")
	}
	if len(client.adds) != 1 {
		t.Fatalf("add count = %d, want 1", len(client.adds))
	}
	if client.adds[0].payload.PositionX != 10 || client.adds[0].payload.PositionY != 10 {
		t.Fatalf("create payload position = (%v, %v), want (10, 10)",
			client.adds[0].payload.PositionX, client.adds[0].payload.PositionY)
	}
}

func TestLayerOrderDerivedFromPaintIndex(t *testing.T) {
	client := newFakeSyncClient()
	tracker := NewMutationTracker(logger.NewNop(), client, TrackerConfig{Debounce: time.Hour})
	scene := editScene(t,
		imageElement(uuid.New(), 5, "https://cdn.example.com/a.png"),
		imageElement(uuid.New(), 9, "https://cdn.example.com/b.png"),
	)
	// Second node sits at paint index 1 regardless of its stored layer number.
	node := scene.Nodes()[1]
	if err := tracker.RecordNodeChange(scene, node); err != nil {
		t.Fatalf("RecordNodeChange error: %v", err)
	}
	if err := tracker.Flush(context.Background()); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	last, ok := client.lastUpdate()
	if !ok {
		t.Fatalf("no update recorded")
	}
	if last.payload.LayerOrder != 1 {
		t.Fatalf("layerOrder = %d, want paint index 1", last.payload.LayerOrder)
	}
}

func TestTrackerRejectsViewMode(t *testing.T) {
	client := newFakeSyncClient()
	tracker := NewMutationTracker(logger.NewNop(), client, TrackerConfig{})
	activity, slide := testActivitySlide(imageElement(uuid.New(), 0, "https://cdn.example.com/a.png"))
	scene, err := BuildScene(logger.NewNop(), activity, slide, geometry.Size{Width: 800, Height: 600}, false)
	if err != nil {
		t.Fatalf("BuildScene error: %v", err)
	}
	if err := tracker.RecordNodeChange(scene, scene.Nodes()[0]); err == nil {
		t.Fatalf("mutation tracked outside edit mode")
	}
}

func TestTextChangeSerializesPercentSizes(t *testing.T) {
	client := newFakeSyncClient()
	tracker := NewMutationTracker(logger.NewNop(), client, TrackerConfig{Debounce: time.Hour})

	size := 5.0
	doc := domain.TextContent{
		Text:     "styled",
		FontSize: 10,
		Runs:     []domain.StyleRun{{Start: 0, End: 3, Bold: true, FontSize: &size}},
	}
	el := textElement(t, uuid.New(), 0, doc)
	scene := editScene(t, el)
	node := scene.Nodes()[0]

	// User bumps the run to 60px on the 800px canvas; persisted form must say
	// 7.5 percent.
	node.Text.RunSizes[0] = 60
	if err := tracker.RecordTextChange(scene, node); err != nil {
		t.Fatalf("RecordTextChange error: %v", err)
	}
	if err := tracker.Flush(context.Background()); err != nil {
		t.Fatalf("Flush error: %v", err)
	}

	last, ok := client.lastUpdate()
	if !ok {
		t.Fatalf("no update recorded")
	}
	got, err := domain.ParseTextContent(last.payload.Content)
	if err != nil {
		t.Fatalf("ParseTextContent error: %v", err)
	}
	if got.FontSize != 10 {
		t.Fatalf("document font size = %v, want 10", got.FontSize)
	}
	if got.Runs[0].FontSize == nil || *got.Runs[0].FontSize != 7.5 {
		t.Fatalf("run font size = %v, want 7.5", got.Runs[0].FontSize)
	}
}
