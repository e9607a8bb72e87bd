package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/data/repos/slides"
	"github.com/youngclement/preziq-canvas-backend/internal/data/repos/testutil"
	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/engine"
	pkgerrors "github.com/youngclement/preziq-canvas-backend/internal/pkg/errors"
)

func imagePayload(url string) engine.ElementPayload {
	return engine.ElementPayload{
		SlideElementType: domain.ElementKindImage,
		PositionX:        10,
		PositionY:        20,
		Width:            30,
		Height:           15,
		SourceURL:        url,
	}
}

func textPayload(text string, fontSize float64) engine.ElementPayload {
	raw, _ := json.Marshal(domain.TextContent{Text: text, FontSize: fontSize})
	return engine.ElementPayload{
		SlideElementType: domain.ElementKindText,
		PositionX:        5,
		PositionY:        5,
		Width:            50,
		Height:           10,
		Content:          raw,
	}
}

func TestElementServiceCreateAssignsLayers(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	slideRepo := slides.NewSlideRepo(db, log)
	elementRepo := slides.NewElementRepo(db, log)
	svc := NewElementService(db, log, slideRepo, elementRepo, NewAssetService(log, &fakeBucket{}))

	slide := &domain.Slide{ID: uuid.New(), ActivityID: uuid.New()}
	if _, err := slideRepo.Create(ctx, tx, []*domain.Slide{slide}); err != nil {
		t.Fatalf("create slide: %v", err)
	}

	first, err := svc.Create(ctx, tx, slide.ID, imagePayload("https://cdn.example.com/a.png"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.LayerOrder != 0 {
		t.Fatalf("first element layer = %d, want 0", first.LayerOrder)
	}
	second, err := svc.Create(ctx, tx, slide.ID, textPayload("hello", 6))
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.LayerOrder != 1 {
		t.Fatalf("second element layer = %d, want 1", second.LayerOrder)
	}
	if second.ID == uuid.Nil {
		t.Fatal("created element has no id")
	}
}

func TestElementServiceCreateValidation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	slideRepo := slides.NewSlideRepo(db, log)
	svc := NewElementService(db, log, slideRepo, slides.NewElementRepo(db, log), NewAssetService(log, &fakeBucket{}))

	slide := &domain.Slide{ID: uuid.New(), ActivityID: uuid.New()}
	if _, err := slideRepo.Create(ctx, tx, []*domain.Slide{slide}); err != nil {
		t.Fatalf("create slide: %v", err)
	}

	cases := []struct {
		name    string
		payload engine.ElementPayload
	}{
		{"unknown kind", engine.ElementPayload{SlideElementType: "VIDEO", Width: 10, Height: 10}},
		{"image without source", engine.ElementPayload{SlideElementType: domain.ElementKindImage, Width: 10, Height: 10}},
		{"text without content", engine.ElementPayload{SlideElementType: domain.ElementKindText, Width: 10, Height: 10}},
		{"zero width", func() engine.ElementPayload {
			p := imagePayload("https://cdn.example.com/a.png")
			p.Width = 0
			return p
		}()},
		{"position past canvas", func() engine.ElementPayload {
			p := imagePayload("https://cdn.example.com/a.png")
			p.PositionX = 120
			return p
		}()},
		{"text with bad font size", textPayload("hi", 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tx, slide.ID, tc.payload); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}

	if _, err := svc.Create(ctx, tx, uuid.New(), imagePayload("https://cdn.example.com/a.png")); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("missing slide err = %v, want ErrNotFound", err)
	}
}

func TestElementServiceUpdateAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	slideRepo := slides.NewSlideRepo(db, log)
	elementRepo := slides.NewElementRepo(db, log)
	bucket := &fakeBucket{}
	svc := NewElementService(db, log, slideRepo, elementRepo, NewAssetService(log, bucket))

	slide := &domain.Slide{ID: uuid.New(), ActivityID: uuid.New()}
	if _, err := slideRepo.Create(ctx, tx, []*domain.Slide{slide}); err != nil {
		t.Fatalf("create slide: %v", err)
	}
	created, err := svc.Create(ctx, tx, slide.ID, imagePayload("https://storage.googleapis.com/preziq-assets/slides/a.png"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	moved := imagePayload("https://storage.googleapis.com/preziq-assets/slides/a.png")
	moved.PositionX = 42.5
	moved.LayerOrder = 3
	updated, err := svc.Update(ctx, tx, slide.ID, created.ID, moved)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PositionX != 42.5 || updated.LayerOrder != 3 {
		t.Fatalf("update not applied: x=%v layer=%d", updated.PositionX, updated.LayerOrder)
	}

	// Updating with a mismatched slide id must not touch the element.
	if _, err := svc.Update(ctx, tx, uuid.New(), created.ID, moved); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("cross-slide update err = %v, want ErrNotFound", err)
	}

	if err := svc.Delete(ctx, tx, slide.ID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	rows, err := svc.ListBySlide(ctx, tx, slide.ID)
	if err != nil || len(rows) != 0 {
		t.Fatalf("after delete: err=%v len=%d", err, len(rows))
	}
	if len(bucket.deleted) != 1 || bucket.deleted[0] != "slides/a.png" {
		t.Fatalf("backing asset not deleted: %v", bucket.deleted)
	}
	// Deleting again is a no-op.
	if err := svc.Delete(ctx, tx, slide.ID, created.ID); err != nil {
		t.Fatalf("repeat Delete: %v", err)
	}
}

func TestElementServiceUpdateReplacesImageAsset(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	slideRepo := slides.NewSlideRepo(db, log)
	elementRepo := slides.NewElementRepo(db, log)
	bucket := &fakeBucket{}
	svc := NewElementService(db, log, slideRepo, elementRepo, NewAssetService(log, bucket))

	slide := &domain.Slide{ID: uuid.New(), ActivityID: uuid.New()}
	if _, err := slideRepo.Create(ctx, tx, []*domain.Slide{slide}); err != nil {
		t.Fatalf("create slide: %v", err)
	}
	created, err := svc.Create(ctx, tx, slide.ID, imagePayload("https://storage.googleapis.com/preziq-assets/slides/old.png"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Same URL back is not a replacement.
	if _, err := svc.Update(ctx, tx, slide.ID, created.ID, imagePayload("https://storage.googleapis.com/preziq-assets/slides/old.png")); err != nil {
		t.Fatalf("Update same url: %v", err)
	}
	if len(bucket.deleted) != 0 {
		t.Fatalf("same-url update deleted something: %v", bucket.deleted)
	}

	// Swapping the image deletes the orphaned object.
	updated, err := svc.Update(ctx, tx, slide.ID, created.ID, imagePayload("https://storage.googleapis.com/preziq-assets/slides/new.png"))
	if err != nil {
		t.Fatalf("Update new url: %v", err)
	}
	if updated.SourceURL != "https://storage.googleapis.com/preziq-assets/slides/new.png" {
		t.Fatalf("SourceURL = %q", updated.SourceURL)
	}
	if len(bucket.deleted) != 1 || bucket.deleted[0] != "slides/old.png" {
		t.Fatalf("replaced asset not deleted: %v", bucket.deleted)
	}

	// Replacing an externally hosted image does not touch the bucket.
	if _, err := svc.Update(ctx, tx, slide.ID, created.ID, imagePayload("https://cdn.example.com/pic.png")); err != nil {
		t.Fatalf("Update to foreign url: %v", err)
	}
	if _, err := svc.Update(ctx, tx, slide.ID, created.ID, imagePayload("https://storage.googleapis.com/preziq-assets/slides/new2.png")); err != nil {
		t.Fatalf("Update from foreign url: %v", err)
	}
	if len(bucket.deleted) != 2 || bucket.deleted[1] != "slides/new.png" {
		t.Fatalf("deleted = %v", bucket.deleted)
	}
}
