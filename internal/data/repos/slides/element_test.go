package slides

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/data/repos/testutil"
	"github.com/youngclement/preziq-canvas-backend/internal/domain"
)

func TestElementRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewElementRepo(db, testutil.Logger(t))

	slideID := uuid.New()
	otherSlide := uuid.New()

	e1 := &domain.SlideElement{ID: uuid.New(), SlideID: slideID, Kind: domain.ElementKindImage, SourceURL: "https://cdn.example.com/a.png", LayerOrder: 0}
	e2 := &domain.SlideElement{ID: uuid.New(), SlideID: slideID, Kind: domain.ElementKindImage, SourceURL: "https://cdn.example.com/b.png", LayerOrder: 5}
	e3 := &domain.SlideElement{ID: uuid.New(), SlideID: otherSlide, Kind: domain.ElementKindText, Content: []byte(`{"text":"hi","fontSize":4}`), LayerOrder: 2}
	if _, err := repo.Create(ctx, tx, []*domain.SlideElement{e1, e2, e3}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got, err := repo.GetByID(ctx, tx, e1.ID); err != nil || got == nil || got.ID != e1.ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := repo.GetByID(ctx, tx, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID missing: got=%v err=%v", got, err)
	}

	rows, err := repo.ListBySlide(ctx, tx, slideID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListBySlide: err=%v len=%d", err, len(rows))
	}
	if rows[0].LayerOrder > rows[1].LayerOrder {
		t.Fatalf("ListBySlide not ordered by layer: %d, %d", rows[0].LayerOrder, rows[1].LayerOrder)
	}

	max, err := repo.MaxLayerOrder(ctx, tx, slideID)
	if err != nil || max != 5 {
		t.Fatalf("MaxLayerOrder: err=%v max=%d, want 5", err, max)
	}
	if max, err = repo.MaxLayerOrder(ctx, tx, uuid.New()); err != nil || max != -1 {
		t.Fatalf("MaxLayerOrder empty slide: err=%v max=%d, want -1", err, max)
	}

	e1.PositionX = 12.5
	if err := repo.Update(ctx, tx, e1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, tx, e1.ID)
	if err != nil || got.PositionX != 12.5 {
		t.Fatalf("after Update: err=%v positionX=%v", err, got.PositionX)
	}

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{e2.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	rows, err = repo.ListBySlide(ctx, tx, slideID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("after delete ListBySlide: err=%v len=%d", err, len(rows))
	}
}

func TestActivityRepoPreloadsOrderedElements(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	activityRepo := NewActivityRepo(db, testutil.Logger(t))
	slideRepo := NewSlideRepo(db, testutil.Logger(t))
	elementRepo := NewElementRepo(db, testutil.Logger(t))

	activity := &domain.Activity{ID: uuid.New(), CollectionID: uuid.New(), Title: "intro"}
	activity.SetBackgroundColor("#123456")
	if _, err := activityRepo.Create(ctx, tx, []*domain.Activity{activity}); err != nil {
		t.Fatalf("create activity: %v", err)
	}
	slide := &domain.Slide{ID: uuid.New(), ActivityID: activity.ID}
	if _, err := slideRepo.Create(ctx, tx, []*domain.Slide{slide}); err != nil {
		t.Fatalf("create slide: %v", err)
	}
	els := []*domain.SlideElement{
		{ID: uuid.New(), SlideID: slide.ID, Kind: domain.ElementKindImage, SourceURL: "https://cdn.example.com/top.png", LayerOrder: 9},
		{ID: uuid.New(), SlideID: slide.ID, Kind: domain.ElementKindImage, SourceURL: "https://cdn.example.com/bottom.png", LayerOrder: 1},
	}
	if _, err := elementRepo.Create(ctx, tx, els); err != nil {
		t.Fatalf("create elements: %v", err)
	}

	got, err := activityRepo.GetByIDWithSlides(ctx, tx, activity.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByIDWithSlides: got=%v err=%v", got, err)
	}
	if len(got.Slides) != 1 || len(got.Slides[0].Elements) != 2 {
		t.Fatalf("preload: slides=%d elements=%d", len(got.Slides), len(got.Slides[0].Elements))
	}
	if got.Slides[0].Elements[0].LayerOrder != 1 || got.Slides[0].Elements[1].LayerOrder != 9 {
		t.Fatalf("elements not ordered by layer: %d, %d",
			got.Slides[0].Elements[0].LayerOrder, got.Slides[0].Elements[1].LayerOrder)
	}
	if got.BackgroundImage != "" {
		t.Fatalf("background image = %q, want empty alongside color", got.BackgroundImage)
	}
}
