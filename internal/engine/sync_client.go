package engine

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
)

// ElementPayload is the wire form of a slide element. All position and size
// fields are 0-100 percentages of the canvas dimensions.
type ElementPayload struct {
	SlideElementType domain.ElementKind `json:"slideElementType"`
	PositionX        float64            `json:"positionX"`
	PositionY        float64            `json:"positionY"`
	Width            float64            `json:"width"`
	Height           float64            `json:"height"`
	Rotation         float64            `json:"rotation"`
	LayerOrder       int                `json:"layerOrder"`
	Content          json.RawMessage    `json:"content,omitempty"`
	SourceURL        string             `json:"sourceUrl,omitempty"`
}

// BackgroundPayload updates an activity background. The two fields are
// mutually exclusive; the unset one is always sent as an empty string so the
// server clears it.
type BackgroundPayload struct {
	BackgroundColor string `json:"backgroundColor"`
	BackgroundImage string `json:"backgroundImage"`
}

// SyncClient is the editor's window onto the persistence backend. The HTTP
// implementation lives in internal/clients/preziq; internal/services provides
// an in-process implementation backed directly by the database.
type SyncClient interface {
	AddElement(ctx context.Context, slideID uuid.UUID, payload ElementPayload) (*domain.SlideElement, error)
	UpdateElement(ctx context.Context, slideID, elementID uuid.UUID, payload ElementPayload) (*domain.SlideElement, error)
	DeleteElement(ctx context.Context, slideID, elementID uuid.UUID) error
	DeleteStorageObject(ctx context.Context, path string) error
	UpdateActivityBackground(ctx context.Context, activityID uuid.UUID, payload BackgroundPayload) error
}
