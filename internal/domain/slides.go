package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ElementKind string

const (
	ElementKindText  ElementKind = "TEXT"
	ElementKindImage ElementKind = "IMAGE"
)

// Collection groups activities under a single authored deck.
type Collection struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Title       string `gorm:"type:text;not null;default:''" json:"title"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	IsPublished bool   `gorm:"not null;default:false" json:"is_published"`

	Activities []Activity `gorm:"constraint:OnDelete:CASCADE" json:"activities,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Collection) TableName() string { return "collection" }

// Activity is one titled unit in a collection. Its background is either a
// solid color or an image, never both; use SetBackgroundColor and
// SetBackgroundImage so the other side is always cleared.
type Activity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CollectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"collection_id"`

	Title       string `gorm:"type:text;not null;default:''" json:"title"`
	OrderIndex  int    `gorm:"not null;default:0;index" json:"order_index"`
	IsPublished bool   `gorm:"not null;default:false" json:"is_published"`

	BackgroundColor    string `gorm:"type:text;not null;default:''" json:"background_color"`
	BackgroundImage    string `gorm:"type:text;not null;default:''" json:"background_image"`
	BackgroundMusicURL string `gorm:"type:text;not null;default:''" json:"background_music_url"`

	Slides []Slide `gorm:"constraint:OnDelete:CASCADE" json:"slides,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Activity) TableName() string { return "activity" }

// SetBackgroundColor makes the background a solid color and clears any
// background image so a reload never sees both set.
func (a *Activity) SetBackgroundColor(color string) {
	a.BackgroundColor = color
	a.BackgroundImage = ""
}

// SetBackgroundImage makes the background an image and clears the color.
func (a *Activity) SetBackgroundImage(url string) {
	a.BackgroundImage = url
	a.BackgroundColor = ""
}

// Slide is an ordered set of elements plus transition metadata.
type Slide struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ActivityID uuid.UUID `gorm:"type:uuid;not null;index" json:"activity_id"`

	TransitionEffect   string  `gorm:"type:text;not null;default:''" json:"transition_effect"`
	TransitionDuration float64 `gorm:"type:double precision;not null;default:0" json:"transition_duration"`
	AutoAdvanceSeconds float64 `gorm:"type:double precision;not null;default:0" json:"auto_advance_seconds"`

	Elements []SlideElement `gorm:"constraint:OnDelete:CASCADE" json:"elements,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Slide) TableName() string { return "slide" }

// SlideElement is a visual object placed on a slide. All geometry is stored
// as percentages of the canvas dimensions (0-100), never pixels, so the same
// slide renders identically at any canvas size. LayerOrder defines paint
// order ascending and is unique per slide at any instant (gaps allowed).
type SlideElement struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SlideID uuid.UUID `gorm:"type:uuid;not null;index" json:"slide_id"`

	Kind ElementKind `gorm:"type:text;not null" json:"kind"`

	PositionX float64 `gorm:"type:double precision;not null;default:0" json:"position_x"`
	PositionY float64 `gorm:"type:double precision;not null;default:0" json:"position_y"`
	Width     float64 `gorm:"type:double precision;not null;default:0" json:"width"`
	Height    float64 `gorm:"type:double precision;not null;default:0" json:"height"`
	Rotation  float64 `gorm:"type:double precision;not null;default:0" json:"rotation"`

	LayerOrder int `gorm:"not null;default:0" json:"layer_order"`

	// Content holds the serialized rich-text document for TEXT elements.
	Content datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"content"`
	// SourceURL points at the backing image for IMAGE elements. It may
	// reference a deletable storage object.
	SourceURL string `gorm:"type:text;not null;default:''" json:"source_url"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SlideElement) TableName() string { return "slide_element" }

// IDs are assigned in hooks rather than by a database default so the models
// behave the same on Postgres and on the sqlite test databases.

func (c *Collection) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (a *Activity) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (s *Slide) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (e *SlideElement) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
