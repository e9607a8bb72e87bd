package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/geometry"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

// TextNode is the resolved form of a TEXT element: the parsed rich-text
// document plus font sizes converted from percent-of-canvas-width to pixels
// for the scene's canvas size. The persisted percent values stay on the
// document untouched.
type TextNode struct {
	Doc      domain.TextContent
	FontSize float64
	// RunSizes holds the resolved pixel size per style run, parallel to
	// Doc.Runs. Runs without an override inherit FontSize.
	RunSizes []float64
}

// Node is one visual object in a scene, with geometry resolved to pixels.
type Node struct {
	ElementID  uuid.UUID
	Kind       domain.ElementKind
	Rect       geometry.Rect
	Rotation   float64
	LayerOrder int
	Selectable bool

	SourceURL string
	Text      *TextNode
}

// Scene is the drawing-surface scene graph for one slide: nodes in paint
// order (ascending layer order), plus canvas size and background. A scene is
// rebuilt from scratch on every slide switch; there is no diffing.
type Scene struct {
	ActivityID uuid.UUID
	SlideID    uuid.UUID
	Canvas     geometry.Size
	EditMode   bool

	BackgroundColor string
	BackgroundImage string

	nodes    []*Node
	selected *Node
}

// BuildScene assembles a scene from a persisted activity and slide. Elements
// are painted in ascending layer order. A malformed text payload skips that
// element only; the rest of the slide still renders.
func BuildScene(log *logger.Logger, activity *domain.Activity, slide *domain.Slide, canvas geometry.Size, editMode bool) (*Scene, error) {
	if activity == nil || slide == nil {
		return nil, fmt.Errorf("activity and slide required")
	}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, fmt.Errorf("canvas must have nonzero dimensions, got %vx%v", canvas.Width, canvas.Height)
	}

	scene := &Scene{
		ActivityID:      activity.ID,
		SlideID:         slide.ID,
		Canvas:          canvas,
		EditMode:        editMode,
		BackgroundColor: activity.BackgroundColor,
		BackgroundImage: activity.BackgroundImage,
	}

	elements := make([]domain.SlideElement, len(slide.Elements))
	copy(elements, slide.Elements)
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].LayerOrder < elements[j].LayerOrder
	})

	for _, el := range elements {
		node := &Node{
			ElementID: el.ID,
			Kind:      el.Kind,
			Rect: geometry.ToAbsoluteRect(geometry.PercentRect{
				X:      el.PositionX,
				Y:      el.PositionY,
				Width:  el.Width,
				Height: el.Height,
			}, canvas),
			Rotation:   el.Rotation,
			LayerOrder: el.LayerOrder,
			Selectable: editMode,
		}

		switch el.Kind {
		case domain.ElementKindImage:
			node.SourceURL = el.SourceURL
		case domain.ElementKindText:
			doc, err := domain.ParseTextContent(el.Content)
			if err != nil {
				log.Warn("skipping unrenderable text element", "elementID", el.ID, "error", err)
				continue
			}
			text := &TextNode{
				Doc:      *doc,
				FontSize: geometry.FontToAbsolute(doc.FontSize, canvas),
				RunSizes: make([]float64, len(doc.Runs)),
			}
			for i, run := range doc.Runs {
				if run.FontSize != nil {
					text.RunSizes[i] = geometry.FontToAbsolute(*run.FontSize, canvas)
				} else {
					text.RunSizes[i] = text.FontSize
				}
			}
			node.Text = text
		default:
			log.Warn("skipping element of unknown kind", "elementID", el.ID, "kind", el.Kind)
			continue
		}

		scene.nodes = append(scene.nodes, node)
	}

	return scene, nil
}

// Nodes returns the nodes in paint order.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Node looks a node up by element id.
func (s *Scene) Node(elementID uuid.UUID) *Node {
	for _, n := range s.nodes {
		if n.ElementID == elementID {
			return n
		}
	}
	return nil
}

// AddNode appends a node on top of the paint order and returns it. New nodes
// start without an element id; the mutation tracker backfills it once the
// create write settles.
func (s *Scene) AddNode(node *Node) *Node {
	node.Selectable = s.EditMode
	node.LayerOrder = s.nextLayerOrder()
	s.nodes = append(s.nodes, node)
	return node
}

// RemoveNode drops a node from the scene. Removing the selected node clears
// the selection.
func (s *Scene) RemoveNode(node *Node) bool {
	for i, n := range s.nodes {
		if n == node {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			if s.selected == node {
				s.selected = nil
			}
			return true
		}
	}
	return false
}

// PaintIndex is the node's current position in the paint-order list. Layer
// order on write is derived from this, not tracked separately.
func (s *Scene) PaintIndex(node *Node) int {
	for i, n := range s.nodes {
		if n == node {
			return i
		}
	}
	return -1
}

// Select marks a node as the current selection. Only selectable nodes (edit
// mode) can be selected.
func (s *Scene) Select(node *Node) bool {
	if node == nil || !node.Selectable {
		return false
	}
	s.selected = node
	return true
}

// ClearSelection drops the current selection.
func (s *Scene) ClearSelection() {
	s.selected = nil
}

// Selected returns the currently selected node, if any.
func (s *Scene) Selected() *Node {
	return s.selected
}

func (s *Scene) nextLayerOrder() int {
	next := 0
	for _, n := range s.nodes {
		if n.LayerOrder >= next {
			next = n.LayerOrder + 1
		}
	}
	return next
}
