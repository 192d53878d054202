// Package elements holds the per-variant behavior of board elements. The
// editor never switches on an element's type; it asks the registry, and any
// capability a variant does not implement is a no-op.
package elements

import (
	"fmt"

	"github.com/inamate/drawboard/internal/document"
)

// Pointer is a pointer event in world coordinates. Handle is set during
// resize gestures.
type Pointer struct {
	X      float64
	Y      float64
	Shift  bool
	Alt    bool
	Handle HandleType
}

// PositionFunc maps a raw world point to a snapped one (grid or element edges).
type PositionFunc func(x, y float64) (float64, float64)

// Defaults are the tool options a new element is initialized from.
type Defaults struct {
	Shape       string
	FillColor   string
	StrokeColor string
	StrokeWidth float64
	StrokeStyle string
	Opacity     float64
	TextColor   string
	TextFont    string
	TextSize    float64
	NoteColor   string
	Sticker     string
	Arrowhead   string
}

// DefaultToolOptions returns the defaults of a fresh editor.
func DefaultToolOptions() Defaults {
	return Defaults{
		Shape:       ShapeRectangle,
		FillColor:   "transparent",
		StrokeColor: "#0d0f0e",
		StrokeWidth: 4,
		StrokeStyle: "solid",
		Opacity:     1,
		TextColor:   "#0d0f0e",
		TextFont:    "draw",
		TextSize:    16,
		NoteColor:   "#fde68a",
		Sticker:     "star",
		Arrowhead:   "arrow",
	}
}

// Behavior is implemented by every registered variant. The remaining
// capabilities are optional interfaces checked at dispatch time.
type Behavior interface {
	Type() document.ElementType
}

type Initializer interface {
	Initialize(d Defaults) map[string]any
}

// Creator marks a variant that can be drawn with a creation tool.
type Creator interface {
	OnCreateStart(el *document.Element, p Pointer, pos PositionFunc)
	OnCreateMove(el *document.Element, p Pointer, pos PositionFunc)
	OnCreateEnd(el *document.Element, p Pointer, pos PositionFunc)
}

type Dragger interface {
	OnDrag(el, snapshot *document.Element, p Pointer)
}

type Resizer interface {
	OnResizeStart(el, snapshot *document.Element, p Pointer, pos PositionFunc)
	OnResize(el, snapshot *document.Element, p Pointer, pos PositionFunc)
	OnResizeEnd(el, snapshot *document.Element, p Pointer, pos PositionFunc)
}

type BoundsProvider interface {
	Bounds(el *document.Element) []Overlay
}

type HandleProvider interface {
	Handles(el *document.Element) []Handle
}

type UpdatedFieldsProvider interface {
	UpdatedFields(el, snapshot *document.Element) []string
}

// TextEditor marks a variant whose text can be edited in place.
type TextEditor interface {
	OnTextChange(el *document.Element)
	// DropWhenEmpty reports whether an element left without text is removed
	// when editing ends.
	DropWhenEmpty() bool
}

// CenterSnapper lets a variant opt out of center-line snapping.
type CenterSnapper interface {
	SnapsToCenter() bool
}

// Overlay is a selection outline primitive drawn by the renderer.
type Overlay struct {
	Kind string  `json:"kind"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

const (
	OverlayRect = "rect"
	OverlayLine = "line"
)

// Registry maps element types to their behavior.
type Registry struct {
	behaviors map[document.ElementType]Behavior
}

// NewRegistry returns a registry with every built-in variant registered.
func NewRegistry() *Registry {
	r := &Registry{behaviors: map[document.ElementType]Behavior{}}
	r.Register(shapeBehavior{})
	r.Register(arrowBehavior{})
	r.Register(drawBehavior{})
	r.Register(textBehavior{})
	r.Register(imageBehavior{})
	r.Register(noteBehavior{})
	r.Register(bookmarkBehavior{})
	r.Register(stickerBehavior{})
	r.Register(libraryItemBehavior{})
	return r
}

// Register adds or replaces the behavior for b.Type().
func (r *Registry) Register(b Behavior) {
	r.behaviors[b.Type()] = b
}

func (r *Registry) Get(t document.ElementType) (Behavior, bool) {
	b, ok := r.behaviors[t]
	return b, ok
}

// Creatable reports whether t can be drawn with a creation tool.
func (r *Registry) Creatable(t document.ElementType) bool {
	_, ok := r.behaviors[t].(Creator)
	return ok
}

// New builds an element of type t at (x, y) with both corners on the point.
func (r *Registry) New(t document.ElementType, id string, x, y float64, d Defaults) (*document.Element, error) {
	b, ok := r.behaviors[t]
	if !ok {
		return nil, fmt.Errorf("new element: unknown type %q", t)
	}
	el := &document.Element{ID: id, Type: t, X1: x, Y1: y, X2: x, Y2: y}
	if init, ok := b.(Initializer); ok {
		if err := el.Apply(init.Initialize(d)); err != nil {
			return nil, fmt.Errorf("initialize %s: %w", t, err)
		}
	}
	return el, nil
}

func (r *Registry) CreateStart(el *document.Element, p Pointer, pos PositionFunc) {
	if c, ok := r.behaviors[el.Type].(Creator); ok {
		c.OnCreateStart(el, p, pos)
	}
}

func (r *Registry) CreateMove(el *document.Element, p Pointer, pos PositionFunc) {
	if c, ok := r.behaviors[el.Type].(Creator); ok {
		c.OnCreateMove(el, p, pos)
	}
}

func (r *Registry) CreateEnd(el *document.Element, p Pointer, pos PositionFunc) {
	if c, ok := r.behaviors[el.Type].(Creator); ok {
		c.OnCreateEnd(el, p, pos)
	}
}

func (r *Registry) Drag(el, snapshot *document.Element, p Pointer) {
	if d, ok := r.behaviors[el.Type].(Dragger); ok {
		d.OnDrag(el, snapshot, p)
	}
}

func (r *Registry) ResizeStart(el, snapshot *document.Element, p Pointer, pos PositionFunc) {
	if rs, ok := r.behaviors[el.Type].(Resizer); ok {
		rs.OnResizeStart(el, snapshot, p, pos)
	}
}

func (r *Registry) Resize(el, snapshot *document.Element, p Pointer, pos PositionFunc) {
	if rs, ok := r.behaviors[el.Type].(Resizer); ok {
		rs.OnResize(el, snapshot, p, pos)
	}
}

func (r *Registry) ResizeEnd(el, snapshot *document.Element, p Pointer, pos PositionFunc) {
	if rs, ok := r.behaviors[el.Type].(Resizer); ok {
		rs.OnResizeEnd(el, snapshot, p, pos)
	}
}

// Bounds returns the selection overlay of el. Variants without their own
// overlay get their normalized bounding rect.
func (r *Registry) Bounds(el *document.Element) []Overlay {
	if b, ok := r.behaviors[el.Type].(BoundsProvider); ok {
		return b.Bounds(el)
	}
	b := el.Bounds()
	return []Overlay{{Kind: OverlayRect, X1: b.X, Y1: b.Y, X2: b.MaxX(), Y2: b.MaxY()}}
}

func (r *Registry) Handles(el *document.Element) []Handle {
	if h, ok := r.behaviors[el.Type].(HandleProvider); ok {
		return h.Handles(el)
	}
	return nil
}

// UpdatedFields returns the fields a gesture touched besides the geometry.
func (r *Registry) UpdatedFields(el, snapshot *document.Element) []string {
	if u, ok := r.behaviors[el.Type].(UpdatedFieldsProvider); ok {
		return u.UpdatedFields(el, snapshot)
	}
	return nil
}

// EditsText reports whether elements of type t can be text-edited.
func (r *Registry) EditsText(t document.ElementType) bool {
	_, ok := r.behaviors[t].(TextEditor)
	return ok
}

// TextChanged lets the variant react to new text, typically by resizing.
func (r *Registry) TextChanged(el *document.Element) {
	if te, ok := r.behaviors[el.Type].(TextEditor); ok {
		te.OnTextChange(el)
	}
}

// DropWhenEmpty reports whether el should be removed when its text is empty.
func (r *Registry) DropWhenEmpty(el *document.Element) bool {
	te, ok := r.behaviors[el.Type].(TextEditor)
	return ok && te.DropWhenEmpty() && el.Text == ""
}

// SnapsToCenter reports whether the center lines of el take part in snapping.
func (r *Registry) SnapsToCenter(el *document.Element) bool {
	if cs, ok := r.behaviors[el.Type].(CenterSnapper); ok {
		return cs.SnapsToCenter()
	}
	return true
}
