package document

import (
	"github.com/inamate/drawboard/internal/geom"
)

type ElementType string

const (
	ElementTypeShape       ElementType = "shape"
	ElementTypeArrow       ElementType = "arrow"
	ElementTypeDraw        ElementType = "draw"
	ElementTypeText        ElementType = "text"
	ElementTypeImage       ElementType = "image"
	ElementTypeNote        ElementType = "note"
	ElementTypeBookmark    ElementType = "bookmark"
	ElementTypeSticker     ElementType = "sticker"
	ElementTypeLibraryItem ElementType = "library-item"
)

// ElementTypes lists every known variant in a stable order.
var ElementTypes = []ElementType{
	ElementTypeShape,
	ElementTypeArrow,
	ElementTypeDraw,
	ElementTypeText,
	ElementTypeImage,
	ElementTypeNote,
	ElementTypeBookmark,
	ElementTypeSticker,
	ElementTypeLibraryItem,
}

// Element is a single board item. The common fields drive the engine; the
// style and content fields are owned by the element registry and only move
// through the engine as opaque values keyed by their JSON name.
type Element struct {
	ID      string      `json:"id"`
	Type    ElementType `json:"type"`
	Order   int         `json:"order"`
	X1      float64     `json:"x1"`
	Y1      float64     `json:"y1"`
	X2      float64     `json:"x2"`
	Y2      float64     `json:"y2"`
	Version int         `json:"version"`
	Locked  bool        `json:"locked"`
	Group   string      `json:"group,omitempty"`

	// Transient flags.
	Selected bool `json:"-"`
	Editing  bool `json:"-"`
	Creating bool `json:"-"`
	Erased   bool `json:"-"`

	Shape          string       `json:"shape,omitempty"`
	FillColor      string       `json:"fillColor,omitempty"`
	FillOpacity    float64      `json:"fillOpacity,omitempty"`
	StrokeColor    string       `json:"strokeColor,omitempty"`
	StrokeWidth    float64      `json:"strokeWidth,omitempty"`
	StrokeStyle    string       `json:"strokeStyle,omitempty"`
	Opacity        float64      `json:"opacity,omitempty"`
	Text           string       `json:"text,omitempty"`
	TextColor      string       `json:"textColor,omitempty"`
	TextFont       string       `json:"textFont,omitempty"`
	TextSize       float64      `json:"textSize,omitempty"`
	TextAlign      string       `json:"textAlign,omitempty"`
	StartArrowhead string       `json:"startArrowhead,omitempty"`
	EndArrowhead   string       `json:"endArrowhead,omitempty"`
	Points         [][2]float64 `json:"points,omitempty"`
	NoteColor      string       `json:"noteColor,omitempty"`
	AssetID        string       `json:"assetId,omitempty"`
	Link           string       `json:"link,omitempty"`
	Title          string       `json:"title,omitempty"`
	Sticker        string       `json:"sticker,omitempty"`
	LibraryItemID  string       `json:"libraryItemId,omitempty"`
}

// Bounds returns the normalized bounding rect. Arrows may store their
// corners in any orientation, so every caller that needs an area goes
// through here rather than reading x1..y2 directly.
func (e *Element) Bounds() geom.Rect {
	return geom.FromCorners(e.X1, e.Y1, e.X2, e.Y2)
}

// Width returns the absolute width.
func (e *Element) Width() float64 { return e.Bounds().Width }

// Height returns the absolute height.
func (e *Element) Height() float64 { return e.Bounds().Height }

// Clone returns a deep copy of the element, transient flags included.
func (e *Element) Clone() *Element {
	c := *e
	if e.Points != nil {
		c.Points = make([][2]float64, len(e.Points))
		copy(c.Points, e.Points)
	}
	return &c
}

// CloneElements deep copies a slice of elements.
func CloneElements(elements []*Element) []*Element {
	out := make([]*Element, len(elements))
	for i, el := range elements {
		out[i] = el.Clone()
	}
	return out
}
