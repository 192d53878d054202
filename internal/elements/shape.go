package elements

import (
	"math"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/geom"
)

const (
	ShapeRectangle = "rectangle"
	ShapeEllipse   = "ellipse"
	ShapeDiamond   = "diamond"
	ShapeTriangle  = "triangle"
)

// DefaultSize is the side of a box element created with a plain click.
const DefaultSize = 100

// boxCreator draws a box from the pointer-down corner to the pointer.
type boxCreator struct{}

func (boxCreator) OnCreateStart(el *document.Element, p Pointer, pos PositionFunc) {}

func (boxCreator) OnCreateMove(el *document.Element, p Pointer, pos PositionFunc) {
	x, y := pos(p.X, p.Y)
	if p.Shift {
		dx, dy := x-el.X1, y-el.Y1
		size := max(math.Abs(dx), math.Abs(dy))
		x = el.X1 + math.Copysign(size, dx)
		y = el.Y1 + math.Copysign(size, dy)
	}
	el.X2, el.Y2 = x, y
}

func (boxCreator) OnCreateEnd(el *document.Element, p Pointer, pos PositionFunc) {
	b := geom.FromCorners(el.X1, el.Y1, el.X2, el.Y2)
	if b.Width == 0 && b.Height == 0 {
		b.Width, b.Height = DefaultSize, DefaultSize
	}
	el.X1, el.Y1, el.X2, el.Y2 = b.X, b.Y, b.MaxX(), b.MaxY()
}

type shapeBehavior struct {
	boxCreator
}

func (shapeBehavior) Type() document.ElementType { return document.ElementTypeShape }

func (shapeBehavior) Initialize(d Defaults) map[string]any {
	return map[string]any{
		"shape":       d.Shape,
		"fillColor":   d.FillColor,
		"fillOpacity": 1.0,
		"strokeColor": d.StrokeColor,
		"strokeWidth": d.StrokeWidth,
		"strokeStyle": d.StrokeStyle,
		"opacity":     d.Opacity,
		"text":        "",
		"textColor":   d.TextColor,
		"textFont":    d.TextFont,
		"textSize":    d.TextSize,
		"textAlign":   "center",
	}
}

func (shapeBehavior) Handles(el *document.Element) []Handle {
	return boxHandles(el)
}

// Shape labels keep the box as drawn.
func (shapeBehavior) OnTextChange(el *document.Element) {}

func (shapeBehavior) DropWhenEmpty() bool { return false }

type arrowBehavior struct{}

func (arrowBehavior) Type() document.ElementType { return document.ElementTypeArrow }

func (arrowBehavior) Initialize(d Defaults) map[string]any {
	return map[string]any{
		"strokeColor":    d.StrokeColor,
		"strokeWidth":    d.StrokeWidth,
		"strokeStyle":    d.StrokeStyle,
		"opacity":        d.Opacity,
		"startArrowhead": "none",
		"endArrowhead":   d.Arrowhead,
	}
}

func (arrowBehavior) OnCreateStart(el *document.Element, p Pointer, pos PositionFunc) {}

// Arrow corners keep their drawing direction; x1 may end up greater than x2.
func (arrowBehavior) OnCreateMove(el *document.Element, p Pointer, pos PositionFunc) {
	el.X2, el.Y2 = pos(p.X, p.Y)
}

func (arrowBehavior) OnCreateEnd(el *document.Element, p Pointer, pos PositionFunc) {
	if el.X1 == el.X2 && el.Y1 == el.Y2 {
		el.X2 = el.X1 + DefaultSize
	}
}

func (arrowBehavior) Handles(el *document.Element) []Handle {
	return []Handle{
		{HandleNodeStart, el.X1, el.Y1},
		{HandleNodeEnd, el.X2, el.Y2},
	}
}

// An arrow's center is not a meaningful alignment line.
func (arrowBehavior) SnapsToCenter() bool { return false }

func (arrowBehavior) Bounds(el *document.Element) []Overlay {
	return []Overlay{{Kind: OverlayLine, X1: el.X1, Y1: el.Y1, X2: el.X2, Y2: el.Y2}}
}
