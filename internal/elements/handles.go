package elements

import (
	"github.com/inamate/drawboard/internal/document"
)

// HandleType names a resize handle. Box handles clamp against the opposite
// corner of the snapshot; node handles move one arrow endpoint freely.
type HandleType string

const (
	HandleNW HandleType = "nw"
	HandleN  HandleType = "n"
	HandleNE HandleType = "ne"
	HandleE  HandleType = "e"
	HandleSE HandleType = "se"
	HandleS  HandleType = "s"
	HandleSW HandleType = "sw"
	HandleW  HandleType = "w"

	HandleNodeStart HandleType = "node-start"
	HandleNodeEnd   HandleType = "node-end"
)

// Handle is a resize handle position in world coordinates.
type Handle struct {
	Type HandleType `json:"type"`
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
}

// ParseHandle validates a handle name coming from the renderer.
func ParseHandle(s string) (HandleType, bool) {
	switch h := HandleType(s); h {
	case HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNodeStart, HandleNodeEnd:
		return h, true
	}
	return "", false
}

func boxHandles(el *document.Element) []Handle {
	b := el.Bounds()
	cx, cy := b.Center()
	return []Handle{
		{HandleNW, b.X, b.Y},
		{HandleN, cx, b.Y},
		{HandleNE, b.MaxX(), b.Y},
		{HandleE, b.MaxX(), cy},
		{HandleSE, b.MaxX(), b.MaxY()},
		{HandleS, cx, b.MaxY()},
		{HandleSW, b.X, b.MaxY()},
		{HandleW, b.X, cy},
	}
}

func cornerHandles(el *document.Element) []Handle {
	b := el.Bounds()
	return []Handle{
		{HandleNW, b.X, b.Y},
		{HandleNE, b.MaxX(), b.Y},
		{HandleSE, b.MaxX(), b.MaxY()},
		{HandleSW, b.X, b.MaxY()},
	}
}

// ApplyHandle moves the corner or edge of el under handle to (x, y). Box
// handles never let the moving side cross the opposite side of snapshot.
// Node handles are not clamped: arrows may point in any direction.
func ApplyHandle(el, snapshot *document.Element, handle HandleType, x, y float64) {
	s := snapshot.Bounds()
	switch handle {
	case HandleNodeStart:
		el.X1, el.Y1 = x, y
		return
	case HandleNodeEnd:
		el.X2, el.Y2 = x, y
		return
	}

	el.X1, el.Y1, el.X2, el.Y2 = s.X, s.Y, s.MaxX(), s.MaxY()
	switch handle {
	case HandleNW, HandleW, HandleSW:
		el.X1 = min(x, s.MaxX())
	case HandleNE, HandleE, HandleSE:
		el.X2 = max(x, s.X)
	}
	switch handle {
	case HandleNW, HandleN, HandleNE:
		el.Y1 = min(y, s.MaxY())
	case HandleSW, HandleS, HandleSE:
		el.Y2 = max(y, s.Y)
	}
}

// KeepAspect adjusts a box resized through handle so that it keeps the
// width/height ratio of snapshot. The side opposite the handle stays put.
func KeepAspect(el, snapshot *document.Element, handle HandleType) {
	s := snapshot.Bounds()
	if s.Width == 0 || s.Height == 0 {
		return
	}
	ratio := s.Width / s.Height
	w, h := el.X2-el.X1, el.Y2-el.Y1

	switch handle {
	case HandleN, HandleS:
		w = h * ratio
	case HandleE, HandleW:
		h = w / ratio
	default:
		if w/ratio > h {
			h = w / ratio
		} else {
			w = h * ratio
		}
	}

	switch handle {
	case HandleNW, HandleW, HandleSW:
		el.X1 = el.X2 - w
	default:
		el.X2 = el.X1 + w
	}
	switch handle {
	case HandleNW, HandleN, HandleNE:
		el.Y1 = el.Y2 - h
	default:
		el.Y2 = el.Y1 + h
	}
}
