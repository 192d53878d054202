// Package snap resolves grid and element-edge snapping for translate, resize
// and create gestures.
package snap

import (
	"math"

	"github.com/inamate/drawboard/internal/geom"
)

// Options selects the snapping mode of a gesture. Grid snapping wins: when
// Grid is set, element edges are never evaluated.
type Options struct {
	Grid     bool
	GridSize float64
	Elements bool
}

// Threshold is the maximum distance at which an element edge captures a
// moving edge: half a grid unit.
func (o Options) Threshold() float64 {
	return o.GridSize / 2
}

// Candidate is a stationary rect contributing alignment edges.
type Candidate struct {
	Rect geom.Rect
	// Center adds the center lines of Rect.
	Center bool
}

// Guide is a matched edge, reported back to the renderer as a guide line.
type Guide struct {
	Axis     geom.Axis     `json:"axis"`
	Kind     geom.EdgeKind `json:"kind"`
	Position float64       `json:"position"`
	Start    float64       `json:"start"`
	End      float64       `json:"end"`
}

// Engine holds the candidate edges of one gesture. Build it at gesture start
// from the elements that do not move.
type Engine struct {
	opts   Options
	edges  [2][]geom.Edge
	guides [2]*Guide
}

func New(opts Options, candidates []Candidate) *Engine {
	e := &Engine{opts: opts}
	if opts.Grid || !opts.Elements {
		return e
	}
	for _, c := range candidates {
		for _, edge := range geom.EdgesOf(c.Rect, c.Center) {
			e.edges[edge.Axis] = append(e.edges[edge.Axis], edge)
		}
	}
	return e
}

// Options returns the mode the engine was built with.
func (e *Engine) Options() Options { return e.opts }

// Snap corrects the origin of a moving rect of the given size. When center is
// false the moving rect's center line is not tested.
func (e *Engine) Snap(x, y, width, height float64, center bool) (float64, float64) {
	e.guides = [2]*Guide{}
	switch {
	case e.opts.Grid:
		return geom.RoundTo(x, e.opts.GridSize), geom.RoundTo(y, e.opts.GridSize)
	case e.opts.Elements:
		return e.snapAxis(geom.AxisX, x, width, center), e.snapAxis(geom.AxisY, y, height, center)
	default:
		return x, y
	}
}

// Point corrects a single point, as used by create and resize gestures.
func (e *Engine) Point(x, y float64) (float64, float64) {
	return e.Snap(x, y, 0, 0, false)
}

// Guides returns the edges matched by the most recent Snap or Point call.
func (e *Engine) Guides() []Guide {
	var out []Guide
	for _, g := range e.guides {
		if g != nil {
			out = append(out, *g)
		}
	}
	return out
}

// snapAxis tests the moving edges at offset 0, size/2 and size against every
// candidate edge and applies the first one within the threshold.
func (e *Engine) snapAxis(axis geom.Axis, pos, size float64, center bool) float64 {
	threshold := e.opts.Threshold()
	offsets := []float64{0}
	if center && size != 0 {
		offsets = append(offsets, size/2)
	}
	if size != 0 {
		offsets = append(offsets, size)
	}
	for _, off := range offsets {
		for _, edge := range e.edges[axis] {
			if math.Abs(pos+off-edge.Position) < threshold {
				e.guides[axis] = &Guide{
					Axis:     axis,
					Kind:     edge.Kind,
					Position: edge.Position,
					Start:    edge.Start,
					End:      edge.End,
				}
				return edge.Position - off
			}
		}
	}
	return pos
}
