package elements

import (
	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/geom"
)

// SimplifyTolerance is the distance below which freehand points are dropped
// when a stroke is committed.
const SimplifyTolerance = 0.5

// drawBehavior stores freehand strokes as points relative to (x1, y1).
type drawBehavior struct{}

func (drawBehavior) Type() document.ElementType { return document.ElementTypeDraw }

func (drawBehavior) Initialize(d Defaults) map[string]any {
	return map[string]any{
		"strokeColor": d.StrokeColor,
		"strokeWidth": d.StrokeWidth,
		"opacity":     d.Opacity,
	}
}

func (drawBehavior) OnCreateStart(el *document.Element, p Pointer, pos PositionFunc) {
	el.X1, el.Y1, el.X2, el.Y2 = p.X, p.Y, p.X, p.Y
	el.Points = [][2]float64{{0, 0}}
}

// Freehand strokes follow the raw pointer; snapping would flatten them.
func (drawBehavior) OnCreateMove(el *document.Element, p Pointer, pos PositionFunc) {
	abs := absolutePoints(el)
	abs = append(abs, geom.Point{X: p.X, Y: p.Y})
	setPoints(el, abs)
}

func (drawBehavior) OnCreateEnd(el *document.Element, p Pointer, pos PositionFunc) {
	setPoints(el, geom.SimplifyPath(absolutePoints(el), SimplifyTolerance))
}

func (drawBehavior) Handles(el *document.Element) []Handle {
	return boxHandles(el)
}

func (drawBehavior) OnResizeStart(el, snapshot *document.Element, p Pointer, pos PositionFunc) {}

// OnResize scales the snapshot's points into the new box.
func (drawBehavior) OnResize(el, snapshot *document.Element, p Pointer, pos PositionFunc) {
	before := snapshot.Bounds()
	after := el.Bounds()
	sx, sy := 1.0, 1.0
	if before.Width > 0 {
		sx = after.Width / before.Width
	}
	if before.Height > 0 {
		sy = after.Height / before.Height
	}
	pts := make([][2]float64, len(snapshot.Points))
	for i, pt := range snapshot.Points {
		pts[i] = [2]float64{pt[0] * sx, pt[1] * sy}
	}
	el.Points = pts
}

func (drawBehavior) OnResizeEnd(el, snapshot *document.Element, p Pointer, pos PositionFunc) {}

func (drawBehavior) UpdatedFields(el, snapshot *document.Element) []string {
	return []string{document.FieldPoints}
}

func absolutePoints(el *document.Element) []geom.Point {
	out := make([]geom.Point, len(el.Points))
	for i, pt := range el.Points {
		out[i] = geom.Point{X: el.X1 + pt[0], Y: el.Y1 + pt[1]}
	}
	return out
}

// setPoints rebases absolute points onto their bounding box.
func setPoints(el *document.Element, abs []geom.Point) {
	if len(abs) == 0 {
		el.Points = nil
		return
	}
	b := geom.PathBounds(abs)
	el.X1, el.Y1, el.X2, el.Y2 = b.X, b.Y, b.MaxX(), b.MaxY()
	pts := make([][2]float64, len(abs))
	for i, pt := range abs {
		pts[i] = [2]float64{pt.X - b.X, pt.Y - b.Y}
	}
	el.Points = pts
}
