package editor

import (
	"math"

	"github.com/inamate/drawboard/internal/geom"
)

// Zoom returns the zoom of the active page.
func (e *Editor) Zoom() float64 { return e.scene.Page().Zoom }

// SetZoom sets the zoom of the active page, clamped to [MinZoom, MaxZoom],
// keeping the board point under the screen point anchor in place. Zoom is
// not recorded in history.
func (e *Editor) SetZoom(z float64, anchor geom.Point) {
	z = min(MaxZoom, max(MinZoom, z))
	world := e.ToWorld(anchor.X, anchor.Y)
	p := e.scene.Page()
	p.Zoom = z
	p.TranslateX = anchor.X - world.X*z
	p.TranslateY = anchor.Y - world.Y*z
	e.scene.Update()
}

func (e *Editor) ZoomIn()    { e.zoomBy(1) }
func (e *Editor) ZoomOut()   { e.zoomBy(-1) }
func (e *Editor) ResetZoom() { e.SetZoom(1, e.canvasCenter()) }

func (e *Editor) zoomBy(steps float64) {
	z := math.Round((e.Zoom()+steps*ZoomStep)*10) / 10
	e.SetZoom(z, e.canvasCenter())
}

func (e *Editor) canvasCenter() geom.Point {
	x, y := e.canvas.Center()
	return geom.Point{X: x, Y: y}
}

// ScrollBy pans the viewport by a screen delta, as a wheel does.
func (e *Editor) ScrollBy(dx, dy float64) {
	p := e.scene.Page()
	p.TranslateX = math.Floor(p.TranslateX - dx)
	p.TranslateY = math.Floor(p.TranslateY - dy)
	e.scene.Update()
}
