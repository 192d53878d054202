// Package editor turns pointer and keyboard input into scene mutations.
//
// The editor runs one gesture at a time: pointer-down begins a Gesture in
// one of the non-idle states, pointer-move updates the live elements in
// place, and pointer-up commits the gesture as at most one history entry.
// Every exit path, including cancellation, releases the gesture and returns
// the editor to StateIdle.
package editor

import (
	"fmt"
	"log/slog"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/elements"
	"github.com/inamate/drawboard/internal/geom"
	"github.com/inamate/drawboard/internal/scene"
	"github.com/inamate/drawboard/internal/snap"
)

const (
	DefaultGridSize = 20

	MinZoom  = 0.1
	MaxZoom  = 4
	ZoomStep = 0.1
)

// Options configures an Editor. Zero values fall back to defaults.
type Options struct {
	GridSize  float64
	Defaults  elements.Defaults
	Registry  *elements.Registry
	Clipboard Clipboard
	Logger    *slog.Logger
}

type Editor struct {
	scene     *scene.Scene
	registry  *elements.Registry
	defaults  elements.Defaults
	gridSize  float64
	clipboard Clipboard
	logger    *slog.Logger

	state   State
	tool    Tool
	ctx     InteractionContext
	gesture *Gesture
	editing *textEdit

	pasteCount int
	canvas     geom.Rect
	guides     []snap.Guide
}

// New creates an editor driving s.
func New(s *scene.Scene, opts Options) *Editor {
	if opts.GridSize <= 0 {
		opts.GridSize = DefaultGridSize
	}
	if opts.Registry == nil {
		opts.Registry = elements.NewRegistry()
	}
	if opts.Defaults == (elements.Defaults{}) {
		opts.Defaults = elements.DefaultToolOptions()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = &MemoryClipboard{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Editor{
		scene:     s,
		registry:  opts.Registry,
		defaults:  opts.Defaults,
		gridSize:  opts.GridSize,
		clipboard: opts.Clipboard,
		logger:    opts.Logger,
		tool:      ToolSelect,
	}
}

// --- Queries ---

func (e *Editor) Scene() *scene.Scene          { return e.scene }
func (e *Editor) Registry() *elements.Registry { return e.registry }
func (e *Editor) State() State                 { return e.state }
func (e *Editor) Tool() Tool                   { return e.tool }
func (e *Editor) GridSize() float64            { return e.gridSize }
func (e *Editor) Defaults() elements.Defaults  { return e.defaults }
func (e *Editor) Context() InteractionContext  { return e.ctx }

func (e *Editor) SetDefaults(d elements.Defaults) { e.defaults = d }

// Editing returns the id of the element whose text is being edited.
func (e *Editor) Editing() string {
	if e.editing == nil {
		return ""
	}
	return e.editing.id
}

// Guides returns the snap guides of the current gesture.
func (e *Editor) Guides() []snap.Guide { return e.guides }

// Brush returns the marquee rectangle while brushing.
func (e *Editor) Brush() (geom.Rect, bool) {
	if e.state != StateBrushing {
		return geom.Rect{}, false
	}
	return e.ctx.Brush, true
}

// SelectionBounds returns the bounds of the selection, for the dimensions
// overlay.
func (e *Editor) SelectionBounds() (geom.Rect, bool) {
	return e.scene.SelectionBounds()
}

// Handles returns the resize handles of a single selected element.
func (e *Editor) Handles() []elements.Handle {
	sel := e.scene.Selection()
	if len(sel) != 1 || sel[0].Locked {
		return nil
	}
	return e.registry.Handles(sel[0])
}

// --- Tools ---

// SetTool switches the active tool. A gesture in progress is cancelled and
// text editing ends.
func (e *Editor) SetTool(t Tool) error {
	switch t {
	case ToolSelect, ToolPan, ToolEraser:
	default:
		if !e.registry.Creatable(document.ElementType(t)) {
			return fmt.Errorf("set tool: %w: unknown tool %q", document.ErrUserInput, t)
		}
	}
	e.cancelGesture()
	if err := e.EndEditing(); err != nil {
		return err
	}
	e.tool = t
	if t != ToolSelect {
		e.scene.ClearSelection()
	}
	e.scene.Update()
	return nil
}

func (e *Editor) creationType() (document.ElementType, bool) {
	t := document.ElementType(e.tool)
	return t, e.registry.Creatable(t)
}

// --- Coordinates ---

func (e *Editor) viewport() geom.Matrix2D {
	p := e.scene.Page()
	return geom.Viewport(p.TranslateX, p.TranslateY, p.Zoom)
}

// ToWorld converts a screen point to board coordinates.
func (e *Editor) ToWorld(x, y float64) geom.Point {
	wx, wy := e.viewport().Invert().TransformPoint(x, y)
	return geom.Point{X: wx, Y: wy}
}

// ToScreen converts a board point to screen coordinates.
func (e *Editor) ToScreen(x, y float64) geom.Point {
	sx, sy := e.viewport().TransformPoint(x, y)
	return geom.Point{X: sx, Y: sy}
}

func (e *Editor) pointer(ev PointerEvent) elements.Pointer {
	w := e.ToWorld(ev.X, ev.Y)
	return elements.Pointer{X: w.X, Y: w.Y, Shift: ev.Shift, Alt: ev.Alt, Handle: e.ctx.Handle}
}

// --- Snapping ---

// snapper builds the snap engine of a gesture from every element that does
// not move.
func (e *Editor) snapper(moving map[string]*document.Element) *snap.Engine {
	state := e.scene.Document().AppState
	opts := snap.Options{Grid: state.Grid, GridSize: e.gridSize, Elements: state.SnapToElements}
	var candidates []snap.Candidate
	for _, el := range e.scene.Page().Elements {
		if _, ok := moving[el.ID]; ok {
			continue
		}
		candidates = append(candidates, snap.Candidate{Rect: el.Bounds(), Center: e.registry.SnapsToCenter(el)})
	}
	return snap.New(opts, candidates)
}

func (e *Editor) position() elements.PositionFunc {
	return func(x, y float64) (float64, float64) {
		if e.ctx.Snapper == nil {
			return x, y
		}
		sx, sy := e.ctx.Snapper.Point(x, y)
		e.guides = e.ctx.Snapper.Guides()
		return sx, sy
	}
}

// --- Notifications ---

// changed signals a durable change followed by a redraw.
func (e *Editor) changed() {
	e.scene.DispatchChange()
	e.scene.Update()
}

// OnResize records the canvas size, used to center pasted and inserted
// elements.
func (e *Editor) OnResize(width, height float64) {
	e.canvas = geom.Rect{Width: max(0, width), Height: max(0, height)}
	e.scene.Update()
}

// viewCenter returns the board point at the center of the canvas.
func (e *Editor) viewCenter() geom.Point {
	cx, cy := e.canvas.Center()
	return e.ToWorld(cx, cy)
}
