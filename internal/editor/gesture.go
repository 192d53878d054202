package editor

import (
	"math"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/elements"
	"github.com/inamate/drawboard/internal/geom"
	"github.com/inamate/drawboard/internal/history"
	"github.com/inamate/drawboard/internal/scene"
	"github.com/inamate/drawboard/internal/typeid"
)

const (
	ButtonPrimary = 0
	ButtonMiddle  = 1
)

// Gesture is the move/up subscription of one pointer gesture. Exactly one
// of End or Cancel takes effect; both release the subscription and return
// the editor to StateIdle. Calls after release are no-ops.
type Gesture struct {
	editor   *Editor
	state    State
	released bool
}

func (e *Editor) beginGesture(state State) *Gesture {
	g := &Gesture{editor: e, state: state}
	e.state = state
	e.gesture = g
	return g
}

func (g *Gesture) State() State { return g.state }

// Active reports whether the gesture still receives events.
func (g *Gesture) Active() bool { return !g.released }

// Move updates the gesture with a pointer-move.
func (g *Gesture) Move(ev PointerEvent) {
	if g.released {
		return
	}
	g.editor.move(ev)
}

// End commits the gesture at the pointer-up position.
func (g *Gesture) End(ev PointerEvent) error {
	if g.released {
		return nil
	}
	defer g.release()
	g.editor.move(ev)
	return g.editor.commit(ev)
}

// Cancel rolls back everything the gesture changed.
func (g *Gesture) Cancel() {
	if g.released {
		return
	}
	defer g.release()
	g.editor.logger.Debug("gesture cancelled", "state", g.state.String())
	g.editor.rollback()
}

func (g *Gesture) release() {
	g.released = true
	e := g.editor
	if e.gesture == g {
		e.gesture = nil
	}
	e.state = StateIdle
	e.ctx.reset()
	e.guides = nil
	e.scene.Update()
}

func (e *Editor) cancelGesture() {
	if e.gesture != nil {
		e.gesture.Cancel()
	}
}

// --- Input surface ---

// OnPointerDown starts a gesture according to the active tool and what is
// under the pointer.
func (e *Editor) OnPointerDown(ev PointerEvent) error {
	e.cancelGesture()
	if err := e.EndEditing(); err != nil {
		return err
	}

	p := e.ToWorld(ev.X, ev.Y)
	e.ctx.Origin = p
	e.ctx.Last = p
	e.ctx.ScreenOrigin = geom.Point{X: ev.X, Y: ev.Y}

	if ev.Button == ButtonMiddle {
		e.beginPan()
		return nil
	}
	if ev.Button != ButtonPrimary {
		return nil
	}

	if t, ok := e.creationType(); ok {
		return e.beginCreate(t, ev)
	}
	switch e.tool {
	case ToolPan:
		e.beginPan()
		return nil
	case ToolEraser:
		return e.beginErase(ev)
	default:
		return e.beginSelect(ev)
	}
}

func (e *Editor) OnPointerMove(ev PointerEvent) {
	if e.gesture != nil {
		e.gesture.Move(ev)
	}
}

func (e *Editor) OnPointerUp(ev PointerEvent) error {
	if e.gesture == nil {
		return nil
	}
	return e.gesture.End(ev)
}

// OnPointerLeave cancels the gesture in progress.
func (e *Editor) OnPointerLeave() {
	e.cancelGesture()
}

// --- Gesture starts ---

func (e *Editor) beginCreate(t document.ElementType, ev PointerEvent) error {
	if e.scene.Page().Readonly {
		return scene.ErrReadonly
	}
	e.ctx.Snapper = e.snapper(nil)
	pos := e.position()
	x, y := pos(e.ctx.Origin.X, e.ctx.Origin.Y)

	el, err := e.registry.New(t, typeid.NewElementID(), x, y, e.defaults)
	if err != nil {
		return err
	}
	el.Creating = true
	e.scene.ClearSelection()
	entry, err := e.scene.AddElements([]*document.Element{el})
	if err != nil {
		return err
	}
	e.ctx.Active = el
	e.ctx.CreateEntry = entry
	e.registry.CreateStart(el, e.pointer(ev), pos)
	e.beginGesture(StateCreating)
	e.scene.Update()
	return nil
}

func (e *Editor) beginPan() {
	p := e.scene.Page()
	e.ctx.PanBaseline = geom.Point{X: p.TranslateX, Y: p.TranslateY}
	e.beginGesture(StateDragging)
}

func (e *Editor) beginErase(ev PointerEvent) error {
	if e.scene.Page().Readonly {
		return scene.ErrReadonly
	}
	e.beginGesture(StateErasing)
	e.eraseAt(e.ctx.Origin)
	e.scene.Update()
	return nil
}

func (e *Editor) beginSelect(ev PointerEvent) error {
	s := e.scene
	page := s.Page()
	sel := s.Selection()

	if handle, ok := elements.ParseHandle(ev.Handle); ok && len(sel) == 1 && !sel[0].Locked && !page.Readonly {
		e.beginResize(sel[0], handle, ev)
		return nil
	}

	switch {
	case ev.ElementID != "":
		el, err := s.Element(ev.ElementID)
		if err != nil {
			return err
		}
		e.ctx.Target = el.ID
		if !el.Selected {
			if !ev.Shift {
				s.ClearSelection()
			}
			for _, m := range e.clickSet(el) {
				m.Selected = true
			}
			e.ctx.SelectedOnDown = true
		}
	case len(sel) > 1 && e.insideSelection(e.ctx.Origin):
	default:
		e.beginBrush(ev)
		return nil
	}

	sel = s.Selection()
	if len(sel) == 0 || page.Readonly || anyLocked(sel) {
		e.beginGesture(StatePointing)
		s.Update()
		return nil
	}
	e.ctx.Snapshots = snapshotOf(sel)
	e.ctx.SnapshotBounds = boundsOf(sel)
	e.ctx.Snapper = e.snapper(e.ctx.Snapshots)
	e.beginGesture(StateTranslating)
	s.Update()
	return nil
}

func (e *Editor) beginResize(el *document.Element, handle elements.HandleType, ev PointerEvent) {
	e.ctx.Handle = handle
	e.ctx.Snapshots = snapshotOf([]*document.Element{el})
	e.ctx.SnapshotBounds = el.Bounds()
	e.ctx.Snapper = e.snapper(e.ctx.Snapshots)
	e.registry.ResizeStart(el, e.ctx.Snapshots[el.ID], e.pointer(ev), e.position())
	e.beginGesture(StateResizing)
}

func (e *Editor) beginBrush(ev PointerEvent) {
	if !ev.Shift {
		e.scene.ClearSelection()
	}
	e.ctx.BrushSelection = e.scene.SelectionIDs()
	e.ctx.Brush = geom.Rect{X: e.ctx.Origin.X, Y: e.ctx.Origin.Y}
	e.beginGesture(StateBrushing)
	e.scene.Update()
}

// --- Moves ---

func (e *Editor) move(ev PointerEvent) {
	p := e.ToWorld(ev.X, ev.Y)
	e.ctx.Last = p
	switch e.state {
	case StateCreating:
		e.registry.CreateMove(e.ctx.Active, e.pointer(ev), e.position())
		e.ctx.Moved = true
	case StateTranslating:
		e.translate(ev, p)
	case StateResizing:
		e.resize(ev, p)
	case StateErasing:
		e.eraseAt(p)
	case StateDragging:
		e.pan(ev)
	case StateBrushing:
		e.ctx.Brush = geom.FromCorners(e.ctx.Origin.X, e.ctx.Origin.Y, p.X, p.Y)
		e.ctx.Moved = e.ctx.Moved || p != e.ctx.Origin
	default:
		return
	}
	e.scene.Update()
}

// translate moves every snapshot by the pointer delta, snapping the union of
// their bounds as one rect.
func (e *Editor) translate(ev PointerEvent, p geom.Point) {
	if !e.ctx.Moved && p == e.ctx.Origin {
		return
	}
	b := e.ctx.SnapshotBounds
	center := true
	if len(e.ctx.Snapshots) == 1 {
		for _, s := range e.ctx.Snapshots {
			center = e.registry.SnapsToCenter(s)
		}
	}
	x, y := e.ctx.Snapper.Snap(b.X+p.X-e.ctx.Origin.X, b.Y+p.Y-e.ctx.Origin.Y, b.Width, b.Height, center)
	e.guides = e.ctx.Snapper.Guides()
	dx, dy := x-b.X, y-b.Y

	page := e.scene.Page()
	ptr := e.pointer(ev)
	for id, s := range e.ctx.Snapshots {
		el := page.Element(id)
		if el == nil {
			continue
		}
		el.X1, el.Y1 = s.X1+dx, s.Y1+dy
		el.X2, el.Y2 = s.X2+dx, s.Y2+dy
		e.registry.Drag(el, s, ptr)
	}
	if dx != 0 || dy != 0 {
		e.ctx.Moved = true
	}
}

func (e *Editor) resize(ev PointerEvent, p geom.Point) {
	if !e.ctx.Moved && p == e.ctx.Origin {
		return
	}
	page := e.scene.Page()
	for id, s := range e.ctx.Snapshots {
		el := page.Element(id)
		if el == nil {
			continue
		}
		pos := e.position()
		x, y := pos(p.X, p.Y)
		elements.ApplyHandle(el, s, e.ctx.Handle, x, y)
		e.registry.Resize(el, s, e.pointer(ev), pos)
		if el.X1 != s.X1 || el.Y1 != s.Y1 || el.X2 != s.X2 || el.Y2 != s.Y2 {
			e.ctx.Moved = true
		}
	}
}

// eraseAt marks every unlocked element under p. Marked elements are removed
// when the gesture ends.
func (e *Editor) eraseAt(p geom.Point) {
	for _, el := range e.scene.Page().Elements {
		if !el.Locked && !el.Erased && el.Bounds().Contains(p.X, p.Y) {
			el.Erased = true
			e.ctx.Moved = true
		}
	}
}

func (e *Editor) pan(ev PointerEvent) {
	p := e.scene.Page()
	// Translate is in screen pixels (the viewport translates, then scales),
	// so the pointer delta applies unscaled at any zoom.
	p.TranslateX = math.Floor(e.ctx.PanBaseline.X + ev.X - e.ctx.ScreenOrigin.X)
	p.TranslateY = math.Floor(e.ctx.PanBaseline.Y + ev.Y - e.ctx.ScreenOrigin.Y)
	e.ctx.Moved = true
}

// --- Commit ---

func (e *Editor) commit(ev PointerEvent) error {
	switch e.state {
	case StateCreating:
		return e.commitCreate(ev)
	case StateTranslating:
		if !e.ctx.Moved {
			e.click(ev)
			return nil
		}
		e.recordGesture()
	case StateResizing:
		for id, s := range e.ctx.Snapshots {
			if el := e.scene.Page().Element(id); el != nil {
				e.registry.ResizeEnd(el, s, e.pointer(ev), e.position())
			}
		}
		e.recordGesture()
	case StatePointing:
		e.click(ev)
	case StateErasing:
		return e.commitErase()
	case StateBrushing:
		e.commitBrush(ev)
	}
	return nil
}

func (e *Editor) commitCreate(ev PointerEvent) error {
	el := e.ctx.Active
	e.registry.CreateEnd(el, e.pointer(ev), e.position())
	el.Creating = false
	el.Selected = true
	el.Version = 1
	e.ctx.CreateEntry.Patch([]*document.Element{el})

	if el.Type == document.ElementTypeText || el.Type == document.ElementTypeNote {
		if err := e.startEditing(el, e.ctx.CreateEntry); err != nil {
			return err
		}
	}
	if e.tool != ToolDraw {
		e.tool = ToolSelect
	}
	e.changed()
	return nil
}

// recordGesture pushes one UPDATE for every snapshot element whose geometry
// or variant fields changed, bumping their versions.
func (e *Editor) recordGesture() {
	var changes []history.Change
	for _, el := range e.scene.Page().Elements {
		s, ok := e.ctx.Snapshots[el.ID]
		if !ok {
			continue
		}
		keys := append(append([]string{}, document.GeometryFields...), e.registry.UpdatedFields(el, s)...)
		if _, changed := history.Diff(s, el, keys); !changed {
			continue
		}
		el.Version = s.Version + 1
		c, _ := history.Diff(s, el, keys)
		changes = append(changes, c)
	}
	if len(changes) == 0 {
		return
	}
	e.scene.Record(history.NewUpdate(changes))
	e.changed()
}

// click resolves a pointer-up without movement as a selection click.
func (e *Editor) click(ev PointerEvent) {
	if e.ctx.Target == "" || e.ctx.SelectedOnDown {
		return
	}
	el := e.scene.Page().Element(e.ctx.Target)
	if el == nil {
		return
	}
	members := e.clickSet(el)
	if ev.Shift {
		for _, m := range members {
			m.Selected = false
		}
		return
	}
	e.scene.ClearSelection()
	for _, m := range members {
		m.Selected = true
	}
}

// clickSet returns what a click on el selects: el alone inside the active
// group, otherwise its whole group. Clicking outside the active group
// leaves it.
func (e *Editor) clickSet(el *document.Element) []*document.Element {
	page := e.scene.Page()
	if page.ActiveGroup != "" && el.Group != page.ActiveGroup {
		e.scene.ExitGroup()
	}
	if el.Group == "" || el.Group == page.ActiveGroup {
		return []*document.Element{el}
	}
	return page.ElementsInGroup(el.Group)
}

func (e *Editor) commitErase() error {
	var ids []string
	for _, el := range e.scene.Page().Elements {
		if el.Erased {
			ids = append(ids, el.ID)
		}
	}
	e.clearErased()
	if len(ids) == 0 {
		return nil
	}
	if _, err := e.scene.RemoveElements(ids); err != nil {
		return err
	}
	e.changed()
	return nil
}

func (e *Editor) commitBrush(ev PointerEvent) {
	if !e.ctx.Moved {
		if !ev.Shift {
			e.scene.ExitGroup()
		}
		return
	}
	page := e.scene.Page()
	for _, el := range e.scene.SetSelection(e.ctx.Brush) {
		if el.Group != "" && el.Group != page.ActiveGroup {
			for _, m := range page.ElementsInGroup(el.Group) {
				m.Selected = true
			}
		}
	}
	_ = e.scene.SelectElements(e.ctx.BrushSelection)
}

// --- Rollback ---

func (e *Editor) rollback() {
	page := e.scene.Page()
	switch e.state {
	case StateCreating:
		if !e.scene.RetractCreate(e.ctx.CreateEntry) && e.ctx.Active != nil {
			_, _ = e.scene.RemoveElements([]string{e.ctx.Active.ID})
		}
	case StateTranslating, StateResizing:
		for id, s := range e.ctx.Snapshots {
			if el := page.Element(id); el != nil {
				*el = *s.Clone()
			}
		}
	case StateErasing:
		e.clearErased()
	case StateDragging:
		page.TranslateX, page.TranslateY = e.ctx.PanBaseline.X, e.ctx.PanBaseline.Y
	}
}

func (e *Editor) clearErased() {
	for _, el := range e.scene.Page().Elements {
		el.Erased = false
	}
}

// --- Helpers ---

func (e *Editor) insideSelection(p geom.Point) bool {
	b, ok := e.scene.SelectionBounds()
	return ok && b.Contains(p.X, p.Y)
}

func snapshotOf(els []*document.Element) map[string]*document.Element {
	out := make(map[string]*document.Element, len(els))
	for _, el := range els {
		out[el.ID] = el.Clone()
	}
	return out
}

func boundsOf(els []*document.Element) geom.Rect {
	rects := make([]geom.Rect, len(els))
	for i, el := range els {
		rects[i] = el.Bounds()
	}
	b, _ := geom.BoundsOf(rects)
	return b
}

func anyLocked(els []*document.Element) bool {
	for _, el := range els {
		if el.Locked {
			return true
		}
	}
	return false
}

func elementIDs(els []*document.Element) []string {
	ids := make([]string, len(els))
	for i, el := range els {
		ids[i] = el.ID
	}
	return ids
}
