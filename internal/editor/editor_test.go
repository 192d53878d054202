package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/geom"
	"github.com/inamate/drawboard/internal/history"
	"github.com/inamate/drawboard/internal/scene"
)

type fixture struct {
	editor   *Editor
	scene    *scene.Scene
	notifier *scene.RecordingNotifier
}

// newFixture builds an editor over an empty board with grid size 20. Grid
// and element snapping are set from the arguments.
func newFixture(t *testing.T, grid, snapElements bool) *fixture {
	t.Helper()
	doc := document.NewEmptyDocument("board_test", "Test", "page_1")
	doc.AppState.Grid = grid
	doc.AppState.SnapToElements = snapElements
	n := &scene.RecordingNotifier{}
	s := scene.New(doc, n, nil)
	return &fixture{editor: New(s, Options{GridSize: 20}), scene: s, notifier: n}
}

// box adds a shape without recording history.
func (f *fixture) box(t *testing.T, id string, x1, y1, x2, y2 float64) *document.Element {
	t.Helper()
	el := &document.Element{ID: id, Type: document.ElementTypeShape, X1: x1, Y1: y1, X2: x2, Y2: y2}
	if _, err := f.scene.AddElements([]*document.Element{el}); err != nil {
		t.Fatalf("add %s: %v", id, err)
	}
	f.scene.History().Clear()
	return el
}

func (f *fixture) gesture(t *testing.T, down PointerEvent, moves ...PointerEvent) {
	t.Helper()
	if err := f.editor.OnPointerDown(down); err != nil {
		t.Fatalf("pointer down: %v", err)
	}
	up := down
	for _, m := range moves {
		f.editor.OnPointerMove(m)
		up = m
	}
	if err := f.editor.OnPointerUp(up); err != nil {
		t.Fatalf("pointer up: %v", err)
	}
	if f.editor.State() != StateIdle {
		t.Fatalf("state after gesture = %v, want idle", f.editor.State())
	}
}

func (f *fixture) click(t *testing.T, id string, x, y float64, shift bool) {
	t.Helper()
	f.gesture(t, PointerEvent{X: x, Y: y, ElementID: id, Shift: shift})
}

func selected(s *scene.Scene) []string {
	ids := s.SelectionIDs()
	if ids == nil {
		return []string{}
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreateRectangleOnGrid(t *testing.T) {
	f := newFixture(t, true, true)
	if err := f.editor.SetTool(ToolShape); err != nil {
		t.Fatalf("SetTool() error = %v", err)
	}

	f.gesture(t, PointerEvent{X: 10, Y: 10}, PointerEvent{X: 60, Y: 40})

	els := f.scene.Page().Elements
	if len(els) != 1 {
		t.Fatalf("expected 1 element, got %d", len(els))
	}
	el := els[0]
	if el.X1 != 20 || el.Y1 != 20 || el.X2 != 60 || el.Y2 != 40 {
		t.Errorf("rect = (%v,%v,%v,%v), want (20,20,60,40)", el.X1, el.Y1, el.X2, el.Y2)
	}
	if el.Version != 1 || !el.Selected || el.Creating {
		t.Errorf("committed element version=%d selected=%v creating=%v", el.Version, el.Selected, el.Creating)
	}
	if f.editor.Tool() != ToolSelect {
		t.Errorf("tool = %v, want select", f.editor.Tool())
	}

	h := f.scene.History()
	if h.UndoCount() != 1 || h.Peek().Type != history.EntryCreate {
		t.Fatalf("expected one CREATE entry, got %d", h.UndoCount())
	}
	if h.Peek().Elements[0].X2 != 60 {
		t.Errorf("CREATE entry not patched with final geometry: %+v", h.Peek().Elements[0])
	}
	if !f.scene.CanUndo() {
		t.Error("CanUndo() = false after create")
	}

	if err := f.editor.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if len(f.scene.Page().Elements) != 0 {
		t.Error("undo should remove the rectangle")
	}
	if f.scene.CanUndo() {
		t.Error("CanUndo() = true after undoing the only entry")
	}

	if err := f.editor.Redo(); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if got := f.scene.Page().Elements; len(got) != 1 || got[0].X2 != 60 || got[0].Y2 != 40 {
		t.Errorf("redo restored %+v", got)
	}
}

func TestCreateWithClickUsesDefaultSize(t *testing.T) {
	f := newFixture(t, false, false)
	_ = f.editor.SetTool(ToolShape)
	f.gesture(t, PointerEvent{X: 100, Y: 100})

	el := f.scene.Page().Elements[0]
	if el.Width() != 100 || el.Height() != 100 || el.X1 != 100 {
		t.Errorf("click-created shape = %+v", el)
	}
}

func TestCreateCancelledOnPointerLeave(t *testing.T) {
	f := newFixture(t, false, false)
	_ = f.editor.SetTool(ToolShape)
	if err := f.editor.OnPointerDown(PointerEvent{X: 0, Y: 0}); err != nil {
		t.Fatal(err)
	}
	f.editor.OnPointerMove(PointerEvent{X: 50, Y: 50})
	f.editor.OnPointerLeave()

	if f.editor.State() != StateIdle {
		t.Errorf("state = %v, want idle", f.editor.State())
	}
	if len(f.scene.Page().Elements) != 0 {
		t.Error("cancelled creation left an element behind")
	}
	if f.scene.CanUndo() || f.scene.CanRedo() {
		t.Error("cancelled creation left history behind")
	}
	if err := f.editor.OnPointerUp(PointerEvent{X: 50, Y: 50}); err != nil {
		t.Errorf("pointer up after cancel: %v", err)
	}
}

func TestTranslateSnapsToGrid(t *testing.T) {
	f := newFixture(t, true, true)
	a := f.box(t, "a", 0, 0, 50, 50)

	f.gesture(t, PointerEvent{X: 25, Y: 25, ElementID: "a"}, PointerEvent{X: 58, Y: 47})

	if a.X1 != 40 || a.Y1 != 20 || a.X2 != 90 || a.Y2 != 70 {
		t.Errorf("moved to (%v,%v,%v,%v), want (40,20,90,70)", a.X1, a.Y1, a.X2, a.Y2)
	}
	if a.Version != 2 {
		t.Errorf("version = %d, want 2", a.Version)
	}
	h := f.scene.History()
	if h.UndoCount() != 1 || h.Peek().Type != history.EntryUpdate {
		t.Fatalf("expected one UPDATE entry")
	}
	keys := h.Peek().Changes[0].Keys()
	if !sameIDs(keys, []string{"version", "x1", "x2", "y1", "y2"}) {
		t.Errorf("diff keys = %v", keys)
	}

	if err := f.editor.Undo(); err != nil {
		t.Fatal(err)
	}
	if a.X1 != 0 || a.Y1 != 0 || a.Version != 1 {
		t.Errorf("undo left %+v", a)
	}
	if err := f.editor.Redo(); err != nil {
		t.Fatal(err)
	}
	if a.X1 != 40 || a.Y2 != 70 || a.Version != 2 {
		t.Errorf("redo left %+v", a)
	}
}

func TestTranslateSnapsToElementEdges(t *testing.T) {
	tests := []struct {
		name  string
		toX   float64
		wantX float64
		guide bool
	}{
		{"within threshold", 116, 100, true},
		{"outside threshold", 122, 112, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false, true)
			f.box(t, "a", 0, 0, 100, 50)
			b := f.box(t, "b", 200, 0, 250, 50)

			if err := f.editor.OnPointerDown(PointerEvent{X: 210, Y: 10, ElementID: "b"}); err != nil {
				t.Fatal(err)
			}
			f.editor.OnPointerMove(PointerEvent{X: tt.toX, Y: 10})
			var xGuide bool
			for _, g := range f.editor.Guides() {
				if g.Axis == geom.AxisX && g.Position == 100 {
					xGuide = true
				}
			}
			if err := f.editor.OnPointerUp(PointerEvent{X: tt.toX, Y: 10}); err != nil {
				t.Fatal(err)
			}

			if b.X1 != tt.wantX || b.Width() != 50 {
				t.Errorf("x1 = %v width = %v, want x1 %v", b.X1, b.Width(), tt.wantX)
			}
			if xGuide != tt.guide {
				t.Errorf("x guide at 100 = %v, want %v", xGuide, tt.guide)
			}
			if f.editor.Guides() != nil {
				t.Error("guides should be cleared after the gesture")
			}
		})
	}
}

func TestTranslateCancelRestores(t *testing.T) {
	f := newFixture(t, false, false)
	a := f.box(t, "a", 0, 0, 50, 50)

	if err := f.editor.OnPointerDown(PointerEvent{X: 10, Y: 10, ElementID: "a"}); err != nil {
		t.Fatal(err)
	}
	f.editor.OnPointerMove(PointerEvent{X: 110, Y: 60})
	if a.X1 != 100 {
		t.Fatalf("live move x1 = %v, want 100", a.X1)
	}
	f.editor.OnPointerLeave()

	if a.X1 != 0 || a.Y1 != 0 || a.X2 != 50 {
		t.Errorf("cancel left %+v", a)
	}
	if f.scene.CanUndo() {
		t.Error("cancelled translate recorded history")
	}
}

func TestResizeClampsAgainstOppositeCorner(t *testing.T) {
	f := newFixture(t, false, false)
	a := f.box(t, "a", 0, 0, 50, 50)
	if err := f.scene.SelectElements([]string{"a"}); err != nil {
		t.Fatal(err)
	}

	if err := f.editor.OnPointerDown(PointerEvent{X: 50, Y: 50, ElementID: "a", Handle: "se"}); err != nil {
		t.Fatal(err)
	}
	if f.editor.State() != StateResizing {
		t.Fatalf("state = %v, want resizing", f.editor.State())
	}
	f.editor.OnPointerMove(PointerEvent{X: 30, Y: -20})
	if err := f.editor.OnPointerUp(PointerEvent{X: 30, Y: -20}); err != nil {
		t.Fatal(err)
	}

	if a.Y1 > a.Y2 || a.X1 > a.X2 {
		t.Errorf("inverted box (%v,%v,%v,%v)", a.X1, a.Y1, a.X2, a.Y2)
	}
	if a.X1 != 0 || a.Y1 != 0 || a.X2 != 30 || a.Y2 != 0 {
		t.Errorf("resized to (%v,%v,%v,%v), want (0,0,30,0)", a.X1, a.Y1, a.X2, a.Y2)
	}
	if f.scene.History().UndoCount() != 1 {
		t.Errorf("expected one entry, got %d", f.scene.History().UndoCount())
	}
}

func TestGroupClickSemantics(t *testing.T) {
	f := newFixture(t, false, false)
	f.box(t, "a", 0, 0, 50, 50)
	f.box(t, "b", 100, 0, 150, 50)
	f.box(t, "c", 200, 0, 250, 50)
	f.box(t, "d", 300, 0, 350, 50)

	if err := f.scene.SelectElements([]string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}
	if err := f.editor.GroupSelection(); err != nil {
		t.Fatalf("GroupSelection() error = %v", err)
	}
	page := f.scene.Page()
	group := page.Element("a").Group
	if group == "" || page.Element("b").Group != group || page.Element("c").Group != group {
		t.Fatal("grouped elements do not share a group id")
	}

	f.scene.ClearSelection()
	f.click(t, "b", 125, 25, false)
	if got := selected(f.scene); !sameIDs(got, []string{"a", "b", "c"}) {
		t.Errorf("click on grouped element selected %v", got)
	}

	if err := f.editor.OnDoubleClickElement("b"); err != nil {
		t.Fatal(err)
	}
	if f.scene.ActiveGroup() != group {
		t.Fatalf("double click did not enter the group")
	}
	if got := selected(f.scene); !sameIDs(got, []string{"b"}) {
		t.Errorf("after entering group selected %v", got)
	}

	f.click(t, "a", 25, 25, false)
	if got := selected(f.scene); !sameIDs(got, []string{"a"}) {
		t.Errorf("click inside active group selected %v", got)
	}

	f.click(t, "d", 325, 25, false)
	if f.scene.ActiveGroup() != "" {
		t.Error("clicking outside the group should leave it")
	}
	if got := selected(f.scene); !sameIDs(got, []string{"d"}) {
		t.Errorf("click outside group selected %v", got)
	}
}

func TestShiftClickToggles(t *testing.T) {
	f := newFixture(t, false, false)
	f.box(t, "a", 0, 0, 50, 50)
	f.box(t, "b", 100, 0, 150, 50)

	f.click(t, "a", 25, 25, false)
	f.click(t, "b", 125, 25, true)
	if got := selected(f.scene); !sameIDs(got, []string{"a", "b"}) {
		t.Fatalf("shift click added %v", got)
	}
	f.click(t, "a", 25, 25, true)
	if got := selected(f.scene); !sameIDs(got, []string{"b"}) {
		t.Errorf("shift click on selected element left %v", got)
	}
	f.click(t, "a", 25, 25, false)
	if got := selected(f.scene); !sameIDs(got, []string{"a"}) {
		t.Errorf("plain click left %v", got)
	}
	if f.scene.CanUndo() {
		t.Error("selection clicks must not record history")
	}
}

func TestBrushSelectsIntersecting(t *testing.T) {
	f := newFixture(t, false, false)
	f.box(t, "a", 0, 0, 50, 50)
	f.box(t, "b", 100, 0, 150, 50)
	f.box(t, "c", 300, 300, 350, 350)

	if err := f.editor.OnPointerDown(PointerEvent{X: -10, Y: -10}); err != nil {
		t.Fatal(err)
	}
	if f.editor.State() != StateBrushing {
		t.Fatalf("state = %v, want brushing", f.editor.State())
	}
	f.editor.OnPointerMove(PointerEvent{X: 120, Y: 20})
	if r, ok := f.editor.Brush(); !ok || r.Width != 130 || r.Height != 30 {
		t.Errorf("brush = %+v", r)
	}
	if err := f.editor.OnPointerUp(PointerEvent{X: 120, Y: 20}); err != nil {
		t.Fatal(err)
	}
	if got := selected(f.scene); !sameIDs(got, []string{"a", "b"}) {
		t.Errorf("brush selected %v", got)
	}

	f.gesture(t, PointerEvent{X: 500, Y: 500})
	if got := selected(f.scene); len(got) != 0 {
		t.Errorf("click on empty canvas kept %v", got)
	}
}

func TestEraseRemovesTouchedElements(t *testing.T) {
	f := newFixture(t, false, false)
	f.box(t, "a", 0, 0, 50, 50)
	f.box(t, "b", 100, 0, 150, 50)
	f.box(t, "c", 0, 200, 50, 250)
	_ = f.editor.SetTool(ToolEraser)

	f.gesture(t, PointerEvent{X: 10, Y: 10}, PointerEvent{X: 120, Y: 10})

	page := f.scene.Page()
	if len(page.Elements) != 1 || page.Elements[0].ID != "c" {
		t.Fatalf("after erase %v", page.Elements)
	}
	if page.Elements[0].Order != 0 {
		t.Errorf("order not dense after erase")
	}
	if f.scene.History().UndoCount() != 1 || f.scene.History().Peek().Type != history.EntryRemove {
		t.Fatal("expected one REMOVE entry")
	}
	if err := f.editor.Undo(); err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, el := range page.Elements {
		ids = append(ids, el.ID)
		if el.Erased {
			t.Errorf("%s still marked erased", el.ID)
		}
	}
	if !sameIDs(ids, []string{"a", "b", "c"}) {
		t.Errorf("undo restored %v", ids)
	}
}

func TestPanFloorsTranslate(t *testing.T) {
	f := newFixture(t, false, false)
	_ = f.editor.SetTool(ToolPan)

	f.gesture(t, PointerEvent{X: 100, Y: 100}, PointerEvent{X: 130.6, Y: 90.2})

	p := f.scene.Page()
	if p.TranslateX != 30 || p.TranslateY != -10 {
		t.Errorf("translate = (%v,%v), want (30,-10)", p.TranslateX, p.TranslateY)
	}
	if f.scene.CanUndo() {
		t.Error("panning must not record history")
	}
	if w := f.editor.ToWorld(130, 90); w.X != 100 || w.Y != 100 {
		t.Errorf("ToWorld after pan = %+v", w)
	}
}

func TestPanIgnoresZoom(t *testing.T) {
	f := newFixture(t, false, false)
	f.editor.SetZoom(2, geom.Point{})
	_ = f.editor.SetTool(ToolPan)

	before := f.editor.ToWorld(50, 50)
	f.gesture(t, PointerEvent{X: 100, Y: 100}, PointerEvent{X: 110, Y: 100})

	if p := f.scene.Page(); p.TranslateX != 10 || p.TranslateY != 0 {
		t.Errorf("translate = (%v,%v), want (10,0)", p.TranslateX, p.TranslateY)
	}
	// The point under the cursor follows it: 10 screen px is 5 world units at 2x.
	if after := f.editor.ToWorld(60, 50); after != before {
		t.Errorf("ToWorld(60,50) = %+v, want %+v", after, before)
	}
}

func TestTextAbandonedWhenEmpty(t *testing.T) {
	f := newFixture(t, false, false)
	_ = f.editor.SetTool(ToolText)
	f.gesture(t, PointerEvent{X: 100, Y: 100})

	id := f.editor.Editing()
	if id == "" {
		t.Fatal("text creation should start editing")
	}
	f.notifier.Reset()
	if err := f.editor.EndEditing(); err != nil {
		t.Fatal(err)
	}
	if len(f.scene.Page().Elements) != 0 {
		t.Error("empty text element should be removed")
	}
	if f.scene.CanUndo() || f.scene.CanRedo() {
		t.Error("abandoned text should leave no history")
	}
	// The creation was already saved, so the removal must be saved too.
	if persists, _ := f.notifier.Counts(); persists != 1 {
		t.Errorf("retract persists = %d, want 1", persists)
	}
}

func TestTextKeptWithContent(t *testing.T) {
	f := newFixture(t, false, false)
	_ = f.editor.SetTool(ToolText)
	f.gesture(t, PointerEvent{X: 100, Y: 100})
	id := f.editor.Editing()

	if err := f.editor.SetEditingText(id, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := f.editor.SetEditingText("other", "x"); !errors.Is(err, ErrNotEditing) {
		t.Errorf("SetEditingText on another element error = %v", err)
	}
	// A pointer-down elsewhere ends the edit.
	f.gesture(t, PointerEvent{X: 900, Y: 900})
	if f.editor.Editing() != "" {
		t.Error("pointer down should end editing")
	}

	h := f.scene.History()
	if h.UndoCount() != 1 || h.Peek().Elements[0].Text != "hello" {
		t.Fatalf("CREATE entry should carry the text")
	}
	el := f.scene.Page().Element(id)
	if el.X2 <= el.X1 || el.Editing {
		t.Errorf("text element = %+v", el)
	}

	if err := f.editor.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := f.editor.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := f.scene.Page().Element(id); got == nil || got.Text != "hello" {
		t.Errorf("redo restored %+v", got)
	}
}

func TestEditShapeLabel(t *testing.T) {
	f := newFixture(t, false, false)
	f.box(t, "a", 0, 0, 50, 50)

	if err := f.editor.OnDoubleClickElement("a"); err != nil {
		t.Fatal(err)
	}
	if f.editor.Editing() != "a" {
		t.Fatal("double click on a shape should edit its label")
	}
	_ = f.editor.SetEditingText("a", "label")
	if err := f.editor.OnKeyDown(context.Background(), KeyEvent{Key: "Escape"}); err != nil {
		t.Fatal(err)
	}

	h := f.scene.History()
	if h.UndoCount() != 1 || h.Peek().Type != history.EntryUpdate {
		t.Fatal("expected one UPDATE for the label")
	}
	c := h.Peek().Changes[0]
	if c.PrevValues["text"] != "" || c.NewValues["text"] != "label" {
		t.Errorf("label change = %+v", c)
	}
}

func TestNudge(t *testing.T) {
	f := newFixture(t, true, false)
	a := f.box(t, "a", 0, 0, 50, 50)
	_ = f.scene.SelectElements([]string{"a"})
	ctx := context.Background()

	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "ArrowRight"}); err != nil {
		t.Fatal(err)
	}
	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "ArrowDown", Shift: true}); err != nil {
		t.Fatal(err)
	}
	if a.X1 != 20 || a.Y1 != 1 || a.X2 != 70 || a.Y2 != 51 {
		t.Errorf("nudged to (%v,%v,%v,%v)", a.X1, a.Y1, a.X2, a.Y2)
	}
	if f.scene.History().UndoCount() != 2 {
		t.Errorf("expected one entry per key press, got %d", f.scene.History().UndoCount())
	}
	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "z", Ctrl: true}); err != nil {
		t.Fatal(err)
	}
	if a.Y1 != 0 || a.X1 != 20 {
		t.Errorf("undo nudge left (%v,%v)", a.X1, a.Y1)
	}
}

func TestKeyboardUndoOnEmptyHistory(t *testing.T) {
	f := newFixture(t, false, false)
	ctx := context.Background()
	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "z", Meta: true}); err != nil {
		t.Errorf("undo with empty history error = %v", err)
	}
	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "z", Meta: true, Shift: true}); err != nil {
		t.Errorf("redo with empty history error = %v", err)
	}
	if err := f.editor.Undo(); !errors.Is(err, history.ErrNothingToUndo) {
		t.Errorf("Undo() error = %v", err)
	}
}

func TestKeyboardActions(t *testing.T) {
	f := newFixture(t, false, false)
	f.box(t, "a", 0, 0, 50, 50)
	f.box(t, "b", 100, 0, 150, 50)
	ctx := context.Background()

	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "a", Ctrl: true}); err != nil {
		t.Fatal(err)
	}
	if got := selected(f.scene); len(got) != 2 {
		t.Fatalf("select all selected %v", got)
	}
	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "d", Ctrl: true}); err != nil {
		t.Fatal(err)
	}
	page := f.scene.Page()
	if len(page.Elements) != 4 {
		t.Fatalf("duplicate produced %d elements", len(page.Elements))
	}
	for _, el := range f.scene.Selection() {
		if el.ID == "a" || el.ID == "b" {
			t.Errorf("duplicates should be selected, found original %s", el.ID)
		}
		if el.Y1 != 20 {
			t.Errorf("duplicate offset y1 = %v, want 20", el.Y1)
		}
	}
	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "Delete"}); err != nil {
		t.Fatal(err)
	}
	if len(page.Elements) != 2 {
		t.Errorf("delete left %d elements", len(page.Elements))
	}

	_ = f.scene.SelectElements([]string{"a"})
	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "]"}); err != nil {
		t.Fatal(err)
	}
	if page.Elements[1].ID != "a" {
		t.Errorf("bring forward left order %s,%s", page.Elements[0].ID, page.Elements[1].ID)
	}

	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "r"}); err != nil {
		t.Fatal(err)
	}
	if f.editor.Tool() != ToolShape {
		t.Errorf("tool shortcut set %v", f.editor.Tool())
	}
	if err := f.editor.OnKeyDown(ctx, KeyEvent{Key: "Escape"}); err != nil {
		t.Fatal(err)
	}
	if len(f.scene.Selection()) != 0 {
		t.Error("escape should clear the selection")
	}
}

func TestCopyPaste(t *testing.T) {
	f := newFixture(t, false, false)
	f.box(t, "a", 0, 0, 50, 50)
	_ = f.scene.SelectElements([]string{"a"})
	ctx := context.Background()

	if err := f.editor.Copy(ctx); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	for i, want := range []float64{20, 40} {
		if err := f.editor.Paste(ctx, nil); err != nil {
			t.Fatalf("Paste() error = %v", err)
		}
		sel := f.scene.Selection()
		if len(sel) != 1 || sel[0].ID == "a" {
			t.Fatalf("paste %d selected %v", i, sel)
		}
		if sel[0].X1 != want || sel[0].Y1 != want {
			t.Errorf("paste %d at (%v,%v), want %v", i, sel[0].X1, sel[0].Y1, want)
		}
	}
	if n := len(f.scene.Page().Elements); n != 3 {
		t.Errorf("expected 3 elements, got %d", n)
	}

	at := &geom.Point{X: 500, Y: 400}
	if err := f.editor.Paste(ctx, at); err != nil {
		t.Fatal(err)
	}
	if sel := f.scene.Selection(); sel[0].X1 != 500 || sel[0].Y1 != 400 {
		t.Errorf("paste at point placed %+v", sel[0])
	}
}

func TestPasteLinkAndText(t *testing.T) {
	f := newFixture(t, false, false)

	if err := f.editor.OnPaste("https://example.com/page", &geom.Point{X: 100, Y: 100}); err != nil {
		t.Fatal(err)
	}
	el := f.scene.Selection()[0]
	if el.Type != document.ElementTypeBookmark || el.Link != "https://example.com/page" || el.Title != "example.com" {
		t.Errorf("bookmark = %+v", el)
	}
	if el.Width() != 320 || el.X1 != -60 {
		t.Errorf("bookmark geometry = (%v,%v,%v,%v)", el.X1, el.Y1, el.X2, el.Y2)
	}

	if err := f.editor.OnPaste("just words", nil); err != nil {
		t.Fatal(err)
	}
	el = f.scene.Selection()[0]
	if el.Type != document.ElementTypeText || el.Text != "just words" || el.Width() <= 0 {
		t.Errorf("text = %+v", el)
	}

	if err := f.editor.OnPaste("   ", nil); err != nil {
		t.Fatal(err)
	}
	if n := len(f.scene.Page().Elements); n != 2 {
		t.Errorf("blank paste added an element, have %d", n)
	}
}

type brokenClipboard struct{}

func (brokenClipboard) WriteText(context.Context, string) error {
	return errors.New("permission denied")
}

func (brokenClipboard) ReadText(context.Context) (string, error) {
	return "", errors.New("permission denied")
}

func TestClipboardFailure(t *testing.T) {
	doc := document.NewEmptyDocument("board_test", "Test", "page_1")
	s := scene.New(doc, nil, nil)
	e := New(s, Options{Clipboard: brokenClipboard{}})
	el := &document.Element{ID: "a", Type: document.ElementTypeShape, X2: 10, Y2: 10}
	if _, err := s.AddElements([]*document.Element{el}); err != nil {
		t.Fatal(err)
	}
	el.Selected = true
	ctx := context.Background()

	if err := e.Cut(ctx); !errors.Is(err, document.ErrTransientIO) {
		t.Errorf("Cut() error = %v", err)
	}
	if len(s.Page().Elements) != 1 {
		t.Error("failed cut must not delete")
	}
	if err := e.Paste(ctx, nil); !errors.Is(err, document.ErrTransientIO) {
		t.Errorf("Paste() error = %v", err)
	}
}

func TestZoom(t *testing.T) {
	f := newFixture(t, false, false)
	f.editor.OnResize(800, 600)

	f.editor.SetZoom(2, geom.Point{X: 100, Y: 100})
	if w := f.editor.ToWorld(100, 100); w.X != 100 || w.Y != 100 {
		t.Errorf("anchor moved to %+v", w)
	}
	if f.editor.Zoom() != 2 {
		t.Errorf("zoom = %v", f.editor.Zoom())
	}

	f.editor.SetZoom(10, geom.Point{})
	if f.editor.Zoom() != MaxZoom {
		t.Errorf("zoom not clamped: %v", f.editor.Zoom())
	}
	f.editor.SetZoom(0.01, geom.Point{})
	f.editor.ZoomOut()
	if f.editor.Zoom() != MinZoom {
		t.Errorf("zoom below minimum: %v", f.editor.Zoom())
	}
	f.editor.ResetZoom()
	f.editor.ZoomIn()
	if f.editor.Zoom() != 1.1 {
		t.Errorf("zoom in from 1 = %v", f.editor.Zoom())
	}
	if f.scene.CanUndo() {
		t.Error("zoom must not record history")
	}
}

func TestReadonlyPageRefusesEdits(t *testing.T) {
	f := newFixture(t, false, false)
	a := f.box(t, "a", 0, 0, 50, 50)
	readonly := true
	if err := f.scene.UpdatePage(f.scene.ActivePageID(), scene.PageUpdate{Readonly: &readonly}); err != nil {
		t.Fatal(err)
	}

	_ = f.editor.SetTool(ToolShape)
	if err := f.editor.OnPointerDown(PointerEvent{X: 0, Y: 0}); !errors.Is(err, document.ErrUserInput) {
		t.Errorf("create on readonly page error = %v", err)
	}
	if f.editor.State() != StateIdle {
		t.Errorf("state = %v", f.editor.State())
	}

	_ = f.editor.SetTool(ToolSelect)
	f.gesture(t, PointerEvent{X: 10, Y: 10, ElementID: "a"}, PointerEvent{X: 100, Y: 100})
	if a.X1 != 0 {
		t.Error("readonly element moved")
	}
	if !a.Selected {
		t.Error("selection should still work on a readonly page")
	}
	if err := f.editor.Nudge(10, 0); !errors.Is(err, scene.ErrReadonly) {
		t.Errorf("Nudge() error = %v", err)
	}
}

func TestLockedSelectionDoesNotMove(t *testing.T) {
	f := newFixture(t, false, false)
	a := f.box(t, "a", 0, 0, 50, 50)
	a.Locked = true

	if err := f.editor.OnPointerDown(PointerEvent{X: 10, Y: 10, ElementID: "a"}); err != nil {
		t.Fatal(err)
	}
	if f.editor.State() != StatePointing {
		t.Errorf("state = %v, want pointing", f.editor.State())
	}
	f.editor.OnPointerMove(PointerEvent{X: 80, Y: 80})
	_ = f.editor.OnPointerUp(PointerEvent{X: 80, Y: 80})
	if a.X1 != 0 {
		t.Error("locked element moved")
	}
}

func TestSetElementsProperty(t *testing.T) {
	f := newFixture(t, false, false)
	a := f.box(t, "a", 0, 0, 50, 50)
	_ = f.scene.SelectElements([]string{"a"})

	if err := f.editor.SetElementsProperty("strokeColor", "#ff0000"); err != nil {
		t.Fatal(err)
	}
	if a.StrokeColor != "#ff0000" || a.Version != 2 {
		t.Errorf("element = %+v", a)
	}
	if f.scene.History().UndoCount() != 1 {
		t.Error("expected one UPDATE")
	}
	if err := f.editor.SetElementsProperty("nope", 1); !errors.Is(err, document.ErrUnknownField) {
		t.Errorf("unknown property error = %v", err)
	}
	if err := f.editor.Undo(); err != nil {
		t.Fatal(err)
	}
	if a.StrokeColor != "" {
		t.Errorf("undo left stroke %q", a.StrokeColor)
	}
}

func TestSetElementsPropertyRefusesStructuralFields(t *testing.T) {
	f := newFixture(t, false, false)
	a := f.box(t, "a", 0, 0, 50, 50)
	b := f.box(t, "b", 100, 0, 150, 50)
	_ = f.scene.SelectElements([]string{"a", "b"})
	f.notifier.Reset()

	tests := []struct {
		key   string
		value any
	}{
		{document.FieldOrder, 0},
		{document.FieldVersion, 9},
		{document.FieldGroup, "grp_x"},
		{document.FieldLocked, true},
		{document.FieldPoints, []any{}},
		{document.FieldX1, 500.0},
		{document.FieldY2, 500.0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := f.editor.SetElementsProperty(tt.key, tt.value)
			if !errors.Is(err, document.ErrUserInput) {
				t.Errorf("SetElementsProperty(%s) error = %v, want ErrUserInput", tt.key, err)
			}
		})
	}

	if a.Order == b.Order {
		t.Errorf("orders collapsed to %d", a.Order)
	}
	if a.Group != "" || a.Locked || a.X1 != 0 || a.Version != 1 {
		t.Errorf("element changed: %+v", a)
	}
	if n := f.scene.History().UndoCount(); n != 0 {
		t.Errorf("UndoCount() = %d, want 0", n)
	}
	if persists, _ := f.notifier.Counts(); persists != 0 {
		t.Errorf("persists = %d, want 0", persists)
	}
}

func TestNotifications(t *testing.T) {
	f := newFixture(t, false, false)
	_ = f.editor.SetTool(ToolShape)
	f.notifier.Reset()

	if err := f.editor.OnPointerDown(PointerEvent{X: 0, Y: 0}); err != nil {
		t.Fatal(err)
	}
	f.editor.OnPointerMove(PointerEvent{X: 40, Y: 40})
	persists, redraws := f.notifier.Counts()
	if persists != 0 || redraws == 0 {
		t.Errorf("during gesture persists=%d redraws=%d", persists, redraws)
	}
	_ = f.editor.OnPointerUp(PointerEvent{X: 40, Y: 40})
	if persists, _ = f.notifier.Counts(); persists != 1 {
		t.Errorf("commit should persist once, got %d", persists)
	}
}

func TestStateString(t *testing.T) {
	if StateBrushing.String() != "brushing" || State(99).String() != "unknown" {
		t.Error("unexpected state names")
	}
}
