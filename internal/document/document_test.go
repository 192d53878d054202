package document

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestElementGetSet(t *testing.T) {
	el := &Element{ID: "el_1", Type: ElementTypeShape}

	if err := el.Set(FieldX1, 10); err != nil {
		t.Fatalf("set x1: %v", err)
	}
	if err := el.Set("fillColor", "#fff"); err != nil {
		t.Fatalf("set fillColor: %v", err)
	}
	if err := el.Set(FieldVersion, 3.0); err != nil {
		t.Fatalf("set version: %v", err)
	}
	if el.X1 != 10 || el.FillColor != "#fff" || el.Version != 3 {
		t.Errorf("unexpected element after set: %+v", el)
	}

	if err := el.Set("nope", 1); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if err := el.Set(FieldX1, "ten"); err == nil {
		t.Error("expected type error for string x1")
	}
}

func TestValuesAreCopies(t *testing.T) {
	el := &Element{Points: [][2]float64{{0, 0}, {1, 1}}}
	values := el.Values([]string{FieldPoints, "unknown"})
	if _, ok := values["unknown"]; ok {
		t.Error("unknown keys should be skipped")
	}

	pts := values[FieldPoints].([][2]float64)
	pts[0][0] = 99
	if el.Points[0][0] != 0 {
		t.Error("snapshot must not alias the element's points")
	}

	if err := el.Apply(map[string]any{FieldPoints: pts}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	pts[1][1] = 42
	if el.Points[1][1] != 1 {
		t.Error("applied points must not alias the map value")
	}
	if el.Points[0][0] != 99 {
		t.Errorf("expected applied point, got %v", el.Points)
	}
}

func TestCloneIsDeep(t *testing.T) {
	el := &Element{ID: "a", Points: [][2]float64{{1, 2}}, Selected: true}
	c := el.Clone()
	c.Points[0][0] = 5
	c.X1 = 7
	if el.Points[0][0] != 1 || el.X1 != 0 {
		t.Error("clone shares state with original")
	}
	if !c.Selected {
		t.Error("clone should keep transient flags")
	}
}

func TestTransientFieldsNotPersisted(t *testing.T) {
	el := &Element{ID: "a", Type: ElementTypeText, Selected: true, Editing: true, Creating: true, Erased: true}
	data, err := json.Marshal(el)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"selected", "editing", "creating", "erased"} {
		if strings.Contains(string(data), key) {
			t.Errorf("transient field %q leaked into %s", key, data)
		}
	}
}

func TestBoundsNormalizesArrows(t *testing.T) {
	el := &Element{Type: ElementTypeArrow, X1: 100, Y1: 50, X2: 20, Y2: 10}
	b := el.Bounds()
	if b.X != 20 || b.Y != 10 || b.Width != 80 || b.Height != 40 {
		t.Errorf("unexpected bounds: %+v", b)
	}
}

func TestDocumentLookups(t *testing.T) {
	doc := NewSampleDocument("board_1")
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
	page := doc.Pages[0]
	first := page.Elements[0]

	el, p := doc.FindElement(first.ID)
	if el != first || p != page {
		t.Error("FindElement returned the wrong element")
	}

	if _, err := doc.Page("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if doc.PageIndex(page.ID) != 0 {
		t.Error("expected page index 0")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	doc := &Document{Pages: []*Page{{ID: "p"}}}
	doc.Normalize()
	if doc.Type != DocumentType || doc.Assets == nil {
		t.Errorf("unexpected document after normalize: %+v", doc)
	}
	if doc.Pages[0].Zoom != 1 || doc.Pages[0].Elements == nil {
		t.Errorf("unexpected page after normalize: %+v", doc.Pages[0])
	}
}
