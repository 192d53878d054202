package migrate

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/inamate/drawboard/internal/elements"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return doc
}

const legacyBoard = `{
	"type": "drawboard",
	"version": "1",
	"title": "old",
	"elements": [
		{"id": "n1", "type": "note", "x1": 10, "y1": 20, "text": "hi", "selected": true},
		{"id": "i1", "type": "image", "x1": 0, "y1": 0, "x2": 10, "y2": 10, "dataUrl": "data:image/png;base64,AAAA"},
		{"id": "a1", "type": "arrow", "x1": 0, "y1": 0, "x2": 50, "y2": 0, "startArrow": "none", "endArrow": "arrow", "version": 3}
	]
}`

func firstPageElements(t *testing.T, doc map[string]any) []any {
	t.Helper()
	pages, ok := doc["pages"].([]any)
	if !ok || len(pages) != 1 {
		t.Fatalf("expected one page, got %v", doc["pages"])
	}
	els, ok := pages[0].(map[string]any)["elements"].([]any)
	if !ok {
		t.Fatalf("page has no element list")
	}
	return els
}

func TestMigrateLegacyBoard(t *testing.T) {
	out, results, err := Default().Migrate(decode(t, legacyBoard))
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if len(results) != 5 {
		t.Errorf("expected 5 applied steps, got %d", len(results))
	}
	if out["version"] != "6" {
		t.Errorf("expected version 6, got %v", out["version"])
	}
	if _, ok := out["elements"]; ok {
		t.Error("top-level elements should be gone")
	}

	pages := out["pages"].([]any)
	page := pages[0].(map[string]any)
	if page["id"] != LegacyPageID || page["title"] != "Page 1" || page["readonly"] != false {
		t.Errorf("unexpected legacy page %v", page)
	}

	els := firstPageElements(t, out)
	note := els[0].(map[string]any)
	if note["order"] != float64(0) || note["version"] != float64(1) {
		t.Errorf("note order/version = %v/%v", note["order"], note["version"])
	}
	if note["x2"] != float64(10+elements.NoteWidth) {
		t.Errorf("note x2 = %v", note["x2"])
	}
	if note["y2"] != 20+elements.NoteHeight("hi", 16) {
		t.Errorf("note y2 = %v", note["y2"])
	}
	if _, ok := note["selected"]; ok {
		t.Error("transient selected flag should be dropped")
	}

	img := els[1].(map[string]any)
	if img["assetId"] != "asset_i1" {
		t.Errorf("image assetId = %v", img["assetId"])
	}
	if _, ok := img["dataUrl"]; ok {
		t.Error("inline data url should be moved to assets")
	}
	assets := out["assets"].(map[string]any)
	if assets["asset_i1"] != "data:image/png;base64,AAAA" {
		t.Errorf("assets = %v", assets)
	}

	arrow := els[2].(map[string]any)
	if arrow["startArrowhead"] != "none" || arrow["endArrowhead"] != "arrow" {
		t.Errorf("arrowheads not renamed: %v", arrow)
	}
	if _, ok := arrow["endArrow"]; ok {
		t.Error("old arrowhead key should be removed")
	}
	if arrow["version"] != float64(3) {
		t.Errorf("existing version should be kept, got %v", arrow["version"])
	}
	if arrow["order"] != float64(2) {
		t.Errorf("arrow order = %v", arrow["order"])
	}

	state := out["appState"].(map[string]any)
	if state["grid"] != true || state["snapToElements"] != true || state["objectDimensions"] != false {
		t.Errorf("appState defaults = %v", state)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	m := Default()
	once, _, err := m.Migrate(decode(t, legacyBoard))
	if err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	twice, results, err := m.Migrate(once)
	if err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("current document should not run steps, ran %d", len(results))
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("migrating twice changed the document:\n%v\n%v", once, twice)
	}
}

func TestMigrateDoesNotModifyInput(t *testing.T) {
	in := decode(t, legacyBoard)
	before := decode(t, legacyBoard)
	if _, _, err := Default().Migrate(in); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if !reflect.DeepEqual(in, before) {
		t.Error("input document was modified")
	}
}

func TestVersion(t *testing.T) {
	m := Default()
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{"string", `{"version": "4"}`, 4},
		{"number", `{"version": 3}`, 3},
		{"missing", `{}`, 1},
		{"garbage", `{"version": "v2"}`, 1},
		{"future", `{"version": "99"}`, 1},
		{"zero", `{"version": "0"}`, 1},
		{"current", `{"version": "6"}`, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Version(decode(t, tt.doc)); got != tt.want {
				t.Errorf("Version() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMigrateUnknownVersionRunsFullChain(t *testing.T) {
	doc := decode(t, `{"version": "v9", "elements": [{"id": "x", "type": "shape"}]}`)
	out, results, err := Default().Migrate(doc)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if len(results) != 5 {
		t.Errorf("expected full chain, ran %d steps", len(results))
	}
	if len(firstPageElements(t, out)) != 1 {
		t.Error("element should survive the migration")
	}
}

func TestMigrateRejectsNewerVersion(t *testing.T) {
	for _, raw := range []string{`"99"`, `7`} {
		doc := decode(t, `{"version": `+raw+`, "pages": [{"id": "p", "elements": []}]}`)
		out, results, err := Default().Migrate(doc)
		if !errors.Is(err, ErrMigration) {
			t.Fatalf("Migrate(%s) error = %v, want ErrMigration", raw, err)
		}
		var merr *Error
		if !errors.As(err, &merr) || merr.From <= Default().CurrentVersion() {
			t.Errorf("Migrate(%s) error = %#v", raw, err)
		}
		if out != nil || len(results) != 0 {
			t.Errorf("Migrate(%s) ran %d steps", raw, len(results))
		}
	}
}

func TestMigrateMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"pages not a list", `{"version": "2", "pages": "nope"}`},
		{"page not an object", `{"version": "3", "pages": [1]}`},
		{"elements not a list", `{"version": "4", "pages": [{"id": "p", "elements": {}}]}`},
		{"element not an object", `{"version": "5", "pages": [{"id": "p", "elements": ["x"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Default().Migrate(decode(t, tt.doc))
			if !errors.Is(err, ErrMigration) {
				t.Fatalf("expected ErrMigration, got %v", err)
			}
			var merr *Error
			if !errors.As(err, &merr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if merr.Step == "" {
				t.Error("failing step should be named")
			}
		})
	}
}

func TestRegisterSorts(t *testing.T) {
	m := NewMigrator(3)
	var order []int
	step := func(from int) Migration {
		return Migration{FromVersion: from, ToVersion: from + 1, Migrate: func(doc map[string]any) (map[string]any, error) {
			order = append(order, from)
			return doc, nil
		}}
	}
	m.Register(step(2))
	m.Register(step(1))
	if _, _, err := m.Migrate(map[string]any{"version": "1"}); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if !reflect.DeepEqual(order, []int{1, 2}) {
		t.Errorf("steps ran in order %v", order)
	}
}
