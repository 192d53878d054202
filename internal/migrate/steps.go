package migrate

import (
	"fmt"

	"github.com/inamate/drawboard/internal/elements"
)

// LegacyPageID is the id given to the single page of a version 1 board.
const LegacyPageID = "page_legacy"

func steps() []Migration {
	return []Migration{
		{FromVersion: 1, ToVersion: 2, Description: "wrap elements into pages", Migrate: wrapPages},
		{FromVersion: 2, ToVersion: 3, Description: "move inline images to assets", Migrate: extractAssets},
		{FromVersion: 3, ToVersion: 4, Description: "add element order and version", Migrate: addOrder},
		{FromVersion: 4, ToVersion: 5, Description: "size notes from their text", Migrate: sizeNotes},
		{FromVersion: 5, ToVersion: 6, Description: "rename arrowheads and drop transient fields", Migrate: renameArrowheads},
	}
}

// Version 1 boards held a single element list at the top level.
func wrapPages(doc map[string]any) (map[string]any, error) {
	if _, ok := doc["pages"]; ok {
		delete(doc, "elements")
		return doc, nil
	}
	els, _ := doc["elements"].([]any)
	if els == nil {
		els = []any{}
	}
	doc["pages"] = []any{map[string]any{
		"id":       LegacyPageID,
		"title":    "Page 1",
		"elements": els,
		"readonly": false,
	}}
	delete(doc, "elements")
	return doc, nil
}

// Images used to carry their data URL inline; it now lives in the assets
// map keyed by asset id.
func extractAssets(doc map[string]any) (map[string]any, error) {
	assets, _ := doc["assets"].(map[string]any)
	if assets == nil {
		assets = map[string]any{}
	}
	err := forEachElement(doc, func(el map[string]any) error {
		if el["type"] != "image" {
			return nil
		}
		url, ok := el["dataUrl"].(string)
		if !ok {
			if url, ok = el["src"].(string); !ok {
				return nil
			}
		}
		id, _ := el["id"].(string)
		assetID, _ := el["assetId"].(string)
		if assetID == "" {
			assetID = "asset_" + id
		}
		assets[assetID] = url
		el["assetId"] = assetID
		delete(el, "dataUrl")
		delete(el, "src")
		return nil
	})
	if err != nil {
		return nil, err
	}
	doc["assets"] = assets
	return doc, nil
}

// order became the authoritative z-order; older boards relied on the
// position in the element list.
func addOrder(doc map[string]any) (map[string]any, error) {
	pages, err := pagesOf(doc)
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		els, err := elementsOf(page)
		if err != nil {
			return nil, err
		}
		for i, el := range els {
			if _, ok := el["order"].(float64); !ok {
				el["order"] = float64(i)
			}
			if v, ok := el["version"].(float64); !ok || v < 1 {
				el["version"] = float64(1)
			}
		}
		if _, ok := page["readonly"].(bool); !ok {
			page["readonly"] = false
		}
	}
	return doc, nil
}

// Notes used to be sized by the renderer; they now store both corners.
func sizeNotes(doc map[string]any) (map[string]any, error) {
	err := forEachElement(doc, func(el map[string]any) error {
		if el["type"] != "note" {
			return nil
		}
		x1, _ := el["x1"].(float64)
		y1, _ := el["y1"].(float64)
		text, _ := el["text"].(string)
		size, ok := el["textSize"].(float64)
		if !ok || size <= 0 {
			size = elements.DefaultToolOptions().TextSize
			el["textSize"] = size
		}
		el["x2"] = x1 + elements.NoteWidth
		el["y2"] = y1 + elements.NoteHeight(text, size)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

var transientFields = []string{"selected", "editing", "creating", "erased"}

func renameArrowheads(doc map[string]any) (map[string]any, error) {
	err := forEachElement(doc, func(el map[string]any) error {
		for old, name := range map[string]string{"startArrow": "startArrowhead", "endArrow": "endArrowhead"} {
			if v, ok := el[old]; ok {
				if _, exists := el[name]; !exists {
					el[name] = v
				}
				delete(el, old)
			}
		}
		for _, f := range transientFields {
			delete(el, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	state, _ := doc["appState"].(map[string]any)
	if state == nil {
		state = map[string]any{}
	}
	for key, def := range map[string]bool{"grid": true, "snapToElements": true, "objectDimensions": false} {
		if _, ok := state[key].(bool); !ok {
			state[key] = def
		}
	}
	doc["appState"] = state
	return doc, nil
}

func pagesOf(doc map[string]any) ([]map[string]any, error) {
	raw, ok := doc["pages"]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("pages is %T, not a list", raw)
	}
	out := make([]map[string]any, 0, len(list))
	for i, p := range list {
		page, ok := p.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("page %d is %T, not an object", i, p)
		}
		out = append(out, page)
	}
	return out, nil
}

func elementsOf(page map[string]any) ([]map[string]any, error) {
	raw, ok := page["elements"]
	if !ok || raw == nil {
		page["elements"] = []any{}
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("elements of page %v is %T, not a list", page["id"], raw)
	}
	out := make([]map[string]any, 0, len(list))
	for i, e := range list {
		el, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d of page %v is %T, not an object", i, page["id"], e)
		}
		out = append(out, el)
	}
	return out, nil
}

func forEachElement(doc map[string]any, fn func(el map[string]any) error) error {
	pages, err := pagesOf(doc)
	if err != nil {
		return err
	}
	for _, page := range pages {
		els, err := elementsOf(page)
		if err != nil {
			return err
		}
		for _, el := range els {
			if err := fn(el); err != nil {
				return err
			}
		}
	}
	return nil
}
