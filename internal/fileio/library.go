package fileio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tidwall/gjson"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/geom"
)

const (
	LibraryType    = "drawboard/library"
	LibraryVersion = "1"
)

// LibraryItem is a reusable group of elements.
type LibraryItem struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Elements  []*document.Element `json:"elements"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Bounds is the union of the item's element bounds.
func (it *LibraryItem) Bounds() geom.Rect {
	rects := make([]geom.Rect, 0, len(it.Elements))
	for _, el := range it.Elements {
		rects = append(rects, el.Bounds())
	}
	b, _ := geom.BoundsOf(rects)
	return b
}

type Library struct {
	Type    string         `json:"type"`
	Version string         `json:"version"`
	Items   []*LibraryItem `json:"items"`
}

func NewLibrary() *Library {
	return &Library{Type: LibraryType, Version: LibraryVersion, Items: []*LibraryItem{}}
}

// Item returns the item with the given id, or nil.
func (l *Library) Item(id string) *LibraryItem {
	for _, it := range l.Items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// ParseLibrary decodes a library file.
func ParseLibrary(data []byte) (*Library, error) {
	if !gjson.ValidBytes(data) {
		return nil, malformed(ErrNotJSON)
	}
	if t := gjson.GetBytes(data, "type").String(); t != LibraryType {
		return nil, malformed(fmt.Errorf("%w: %q", ErrWrongType, t))
	}
	if !gjson.GetBytes(data, "items").IsArray() {
		return nil, malformed(errors.New("library has no item list"))
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, malformed(err)
	}
	for _, it := range lib.Items {
		if it.Elements == nil {
			it.Elements = []*document.Element{}
		}
	}
	lib.Version = LibraryVersion
	return &lib, nil
}

// LoadLibrary reads and parses a library from r.
func LoadLibrary(r io.Reader) (*Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read library: %w: %w", document.ErrTransientIO, err)
	}
	return ParseLibrary(data)
}

// MarshalLibrary encodes lib in the library file format.
func MarshalLibrary(lib *Library) ([]byte, error) {
	out := *lib
	out.Type = LibraryType
	out.Version = LibraryVersion
	if out.Items == nil {
		out.Items = []*LibraryItem{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode library: %w", err)
	}
	return data, nil
}

func SaveLibrary(w io.Writer, lib *Library) error {
	data, err := MarshalLibrary(lib)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write library: %w: %w", document.ErrTransientIO, err)
	}
	return nil
}
