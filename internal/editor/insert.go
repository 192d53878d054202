package editor

import (
	"strings"
	"time"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/elements"
	"github.com/inamate/drawboard/internal/fileio"
	"github.com/inamate/drawboard/internal/geom"
	"github.com/inamate/drawboard/internal/scene"
	"github.com/inamate/drawboard/internal/typeid"
)

// InsertImage stores an uploaded image as an asset and places it, scaled to
// fit, centered on at or on the canvas.
func (e *Editor) InsertImage(assetID, dataURL string, width, height float64, at *geom.Point) (*document.Element, error) {
	if err := e.settle(); err != nil {
		return nil, err
	}
	if e.scene.Page().Readonly {
		return nil, scene.ErrReadonly
	}
	if assetID == "" {
		assetID = typeid.NewAssetID()
	}
	el, err := e.registry.New(document.ElementTypeImage, typeid.NewElementID(), 0, 0, e.defaults)
	if err != nil {
		return nil, err
	}
	el.AssetID = assetID
	elements.FitImage(el, 0, 0, width, height)
	e.place(el, el.Width(), el.Height(), at)

	if dataURL != "" {
		e.scene.Document().Assets[assetID] = dataURL
	}
	if err := e.insert(el); err != nil {
		return nil, err
	}
	return el, nil
}

// InsertLibraryItem places a library-item element referencing item, sized to
// the item's bounds.
func (e *Editor) InsertLibraryItem(item *fileio.LibraryItem, at *geom.Point) (*document.Element, error) {
	if err := e.settle(); err != nil {
		return nil, err
	}
	if e.scene.Page().Readonly {
		return nil, scene.ErrReadonly
	}
	el, err := e.registry.New(document.ElementTypeLibraryItem, typeid.NewElementID(), 0, 0, e.defaults)
	if err != nil {
		return nil, err
	}
	el.LibraryItemID = item.ID
	el.Title = item.Name
	b := item.Bounds()
	e.place(el, max(b.Width, 1), max(b.Height, 1), at)
	if err := e.insert(el); err != nil {
		return nil, err
	}
	return el, nil
}

// AddLibraryItem stores a copy of the selection in lib, moved so that its
// bounds start at the origin.
func (e *Editor) AddLibraryItem(lib *fileio.Library, name string) (*fileio.LibraryItem, error) {
	if err := e.settle(); err != nil {
		return nil, err
	}
	sel := e.scene.Selection()
	if len(sel) == 0 {
		return nil, ErrEmptySelection
	}
	b := boundsOf(sel)
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled"
	}
	item := &fileio.LibraryItem{
		ID:        typeid.NewItemID(),
		Name:      name,
		Elements:  scene.CopyElements(sel, -b.X, -b.Y),
		CreatedAt: time.Now().UTC(),
	}
	lib.Items = append(lib.Items, item)
	return item, nil
}
