package document

import (
	"time"
)

// DocumentType is the value of the "type" field of every persisted board.
const DocumentType = "drawboard"

// CurrentVersion is the schema version written by this build. Loaders run
// older documents through the migrate package before decoding them.
const CurrentVersion = "6"

type Document struct {
	Type       string            `json:"type"`
	Version    string            `json:"version"`
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Pages      []*Page           `json:"pages"`
	Assets     map[string]string `json:"assets"`
	Background string            `json:"background"`
	AppState   AppState          `json:"appState"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// AppState holds the board-wide editing toggles.
type AppState struct {
	Grid             bool `json:"grid"`
	SnapToElements   bool `json:"snapToElements"`
	ObjectDimensions bool `json:"objectDimensions"`
}

type Page struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Elements []*Element `json:"elements"`
	Readonly bool       `json:"readonly"`

	// Editing state, not persisted.
	ActiveGroup string  `json:"-"`
	TranslateX  float64 `json:"-"`
	TranslateY  float64 `json:"-"`
	Zoom        float64 `json:"-"`
}

// NewPage creates an empty page with an identity viewport.
func NewPage(id, title string) *Page {
	return &Page{
		ID:       id,
		Title:    title,
		Elements: []*Element{},
		Zoom:     1,
	}
}

// NewEmptyDocument creates an empty document with a single page.
func NewEmptyDocument(documentID, title, pageID string) *Document {
	now := time.Now().UTC()
	return &Document{
		Type:       DocumentType,
		Version:    CurrentVersion,
		ID:         documentID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
		Pages:      []*Page{NewPage(pageID, "Page 1")},
		Assets:     map[string]string{},
		Background: "#ffffff",
		AppState: AppState{
			Grid:           true,
			SnapToElements: true,
		},
	}
}

// Normalize fills in defaults that a decoded document may be missing.
func (d *Document) Normalize() {
	if d.Type == "" {
		d.Type = DocumentType
	}
	if d.Assets == nil {
		d.Assets = map[string]string{}
	}
	for _, p := range d.Pages {
		if p.Zoom <= 0 {
			p.Zoom = 1
		}
		if p.Elements == nil {
			p.Elements = []*Element{}
		}
	}
}

// Page returns the page with the given id.
func (d *Document) Page(id string) (*Page, error) {
	for _, p := range d.Pages {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, &PageNotFoundError{ID: id}
}

// PageIndex returns the index of the page with the given id, or -1.
func (d *Document) PageIndex(id string) int {
	for i, p := range d.Pages {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// FindElement looks an element up across every page.
func (d *Document) FindElement(id string) (*Element, *Page) {
	for _, p := range d.Pages {
		if el := p.Element(id); el != nil {
			return el, p
		}
	}
	return nil, nil
}

// Element returns the element with the given id, or nil.
func (p *Page) Element(id string) *Element {
	for _, el := range p.Elements {
		if el.ID == id {
			return el
		}
	}
	return nil
}

// HasGroup reports whether any element of the page carries group.
func (p *Page) HasGroup(group string) bool {
	if group == "" {
		return false
	}
	for _, el := range p.Elements {
		if el.Group == group {
			return true
		}
	}
	return false
}

// ElementsInGroup returns every element sharing group.
func (p *Page) ElementsInGroup(group string) []*Element {
	var out []*Element
	if group == "" {
		return out
	}
	for _, el := range p.Elements {
		if el.Group == group {
			out = append(out, el)
		}
	}
	return out
}
