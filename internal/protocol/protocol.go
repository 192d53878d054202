// Package protocol defines the messages exchanged with the renderer and
// applies renderer input to an editor.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/editor"
	"github.com/inamate/drawboard/internal/elements"
	"github.com/inamate/drawboard/internal/geom"
	"github.com/inamate/drawboard/internal/snap"
)

type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Renderer input
	TypePointerDown     = "pointer.down"
	TypePointerMove     = "pointer.move"
	TypePointerUp       = "pointer.up"
	TypePointerLeave    = "pointer.leave"
	TypeKeyDown         = "key.down"
	TypeDoubleClick     = "element.dblclick"
	TypePaste           = "paste"
	TypeCanvasResize    = "canvas.resize"
	TypeToolSet         = "tool.set"
	TypeTextSet         = "text.set"
	TypeUndo            = "undo"
	TypeRedo            = "redo"
	TypeZoomSet         = "zoom.set"
	TypeElementProperty = "element.property"
	TypeImageInsert     = "image.insert"
	TypeLibraryInsert   = "library.insert"
	TypePageSet         = "page.set"
	TypePageAdd         = "page.add"
	TypeAppState        = "appstate.set"

	// Server
	TypeWelcome     = "welcome"
	TypeSceneUpdate = "scene.update"
	TypeSceneSaved  = "scene.saved"
	TypeError       = "error"
)

type DoubleClickPayload struct {
	ElementID string `json:"elementId"`
}

type PastePayload struct {
	Text string      `json:"text"`
	At   *geom.Point `json:"at,omitempty"`
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ToolPayload struct {
	Tool editor.Tool `json:"tool"`
}

type TextPayload struct {
	ElementID string `json:"elementId"`
	Text      string `json:"text"`
}

type ZoomPayload struct {
	Zoom   float64    `json:"zoom"`
	Anchor geom.Point `json:"anchor"`
}

type PropertyPayload struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type ImagePayload struct {
	AssetID string      `json:"assetId"`
	DataURL string      `json:"dataUrl"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	At      *geom.Point `json:"at,omitempty"`
}

type LibraryInsertPayload struct {
	ItemID string      `json:"itemId"`
	At     *geom.Point `json:"at,omitempty"`
}

type PagePayload struct {
	PageID string `json:"pageId,omitempty"`
	Title  string `json:"title,omitempty"`
}

type WelcomePayload struct {
	ClientID string            `json:"clientId"`
	BoardID  string            `json:"boardId"`
	Title    string            `json:"title"`
	Assets   map[string]string `json:"assets"`
	View     *View             `json:"view"`
}

type SavedPayload struct {
	Revision  string    `json:"revision"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PageInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Readonly bool   `json:"readonly"`
}

// View is what the renderer needs to draw the board after a change.
type View struct {
	State           string              `json:"state"`
	Tool            editor.Tool         `json:"tool"`
	Editing         string              `json:"editing,omitempty"`
	PageID          string              `json:"pageId"`
	Elements        []*document.Element `json:"elements"`
	Zoom            float64             `json:"zoom"`
	TranslateX      float64             `json:"translateX"`
	TranslateY      float64             `json:"translateY"`
	Selection       []string            `json:"selection"`
	SelectionBounds *geom.Rect          `json:"selectionBounds,omitempty"`
	Handles         []elements.Handle   `json:"handles,omitempty"`
	Guides          []snap.Guide        `json:"guides,omitempty"`
	Brush           *geom.Rect          `json:"brush,omitempty"`
	CanUndo         bool                `json:"canUndo"`
	CanRedo         bool                `json:"canRedo"`
	AppState        document.AppState   `json:"appState"`
	Pages           []PageInfo          `json:"pages"`
}

// NewView captures what the renderer draws for the editor's current state.
func NewView(ed *editor.Editor) *View {
	s := ed.Scene()
	p := s.Page()
	v := &View{
		State:      ed.State().String(),
		Tool:       ed.Tool(),
		Editing:    ed.Editing(),
		PageID:     p.ID,
		Elements:   p.Elements,
		Zoom:       p.Zoom,
		TranslateX: p.TranslateX,
		TranslateY: p.TranslateY,
		Selection:  s.SelectionIDs(),
		Handles:    ed.Handles(),
		Guides:     ed.Guides(),
		CanUndo:    s.CanUndo(),
		CanRedo:    s.CanRedo(),
		AppState:   s.Document().AppState,
	}
	if v.Selection == nil {
		v.Selection = []string{}
	}
	if b, ok := ed.SelectionBounds(); ok && v.AppState.ObjectDimensions {
		v.SelectionBounds = &b
	}
	if b, ok := ed.Brush(); ok {
		v.Brush = &b
	}
	for _, pg := range s.Pages() {
		v.Pages = append(v.Pages, PageInfo{ID: pg.ID, Title: pg.Title, Readonly: pg.Readonly})
	}
	return v
}

// NewMessage builds a message with payload encoded as JSON.
func NewMessage(typ string, seq int64, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: typ, Seq: seq, Payload: data}
}
