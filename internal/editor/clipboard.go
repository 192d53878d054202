package editor

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/elements"
	"github.com/inamate/drawboard/internal/fileio"
	"github.com/inamate/drawboard/internal/geom"
	"github.com/inamate/drawboard/internal/scene"
	"github.com/inamate/drawboard/internal/typeid"
)

// Clipboard is the system clipboard. Failures are reported as
// document.ErrTransientIO and never touch the document.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
	ReadText(ctx context.Context) (string, error)
}

// MemoryClipboard is a process-local clipboard.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *MemoryClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

func (c *MemoryClipboard) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

// Copy writes the selection and the assets it references to the clipboard.
func (e *Editor) Copy(ctx context.Context) error {
	if err := e.settle(); err != nil {
		return err
	}
	sel := e.scene.Selection()
	if len(sel) == 0 {
		return nil
	}
	text, err := fileio.EncodeClipboard(sel, e.scene.Document().Assets)
	if err != nil {
		return err
	}
	if err := e.clipboard.WriteText(ctx, text); err != nil {
		return fmt.Errorf("copy: %w: %w", document.ErrTransientIO, err)
	}
	e.pasteCount = 0
	return nil
}

// Cut copies the selection, then deletes it. Nothing is deleted when the
// clipboard write fails.
func (e *Editor) Cut(ctx context.Context) error {
	if err := e.Copy(ctx); err != nil {
		return err
	}
	return e.DeleteSelection()
}

// Paste reads the clipboard and pastes its content, at the board point at
// when given.
func (e *Editor) Paste(ctx context.Context, at *geom.Point) error {
	text, err := e.clipboard.ReadText(ctx)
	if err != nil {
		return fmt.Errorf("paste: %w: %w", document.ErrTransientIO, err)
	}
	return e.OnPaste(text, at)
}

// OnPaste inserts pasted text. A clipboard payload is pasted as copies,
// offset by one grid unit per repeated paste unless at is given; a link
// becomes a bookmark; other text becomes a text element.
func (e *Editor) OnPaste(text string, at *geom.Point) error {
	if err := e.settle(); err != nil {
		return err
	}
	if e.scene.Page().Readonly {
		return scene.ErrReadonly
	}
	switch {
	case fileio.IsClipboardPayload(text):
		return e.pastePayload(text, at)
	case isLink(text):
		return e.pasteLink(strings.TrimSpace(text), at)
	case strings.TrimSpace(text) != "":
		return e.pasteText(strings.TrimRight(text, "\r\n"), at)
	}
	return nil
}

func (e *Editor) pastePayload(text string, at *geom.Point) error {
	payload, err := fileio.DecodeClipboard(text)
	if err != nil {
		return err
	}
	if len(payload.Elements) == 0 {
		return nil
	}

	var dx, dy float64
	if at != nil {
		b := boundsOf(payload.Elements)
		dx, dy = at.X-b.X, at.Y-b.Y
	} else {
		e.pasteCount++
		dx = e.gridSize * float64(e.pasteCount)
		dy = dx
	}
	copies := scene.CopyElements(payload.Elements, dx, dy)

	assets := e.scene.Document().Assets
	for id, data := range payload.Assets {
		if _, ok := assets[id]; !ok {
			assets[id] = data
		}
	}
	return e.insert(copies...)
}

func (e *Editor) pasteLink(link string, at *geom.Point) error {
	el, err := e.registry.New(document.ElementTypeBookmark, typeid.NewElementID(), 0, 0, e.defaults)
	if err != nil {
		return err
	}
	el.Link = link
	if u, err := url.Parse(link); err == nil {
		el.Title = u.Host
	}
	e.place(el, elements.BookmarkWidth, elements.BookmarkHeight, at)
	return e.insert(el)
}

func (e *Editor) pasteText(text string, at *geom.Point) error {
	el, err := e.registry.New(document.ElementTypeText, typeid.NewElementID(), 0, 0, e.defaults)
	if err != nil {
		return err
	}
	el.Text = text
	e.registry.TextChanged(el)
	e.place(el, el.Width(), el.Height(), at)
	return e.insert(el)
}

// place sizes el and centers it on at, or on the middle of the canvas.
func (e *Editor) place(el *document.Element, width, height float64, at *geom.Point) {
	c := e.viewCenter()
	if at != nil {
		c = *at
	}
	el.X1 = c.X - width/2
	el.Y1 = c.Y - height/2
	el.X2 = el.X1 + width
	el.Y2 = el.Y1 + height
}

// insert adds elements as one CREATE entry and selects them.
func (e *Editor) insert(els ...*document.Element) error {
	if _, err := e.scene.AddElements(els); err != nil {
		return err
	}
	e.scene.ClearSelection()
	for _, el := range els {
		el.Selected = true
	}
	e.changed()
	return nil
}

func isLink(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, " \t\n") {
		return false
	}
	u, err := url.Parse(text)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
