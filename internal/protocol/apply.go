package protocol

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/editor"
	"github.com/inamate/drawboard/internal/fileio"
)

var ErrUnknownMessage = fmt.Errorf("%w: unknown message type", document.ErrUserInput)

// ItemSource resolves library items for library.insert.
type ItemSource interface {
	Item(id string) (*fileio.LibraryItem, bool)
}

// Apply runs one renderer message against ed. Library items are resolved
// through items, which may be nil.
func Apply(ctx context.Context, ed *editor.Editor, items ItemSource, msg *Message) error {
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var ev editor.PointerEvent
		if err := decode(msg, &ev); err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerDown:
			return ed.OnPointerDown(ev)
		case TypePointerMove:
			ed.OnPointerMove(ev)
			return nil
		default:
			return ed.OnPointerUp(ev)
		}
	case TypePointerLeave:
		ed.OnPointerLeave()
		return nil
	case TypeKeyDown:
		var k editor.KeyEvent
		if err := decode(msg, &k); err != nil {
			return err
		}
		return ed.OnKeyDown(ctx, k)
	case TypeDoubleClick:
		var p DoubleClickPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return ed.OnDoubleClickElement(p.ElementID)
	case TypePaste:
		var p PastePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return ed.OnPaste(p.Text, p.At)
	case TypeCanvasResize:
		var p ResizePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		ed.OnResize(p.Width, p.Height)
		return nil
	case TypeToolSet:
		var p ToolPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return ed.SetTool(p.Tool)
	case TypeTextSet:
		var p TextPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return ed.SetEditingText(p.ElementID, p.Text)
	case TypeUndo:
		return ed.Undo()
	case TypeRedo:
		return ed.Redo()
	case TypeZoomSet:
		var p ZoomPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		ed.SetZoom(p.Zoom, p.Anchor)
		return nil
	case TypeElementProperty:
		var p PropertyPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return ed.SetElementsProperty(p.Key, p.Value)
	case TypeImageInsert:
		var p ImagePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		_, err := ed.InsertImage(p.AssetID, p.DataURL, p.Width, p.Height, p.At)
		return err
	case TypeLibraryInsert:
		var p LibraryInsertPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		var item *fileio.LibraryItem
		ok := false
		if items != nil {
			item, ok = items.Item(p.ItemID)
		}
		if !ok {
			return fmt.Errorf("insert library item %s: %w", p.ItemID, document.ErrNotFound)
		}
		_, err := ed.InsertLibraryItem(item, p.At)
		return err
	case TypePageSet:
		var p PagePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return ed.SetActivePage(p.PageID)
	case TypePageAdd:
		var p PagePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		_, err := ed.AddPage(p.Title)
		return err
	case TypeAppState:
		var p document.AppState
		if err := decode(msg, &p); err != nil {
			return err
		}
		return ed.SetAppState(p)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", document.ErrUserInput, msg.Type, err)
	}
	return nil
}
