package editor

import (
	"context"
	"strings"

	"github.com/inamate/drawboard/internal/scene"
)

// KeyEvent is a key-down from the renderer. Key follows the DOM key names
// ("a", "ArrowUp", "Escape", ...).
type KeyEvent struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Alt   bool   `json:"alt"`
}

func (k KeyEvent) command() bool { return k.Ctrl || k.Meta }

var toolKeys = map[string]Tool{
	"v": ToolSelect,
	"h": ToolPan,
	"e": ToolEraser,
	"r": ToolShape,
	"a": ToolArrow,
	"p": ToolDraw,
	"t": ToolText,
	"n": ToolNote,
	"s": ToolSticker,
}

// OnKeyDown runs the shortcut bound to k. While text is edited only Escape
// and undo/redo are handled; everything else belongs to the text input.
func (e *Editor) OnKeyDown(ctx context.Context, k KeyEvent) error {
	key := strings.ToLower(k.Key)
	if e.editing != nil {
		if k.Key == "Escape" {
			return e.EndEditing()
		}
		if !k.command() || (key != "z" && key != "y") {
			return nil
		}
	}

	if k.command() {
		switch key {
		case "z":
			if k.Shift {
				return ignoreEmpty(e.Redo())
			}
			return ignoreEmpty(e.Undo())
		case "y":
			return ignoreEmpty(e.Redo())
		case "a":
			return e.SelectAll()
		case "d":
			return e.DuplicateSelection()
		case "c":
			return e.Copy(ctx)
		case "x":
			return e.Cut(ctx)
		case "v":
			return e.Paste(ctx, nil)
		case "g":
			if k.Shift {
				return e.UngroupSelection()
			}
			return e.GroupSelection()
		case "l":
			if k.Shift {
				return e.UnlockSelection()
			}
			return e.LockSelection()
		case "]":
			return e.Reorder((*scene.Scene).BringToFront)
		case "[":
			return e.Reorder((*scene.Scene).SendToBack)
		case "=", "+":
			e.ZoomIn()
		case "-":
			e.ZoomOut()
		case "0":
			e.ResetZoom()
		}
		return nil
	}

	step := e.gridSize
	if k.Shift {
		step = 1
	}
	switch k.Key {
	case "Delete", "Backspace":
		return e.DeleteSelection()
	case "Escape":
		return e.Escape()
	case "ArrowUp":
		return e.Nudge(0, -step)
	case "ArrowDown":
		return e.Nudge(0, step)
	case "ArrowLeft":
		return e.Nudge(-step, 0)
	case "ArrowRight":
		return e.Nudge(step, 0)
	case "]":
		return e.Reorder((*scene.Scene).BringElementsForward)
	case "[":
		return e.Reorder((*scene.Scene).SendElementsBackward)
	}
	if t, ok := toolKeys[key]; ok && !k.Alt {
		return e.SetTool(t)
	}
	return nil
}
