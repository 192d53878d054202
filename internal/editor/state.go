package editor

import (
	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/elements"
	"github.com/inamate/drawboard/internal/geom"
	"github.com/inamate/drawboard/internal/history"
	"github.com/inamate/drawboard/internal/snap"
)

// State is the gesture the editor is in. The editor returns to StateIdle
// after every gesture.
type State int

const (
	StateIdle State = iota
	StatePointing
	StateCreating
	StateTranslating
	StateResizing
	StateDragging
	StateBrushing
	StateErasing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePointing:
		return "pointing"
	case StateCreating:
		return "creating"
	case StateTranslating:
		return "translating"
	case StateResizing:
		return "resizing"
	case StateDragging:
		return "dragging"
	case StateBrushing:
		return "brushing"
	case StateErasing:
		return "erasing"
	default:
		return "unknown"
	}
}

// Tool is the active tool. Creation tools are named after the element type
// they create.
type Tool string

const (
	ToolSelect  Tool = "select"
	ToolPan     Tool = "pan"
	ToolEraser  Tool = "eraser"
	ToolShape   Tool = Tool(document.ElementTypeShape)
	ToolArrow   Tool = Tool(document.ElementTypeArrow)
	ToolDraw    Tool = Tool(document.ElementTypeDraw)
	ToolText    Tool = Tool(document.ElementTypeText)
	ToolNote    Tool = Tool(document.ElementTypeNote)
	ToolSticker Tool = Tool(document.ElementTypeSticker)
)

// PointerEvent is a raw pointer event from the renderer. X and Y are screen
// coordinates relative to the canvas. ElementID and Handle identify what the
// renderer hit under the pointer, if anything.
type PointerEvent struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Shift     bool    `json:"shift"`
	Ctrl      bool    `json:"ctrl"`
	Meta      bool    `json:"meta"`
	Alt       bool    `json:"alt"`
	Button    int     `json:"button"`
	ElementID string  `json:"elementId,omitempty"`
	Handle    string  `json:"handle,omitempty"`
}

// InteractionContext is the state of the gesture in progress. It is reset
// when the gesture ends or is cancelled.
type InteractionContext struct {
	// Snapshots of the elements a gesture mutates, taken at pointer-down.
	Snapshots map[string]*document.Element
	// SnapshotBounds is the union of the snapshot bounds.
	SnapshotBounds geom.Rect

	// Active is the element being created.
	Active      *document.Element
	CreateEntry *history.Entry

	Origin       geom.Point
	ScreenOrigin geom.Point
	PanBaseline  geom.Point
	Last         geom.Point

	Handle elements.HandleType
	Moved  bool

	Brush          geom.Rect
	BrushSelection []string

	Snapper *snap.Engine

	// Target is the element under the pointer at pointer-down.
	Target string
	// SelectedOnDown is set when pointer-down selected Target, so that the
	// click resolving on pointer-up does not toggle it back.
	SelectedOnDown bool
}

func (c *InteractionContext) reset() {
	*c = InteractionContext{}
}

// textEdit is the element whose text is being edited. It outlives the
// gesture that started it.
type textEdit struct {
	id          string
	snapshot    *document.Element
	createEntry *history.Entry
}
