package elements

import (
	"github.com/inamate/drawboard/internal/document"
)

const (
	// MinTextWidth keeps an empty text element clickable while it is edited.
	MinTextWidth = 4

	NoteWidth     = 200
	NoteMinHeight = 200
	NotePadding   = 16
)

type textBehavior struct{}

func (textBehavior) Type() document.ElementType { return document.ElementTypeText }

func (textBehavior) Initialize(d Defaults) map[string]any {
	return map[string]any{
		"text":      "",
		"textColor": d.TextColor,
		"textFont":  d.TextFont,
		"textSize":  d.TextSize,
		"textAlign": "left",
		"opacity":   d.Opacity,
	}
}

// Text is placed with a click; its box always follows the content.
func (textBehavior) OnCreateStart(el *document.Element, p Pointer, pos PositionFunc) {
	FitText(el)
}

func (textBehavior) OnCreateMove(el *document.Element, p Pointer, pos PositionFunc) {}

func (textBehavior) OnCreateEnd(el *document.Element, p Pointer, pos PositionFunc) {
	FitText(el)
}

func (textBehavior) OnTextChange(el *document.Element) { FitText(el) }

func (textBehavior) DropWhenEmpty() bool { return true }

// FitText sizes a text element to its measured content, keeping (x1, y1).
func FitText(el *document.Element) {
	w, h := MeasureText(el.Text, el.TextSize)
	el.X2 = el.X1 + max(w, MinTextWidth)
	el.Y2 = el.Y1 + h
}

type noteBehavior struct{}

func (noteBehavior) Type() document.ElementType { return document.ElementTypeNote }

func (noteBehavior) Initialize(d Defaults) map[string]any {
	return map[string]any{
		"noteColor": d.NoteColor,
		"text":      "",
		"textFont":  d.TextFont,
		"textSize":  d.TextSize,
		"textAlign": "left",
		"opacity":   d.Opacity,
	}
}

func (noteBehavior) OnCreateStart(el *document.Element, p Pointer, pos PositionFunc) {
	FitNote(el)
}

func (noteBehavior) OnCreateMove(el *document.Element, p Pointer, pos PositionFunc) {}

func (noteBehavior) OnCreateEnd(el *document.Element, p Pointer, pos PositionFunc) {
	FitNote(el)
}

func (noteBehavior) OnTextChange(el *document.Element) { FitNote(el) }

func (noteBehavior) DropWhenEmpty() bool { return false }

// FitNote gives a note its fixed width and grows its height to fit the
// wrapped text.
func FitNote(el *document.Element) {
	el.X2 = el.X1 + NoteWidth
	el.Y2 = el.Y1 + NoteHeight(el.Text, el.TextSize)
}

// NoteHeight is the height a note needs for text at size.
func NoteHeight(text string, size float64) float64 {
	lines := WrapText(text, size, NoteWidth-2*NotePadding)
	_, lineHeight := MeasureText("", size)
	return max(NoteMinHeight, lineHeight*float64(len(lines))+2*NotePadding)
}
