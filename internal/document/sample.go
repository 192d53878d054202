package document

import (
	"github.com/inamate/drawboard/internal/typeid"
)

// NewSampleDocument creates the welcome board handed out to new users.
func NewSampleDocument(documentID string) *Document {
	doc := NewEmptyDocument(documentID, "Welcome", typeid.NewPageID())
	page := doc.Pages[0]

	rectID := typeid.NewElementID()
	ellipseID := typeid.NewElementID()
	arrowID := typeid.NewElementID()
	titleID := typeid.NewElementID()
	noteID := typeid.NewElementID()

	page.Elements = []*Element{
		{
			ID:      titleID,
			Type:    ElementTypeText,
			Order:   0,
			X1:      100,
			Y1:      60,
			X2:      420,
			Y2:      100,
			Version: 1,

			Text:      "Welcome to your board",
			TextColor: "#0d0f0e",
			TextFont:  "draw",
			TextSize:  32,
			TextAlign: "left",
		},
		{
			ID:      rectID,
			Type:    ElementTypeShape,
			Order:   1,
			X1:      100,
			Y1:      160,
			X2:      300,
			Y2:      280,
			Version: 1,

			Shape:       "rectangle",
			FillColor:   "#e94560",
			FillOpacity: 1,
			StrokeColor: "#0d0f0e",
			StrokeWidth: 4,
			StrokeStyle: "solid",
			Opacity:     1,
			Text:        "Drag me",
			TextColor:   "#0d0f0e",
			TextFont:    "draw",
			TextSize:    16,
			TextAlign:   "center",
		},
		{
			ID:      ellipseID,
			Type:    ElementTypeShape,
			Order:   2,
			X1:      460,
			Y1:      160,
			X2:      620,
			Y2:      280,
			Version: 1,

			Shape:       "ellipse",
			FillColor:   "#0f3460",
			FillOpacity: 1,
			StrokeColor: "#0d0f0e",
			StrokeWidth: 4,
			StrokeStyle: "solid",
			Opacity:     1,
		},
		{
			ID:      arrowID,
			Type:    ElementTypeArrow,
			Order:   3,
			X1:      300,
			Y1:      220,
			X2:      460,
			Y2:      220,
			Version: 1,

			StrokeColor:    "#0d0f0e",
			StrokeWidth:    4,
			StrokeStyle:    "solid",
			Opacity:        1,
			StartArrowhead: "none",
			EndArrowhead:   "arrow",
		},
		{
			ID:      noteID,
			Type:    ElementTypeNote,
			Order:   4,
			X1:      100,
			Y1:      340,
			X2:      340,
			Y2:      520,
			Version: 1,

			NoteColor: "#fde68a",
			Text:      "Double click a shape to edit its text.",
			TextFont:  "draw",
			TextSize:  16,
			TextAlign: "left",
			Opacity:   1,
		},
	}

	return doc
}
