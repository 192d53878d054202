package elements

import (
	"github.com/inamate/drawboard/internal/document"
)

const (
	StickerSize    = 120
	BookmarkWidth  = 320
	BookmarkHeight = 100
	MaxImageSide   = 800
)

// Images are inserted from uploads, not drawn. Shift keeps the aspect ratio.
type imageBehavior struct{}

func (imageBehavior) Type() document.ElementType { return document.ElementTypeImage }

func (imageBehavior) Initialize(d Defaults) map[string]any {
	return map[string]any{"opacity": d.Opacity}
}

func (imageBehavior) Handles(el *document.Element) []Handle {
	return cornerHandles(el)
}

func (imageBehavior) OnResizeStart(el, snapshot *document.Element, p Pointer, pos PositionFunc) {}

func (imageBehavior) OnResize(el, snapshot *document.Element, p Pointer, pos PositionFunc) {
	if p.Shift {
		KeepAspect(el, snapshot, p.Handle)
	}
}

func (imageBehavior) OnResizeEnd(el, snapshot *document.Element, p Pointer, pos PositionFunc) {}

// FitImage places an image of the given natural size at (x, y), scaled down
// so that its longest side is at most MaxImageSide.
func FitImage(el *document.Element, x, y, width, height float64) {
	scale := 1.0
	if longest := max(width, height); longest > MaxImageSide {
		scale = MaxImageSide / longest
	}
	el.X1, el.Y1 = x, y
	el.X2, el.Y2 = x+width*scale, y+height*scale
}

// Bookmarks are created by pasting a link and have a fixed size.
type bookmarkBehavior struct{}

func (bookmarkBehavior) Type() document.ElementType { return document.ElementTypeBookmark }

func (bookmarkBehavior) Initialize(d Defaults) map[string]any {
	return map[string]any{
		"strokeColor": d.StrokeColor,
		"opacity":     d.Opacity,
	}
}

type stickerBehavior struct{}

func (stickerBehavior) Type() document.ElementType { return document.ElementTypeSticker }

func (stickerBehavior) Initialize(d Defaults) map[string]any {
	return map[string]any{
		"sticker": d.Sticker,
		"opacity": d.Opacity,
	}
}

func (stickerBehavior) OnCreateStart(el *document.Element, p Pointer, pos PositionFunc) {
	el.X2, el.Y2 = el.X1+StickerSize, el.Y1+StickerSize
}

func (stickerBehavior) OnCreateMove(el *document.Element, p Pointer, pos PositionFunc) {}

func (stickerBehavior) OnCreateEnd(el *document.Element, p Pointer, pos PositionFunc) {}

func (stickerBehavior) Handles(el *document.Element) []Handle {
	return cornerHandles(el)
}

func (stickerBehavior) OnResizeStart(el, snapshot *document.Element, p Pointer, pos PositionFunc) {}

func (stickerBehavior) OnResize(el, snapshot *document.Element, p Pointer, pos PositionFunc) {
	KeepAspect(el, snapshot, p.Handle)
}

func (stickerBehavior) OnResizeEnd(el, snapshot *document.Element, p Pointer, pos PositionFunc) {}

// Library items render a stored element group scaled into their box.
type libraryItemBehavior struct{}

func (libraryItemBehavior) Type() document.ElementType { return document.ElementTypeLibraryItem }

func (libraryItemBehavior) Handles(el *document.Element) []Handle {
	return cornerHandles(el)
}

func (libraryItemBehavior) OnResizeStart(el, snapshot *document.Element, p Pointer, pos PositionFunc) {
}

func (libraryItemBehavior) OnResize(el, snapshot *document.Element, p Pointer, pos PositionFunc) {
	KeepAspect(el, snapshot, p.Handle)
}

func (libraryItemBehavior) OnResizeEnd(el, snapshot *document.Element, p Pointer, pos PositionFunc) {
}
