package scene

import (
	"fmt"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/typeid"
)

func newPageID() string { return typeid.NewPageID() }

// Pages returns the document's pages in display order.
func (s *Scene) Pages() []*document.Page { return s.doc.Pages }

// ActivePageID returns the id of the active page.
func (s *Scene) ActivePageID() string { return s.activePage }

// AddPage appends an empty page and makes it active.
func (s *Scene) AddPage(title string) *document.Page {
	if title == "" {
		title = fmt.Sprintf("Page %d", len(s.doc.Pages)+1)
	}
	p := document.NewPage(newPageID(), title)
	s.doc.Pages = append(s.doc.Pages, p)
	_ = s.SetActivePage(p.ID)
	return p
}

// RemovePage deletes a page and its history. The only page of a document
// cannot be removed. When the active page goes, its neighbor becomes active.
func (s *Scene) RemovePage(id string) error {
	idx := s.doc.PageIndex(id)
	if idx < 0 {
		return &document.PageNotFoundError{ID: id}
	}
	if len(s.doc.Pages) == 1 {
		s.logger.Debug("refused removal of the only page", "page", id)
		return ErrLastPage
	}

	s.doc.Pages = append(s.doc.Pages[:idx], s.doc.Pages[idx+1:]...)
	delete(s.histories, id)
	if s.activePage == id {
		s.activePage = s.doc.Pages[max(0, idx-1)].ID
		s.ClearSelection()
	}
	return nil
}

// DuplicatePage inserts a copy of a page right after it. Elements get new
// ids so that ids stay unique across the document.
func (s *Scene) DuplicatePage(id string) (*document.Page, error) {
	src, err := s.doc.Page(id)
	if err != nil {
		return nil, err
	}
	dup := document.NewPage(newPageID(), src.Title+" (copy)")
	dup.Readonly = src.Readonly
	dup.TranslateX, dup.TranslateY, dup.Zoom = src.TranslateX, src.TranslateY, src.Zoom
	dup.Elements = CopyElements(src.Elements, 0, 0)
	for i, el := range dup.Elements {
		el.Order = src.Elements[i].Order
		el.Version = src.Elements[i].Version
	}
	normalizeOrder(dup)

	idx := s.doc.PageIndex(id)
	pages := make([]*document.Page, 0, len(s.doc.Pages)+1)
	pages = append(pages, s.doc.Pages[:idx+1]...)
	pages = append(pages, dup)
	pages = append(pages, s.doc.Pages[idx+1:]...)
	s.doc.Pages = pages
	return dup, nil
}

// MovePage moves a page to index, clamped to the page range.
func (s *Scene) MovePage(id string, index int) error {
	idx := s.doc.PageIndex(id)
	if idx < 0 {
		return &document.PageNotFoundError{ID: id}
	}
	index = max(0, min(index, len(s.doc.Pages)-1))
	if index == idx {
		return nil
	}
	p := s.doc.Pages[idx]
	pages := append(s.doc.Pages[:idx:idx], s.doc.Pages[idx+1:]...)
	pages = append(pages[:index], append([]*document.Page{p}, pages[index:]...)...)
	s.doc.Pages = pages
	return nil
}

// PageUpdate holds the page properties to change. Nil fields are kept.
type PageUpdate struct {
	Title    *string
	Readonly *bool
}

// UpdatePage renames a page or toggles its readonly flag.
func (s *Scene) UpdatePage(id string, u PageUpdate) error {
	p, err := s.doc.Page(id)
	if err != nil {
		return err
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Readonly != nil {
		p.Readonly = *u.Readonly
	}
	return nil
}

// SetAppState replaces the board-wide editing toggles.
func (s *Scene) SetAppState(state document.AppState) {
	s.doc.AppState = state
}
