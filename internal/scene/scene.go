// Package scene implements the operations of a board document: element
// CRUD, selection, grouping, z-order, pages and per-page undo/redo.
//
// Operations mutate the live document in place. They never notify on their
// own; callers signal DispatchChange for durable changes and Update for
// redraws once a logical step is complete.
package scene

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/history"
)

var (
	ErrLastPage    = fmt.Errorf("%w: cannot remove the only page", document.ErrUserInput)
	ErrReadonly    = fmt.Errorf("%w: page is readonly", document.ErrUserInput)
	ErrDuplicateID = fmt.Errorf("%w: element id already in use", document.ErrUserInput)
	ErrGroupSize   = fmt.Errorf("%w: a group needs at least two elements", document.ErrUserInput)
)

type Scene struct {
	doc        *document.Document
	activePage string
	histories  map[string]*history.History
	notifier   Notifier
	logger     *slog.Logger
}

// New wraps doc. The first page becomes active; a document without pages
// gets an empty one.
func New(doc *document.Document, notifier Notifier, logger *slog.Logger) *Scene {
	if notifier == nil {
		notifier = NotifierFuncs{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	doc.Normalize()
	if len(doc.Pages) == 0 {
		doc.Pages = append(doc.Pages, document.NewPage(newPageID(), "Page 1"))
	}
	s := &Scene{
		doc:        doc,
		activePage: doc.Pages[0].ID,
		histories:  map[string]*history.History{},
		notifier:   notifier,
		logger:     logger,
	}
	for _, p := range doc.Pages {
		normalizeOrder(p)
	}
	return s
}

func (s *Scene) Document() *document.Document { return s.doc }

// Page returns the active page.
func (s *Scene) Page() *document.Page {
	p, err := s.doc.Page(s.activePage)
	if err != nil {
		// The active id always points at an existing page.
		panic(err)
	}
	return p
}

// SetActivePage switches the active page. Selection and edit state of the
// previous page are cleared; undo/redo now report on the new page's stack.
func (s *Scene) SetActivePage(id string) error {
	if _, err := s.doc.Page(id); err != nil {
		return err
	}
	s.ClearSelection()
	s.activePage = id
	return nil
}

// History returns the undo/redo stacks of the active page.
func (s *Scene) History() *history.History {
	return s.historyOf(s.activePage)
}

func (s *Scene) historyOf(pageID string) *history.History {
	h, ok := s.histories[pageID]
	if !ok {
		h = history.New()
		s.histories[pageID] = h
	}
	return h
}

// Record pushes an entry recorded outside the scene, such as a finished
// gesture, onto the active page's history.
func (s *Scene) Record(e *history.Entry) {
	s.History().Push(e)
}

// DispatchChange signals a durable change. The document's updatedAt is
// refreshed before the notifier sees it.
func (s *Scene) DispatchChange() {
	s.doc.UpdatedAt = time.Now().UTC()
	s.notifier.OnPersist(s.doc)
}

// Update signals that the renderer should redraw.
func (s *Scene) Update() {
	s.notifier.OnRedraw()
}

func (s *Scene) CanUndo() bool { return s.History().CanUndo() }
func (s *Scene) CanRedo() bool { return s.History().CanRedo() }

// Undo reverts the most recent entry of the active page.
func (s *Scene) Undo() error {
	if err := s.writable(); err != nil {
		return err
	}
	if _, err := s.History().Undo(s.target()); err != nil {
		return err
	}
	sortByOrder(s.Page().Elements)
	s.ClearSelection()
	s.repairActiveGroup()
	return nil
}

// Redo reapplies the most recently undone entry of the active page.
func (s *Scene) Redo() error {
	if err := s.writable(); err != nil {
		return err
	}
	if _, err := s.History().Redo(s.target()); err != nil {
		return err
	}
	sortByOrder(s.Page().Elements)
	s.ClearSelection()
	s.repairActiveGroup()
	return nil
}

func (s *Scene) writable() error {
	if s.Page().Readonly {
		s.logger.Debug("refused mutation of readonly page", "page", s.activePage)
		return ErrReadonly
	}
	return nil
}

func (s *Scene) target() history.Target {
	return pageTarget{page: s.Page()}
}

// pageTarget replays history entries against one page.
type pageTarget struct {
	page *document.Page
}

func (t pageTarget) Element(id string) *document.Element {
	return t.page.Element(id)
}

func (t pageTarget) InsertElements(elements []*document.Element) {
	insertAtOrder(t.page, elements)
}

func (t pageTarget) RemoveElements(ids []string) {
	removeFromPage(t.page, ids)
}

// insertAtOrder places each element at its stored order and shifts the
// elements at or above it up by one.
func insertAtOrder(p *document.Page, elements []*document.Element) {
	for _, el := range elements {
		el.Order = max(0, min(el.Order, len(p.Elements)))
		for _, other := range p.Elements {
			if other.Order >= el.Order {
				other.Order++
			}
		}
		p.Elements = append(p.Elements, el)
	}
	sortByOrder(p.Elements)
}

func removeFromPage(p *document.Page, ids []string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := p.Elements[:0]
	for _, el := range p.Elements {
		if !drop[el.ID] {
			kept = append(kept, el)
		}
	}
	for i := len(kept); i < len(p.Elements); i++ {
		p.Elements[i] = nil
	}
	p.Elements = kept
	normalizeOrder(p)
}

// normalizeOrder makes order contiguous 0..n-1, keeping the relative order.
func normalizeOrder(p *document.Page) {
	sortByOrder(p.Elements)
	for i, el := range p.Elements {
		el.Order = i
	}
}

func sortByOrder(elements []*document.Element) {
	sort.SliceStable(elements, func(i, j int) bool { return elements[i].Order < elements[j].Order })
}

// repairActiveGroup exits a group that no longer has members.
func (s *Scene) repairActiveGroup() {
	p := s.Page()
	if p.ActiveGroup != "" && !p.HasGroup(p.ActiveGroup) {
		p.ActiveGroup = ""
	}
}

// Element returns the element with id on the active page.
func (s *Scene) Element(id string) (*document.Element, error) {
	if el := s.Page().Element(id); el != nil {
		return el, nil
	}
	return nil, &document.ElementNotFoundError{ID: id}
}

// elementsByID resolves every id or fails without side effects.
func (s *Scene) elementsByID(ids []string) ([]*document.Element, error) {
	out := make([]*document.Element, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		el, err := s.Element(id)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	sortByOrder(out)
	return out, nil
}
