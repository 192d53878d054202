package scene

import (
	"fmt"
	"sort"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/geom"
	"github.com/inamate/drawboard/internal/history"
	"github.com/inamate/drawboard/internal/typeid"
)

// AddElements puts elements on top of the active page and records one
// CREATE entry, returned so that a creation gesture can patch it when it
// ends. Empty ids are generated; ids already used in the document are refused.
func (s *Scene) AddElements(elements []*document.Element) (*history.Entry, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, nil
	}

	seen := map[string]bool{}
	for _, el := range elements {
		if el.ID == "" {
			el.ID = typeid.NewElementID()
		}
		if existing, _ := s.doc.FindElement(el.ID); existing != nil || seen[el.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, el.ID)
		}
		seen[el.ID] = true
	}

	p := s.Page()
	for i, el := range elements {
		el.Order = len(p.Elements) + i
		if el.Version < 1 {
			el.Version = 1
		}
	}
	p.Elements = append(p.Elements, elements...)

	entry := history.NewCreate(elements)
	s.History().Push(entry)
	return entry, nil
}

// RetractCreate undoes a CREATE entry that is still the most recent one
// without leaving anything to redo. Used for abandoned creations.
func (s *Scene) RetractCreate(entry *history.Entry) bool {
	if entry == nil || entry.Type != history.EntryCreate || !s.History().Retract(entry) {
		return false
	}
	removeFromPage(s.Page(), entry.IDs())
	return true
}

// RemoveElements deletes the elements and records one REMOVE entry with
// their full state. A group left with a single member is dissolved in the
// same entry.
func (s *Scene) RemoveElements(ids []string) (*history.Entry, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	removed, err := s.elementsByID(ids)
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return nil, nil
	}

	p := s.Page()
	gone := map[string]bool{}
	removedIDs := make([]string, len(removed))
	for i, el := range removed {
		gone[el.ID] = true
		removedIDs[i] = el.ID
	}
	remaining := map[string][]*document.Element{}
	for _, el := range p.Elements {
		if el.Group != "" && !gone[el.ID] {
			remaining[el.Group] = append(remaining[el.Group], el)
		}
	}

	entry := history.NewRemove(removed)
	for _, members := range remaining {
		if len(members) != 1 {
			continue
		}
		el := members[0]
		entry.Changes = append(entry.Changes, history.Change{
			ID:         el.ID,
			PrevValues: map[string]any{document.FieldGroup: el.Group},
			NewValues:  map[string]any{document.FieldGroup: ""},
		})
		el.Group = ""
	}
	sort.Slice(entry.Changes, func(i, j int) bool { return entry.Changes[i].ID < entry.Changes[j].ID })

	removeFromPage(p, removedIDs)
	s.repairActiveGroup()
	s.History().Push(entry)
	return entry, nil
}

// UpdateElements writes values onto every element and records one UPDATE
// entry holding only the elements that actually changed. With bumpVersion
// each changed element's version is incremented as part of the same entry.
// Order and version are refused: z-order changes only through reordering.
func (s *Scene) UpdateElements(ids []string, values map[string]any, bumpVersion bool) (*history.Entry, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	targets, err := s.elementsByID(ids)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(values)+1)
	for k := range values {
		if !document.IsField(k) {
			return nil, fmt.Errorf("update elements: %w: %q", document.ErrUnknownField, k)
		}
		if k == document.FieldOrder || k == document.FieldVersion {
			return nil, fmt.Errorf("update elements: %w: %q", document.ErrProtectedField, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if bumpVersion {
		keys = append(keys, document.FieldVersion)
	}

	staged := make([]*document.Element, len(targets))
	for i, el := range targets {
		c := el.Clone()
		if err := c.Apply(values); err != nil {
			return nil, fmt.Errorf("update %s: %w", el.ID, err)
		}
		staged[i] = c
	}

	var changes []history.Change
	for i, el := range targets {
		if _, changed := history.Diff(el, staged[i], keys); !changed {
			continue
		}
		if bumpVersion {
			staged[i].Version++
		}
		change, _ := history.Diff(el, staged[i], keys)
		_ = el.Apply(staged[i].Values(keys))
		changes = append(changes, change)
	}
	if len(changes) == 0 {
		return nil, nil
	}

	entry := history.NewUpdate(changes)
	s.History().Push(entry)
	return entry, nil
}

// Selection returns the selected elements of the active page by order.
func (s *Scene) Selection() []*document.Element {
	var out []*document.Element
	for _, el := range s.Page().Elements {
		if el.Selected {
			out = append(out, el)
		}
	}
	return out
}

func (s *Scene) SelectionIDs() []string {
	var ids []string
	for _, el := range s.Selection() {
		ids = append(ids, el.ID)
	}
	return ids
}

// SetSelection selects exactly the elements whose normalized bounds touch r.
func (s *Scene) SetSelection(r geom.Rect) []*document.Element {
	var out []*document.Element
	for _, el := range s.Page().Elements {
		el.Selected = el.Bounds().Intersects(r)
		if el.Selected {
			out = append(out, el)
		}
	}
	return out
}

// SelectElements adds the elements to the selection.
func (s *Scene) SelectElements(ids []string) error {
	els, err := s.elementsByID(ids)
	if err != nil {
		return err
	}
	for _, el := range els {
		el.Selected = true
	}
	return nil
}

// ClearSelection deselects every element of the active page.
func (s *Scene) ClearSelection() {
	for _, el := range s.Page().Elements {
		el.Selected = false
	}
}

// SelectAll selects every unlocked element in scope: the members of the
// active group when one is entered, otherwise the whole page.
func (s *Scene) SelectAll() []*document.Element {
	p := s.Page()
	var out []*document.Element
	for _, el := range p.Elements {
		el.Selected = !el.Locked && (p.ActiveGroup == "" || el.Group == p.ActiveGroup)
		if el.Selected {
			out = append(out, el)
		}
	}
	return out
}

// SelectionBounds returns the union of the selected elements' bounds.
func (s *Scene) SelectionBounds() (geom.Rect, bool) {
	sel := s.Selection()
	rects := make([]geom.Rect, len(sel))
	for i, el := range sel {
		rects[i] = el.Bounds()
	}
	return geom.BoundsOf(rects)
}

// DuplicateElements copies the elements with fresh ids, offset by (dx, dy),
// and selects the copies. Groups are remapped to new group ids; a group
// with a single copied member is not carried over.
func (s *Scene) DuplicateElements(ids []string, dx, dy float64) ([]*document.Element, *history.Entry, error) {
	if err := s.writable(); err != nil {
		return nil, nil, err
	}
	originals, err := s.elementsByID(ids)
	if err != nil {
		return nil, nil, err
	}
	copies := CopyElements(originals, dx, dy)

	entry, err := s.AddElements(copies)
	if err != nil {
		return nil, nil, err
	}
	s.ClearSelection()
	for _, el := range copies {
		el.Selected = true
	}
	return copies, entry, nil
}

// CopyElements returns detached copies with new element and group ids,
// shifted by (dx, dy). Transient flags are cleared.
func CopyElements(elements []*document.Element, dx, dy float64) []*document.Element {
	counts := map[string]int{}
	for _, el := range elements {
		if el.Group != "" {
			counts[el.Group]++
		}
	}
	groups := map[string]string{}
	out := make([]*document.Element, len(elements))
	for i, el := range elements {
		c := el.Clone()
		c.ID = typeid.NewElementID()
		c.X1 += dx
		c.X2 += dx
		c.Y1 += dy
		c.Y2 += dy
		c.Version = 1
		c.Selected, c.Editing, c.Creating, c.Erased = false, false, false, false
		switch {
		case c.Group == "":
		case counts[c.Group] < 2:
			c.Group = ""
		default:
			g, ok := groups[c.Group]
			if !ok {
				g = typeid.NewGroupID()
				groups[c.Group] = g
			}
			c.Group = g
		}
		out[i] = c
	}
	return out
}

// LockElements marks the elements locked. Locked elements cannot be moved,
// resized or erased.
func (s *Scene) LockElements(ids []string) (*history.Entry, error) {
	return s.UpdateElements(ids, map[string]any{document.FieldLocked: true}, true)
}

func (s *Scene) UnlockElements(ids []string) (*history.Entry, error) {
	return s.UpdateElements(ids, map[string]any{document.FieldLocked: false}, true)
}
