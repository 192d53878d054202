package scene

import (
	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/history"
)

// BringElementsForward moves each element one step up, past the next
// element that is not being moved.
func (s *Scene) BringElementsForward(ids []string) (*history.Entry, error) {
	return s.reorder(ids, func(list []*document.Element, moving map[string]bool) {
		for i := len(list) - 2; i >= 0; i-- {
			if moving[list[i].ID] && !moving[list[i+1].ID] {
				list[i], list[i+1] = list[i+1], list[i]
			}
		}
	})
}

// SendElementsBackward moves each element one step down.
func (s *Scene) SendElementsBackward(ids []string) (*history.Entry, error) {
	return s.reorder(ids, func(list []*document.Element, moving map[string]bool) {
		for i := 1; i < len(list); i++ {
			if moving[list[i].ID] && !moving[list[i-1].ID] {
				list[i], list[i-1] = list[i-1], list[i]
			}
		}
	})
}

// BringToFront moves the elements above every other element, keeping their
// relative order.
func (s *Scene) BringToFront(ids []string) (*history.Entry, error) {
	return s.reorder(ids, func(list []*document.Element, moving map[string]bool) {
		partition(list, moving, false)
	})
}

// SendToBack moves the elements below every other element.
func (s *Scene) SendToBack(ids []string) (*history.Entry, error) {
	return s.reorder(ids, func(list []*document.Element, moving map[string]bool) {
		partition(list, moving, true)
	})
}

// partition stably splits list into moving and still elements, placing the
// moving ones first when first is set.
func partition(list []*document.Element, moving map[string]bool, first bool) {
	var head, tail []*document.Element
	for _, el := range list {
		if moving[el.ID] == first {
			head = append(head, el)
		} else {
			tail = append(tail, el)
		}
	}
	copy(list, append(head, tail...))
}

// reorder permutes a copy of the page's z-order, then writes the new dense
// order back and records the elements whose order changed.
func (s *Scene) reorder(ids []string, permute func(list []*document.Element, moving map[string]bool)) (*history.Entry, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	if _, err := s.elementsByID(ids); err != nil {
		return nil, err
	}
	moving := make(map[string]bool, len(ids))
	for _, id := range ids {
		moving[id] = true
	}

	p := s.Page()
	normalizeOrder(p)
	list := make([]*document.Element, len(p.Elements))
	copy(list, p.Elements)
	permute(list, moving)

	var changes []history.Change
	keys := []string{document.FieldOrder}
	for i, el := range list {
		if el.Order == i {
			continue
		}
		changes = append(changes, history.Change{
			ID:         el.ID,
			PrevValues: el.Values(keys),
			NewValues:  map[string]any{document.FieldOrder: i},
		})
		el.Order = i
	}
	sortByOrder(p.Elements)
	if len(changes) == 0 {
		return nil, nil
	}

	entry := history.NewUpdate(changes)
	s.History().Push(entry)
	return entry, nil
}
