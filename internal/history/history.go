// Package history records reversible, field-level diffs of board elements
// and replays them for undo and redo.
package history

import (
	"errors"
	"fmt"
	"sort"

	"github.com/inamate/drawboard/internal/document"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Target is the element collection entries are replayed against. Elements
// are always re-fetched by id; object identity is not stable across replays.
type Target interface {
	Element(id string) *document.Element
	// InsertElements places the elements at their stored order, shifting
	// later elements up.
	InsertElements(elements []*document.Element)
	RemoveElements(ids []string)
}

// History holds the undo and redo stacks of a single page.
// It is not safe for concurrent use.
type History struct {
	undoStack []*Entry
	redoStack []*Entry
}

func New() *History {
	return &History{}
}

// Push records a new entry and clears the redo stack.
func (h *History) Push(e *Entry) {
	if e == nil {
		return
	}
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil
}

// Undo reverts the most recent entry and moves it to the redo stack.
func (h *History) Undo(t Target) (*Entry, error) {
	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	if err := revert(t, e); err != nil {
		return nil, fmt.Errorf("undo %s: %w", e.Type, err)
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return e, nil
}

// Redo reapplies the most recently undone entry.
func (h *History) Redo(t Target) (*Entry, error) {
	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	if err := reapply(t, e); err != nil {
		return nil, fmt.Errorf("redo %s: %w", e.Type, err)
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return e, nil
}

// Retract drops e when it is the most recent entry. Used when a gesture that
// already recorded a CREATE is abandoned.
func (h *History) Retract(e *Entry) bool {
	if len(h.undoStack) == 0 || h.undoStack[len(h.undoStack)-1] != e {
		return false
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	return true
}

// Peek returns the most recent entry without removing it.
func (h *History) Peek() *Entry {
	if len(h.undoStack) == 0 {
		return nil
	}
	return h.undoStack[len(h.undoStack)-1]
}

func (h *History) CanUndo() bool  { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool  { return len(h.redoStack) > 0 }
func (h *History) UndoCount() int { return len(h.undoStack) }
func (h *History) RedoCount() int { return len(h.redoStack) }

func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

func revert(t Target, e *Entry) error {
	prev := func(c Change) map[string]any { return c.PrevValues }
	switch e.Type {
	case EntryCreate:
		if err := resolve(t, e.Changes); err != nil {
			return err
		}
		t.RemoveElements(elementIDs(e.Elements))
		return applyChanges(t, e.Changes, prev)
	case EntryRemove:
		if err := resolve(t, e.Changes); err != nil {
			return err
		}
		t.InsertElements(ascendingOrder(e.Elements))
		return applyChanges(t, e.Changes, prev)
	case EntryUpdate:
		return applyChanges(t, e.Changes, prev)
	default:
		return fmt.Errorf("unknown entry type %q", e.Type)
	}
}

func reapply(t Target, e *Entry) error {
	next := func(c Change) map[string]any { return c.NewValues }
	switch e.Type {
	case EntryCreate:
		if err := resolve(t, e.Changes); err != nil {
			return err
		}
		t.InsertElements(ascendingOrder(e.Elements))
		return applyChanges(t, e.Changes, next)
	case EntryRemove:
		if err := applyChanges(t, e.Changes, next); err != nil {
			return err
		}
		t.RemoveElements(elementIDs(e.Elements))
		return nil
	case EntryUpdate:
		return applyChanges(t, e.Changes, next)
	default:
		return fmt.Errorf("unknown entry type %q", e.Type)
	}
}

func resolve(t Target, changes []Change) error {
	for _, c := range changes {
		if t.Element(c.ID) == nil {
			return &document.ElementNotFoundError{ID: c.ID}
		}
	}
	return nil
}

// applyChanges resolves every element before touching any of them so that a
// missing id refuses the whole entry.
func applyChanges(t Target, changes []Change, values func(Change) map[string]any) error {
	if err := resolve(t, changes); err != nil {
		return err
	}
	targets := make([]*document.Element, len(changes))
	for i, c := range changes {
		targets[i] = t.Element(c.ID)
	}
	for i, c := range changes {
		staged := targets[i].Clone()
		if err := staged.Apply(values(c)); err != nil {
			return err
		}
	}
	for i, c := range changes {
		// Validated above.
		_ = targets[i].Apply(values(c))
	}
	return nil
}

func elementIDs(elements []*document.Element) []string {
	ids := make([]string, len(elements))
	for i, el := range elements {
		ids[i] = el.ID
	}
	return ids
}

// ascendingOrder returns fresh copies sorted by order, so that re-inserting
// them one by one restores the original positions.
func ascendingOrder(elements []*document.Element) []*document.Element {
	out := document.CloneElements(elements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
