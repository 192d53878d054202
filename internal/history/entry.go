package history

import (
	"fmt"
	"sort"

	"github.com/inamate/drawboard/internal/document"
)

// EntryType identifies the kind of mutation an entry reverses.
type EntryType string

const (
	EntryCreate EntryType = "CREATE"
	EntryUpdate EntryType = "UPDATE"
	EntryRemove EntryType = "REMOVE"
)

// Change is the field-level diff of one element.
type Change struct {
	ID         string         `json:"id"`
	PrevValues map[string]any `json:"prevValues"`
	NewValues  map[string]any `json:"newValues"`
}

// Entry is one reversible step: a completed gesture or an atomic keyboard action.
//
// CREATE and REMOVE entries carry full element copies so that undo/redo can
// re-insert them; UPDATE entries carry only the fields that changed. A CREATE
// or REMOVE may also carry Changes to other elements made in the same step,
// such as clearing a group left with a single member.
type Entry struct {
	Type     EntryType
	Elements []*document.Element
	Changes  []Change
}

// NewCreate records the creation of elements. The elements are copied.
func NewCreate(elements []*document.Element) *Entry {
	return &Entry{Type: EntryCreate, Elements: snapshot(elements)}
}

// NewRemove records the removal of elements with their full pre-removal state.
func NewRemove(elements []*document.Element) *Entry {
	return &Entry{Type: EntryRemove, Elements: snapshot(elements)}
}

// NewUpdate records field changes.
func NewUpdate(changes []Change) *Entry {
	return &Entry{Type: EntryUpdate, Changes: changes}
}

// Patch replaces the stored element copies of a CREATE entry with the
// current state of the elements. Used when a creation gesture ends, so the
// entry holds the final geometry and no UPDATE follows right after it.
func (e *Entry) Patch(elements []*document.Element) {
	e.Elements = snapshot(elements)
}

// IDs returns the ids of every element the entry touches.
func (e *Entry) IDs() []string {
	var ids []string
	for _, el := range e.Elements {
		ids = append(ids, el.ID)
	}
	for _, c := range e.Changes {
		ids = append(ids, c.ID)
	}
	return ids
}

// Description returns a short human-readable summary.
func (e *Entry) Description() string {
	n := len(e.Elements)
	if e.Type == EntryUpdate {
		n = len(e.Changes)
	}
	if n == 1 {
		return fmt.Sprintf("%s 1 element", e.Type)
	}
	return fmt.Sprintf("%s %d elements", e.Type, n)
}

// Diff builds a Change for the given keys between before and after. ok is
// false when none of the keys differ.
func Diff(before, after *document.Element, keys []string) (Change, bool) {
	prev := before.Values(keys)
	next := after.Values(keys)
	changed := false
	for _, k := range keys {
		if !equalValue(prev[k], next[k]) {
			changed = true
			break
		}
	}
	return Change{ID: after.ID, PrevValues: prev, NewValues: next}, changed
}

// Keys returns the sorted union of field keys touched by the change.
func (c Change) Keys() []string {
	seen := map[string]bool{}
	for k := range c.PrevValues {
		seen[k] = true
	}
	for k := range c.NewValues {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func snapshot(elements []*document.Element) []*document.Element {
	out := make([]*document.Element, len(elements))
	for i, el := range elements {
		c := el.Clone()
		c.Selected = false
		c.Editing = false
		c.Creating = false
		c.Erased = false
		out[i] = c
	}
	return out
}

func equalValue(a, b any) bool {
	pa, okA := a.([][2]float64)
	pb, okB := b.([][2]float64)
	if okA || okB {
		if len(pa) != len(pb) {
			return false
		}
		for i := range pa {
			if pa[i] != pb[i] {
				return false
			}
		}
		return true
	}
	return a == b
}
