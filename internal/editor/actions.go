package editor

import (
	"errors"
	"fmt"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/history"
	"github.com/inamate/drawboard/internal/scene"
)

var ErrEmptySelection = fmt.Errorf("%w: nothing is selected", document.ErrUserInput)

// settle ends any gesture and text edit before a discrete action.
func (e *Editor) settle() error {
	e.cancelGesture()
	return e.EndEditing()
}

func (e *Editor) Undo() error {
	if err := e.settle(); err != nil {
		return err
	}
	if err := e.scene.Undo(); err != nil {
		return err
	}
	e.changed()
	return nil
}

func (e *Editor) Redo() error {
	if err := e.settle(); err != nil {
		return err
	}
	if err := e.scene.Redo(); err != nil {
		return err
	}
	e.changed()
	return nil
}

// after notifies when an action recorded an entry.
func (e *Editor) after(entry *history.Entry, err error) error {
	if err != nil {
		return err
	}
	if entry != nil {
		e.changed()
	} else {
		e.scene.Update()
	}
	return nil
}

// DeleteSelection removes the selected unlocked elements.
func (e *Editor) DeleteSelection() error {
	if err := e.settle(); err != nil {
		return err
	}
	var ids []string
	for _, el := range e.scene.Selection() {
		if !el.Locked {
			ids = append(ids, el.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return e.after(e.scene.RemoveElements(ids))
}

// DuplicateSelection copies the selection one grid unit down and right.
func (e *Editor) DuplicateSelection() error {
	if err := e.settle(); err != nil {
		return err
	}
	ids := e.scene.SelectionIDs()
	if len(ids) == 0 {
		return nil
	}
	_, entry, err := e.scene.DuplicateElements(ids, e.gridSize, e.gridSize)
	return e.after(entry, err)
}

func (e *Editor) SelectAll() error {
	if err := e.settle(); err != nil {
		return err
	}
	e.scene.SelectAll()
	e.scene.Update()
	return nil
}

func (e *Editor) GroupSelection() error {
	if err := e.settle(); err != nil {
		return err
	}
	_, entry, err := e.scene.GroupElements(e.scene.SelectionIDs())
	return e.after(entry, err)
}

func (e *Editor) UngroupSelection() error {
	if err := e.settle(); err != nil {
		return err
	}
	ids := e.scene.SelectionIDs()
	if len(ids) == 0 {
		return nil
	}
	return e.after(e.scene.UngroupElements(ids))
}

func (e *Editor) LockSelection() error {
	if err := e.settle(); err != nil {
		return err
	}
	return e.after(e.scene.LockElements(e.scene.SelectionIDs()))
}

func (e *Editor) UnlockSelection() error {
	if err := e.settle(); err != nil {
		return err
	}
	return e.after(e.scene.UnlockElements(e.scene.SelectionIDs()))
}

// Reorder applies one of the scene's z-order operations to the selection.
func (e *Editor) Reorder(op func(s *scene.Scene, ids []string) (*history.Entry, error)) error {
	if err := e.settle(); err != nil {
		return err
	}
	ids := e.scene.SelectionIDs()
	if len(ids) == 0 {
		return nil
	}
	return e.after(op(e.scene, ids))
}

// Nudge moves the selection by (dx, dy) as a single UPDATE entry.
func (e *Editor) Nudge(dx, dy float64) error {
	if err := e.settle(); err != nil {
		return err
	}
	sel := e.scene.Selection()
	if len(sel) == 0 || anyLocked(sel) {
		return nil
	}
	return e.after(e.mutate(sel, document.GeometryFields, func(el *document.Element) error {
		el.X1 += dx
		el.X2 += dx
		el.Y1 += dy
		el.Y2 += dy
		return nil
	}))
}

// SetElementsProperty sets one style or content field on the selection as a
// single UPDATE entry. Text variants refit their box to the new value.
func (e *Editor) SetElementsProperty(key string, value any) error {
	if !document.IsField(key) {
		return fmt.Errorf("set property: %w: %q", document.ErrUnknownField, key)
	}
	if !document.IsProperty(key) {
		return fmt.Errorf("set property: %w: %q", document.ErrProtectedField, key)
	}
	if err := e.settle(); err != nil {
		return err
	}
	sel := e.scene.Selection()
	if len(sel) == 0 {
		return nil
	}
	keys := append([]string{key}, document.GeometryFields...)
	return e.after(e.mutate(sel, keys, func(el *document.Element) error {
		if err := el.Set(key, value); err != nil {
			return err
		}
		if e.registry.EditsText(el.Type) {
			e.registry.TextChanged(el)
		}
		return nil
	}))
}

// mutate applies fn to every element and records the changed keys as one
// UPDATE entry. If fn fails, every element is restored.
func (e *Editor) mutate(els []*document.Element, keys []string, fn func(el *document.Element) error) (*history.Entry, error) {
	if e.scene.Page().Readonly {
		return nil, scene.ErrReadonly
	}
	snapshots := make([]*document.Element, len(els))
	for i, el := range els {
		snapshots[i] = el.Clone()
		if err := fn(el); err != nil {
			for j := 0; j <= i; j++ {
				*els[j] = *snapshots[j]
			}
			return nil, err
		}
	}

	keys = append(append([]string{}, keys...), document.FieldVersion)
	var changes []history.Change
	for i, el := range els {
		if _, changed := history.Diff(snapshots[i], el, keys); !changed {
			continue
		}
		el.Version = snapshots[i].Version + 1
		c, _ := history.Diff(snapshots[i], el, keys)
		changes = append(changes, c)
	}
	if len(changes) == 0 {
		return nil, nil
	}
	entry := history.NewUpdate(changes)
	e.scene.Record(entry)
	return entry, nil
}

// Escape cancels the gesture, leaves text edit and the active group and
// clears the selection.
func (e *Editor) Escape() error {
	if err := e.settle(); err != nil {
		return err
	}
	e.scene.ExitGroup()
	e.scene.ClearSelection()
	e.scene.Update()
	return nil
}

// ignoreEmpty turns an undo or redo on an empty stack into a no-op.
func ignoreEmpty(err error) error {
	if errors.Is(err, history.ErrNothingToUndo) || errors.Is(err, history.ErrNothingToRedo) {
		return nil
	}
	return err
}
