package editor

import (
	"fmt"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/history"
	"github.com/inamate/drawboard/internal/scene"
)

var ErrNotEditing = fmt.Errorf("%w: element is not being edited", document.ErrUserInput)

// OnDoubleClickElement enters the group of a grouped element, or starts
// editing the text of an element that has any.
func (e *Editor) OnDoubleClickElement(id string) error {
	e.cancelGesture()
	el, err := e.scene.Element(id)
	if err != nil {
		return err
	}
	page := e.scene.Page()

	if el.Group != "" && el.Group != page.ActiveGroup {
		if err := e.EndEditing(); err != nil {
			return err
		}
		if err := e.scene.EnterGroup(el.Group); err != nil {
			return err
		}
		e.scene.ClearSelection()
		el.Selected = true
		e.scene.Update()
		return nil
	}

	if !e.registry.EditsText(el.Type) || el.Locked || e.Editing() == id {
		return nil
	}
	if err := e.EndEditing(); err != nil {
		return err
	}
	e.scene.ClearSelection()
	el.Selected = true
	return e.startEditing(el, nil)
}

// startEditing puts el in text edit. createEntry is the CREATE entry of a
// freshly created element, patched instead of recording an UPDATE.
func (e *Editor) startEditing(el *document.Element, createEntry *history.Entry) error {
	if e.scene.Page().Readonly {
		return scene.ErrReadonly
	}
	el.Editing = true
	e.editing = &textEdit{id: el.ID, snapshot: el.Clone(), createEntry: createEntry}
	e.scene.Update()
	return nil
}

// SetEditingText replaces the text of the element being edited.
func (e *Editor) SetEditingText(id, text string) error {
	if e.editing == nil || e.editing.id != id {
		return ErrNotEditing
	}
	el, err := e.scene.Element(id)
	if err != nil {
		return err
	}
	el.Text = text
	e.registry.TextChanged(el)
	e.scene.Update()
	return nil
}

// EndEditing leaves text edit. An element whose variant drops empty text is
// removed: a fresh one by retracting its CREATE entry, an existing one by a
// REMOVE entry holding its pre-edit state.
func (e *Editor) EndEditing() error {
	if e.editing == nil {
		return nil
	}
	ed := e.editing
	e.editing = nil

	el := e.scene.Page().Element(ed.id)
	if el == nil {
		return nil
	}
	el.Editing = false

	if e.registry.DropWhenEmpty(el) {
		if e.scene.RetractCreate(ed.createEntry) {
			e.changed()
			return nil
		}
		*el = *ed.snapshot.Clone()
		el.Editing = false
		if _, err := e.scene.RemoveElements([]string{el.ID}); err != nil {
			return err
		}
		e.changed()
		return nil
	}

	if ed.createEntry != nil {
		ed.createEntry.Patch([]*document.Element{el})
		e.changed()
		return nil
	}

	keys := append([]string{document.FieldText}, document.GeometryFields...)
	if _, changed := history.Diff(ed.snapshot, el, keys); !changed {
		e.scene.Update()
		return nil
	}
	el.Version = ed.snapshot.Version + 1
	c, _ := history.Diff(ed.snapshot, el, keys)
	e.scene.Record(history.NewUpdate([]history.Change{c}))
	e.changed()
	return nil
}
