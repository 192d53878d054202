package editor

import (
	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/scene"
)

// SetActivePage switches pages. The gesture in progress is cancelled and
// text edit ends first. Switching is a view change and is not persisted.
func (e *Editor) SetActivePage(id string) error {
	if err := e.settle(); err != nil {
		return err
	}
	if err := e.scene.SetActivePage(id); err != nil {
		return err
	}
	e.pasteCount = 0
	e.scene.Update()
	return nil
}

func (e *Editor) AddPage(title string) (*document.Page, error) {
	if err := e.settle(); err != nil {
		return nil, err
	}
	p := e.scene.AddPage(title)
	e.changed()
	return p, nil
}

func (e *Editor) RemovePage(id string) error {
	return e.pageOp(func() error { return e.scene.RemovePage(id) })
}

func (e *Editor) DuplicatePage(id string) (*document.Page, error) {
	var p *document.Page
	err := e.pageOp(func() (err error) {
		p, err = e.scene.DuplicatePage(id)
		return err
	})
	return p, err
}

func (e *Editor) MovePage(id string, index int) error {
	return e.pageOp(func() error { return e.scene.MovePage(id, index) })
}

func (e *Editor) UpdatePage(id string, u scene.PageUpdate) error {
	return e.pageOp(func() error { return e.scene.UpdatePage(id, u) })
}

// SetAppState replaces the board toggles: grid, element snapping and the
// dimensions overlay.
func (e *Editor) SetAppState(state document.AppState) error {
	return e.pageOp(func() error {
		e.scene.SetAppState(state)
		return nil
	})
}

func (e *Editor) pageOp(op func() error) error {
	if err := e.settle(); err != nil {
		return err
	}
	if err := op(); err != nil {
		return err
	}
	e.changed()
	return nil
}
