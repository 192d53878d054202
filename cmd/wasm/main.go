//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/editor"
	"github.com/inamate/drawboard/internal/fileio"
	"github.com/inamate/drawboard/internal/protocol"
	"github.com/inamate/drawboard/internal/scene"
	"github.com/inamate/drawboard/internal/typeid"
)

var (
	ed  *editor.Editor
	lib = fileio.NewLibrary()

	// Callbacks registered by the page.
	onPersist js.Value
	onRedraw  js.Value
)

func main() {
	newEditor(document.NewEmptyDocument(typeid.NewDocumentID(), "Untitled", typeid.NewPageID()))

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	api.Set("loadLibrary", js.FuncOf(loadLibrary))
	api.Set("dispatch", js.FuncOf(dispatch))
	api.Set("addLibraryItem", js.FuncOf(addLibraryItem))
	api.Set("setCallbacks", js.FuncOf(setCallbacks))

	// --- Queries (frontend ← editor) ---
	api.Set("getView", js.FuncOf(getView))
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("getLibrary", js.FuncOf(getLibrary))

	js.Global().Set("drawboardEditor", api)
	js.Global().Set("drawboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func newEditor(doc *document.Document) {
	s := scene.New(doc, scene.NotifierFuncs{
		Persist: func(doc *document.Document) {
			if onPersist.Type() != js.TypeFunction {
				return
			}
			data, err := fileio.MarshalDocument(doc)
			if err != nil {
				return
			}
			onPersist.Invoke(string(data))
		},
		Redraw: func() {
			if onRedraw.Type() == js.TypeFunction {
				onRedraw.Invoke()
			}
		},
	}, nil)
	ed = editor.New(s, editor.Options{})
}

func result(err error) any {
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(map[string]any{"ok": true})
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing document JSON"})
	}
	doc, err := fileio.ParseDocument([]byte(args[0].String()))
	if err != nil {
		return result(err)
	}
	newEditor(doc)
	return result(nil)
}

func loadSampleDocument(this js.Value, args []js.Value) any {
	id := typeid.NewDocumentID()
	if len(args) > 0 && args[0].Type() == js.TypeString {
		id = args[0].String()
	}
	newEditor(document.NewSampleDocument(id))
	return result(nil)
}

func loadLibrary(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing library JSON"})
	}
	l, err := fileio.ParseLibrary([]byte(args[0].String()))
	if err != nil {
		return result(err)
	}
	lib = l
	return result(nil)
}

// dispatch applies one protocol message, given as JSON.
func dispatch(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing message JSON"})
	}
	var msg protocol.Message
	if err := json.Unmarshal([]byte(args[0].String()), &msg); err != nil {
		return result(err)
	}
	return result(protocol.Apply(context.Background(), ed, libraryItems{lib}, &msg))
}

func addLibraryItem(this js.Value, args []js.Value) any {
	name := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}
	_, err := ed.AddLibraryItem(lib, name)
	return result(err)
}

// setCallbacks registers onPersist(documentJSON) and onRedraw().
func setCallbacks(this js.Value, args []js.Value) any {
	if len(args) > 0 {
		onPersist = args[0]
	}
	if len(args) > 1 {
		onRedraw = args[1]
	}
	return nil
}

// --- Query Handlers ---

func getView(this js.Value, args []js.Value) any {
	return marshal(protocol.NewView(ed))
}

func getDocument(this js.Value, args []js.Value) any {
	data, err := fileio.MarshalDocument(ed.Scene().Document())
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(string(data))
}

func getLibrary(this js.Value, args []js.Value) any {
	data, err := fileio.MarshalLibrary(lib)
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(string(data))
}

func marshal(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(string(data))
}

type libraryItems struct{ lib *fileio.Library }

func (l libraryItems) Item(id string) (*fileio.LibraryItem, bool) {
	it := l.lib.Item(id)
	return it, it != nil
}
