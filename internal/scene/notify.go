package scene

import (
	"sync"

	"github.com/inamate/drawboard/internal/document"
)

// Notifier receives the two change signals of a scene. OnPersist marks a
// durable change and is expected to be debounced by the receiver; OnRedraw
// fires for every change the renderer must show, committed or not.
type Notifier interface {
	OnPersist(doc *document.Document)
	OnRedraw()
}

// NotifierFuncs adapts plain functions to Notifier. Nil fields are skipped.
type NotifierFuncs struct {
	Persist func(doc *document.Document)
	Redraw  func()
}

func (f NotifierFuncs) OnPersist(doc *document.Document) {
	if f.Persist != nil {
		f.Persist(doc)
	}
}

func (f NotifierFuncs) OnRedraw() {
	if f.Redraw != nil {
		f.Redraw()
	}
}

// RecordingNotifier is a test-friendly Notifier that counts every signal.
type RecordingNotifier struct {
	mu       sync.Mutex
	Persists int
	Redraws  int
}

func (r *RecordingNotifier) OnPersist(*document.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Persists++
}

func (r *RecordingNotifier) OnRedraw() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Redraws++
}

// Counts returns the persist and redraw counts.
func (r *RecordingNotifier) Counts() (persists, redraws int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Persists, r.Redraws
}

// Reset zeroes both counters.
func (r *RecordingNotifier) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Persists, r.Redraws = 0, 0
}
