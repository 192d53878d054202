package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/editor"
	"github.com/inamate/drawboard/internal/fileio"
	"github.com/inamate/drawboard/internal/protocol"
	"github.com/inamate/drawboard/internal/scene"
)

// Room is one open board: a scene, the editor driving it and the clients
// connected to it. Messages are applied one at a time.
type Room struct {
	mu      sync.Mutex
	id      string
	scene   *scene.Scene
	editor  *editor.Editor
	clients map[string]*Client
	pending int

	boards  Boards
	library protocol.ItemSource
	logger  *slog.Logger

	dirty     bool
	redraw    bool
	debounced func(func())
	saveMu    sync.Mutex
}

func newRoom(id string, doc *document.Document, h *Hub) *Room {
	r := &Room{
		id:        id,
		clients:   make(map[string]*Client),
		boards:    h.boards,
		library:   h.library,
		logger:    h.logger.With("board", id),
		debounced: debounce.New(h.opts.PersistDebounce),
	}
	r.scene = scene.New(doc, r, r.logger)
	r.editor = editor.New(r.scene, editor.Options{
		GridSize: h.opts.GridSize,
		Logger:   r.logger,
	})
	return r
}

// OnPersist schedules a save. Called with r.mu held.
func (r *Room) OnPersist(*document.Document) {
	r.dirty = true
	r.debounced(func() {
		if err := r.save(context.Background()); err != nil {
			r.logger.Error("save board", "error", err)
		}
	})
}

// OnRedraw marks the view for broadcast once the current message is done.
func (r *Room) OnRedraw() { r.redraw = true }

func (r *Room) join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending--
	r.clients[c.ClientID] = c
	doc := r.scene.Document()
	c.Send(protocol.NewMessage(protocol.TypeWelcome, 0, protocol.WelcomePayload{
		ClientID: c.ClientID,
		BoardID:  r.id,
		Title:    doc.Title,
		Assets:   doc.Assets,
		View:     protocol.NewView(r.editor),
	}))
}

// leave removes c and reports whether the room has no clients left.
func (r *Room) leave(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.ClientID]; ok {
		delete(r.clients, c.ClientID)
		close(c.send)
	}
	return r.idleLocked()
}

func (r *Room) idleLocked() bool { return len(r.clients) == 0 && r.pending == 0 }

// handle applies msg from c. Errors go back to c alone; the resulting view
// goes to every client.
func (r *Room) handle(ctx context.Context, c *Client, msg *protocol.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.redraw = false
	if err := protocol.Apply(ctx, r.editor, r.library, msg); err != nil {
		level := slog.LevelWarn
		if errors.Is(err, document.ErrUserInput) {
			level = slog.LevelDebug
		}
		r.logger.Log(ctx, level, "message failed", "type", msg.Type, "client", c.ClientID, "error", err)
		c.Send(protocol.NewMessage(protocol.TypeError, msg.Seq, protocol.ErrorPayload{Message: err.Error()}))
	}
	if r.redraw {
		r.broadcastLocked(protocol.NewMessage(protocol.TypeSceneUpdate, msg.Seq, protocol.NewView(r.editor)))
	}
}

// save writes the document when it changed since the last save. Saves are
// serialized; the document is encoded under the room lock and written
// outside it.
func (r *Room) save(ctx context.Context) error {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	r.mu.Lock()
	if !r.dirty {
		r.mu.Unlock()
		return nil
	}
	data, err := fileio.MarshalDocument(r.scene.Document())
	r.dirty = false
	r.mu.Unlock()
	if err != nil {
		return err
	}

	b, err := r.boards.Persist(ctx, r.id, data)
	if err != nil {
		r.mu.Lock()
		r.dirty = true
		r.mu.Unlock()
		return err
	}
	r.logger.Debug("board saved", "revision", b.Revision)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(protocol.NewMessage(protocol.TypeSceneSaved, 0, protocol.SavedPayload{Revision: b.Revision, UpdatedAt: b.UpdatedAt}))
	return nil
}

// flush saves pending changes with a bounded wait.
func (r *Room) flush() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r.save(ctx)
}

func (r *Room) broadcastLocked(msg *protocol.Message) {
	for _, c := range r.clients {
		c.Send(msg)
	}
}
