// Package session runs live editing sessions: one editor per open board,
// driven by renderer events arriving over websockets.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/protocol"
	"github.com/inamate/drawboard/internal/store"
)

var ErrStopped = errors.New("session hub stopped")

// Boards loads and stores the documents of open boards.
type Boards interface {
	Get(ctx context.Context, id, userID string) (*store.Board, *document.Document, error)
	Persist(ctx context.Context, id string, data []byte) (*store.Board, error)
}

type Options struct {
	GridSize        float64
	PersistDebounce time.Duration
	Logger          *slog.Logger
}

type Hub struct {
	mu      sync.Mutex
	rooms   map[string]*Room // boardID -> room
	boards  Boards
	library protocol.ItemSource
	opts    Options
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(boards Boards, library protocol.ItemSource, opts Options) *Hub {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PersistDebounce <= 0 {
		opts.PersistDebounce = time.Second
	}
	return &Hub{
		rooms:      make(map[string]*Room),
		boards:     boards,
		library:    library,
		opts:       opts,
		logger:     opts.Logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Open returns the room of boardID, loading the board when no session has
// it open. userID must be allowed to read the board. The room is held for
// one client until that client is registered.
func (h *Hub) Open(ctx context.Context, boardID, userID string) (*Room, error) {
	h.mu.Lock()
	room, ok := h.rooms[boardID]
	if ok {
		room.hold()
	}
	h.mu.Unlock()

	// The owner check runs for every client; a running room keeps its own
	// copy of the document.
	_, doc, err := h.boards.Get(ctx, boardID, userID)
	if err != nil {
		if room != nil {
			h.release(room)
		}
		return nil, err
	}
	if room != nil {
		return room, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[boardID]; ok {
		room.hold()
		return room, nil
	}
	room = newRoom(boardID, doc, h)
	room.hold()
	h.rooms[boardID] = room
	h.logger.Info("board opened", "board", boardID)
	return room, nil
}

func (r *Room) hold() {
	r.mu.Lock()
	r.pending++
	r.mu.Unlock()
}

// release drops a hold taken by Open for a client that never joined.
func (h *Hub) release(room *Room) {
	room.mu.Lock()
	room.pending--
	room.mu.Unlock()
	h.closeIfIdle(room)
}

// Register adds client to its room and returns once the welcome message is
// queued. It fails after Stop.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		<-client.joined
		return nil
	case <-h.done:
		h.release(client.room)
		return ErrStopped
	}
}

func (h *Hub) addClient(client *Client) {
	client.room.join(client)
	close(client.joined)
	h.logger.Info("client joined", "user", client.UserID, "board", client.room.id, "client", client.ClientID)
}

func (h *Hub) removeClient(client *Client) {
	if client.room.leave(client) {
		h.closeIfIdle(client.room)
	}
	h.logger.Info("client left", "user", client.UserID, "board", client.room.id, "client", client.ClientID)
}

// closeIfIdle saves an idle room and forgets it, unless a client arrived
// in the meantime.
func (h *Hub) closeIfIdle(room *Room) {
	if err := room.flush(); err != nil {
		h.logger.Error("save board on close", "board", room.id, "error", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	room.mu.Lock()
	defer room.mu.Unlock()
	if !room.idleLocked() || room.dirty || h.rooms[room.id] != room {
		return
	}
	delete(h.rooms, room.id)
	h.logger.Info("board closed", "board", room.id)
}

// Rooms returns the number of open boards.
func (h *Hub) Rooms() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// Stop ends Run and saves every open board.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.Unlock()

	for _, r := range rooms {
		if err := r.flush(); err != nil {
			h.logger.Error("save board on shutdown", "board", r.id, "error", err)
		}
	}
	h.logger.Info("sessions stopped", "boards", len(rooms))
}
