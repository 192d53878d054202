package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/drawboard/internal/board"
	"github.com/inamate/drawboard/internal/store"
)

// Authenticator resolves the user of a websocket upgrade request.
type Authenticator interface {
	QueryToken(r *http.Request) (string, error)
}

type Handler struct {
	hub     *Hub
	auth    Authenticator
	origins []string
}

func NewHandler(hub *Hub, auth Authenticator, origins []string) *Handler {
	return &Handler{hub: hub, auth: auth, origins: origins}
}

// ServeWS upgrades /ws/board/{boardId}. Requests without a token join as
// anonymous users, which only boards without an owner admit.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardId"]

	var userID string
	if r.URL.Query().Has("token") {
		var err error
		userID, err = h.auth.QueryToken(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	room, err := h.hub.Open(r.Context(), boardID, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "board not found", http.StatusNotFound)
		return
	case errors.Is(err, board.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	case err != nil:
		slog.Error("open board session", "board", boardID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		h.hub.release(room)
		return
	}

	client := NewClient(h.hub, room, conn, userID)
	if err := h.hub.Register(client); err != nil {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
