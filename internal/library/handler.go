package library

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/fileio"
	"github.com/inamate/drawboard/internal/migrate"
)

const maxLibrarySize = 16 << 20

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Names())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.catalog.Library(mux.Vars(r)["name"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := fileio.SaveLibrary(w, lib); err != nil {
		slog.Warn("write library", "error", err)
	}
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	data, err := io.ReadAll(io.LimitReader(r.Body, maxLibrarySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	lib, err := fileio.ParseLibrary(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.catalog.Save(name, lib); err != nil {
		switch {
		case errors.Is(err, document.ErrUserInput), errors.Is(err, migrate.ErrMigration):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			slog.Error("save library", "library", name, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "items": len(lib.Items)})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
