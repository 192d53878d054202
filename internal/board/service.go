// Package board serves stored board documents over HTTP.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/fileio"
	"github.com/inamate/drawboard/internal/store"
	"github.com/inamate/drawboard/internal/typeid"
)

var (
	ErrForbidden = errors.New("forbidden")
	ErrStale     = errors.New("board was changed by someone else")
)

type Service struct {
	store  store.Store
	logger *slog.Logger
}

func NewService(st store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// Create stores a new board owned by ownerID. With sample set the board is
// seeded with the welcome content.
func (s *Service) Create(ctx context.Context, ownerID, title string, sample bool) (*store.Board, error) {
	id := typeid.NewDocumentID()
	var doc *document.Document
	if sample {
		doc = document.NewSampleDocument(id)
	} else {
		doc = document.NewEmptyDocument(id, "Untitled", typeid.NewPageID())
	}
	if title = strings.TrimSpace(title); title != "" {
		doc.Title = title
	}

	b, err := s.put(ctx, &store.Board{ID: id, OwnerID: ownerID}, doc)
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	s.logger.Info("board created", "board", id, "owner", ownerID, "sample", sample)
	return b, nil
}

// Get loads a board, upgrading its document to the current version.
func (s *Service) Get(ctx context.Context, id, userID string) (*store.Board, *document.Document, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := checkOwner(b, userID); err != nil {
		return nil, nil, err
	}
	doc, err := fileio.ParseDocument(b.Document)
	if err != nil {
		return nil, nil, fmt.Errorf("load board %s: %w", id, err)
	}
	doc.ID = b.ID
	return b, doc, nil
}

// Save replaces the document of board id with data, creating the board when
// it does not exist. A non-empty revision must match the stored one.
func (s *Service) Save(ctx context.Context, id, userID, revision string, data []byte) (*store.Board, error) {
	doc, err := fileio.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	doc.ID = id

	b, err := s.store.Get(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		b = &store.Board{ID: id, OwnerID: userID}
	case err != nil:
		return nil, err
	default:
		if err := checkOwner(b, userID); err != nil {
			return nil, err
		}
		if revision != "" && revision != b.Revision {
			return nil, fmt.Errorf("save board %s: %w", id, ErrStale)
		}
	}
	return s.put(ctx, b, doc)
}

// Persist stores the serialized document of an editing session.
// Ownership was checked when the session opened.
func (s *Service) Persist(ctx context.Context, id string, data []byte) (*store.Board, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Document = data
	if err := s.store.Set(ctx, b); err != nil {
		return nil, fmt.Errorf("persist board %s: %w", id, err)
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]store.Summary, error) {
	return s.store.List(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(b, userID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("board deleted", "board", id, "user", userID)
	return nil
}

func (s *Service) put(ctx context.Context, b *store.Board, doc *document.Document) (*store.Board, error) {
	data, err := fileio.MarshalDocument(doc)
	if err != nil {
		return nil, err
	}
	b.Document = data
	if err := s.store.Set(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// checkOwner allows boards without an owner to everyone.
func checkOwner(b *store.Board, userID string) error {
	if b.OwnerID != "" && b.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}
