// Package store persists boards and users. Postgres backs shared
// deployments; a single SQLite file is the default for local use.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Board is a stored board document. Title, Version and Pages are read from
// Document on every Set and kept as columns for listing.
type Board struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Version   string    `json:"version"`
	Pages     int       `json:"pages"`
	Revision  string    `json:"revision"`
	Document  []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is a board without its document.
type Summary struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Version   string    `json:"version"`
	Pages     int       `json:"pages"`
	Revision  string    `json:"revision"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

// Store is the persistence client. Get, List and Delete return ErrNotFound
// for unknown ids; CreateUser returns ErrConflict for a taken email.
type Store interface {
	Get(ctx context.Context, id string) (*Board, error)
	Set(ctx context.Context, b *Board) error
	List(ctx context.Context, ownerID string) ([]Summary, error)
	Delete(ctx context.Context, id string) error

	CreateUser(ctx context.Context, u *User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)

	Close() error
}

// Open connects to Postgres when databaseURL is set, otherwise to the SQLite
// file at sqlitePath.
func Open(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	if databaseURL != "" {
		return NewPostgres(ctx, databaseURL)
	}
	return NewSQLite(sqlitePath)
}

// prepare fills the derived columns of b before a write.
func prepare(b *Board, now time.Time) error {
	if b.ID == "" {
		return errors.New("set board: missing id")
	}
	if !gjson.ValidBytes(b.Document) {
		return fmt.Errorf("set board %s: document is not valid json", b.ID)
	}
	res := gjson.GetManyBytes(b.Document, "title", "version", "pages.#")
	b.Title = res[0].String()
	b.Version = res[1].String()
	b.Pages = int(res[2].Int())
	b.Revision = uuid.NewString()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return nil
}

func (b *Board) Summary() Summary {
	return Summary{
		ID:        b.ID,
		OwnerID:   b.OwnerID,
		Title:     b.Title,
		Version:   b.Version,
		Pages:     b.Pages,
		Revision:  b.Revision,
		UpdatedAt: b.UpdatedAt,
	}
}
