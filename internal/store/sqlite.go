package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Timestamps are stored as unix milliseconds.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		display_name TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS boards (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		version TEXT NOT NULL DEFAULT '',
		pages INTEGER NOT NULL DEFAULT 0,
		revision TEXT NOT NULL DEFAULT '',
		document TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_boards_owner ON boards(owner_id, updated_at)`,
}

type SQLite struct {
	conn *sql.DB
}

// NewSQLite opens (or creates) the database file at path.
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) Get(ctx context.Context, id string) (*Board, error) {
	var b Board
	var doc string
	var created, updated int64
	err := s.conn.QueryRowContext(ctx, `
		SELECT id, owner_id, title, version, pages, revision, document, created_at, updated_at
		FROM boards WHERE id = ?`, id).
		Scan(&b.ID, &b.OwnerID, &b.Title, &b.Version, &b.Pages, &b.Revision, &doc, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get board %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get board %s: %w", id, err)
	}
	b.Document = []byte(doc)
	b.CreatedAt = time.UnixMilli(created).UTC()
	b.UpdatedAt = time.UnixMilli(updated).UTC()
	return &b, nil
}

func (s *SQLite) Set(ctx context.Context, b *Board) error {
	if err := prepare(b, time.Now().UTC().Truncate(time.Millisecond)); err != nil {
		return err
	}
	var owner string
	var created int64
	err := s.conn.QueryRowContext(ctx, `
		INSERT INTO boards (id, owner_id, title, version, pages, revision, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			version = excluded.version,
			pages = excluded.pages,
			revision = excluded.revision,
			document = excluded.document,
			updated_at = excluded.updated_at
		RETURNING owner_id, created_at`,
		b.ID, b.OwnerID, b.Title, b.Version, b.Pages, b.Revision, string(b.Document),
		b.CreatedAt.UnixMilli(), b.UpdatedAt.UnixMilli(),
	).Scan(&owner, &created)
	if err != nil {
		return fmt.Errorf("set board %s: %w", b.ID, err)
	}
	b.OwnerID = owner
	b.CreatedAt = time.UnixMilli(created).UTC()
	return nil
}

func (s *SQLite) List(ctx context.Context, ownerID string) ([]Summary, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, owner_id, title, version, pages, revision, updated_at
		FROM boards WHERE ? = '' OR owner_id = ?
		ORDER BY updated_at DESC, id`, ownerID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var updated int64
		if err := rows.Scan(&sum.ID, &sum.OwnerID, &sum.Title, &sum.Version, &sum.Pages, &sum.Revision, &updated); err != nil {
			return nil, fmt.Errorf("list boards: %w", err)
		}
		sum.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return out, nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete board %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete board %s: %w", id, ErrNotFound)
	}
	return nil
}

// --- Users ---

func (s *SQLite) CreateUser(ctx context.Context, u *User) error {
	u.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO users (id, email, password, display_name, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Password, u.DisplayName, u.CreatedAt.UnixMilli())
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("create user: %w", ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *SQLite) UserByEmail(ctx context.Context, email string) (*User, error) {
	return s.user(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE email = ?`, email)
}

func (s *SQLite) UserByID(ctx context.Context, id string) (*User, error) {
	return s.user(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE id = ?`, id)
}

func (s *SQLite) user(ctx context.Context, query, arg string) (*User, error) {
	var u User
	var created int64
	err := s.conn.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	return &u, nil
}

func isConstraintError(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
