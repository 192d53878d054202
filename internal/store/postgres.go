package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		display_name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS boards (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		version TEXT NOT NULL DEFAULT '',
		pages INTEGER NOT NULL DEFAULT 0,
		revision TEXT NOT NULL DEFAULT '',
		document JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_boards_owner ON boards(owner_id, updated_at DESC)`,
}

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*Board, error) {
	var b Board
	var doc string
	err := p.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, version, pages, revision, document::text, created_at, updated_at
		FROM boards WHERE id = $1`, id).
		Scan(&b.ID, &b.OwnerID, &b.Title, &b.Version, &b.Pages, &b.Revision, &doc, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get board %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get board %s: %w", id, err)
	}
	b.Document = []byte(doc)
	return &b, nil
}

func (p *Postgres) Set(ctx context.Context, b *Board) error {
	if err := prepare(b, time.Now().UTC()); err != nil {
		return err
	}
	err := p.pool.QueryRow(ctx, `
		INSERT INTO boards (id, owner_id, title, version, pages, revision, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			version = EXCLUDED.version,
			pages = EXCLUDED.pages,
			revision = EXCLUDED.revision,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
		RETURNING owner_id, created_at`,
		b.ID, b.OwnerID, b.Title, b.Version, b.Pages, b.Revision, string(b.Document), b.CreatedAt, b.UpdatedAt,
	).Scan(&b.OwnerID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("set board %s: %w", b.ID, err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, ownerID string) ([]Summary, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, owner_id, title, version, pages, revision, updated_at
		FROM boards WHERE $1 = '' OR owner_id = $1
		ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Title, &s.Version, &s.Pages, &s.Revision, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list boards: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return out, nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete board %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete board %s: %w", id, ErrNotFound)
	}
	return nil
}

// --- Users ---

func (p *Postgres) CreateUser(ctx context.Context, u *User) error {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		u.ID, u.Email, u.Password, u.DisplayName,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (*User, error) {
	return p.user(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE email = $1`, email)
}

func (p *Postgres) UserByID(ctx context.Context, id string) (*User, error) {
	return p.user(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE id = $1`, id)
}

func (p *Postgres) user(ctx context.Context, query, arg string) (*User, error) {
	var u User
	err := p.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
