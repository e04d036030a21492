package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres backs the store with a single collections table. Each logical
// collection is one JSONB row keyed by name; Set is an upsert that
// replaces the whole document, matching the store contract exactly. The
// table is created by the goose migrations in the migrations directory.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool against the given DSN and verifies
// it with a ping.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgresFromDB wraps an existing connection pool; the caller keeps
// ownership of its lifecycle.
func NewPostgresFromDB(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// DB exposes the underlying pool so migrations can run against it.
func (p *Postgres) DB() *sql.DB {
	return p.db
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT document FROM collections WHERE key = $1`

	var doc []byte
	err := p.db.QueryRowContext(ctx, query, key).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return doc, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO collections (key, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET document = $2, updated_at = NOW()
	`

	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
