package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// insufficientPrivilege is the SQLSTATE Postgres raises when the role
// lacks table permissions.
const insufficientPrivilege = "42501"

// Postgres stores each document as a JSONB value keyed by
// (collection, id). Merge writes use the JSONB concatenation operator so
// unspecified fields of an existing document survive.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a pool and ensures the documents table exists.
func NewPostgres(ctx context.Context, url string, maxConns int) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection  TEXT        NOT NULL,
			id          TEXT        NOT NULL,
			doc         JSONB       NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, id)
		)`)
	if err != nil {
		return fmt.Errorf("ensure documents table: %w", classify(err))
	}
	return nil
}

func (p *Postgres) Write(ctx context.Context, collection, id string, fields map[string]any, merge bool) (Document, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return Document{}, fmt.Errorf("encode document: %w", err)
	}

	// The conflict action differs by mode: merge concatenates JSONB so
	// existing fields survive, replace overwrites the whole value.
	query := `
		INSERT INTO documents (collection, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET
			doc = documents.doc || EXCLUDED.doc,
			updated_at = now()
		RETURNING doc, created_at, updated_at`
	if !merge {
		query = `
		INSERT INTO documents (collection, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET
			doc = EXCLUDED.doc,
			updated_at = now()
		RETURNING doc, created_at, updated_at`
	}

	var stored []byte
	var createdAt, updatedAt time.Time
	if err := p.pool.QueryRow(ctx, query, collection, id, raw).Scan(&stored, &createdAt, &updatedAt); err != nil {
		return Document{}, fmt.Errorf("write %s: %w", Path(collection, id), classify(err))
	}

	doc := Document{CreatedAt: createdAt, UpdatedAt: updatedAt}
	if err := json.Unmarshal(stored, &doc.Fields); err != nil {
		return Document{}, fmt.Errorf("decode stored document: %w", err)
	}
	return doc, nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw []byte
	var createdAt, updatedAt time.Time
	err := p.pool.QueryRow(ctx,
		`SELECT doc, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s: %w", Path(collection, id), classify(err))
	}

	doc := Document{CreatedAt: createdAt, UpdatedAt: updatedAt}
	if err := json.Unmarshal(raw, &doc.Fields); err != nil {
		return Document{}, fmt.Errorf("decode stored document: %w", err)
	}
	return doc, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// classify maps permission-class database errors onto
// ErrPermissionDenied so the endpoint can report them distinctly.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == insufficientPrivilege {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, pgErr.Message)
	}
	return err
}
