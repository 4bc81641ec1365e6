// Package postgres stores each collection as a table of JSONB documents.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"adonix/internal/database"
	"adonix/pkg/platform/sentinel"
)

// Engine creates one table per collection identifier:
//
//	CREATE TABLE "<identifier>" (id TEXT PRIMARY KEY, doc JSONB NOT NULL)
type Engine struct {
	db *sql.DB
}

// New wraps an open database handle. The caller owns the pool.
func New(db *sql.DB) *Engine {
	return &Engine{db: db}
}

func (e *Engine) Name() string { return "postgres" }

func (e *Engine) Ping(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (e *Engine) EnsureCollection(ctx context.Context, id database.Identifier, schema database.Schema) (database.Collection, error) {
	table := pq.QuoteIdentifier(id.String())
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, doc JSONB NOT NULL)`, table)
	if _, err := e.db.ExecContext(ctx, stmt); err != nil {
		return nil, fmt.Errorf("create table %s: %w", id, err)
	}
	return &Collection{
		db:     e.db,
		id:     id,
		table:  table,
		schema: schema,
	}, nil
}

// Collection is one JSONB document table.
type Collection struct {
	db     *sql.DB
	id     database.Identifier
	table  string
	schema database.Schema
}

func (c *Collection) Identifier() database.Identifier { return c.id }

func (c *Collection) Find(ctx context.Context, key string) (database.Document, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table)

	var raw []byte
	err := c.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}

	var doc database.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func (c *Collection) Replace(ctx context.Context, key string, doc database.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, c.table)
	if _, err := c.db.ExecContext(ctx, query, key, raw); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (c *Collection) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	res, err := c.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// AddToSet relies on INSERT ... ON CONFLICT DO UPDATE: the conflicting row is
// locked and the update re-reads its current doc, so concurrent adds to the
// same key serialize without lost updates.
func (c *Collection) AddToSet(ctx context.Context, key, field, value string) error {
	query := fmt.Sprintf(`INSERT INTO %[1]s AS c (id, doc)
VALUES ($1, jsonb_build_object($2::text, to_jsonb($1::text), $3::text, jsonb_build_array($4::text)))
ON CONFLICT (id) DO UPDATE SET doc = jsonb_set(
	c.doc,
	ARRAY[$3::text],
	CASE
		WHEN jsonb_typeof(c.doc -> $3::text) IS DISTINCT FROM 'array'
			THEN jsonb_build_array($4::text)
		WHEN (c.doc -> $3::text) @> jsonb_build_array($4::text)
			THEN c.doc -> $3::text
		ELSE (c.doc -> $3::text) || jsonb_build_array($4::text)
	END,
	true
)`, c.table)

	if _, err := c.db.ExecContext(ctx, query, key, c.schema.Key, field, value); err != nil {
		return fmt.Errorf("add to set: %w", err)
	}
	return nil
}
