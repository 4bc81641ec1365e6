// Package memory is an in-process storage engine for tests and local runs.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"

	"adonix/internal/database"
	"adonix/pkg/platform/sentinel"
)

// Engine keeps collections in process memory.
type Engine struct {
	mu          sync.Mutex
	collections map[database.Identifier]*Collection
}

// New creates an empty in-memory engine.
func New() *Engine {
	return &Engine{collections: make(map[database.Identifier]*Collection)}
}

func (e *Engine) Name() string { return "memory" }

func (e *Engine) Ping(_ context.Context) error { return nil }

func (e *Engine) EnsureCollection(_ context.Context, id database.Identifier, schema database.Schema) (database.Collection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.collections[id]; ok {
		return c, nil
	}
	c := &Collection{
		id:     id,
		schema: schema,
		docs:   make(map[string]database.Document),
	}
	e.collections[id] = c
	return c, nil
}

// Collection returns the collection registered under id, if any.
func (e *Engine) Collection(id database.Identifier) (*Collection, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.collections[id]
	return c, ok
}

// Collection stores documents keyed by their schema key. A single mutex
// serializes all access, which makes AddToSet atomic.
type Collection struct {
	id     database.Identifier
	schema database.Schema

	mu   sync.Mutex
	docs map[string]database.Document
}

func (c *Collection) Identifier() database.Identifier { return c.id }

// Len reports how many documents the collection holds.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func (c *Collection) Find(_ context.Context, key string) (database.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return maps.Clone(doc), nil
}

func (c *Collection) Replace(_ context.Context, key string, doc database.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs[key] = maps.Clone(doc)
	return nil
}

func (c *Collection) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(c.docs, key)
	return nil
}

func (c *Collection) AddToSet(_ context.Context, key, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[key]
	if !ok {
		rawKey, err := json.Marshal(key)
		if err != nil {
			return fmt.Errorf("encode key: %w", err)
		}
		doc = database.Document{c.schema.Key: rawKey}
	} else {
		doc = maps.Clone(doc)
	}

	var members []string
	if raw, ok := doc[field]; ok {
		if err := json.Unmarshal(raw, &members); err != nil {
			return fmt.Errorf("decode set %q: %w", field, sentinel.ErrInvalidState)
		}
	}
	if slices.Contains(members, value) {
		c.docs[key] = doc
		return nil
	}
	raw, err := json.Marshal(append(members, value))
	if err != nil {
		return fmt.Errorf("encode set %q: %w", field, err)
	}
	doc[field] = raw
	c.docs[key] = doc
	return nil
}
