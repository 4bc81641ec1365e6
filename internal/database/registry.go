package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"adonix/pkg/platform/sentinel"
)

// The collision and mismatch errors all match sentinel.ErrConflict.
var (
	ErrUnknownDomain       = errors.New("unknown domain")
	ErrEmptyCollectionTag  = errors.New("collection tag is required")
	ErrIdentifierCollision = fmt.Errorf("storage identifier already registered by another collection: %w", sentinel.ErrConflict)
	ErrSchemaMismatch      = fmt.Errorf("collection already registered with a different schema: %w", sentinel.ErrConflict)
	ErrRecordTypeMismatch  = fmt.Errorf("collection already registered with a different record type: %w", sentinel.ErrConflict)
)

// Registry owns the mapping from (domain, collection tag) to model handles.
// It is populated once at startup; every error it returns is a configuration
// error that should abort the process.
type Registry struct {
	engine Engine

	mu      sync.Mutex
	entries map[Identifier]*registration
}

type registration struct {
	domain     Domain
	tag        CollectionTag
	schema     Schema
	recordType reflect.Type
	model      any
}

// NewRegistry creates an empty registry backed by engine.
func NewRegistry(engine Engine) *Registry {
	return &Registry{
		engine:  engine,
		entries: make(map[Identifier]*registration),
	}
}

// Engine returns the storage engine collections are created on.
func (r *Registry) Engine() Engine {
	return r.engine
}

// Register binds (domain, tag) to a typed handle, creating the backing
// collection on first registration. Registering the same pair again with the
// same schema and record type returns the existing handle.
func Register[T any](ctx context.Context, r *Registry, domain Domain, tag CollectionTag, schema Schema) (*Model[T], error) {
	if !domain.Valid() {
		return nil, fmt.Errorf("register %q/%q: %w", domain, tag, ErrUnknownDomain)
	}
	if tag == "" {
		return nil, fmt.Errorf("register %q: %w", domain, ErrEmptyCollectionTag)
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("register %q/%q: %w", domain, tag, err)
	}

	id := identifierFor(domain, tag)
	recordType := reflect.TypeFor[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[id]; ok {
		switch {
		case existing.domain != domain || existing.tag != tag:
			return nil, fmt.Errorf("register %q/%q as %s (held by %q/%q): %w",
				domain, tag, id, existing.domain, existing.tag, ErrIdentifierCollision)
		case !existing.schema.Equal(schema):
			return nil, fmt.Errorf("register %s: %w", id, ErrSchemaMismatch)
		case existing.recordType != recordType:
			return nil, fmt.Errorf("register %s: %w", id, ErrRecordTypeMismatch)
		}
		return existing.model.(*Model[T]), nil
	}

	coll, err := r.engine.EnsureCollection(ctx, id, schema)
	if err != nil {
		return nil, fmt.Errorf("register %s on %s: %w", id, r.engine.Name(), err)
	}

	m := &Model[T]{
		domain: domain,
		tag:    tag,
		id:     id,
		schema: schema,
		coll:   coll,
	}
	r.entries[id] = &registration{
		domain:     domain,
		tag:        tag,
		schema:     schema,
		recordType: recordType,
		model:      m,
	}
	return m, nil
}

// Identifiers lists every registered storage identifier in lexical order.
func (r *Registry) Identifiers() []Identifier {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Identifier, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
