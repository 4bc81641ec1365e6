package database

import (
	"context"
	"encoding/json"
)

// Document is the engine-neutral form of a record: top-level field names
// mapped to their JSON encodings.
type Document map[string]json.RawMessage

// Engine is a storage backend able to host named collections.
type Engine interface {
	// Name identifies the engine in logs and health output.
	Name() string
	// EnsureCollection initializes the backing collection if needed and
	// returns an accessor bound to it.
	EnsureCollection(ctx context.Context, id Identifier, schema Schema) (Collection, error)
	Ping(ctx context.Context) error
}

// Collection is the raw, untyped accessor for one backing collection.
// Implementations return sentinel.ErrNotFound for missing documents.
type Collection interface {
	Identifier() Identifier
	Find(ctx context.Context, key string) (Document, error)
	Replace(ctx context.Context, key string, doc Document) error
	Delete(ctx context.Context, key string) error
	// AddToSet atomically adds value to the string-set field of the document
	// addressed by key, creating the document (key field plus a one-element
	// set) when it does not exist. Adding a present value is a no-op.
	AddToSet(ctx context.Context, key, field, value string) error
}
