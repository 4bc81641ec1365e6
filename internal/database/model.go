package database

import (
	"context"
	"encoding/json"
	"fmt"

	"adonix/pkg/platform/sentinel"
)

// Model is the typed handle for one registered collection. Handles are
// created by Register and never change afterwards.
type Model[T any] struct {
	domain Domain
	tag    CollectionTag
	id     Identifier
	schema Schema
	coll   Collection
}

func (m *Model[T]) Domain() Domain         { return m.domain }
func (m *Model[T]) Tag() CollectionTag     { return m.tag }
func (m *Model[T]) Identifier() Identifier { return m.id }
func (m *Model[T]) Schema() Schema         { return m.schema }

// Find loads the record addressed by key.
func (m *Model[T]) Find(ctx context.Context, key string) (*T, error) {
	if key == "" {
		return nil, fmt.Errorf("find %s: empty key: %w", m.id, sentinel.ErrNotFound)
	}
	doc, err := m.coll.Find(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.id, err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("find %s: encode document: %w", m.id, err)
	}
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("find %s: decode document: %w", m.id, err)
	}
	return &rec, nil
}

// Upsert stores rec under key, replacing any existing document.
func (m *Model[T]) Upsert(ctx context.Context, key string, rec *T) error {
	doc, err := m.encode(key, rec)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", m.id, err)
	}
	if err := m.coll.Replace(ctx, key, doc); err != nil {
		return fmt.Errorf("upsert %s: %w", m.id, err)
	}
	return nil
}

// Delete removes the record addressed by key.
func (m *Model[T]) Delete(ctx context.Context, key string) error {
	if err := m.coll.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", m.id, err)
	}
	return nil
}

// AddToSet adds value to a string-set field in a single atomic engine call,
// creating the document when it is absent.
func (m *Model[T]) AddToSet(ctx context.Context, key, field, value string) error {
	if key == "" {
		return fmt.Errorf("add to set %s: empty key: %w", m.id, sentinel.ErrInvalidState)
	}
	f, ok := m.schema.Field(field)
	if !ok || f.Type != FieldStringSet {
		return fmt.Errorf("add to set %s: field %q is not a string set: %w", m.id, field, sentinel.ErrInvalidState)
	}
	if err := m.coll.AddToSet(ctx, key, field, value); err != nil {
		return fmt.Errorf("add to set %s: %w", m.id, err)
	}
	return nil
}

func (m *Model[T]) encode(key string, rec *T) (Document, error) {
	if rec == nil {
		return nil, fmt.Errorf("record is required: %w", sentinel.ErrInvalidState)
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("record must encode to an object: %w", sentinel.ErrInvalidState)
	}

	for name := range doc {
		if _, ok := m.schema.Field(name); !ok {
			return nil, fmt.Errorf("field %q not in schema: %w", name, sentinel.ErrInvalidState)
		}
	}
	for _, f := range m.schema.Fields {
		if _, ok := doc[f.Name]; f.Required && !ok {
			return nil, fmt.Errorf("required field %q missing: %w", f.Name, sentinel.ErrInvalidState)
		}
	}

	var docKey string
	if err := json.Unmarshal(doc[m.schema.Key], &docKey); err != nil || docKey != key {
		return nil, fmt.Errorf("key field %q must equal %q: %w", m.schema.Key, key, sentinel.ErrInvalidState)
	}
	return doc, nil
}
