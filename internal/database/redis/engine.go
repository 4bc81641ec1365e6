// Package redis stores each document as a hash with its string-set fields
// held in native Redis sets, so set additions are a single SADD.
//
// Key layout for collection "newsletter_subscriptions", document "devs":
//
//	newsletter_subscriptions:doc:devs              hash  field -> JSON value
//	newsletter_subscriptions:set:subscribers:devs  set   members
//
// The document key always comes last, after a fixed "doc" or "set" segment,
// so no document key can produce another document's hash or set key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/redis/go-redis/v9"

	"adonix/internal/database"
	"adonix/pkg/platform/sentinel"
)

// CollectionsKey is the set of every collection identifier initialized on
// this Redis database.
const CollectionsKey = "adonix:collections"

// Engine hosts collections on a single Redis database.
type Engine struct {
	client redis.UniversalClient
}

// New wraps a connected client. The caller owns the connection pool.
func New(client redis.UniversalClient) *Engine {
	return &Engine{client: client}
}

func (e *Engine) Name() string { return "redis" }

func (e *Engine) Ping(ctx context.Context) error {
	if err := e.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (e *Engine) EnsureCollection(ctx context.Context, id database.Identifier, schema database.Schema) (database.Collection, error) {
	if err := e.client.SAdd(ctx, CollectionsKey, id.String()).Err(); err != nil {
		return nil, fmt.Errorf("record collection %s: %w", id, err)
	}
	return &Collection{
		client:    e.client,
		id:        id,
		schema:    schema,
		setFields: schema.SetFields(),
	}, nil
}

// Collection maps documents onto hashes and sets under the identifier prefix.
type Collection struct {
	client    redis.UniversalClient
	id        database.Identifier
	schema    database.Schema
	setFields []string
}

func (c *Collection) Identifier() database.Identifier { return c.id }

func (c *Collection) docKey(key string) string {
	return c.id.String() + ":doc:" + key
}

func (c *Collection) setKey(key, field string) string {
	return c.id.String() + ":set:" + field + ":" + key
}

func (c *Collection) isSetField(field string) bool {
	return slices.Contains(c.setFields, field)
}

func (c *Collection) Find(ctx context.Context, key string) (database.Document, error) {
	var (
		hash    *redis.MapStringStringCmd
		members = make(map[string]*redis.StringSliceCmd, len(c.setFields))
	)
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		hash = p.HGetAll(ctx, c.docKey(key))
		for _, f := range c.setFields {
			members[f] = p.SMembers(ctx, c.setKey(key, f))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	fields := hash.Val()
	if len(fields) == 0 {
		return nil, sentinel.ErrNotFound
	}

	doc := make(database.Document, len(fields)+len(c.setFields))
	for name, value := range fields {
		doc[name] = json.RawMessage(value)
	}
	for name, cmd := range members {
		vals := cmd.Val()
		if len(vals) == 0 {
			continue
		}
		sort.Strings(vals)
		raw, err := json.Marshal(vals)
		if err != nil {
			return nil, fmt.Errorf("encode set %q: %w", name, err)
		}
		doc[name] = raw
	}
	return doc, nil
}

func (c *Collection) Replace(ctx context.Context, key string, doc database.Document) error {
	hashFields := make([]any, 0, 2*len(doc))
	sets := make(map[string][]any)
	for name, raw := range doc {
		if !c.isSetField(name) {
			hashFields = append(hashFields, name, string(raw))
			continue
		}
		var vals []string
		if err := json.Unmarshal(raw, &vals); err != nil {
			return fmt.Errorf("decode set %q: %w", name, sentinel.ErrInvalidState)
		}
		for _, v := range vals {
			sets[name] = append(sets[name], v)
		}
	}

	stale := make([]string, 0, 1+len(c.setFields))
	stale = append(stale, c.docKey(key))
	for _, f := range c.setFields {
		stale = append(stale, c.setKey(key, f))
	}

	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, stale...)
		p.HSet(ctx, c.docKey(key), hashFields...)
		for name, vals := range sets {
			if len(vals) > 0 {
				p.SAdd(ctx, c.setKey(key, name), vals...)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func (c *Collection) Delete(ctx context.Context, key string) error {
	keys := make([]string, 0, 1+len(c.setFields))
	keys = append(keys, c.docKey(key))
	for _, f := range c.setFields {
		keys = append(keys, c.setKey(key, f))
	}

	var exists *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		exists = p.Exists(ctx, c.docKey(key))
		p.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if exists.Val() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// AddToSet runs HSETNX on the key field and SADD on the set inside one
// MULTI/EXEC. Both commands are idempotent, so concurrent callers never
// overwrite each other's members.
func (c *Collection) AddToSet(ctx context.Context, key, field, value string) error {
	rawKey, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("encode key: %w", err)
	}
	_, err = c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSetNX(ctx, c.docKey(key), c.schema.Key, string(rawKey))
		p.SAdd(ctx, c.setKey(key, field), value)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add to set: %w", err)
	}
	return nil
}
