package main

import (
	"context"
	"fmt"

	"adonix/internal/database"
	"adonix/internal/database/dynamo"
	"adonix/internal/database/memory"
	"adonix/internal/database/postgres"
	dbredis "adonix/internal/database/redis"
	"adonix/internal/platform/config"
	dynamoclient "adonix/internal/platform/dynamo"
	pgclient "adonix/internal/platform/postgres"
	redisclient "adonix/internal/platform/redis"
)

// storage pairs the selected engine with the pool it borrows. Redis is set
// only for the redis engine so other components can share its pool.
type storage struct {
	Engine database.Engine
	Redis  *redisclient.Client
	close  func() error
}

func (s storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func openStorage(ctx context.Context, cfg config.Server) (storage, error) {
	switch cfg.Engine {
	case config.EnginePostgres:
		db, err := pgclient.Open(ctx, cfg.Postgres)
		if err != nil {
			return storage{}, err
		}
		return storage{Engine: postgres.New(db), close: db.Close}, nil
	case config.EngineRedis:
		client, err := redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return storage{}, err
		}
		return storage{Engine: dbredis.New(client.Client), Redis: client, close: client.Close}, nil
	case config.EngineDynamoDB:
		client, err := dynamoclient.New(ctx, cfg.DynamoDB)
		if err != nil {
			return storage{}, err
		}
		return storage{Engine: dynamo.New(client,
			dynamo.WithTablePrefix(cfg.DynamoDB.TablePrefix),
			dynamo.WithTableWait(cfg.DynamoDB.TableWait),
		)}, nil
	case config.EngineMemory:
		return storage{Engine: memory.New()}, nil
	default:
		return storage{}, fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}
}
