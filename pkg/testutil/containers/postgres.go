//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a Postgres container. Ryuk removes it when the test binary exits.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	c, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("adonix"),
		tcpostgres.WithUsername("adonix"),
		tcpostgres.WithPassword("adonix"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "postgres connection string")

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "open postgres")
	require.NoError(t, db.PingContext(ctx), "ping postgres")

	return &PostgresContainer{Container: c, DSN: dsn, DB: db}
}

// DropTables removes the named tables so each test starts from no collections.
func (p *PostgresContainer) DropTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s", pq.QuoteIdentifier(table))
		if _, err := p.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}
