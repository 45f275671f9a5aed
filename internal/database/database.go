// Package database opens connections to the traffic stop store and applies
// schema migrations. The HTTP server and the CLI share these helpers so both
// bootstrap the store the same way.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/pkordes/stop-insights/migrations"
)

// sqlDriver is the otelsql-wrapped pgx driver name, registered once in init.
var sqlDriver string

func init() {
	driver, err := otelsql.Register(
		"pgx",
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		panic(fmt.Sprintf("database: register instrumented pgx driver: %v", err))
	}
	sqlDriver = driver
}

// OpenPool creates a pgx pool for dsn and verifies the store is reachable.
// pgxpool.New does not dial; the Ping does.
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("database.OpenPool: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database.OpenPool: ping: %w", err)
	}
	return pool, nil
}

// OpenSQL opens an instrumented *sql.DB for dsn. goose needs database/sql,
// not a pgx pool. Callers close the returned handle.
func OpenSQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database.OpenSQL: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database.OpenSQL: ping: %w", err)
	}
	if err := otelsql.RecordStats(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("database.OpenSQL: record stats: %w", err)
	}
	return db, nil
}

// Migrate applies every pending migration embedded in package migrations.
// It returns the number of migrations applied.
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("database.Migrate: create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("database.Migrate: up: %w", err)
	}
	for _, r := range results {
		slog.InfoContext(ctx, "migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return len(results), nil
}

// MigrateDSN opens an instrumented connection for dsn, migrates, and closes it.
func MigrateDSN(ctx context.Context, dsn string) (int, error) {
	db, err := OpenSQL(ctx, dsn)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return Migrate(ctx, db)
}
