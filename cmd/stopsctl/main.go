// Command stopsctl is the operator CLI for the traffic stop insights store:
// it lists and runs catalog questions, prints narratives, applies
// migrations and loads CSV exports into traffic_stops.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/stop-insights/internal/database"
)

type cli struct {
	DatabaseURL string `help:"Postgres connection string." env:"DATABASE_URL"`
	LogLevel    string `help:"Minimum log level (debug, info, warn, error)." env:"LOG_LEVEL" default:"warn"`

	Questions questionsCmd `cmd:"" help:"List the catalog questions in display order."`
	Insight   insightCmd   `cmd:"" help:"Run one catalog question and print the result table."`
	Narrate   narrateCmd   `cmd:"" help:"Print the narrative for a stored stop."`
	Migrate   migrateCmd   `cmd:"" help:"Apply pending schema migrations."`
	Import    importCmd    `cmd:"" help:"Load a CSV export into traffic_stops."`
}

// runEnv is bound into every command's Run method.
type runEnv struct {
	ctx context.Context
	dsn string
	out io.Writer
}

var errNoDatabase = errors.New("DATABASE_URL is not set (use --database-url or the environment)")

func (e *runEnv) pool() (*pgxpool.Pool, error) {
	if e.dsn == "" {
		return nil, errNoDatabase
	}
	return database.OpenPool(e.ctx, e.dsn)
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("stopsctl"),
		kong.Description("Traffic stop insights operator tool."),
		kong.UsageOnError(),
	)

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	env := &runEnv{ctx: context.Background(), dsn: c.DatabaseURL, out: os.Stdout}
	kctx.FatalIfErrorf(kctx.Run(env))
}

type migrateCmd struct{}

func (migrateCmd) Run(env *runEnv) error {
	if env.dsn == "" {
		return errNoDatabase
	}
	n, err := database.MigrateDSN(env.ctx, env.dsn)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.out, "applied %d migration(s)\n", n)
	return err
}
