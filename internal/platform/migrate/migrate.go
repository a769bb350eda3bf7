// Package migrate applies the embedded SQL migrations of a store
// implementation with goose. Both the postgres and the sqlite stores carry
// their own migrations and call Up when they open a database.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// TableName is the table goose records applied versions in.
const TableName = "schema_migrations"

// Command is a migration action understood by Run.
type Command string

// Supported migration commands.
const (
	CommandUp      Command = "up"
	CommandDown    Command = "down"
	CommandReset   Command = "reset"
	CommandStatus  Command = "status"
	CommandVersion Command = "version"
)

// ErrUnknownCommand is returned by Run for a command it does not support.
var ErrUnknownCommand = errors.New("unknown migration command")

// slogGooseLogger forwards goose output to slog. Fatalf logs at error level
// and never exits; failures surface as returned errors.
type slogGooseLogger struct {
	log *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}

// NewProvider builds a goose provider over the migrations in fsys.
func NewProvider(
	ctx context.Context,
	dialect database.Dialect,
	db *sql.DB,
	fsys fs.FS,
) (*goose.Provider, error) {
	store, err := database.NewStore(dialect, TableName)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration store: %w", err)
	}

	log := logger.FromContextOrDefault(ctx, slog.Default()).
		With(slog.String("component", "migrate"), slog.String("dialect", string(dialect)))

	provider, err := goose.NewProvider("", db, fsys,
		goose.WithStore(store),
		goose.WithDisableGlobalRegistry(true),
		goose.WithLogger(&slogGooseLogger{log: log}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Up applies every pending migration and returns how many ran.
func Up(ctx context.Context, dialect database.Dialect, db *sql.DB, fsys fs.FS) (int, error) {
	provider, err := NewProvider(ctx, dialect, db, fsys)
	if err != nil {
		return 0, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("failed to apply migrations: %w", err)
	}

	log := logger.FromContextOrDefault(ctx, slog.Default())
	for _, r := range results {
		log.DebugContext(ctx, "applied migration",
			slog.Int64("version", r.Source.Version),
			slog.Duration("duration", r.Duration))
	}
	return len(results), nil
}

// Run executes cmd against db and logs the outcome.
func Run(ctx context.Context, cmd Command, dialect database.Dialect, db *sql.DB, fsys fs.FS) error {
	log := logger.FromContextOrDefault(ctx, slog.Default()).
		With(slog.String("command", string(cmd)))

	provider, err := NewProvider(ctx, dialect, db, fsys)
	if err != nil {
		return err
	}

	switch cmd {
	case CommandUp:
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
		log.InfoContext(ctx, "migrations applied", slog.Int("count", len(results)))

	case CommandDown:
		result, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
		log.InfoContext(ctx, "migration rolled back", slog.Int64("version", result.Source.Version))

	case CommandReset:
		results, err := provider.DownTo(ctx, 0)
		if err != nil {
			return fmt.Errorf("migration reset failed: %w", err)
		}
		log.InfoContext(ctx, "migrations reset", slog.Int("count", len(results)))

	case CommandStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		for _, s := range statuses {
			log.InfoContext(ctx, "migration status",
				slog.Int64("version", s.Source.Version),
				slog.String("path", s.Source.Path),
				slog.String("state", string(s.State)))
		}

	case CommandVersion:
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("migration version failed: %w", err)
		}
		log.InfoContext(ctx, "current migration version", slog.Int64("version", version))

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	return nil
}
