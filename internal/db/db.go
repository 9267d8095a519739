package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

var DB *sqlx.DB

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

// Init connects to Postgres, retrying while the database comes up, and
// stores the pool in DB. It gives up early when ctx is done.
func Init(ctx context.Context, databaseURL string) error {
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		var conn *sqlx.DB
		conn, err = sqlx.ConnectContext(ctx, "postgres", databaseURL)
		if err == nil {
			DB = conn
			log.Info().Int("attempt", attempt).Msg("connected to database")
			return nil
		}

		log.Warn().Err(err).
			Int("attempt", attempt).
			Dur("backoff", connectBackoff).
			Msg("database not reachable yet")

		select {
		case <-ctx.Done():
			return fmt.Errorf("connect to database: %w", ctx.Err())
		case <-time.After(connectBackoff):
		}
	}
	return fmt.Errorf("connect to database after %d attempts: %w", connectAttempts, err)
}

const migrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    name       TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// pendingMigrations lists the *.up.sql files under dir, in name order,
// that are not in applied.
func pendingMigrations(dir string, applied map[string]bool) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("list migrations in %q: %w", dir, err)
	}
	sort.Strings(files)

	pending := files[:0]
	for _, f := range files {
		if !applied[filepath.Base(f)] {
			pending = append(pending, f)
		}
	}
	return pending, nil
}

// RunMigrations applies every *.up.sql file under dir that has not been
// recorded in schema_migrations. Each file runs in its own transaction
// together with its bookkeeping row.
func RunMigrations(ctx context.Context, dir string) error {
	files, err := pendingMigrations(dir, nil)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	if _, err := DB.ExecContext(ctx, migrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	var names []string
	if err := DB.SelectContext(ctx, &names, `SELECT name FROM schema_migrations`); err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	applied := make(map[string]bool, len(names))
	for _, n := range names {
		applied[n] = true
	}

	files, err = pendingMigrations(dir, applied)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := applyMigration(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, file string) error {
	name := filepath.Base(file)
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read migration %q: %w", name, err)
	}

	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %q: %w", name, err)
	}
	defer tx.Rollback()

	if stmt := strings.TrimSpace(string(raw)); stmt != "" {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %q: %w", name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
		return fmt.Errorf("record migration %q: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %q: %w", name, err)
	}
	log.Info().Str("file", name).Msg("applied migration")
	return nil
}
