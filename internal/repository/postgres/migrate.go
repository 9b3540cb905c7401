package postgres

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationStatus describes one embedded migration and whether it has
// been applied to the connected database.
type MigrationStatus struct {
	Version string
	Applied bool
}

// Migrate applies all pending embedded migrations in order. Each
// migration runs in its own transaction together with its version
// bookkeeping row.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	versions, err := migrationVersions()
	if err != nil {
		return err
	}

	for _, version := range versions {
		var exists bool
		err := db.Pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, version).
			Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", version, err)
		}
		if exists {
			continue
		}

		sql, err := migrationFiles.ReadFile("migrations/" + version)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", version, err)
		}

		err = db.WithTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(sql)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", version, err)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		db.logger.Info().Str("version", version).Msg("applied migration")
	}

	return nil
}

// MigrationStatuses reports each embedded migration and whether the
// connected database has applied it.
func (db *DB) MigrationStatuses(ctx context.Context) ([]MigrationStatus, error) {
	applied := map[string]bool{}

	rows, err := db.Pool.Query(ctx, `
		SELECT version FROM schema_migrations ORDER BY version
	`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return nil, fmt.Errorf("failed to scan migration version: %w", err)
			}
			applied[v] = true
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate migration versions: %w", err)
		}
	}
	// A query error here usually means schema_migrations does not exist
	// yet; report everything as pending.

	versions, err := migrationVersions()
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(versions))
	for _, version := range versions {
		statuses = append(statuses, MigrationStatus{
			Version: version,
			Applied: applied[version],
		})
	}
	return statuses, nil
}

func migrationVersions() ([]string, error) {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}
	sort.Strings(versions)
	return versions, nil
}
