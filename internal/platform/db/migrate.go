package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the engine's durable state. Safe to call on every start
// due to IF NOT EXISTS clauses; the counter table is the only state this
// engine owns besides the company profile snapshot.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	logger.Info("running database migrations")

	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("platform/db: migrate: %w", err)
		}
	}

	logger.Info("database migrations complete")
	return nil
}

var migrations = []string{
	// One row per (tenant, document type); counter holds the next value to
	// issue and only ever moves through the atomic increment or an explicit
	// operator reset.
	`CREATE TABLE IF NOT EXISTS document_number_formats (
		tenant_id TEXT NOT NULL,
		document_type TEXT NOT NULL,
		prefix TEXT NOT NULL DEFAULT '',
		separator TEXT NOT NULL DEFAULT '-',
		padding INT NOT NULL DEFAULT 6,
		counter BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (tenant_id, document_type),
		CHECK (padding BETWEEN 2 AND 8),
		CHECK (counter >= 0)
	)`,

	// Company identity printed on every rendered document.
	`CREATE TABLE IF NOT EXISTS company_profiles (
		tenant_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		logo_ref TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}
