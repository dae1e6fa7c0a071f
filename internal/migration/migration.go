package migration

import (
	"context"

	"statadvisor/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRecommendationLogTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create recommendation_log table")
	}

	if err := r.addCatalogVersionColumn(ctx, db); err != nil {
		return errors.Wrap(err, "failed to add catalog_version to recommendation_log")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createRecommendationLogTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS recommendation_log (
			id UUID PRIMARY KEY,
			dataset_fingerprint VARCHAR(64) NOT NULL,
			purpose VARCHAR(32) NOT NULL,
			value_column TEXT,
			group_column TEXT,
			method_id VARCHAR(100) NOT NULL,
			confidence DECIMAL(4,2) NOT NULL,
			assumptions_skipped BOOLEAN NOT NULL DEFAULT false,
			payload JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

// addCatalogVersionColumn upgrades tables created before the catalog was versioned
func (r *MigrationRunner) addCatalogVersionColumn(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'recommendation_log' AND column_name = 'catalog_version'
			) THEN
				ALTER TABLE recommendation_log ADD COLUMN catalog_version VARCHAR(32) NOT NULL DEFAULT '';
			END IF;
		END $$;
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_recommendation_log_fingerprint ON recommendation_log(dataset_fingerprint, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendation_log_method ON recommendation_log(method_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
