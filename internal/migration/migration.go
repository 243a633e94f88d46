package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"chatbi/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the configuration-store schema (MySQL)
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all migrations in dependency order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createDataSourcesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create data_sources table")
	}
	if err := r.createDataTablesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create data_tables table")
	}
	if err := r.createTableRelationsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create table_relations table")
	}
	return nil
}

func (r *MigrationRunner) createDataSourcesTable(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS data_sources (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		driver VARCHAR(32) NOT NULL,
		dsn TEXT NOT NULL,
		description TEXT,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE KEY uq_data_sources_name (name)
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}

func (r *MigrationRunner) createDataTablesTable(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS data_tables (
		id VARCHAR(36) PRIMARY KEY,
		data_source_id VARCHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		display_name VARCHAR(255),
		description TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		KEY idx_data_tables_source (data_source_id),
		CONSTRAINT fk_data_tables_source FOREIGN KEY (data_source_id)
			REFERENCES data_sources (id) ON DELETE CASCADE
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}

func (r *MigrationRunner) createTableRelationsTable(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS table_relations (
		id VARCHAR(36) PRIMARY KEY,
		source_table_id VARCHAR(36) NOT NULL,
		target_table_id VARCHAR(36) NOT NULL,
		source_column VARCHAR(255) NOT NULL,
		target_column VARCHAR(255) NOT NULL,
		relation_type VARCHAR(32) NOT NULL,
		created_at DATETIME NOT NULL,
		KEY idx_table_relations_source (source_table_id),
		KEY idx_table_relations_target (target_table_id),
		CONSTRAINT fk_relations_source FOREIGN KEY (source_table_id)
			REFERENCES data_tables (id) ON DELETE CASCADE,
		CONSTRAINT fk_relations_target FOREIGN KEY (target_table_id)
			REFERENCES data_tables (id) ON DELETE CASCADE
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}
