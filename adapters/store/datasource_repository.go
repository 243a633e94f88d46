// Package store implements the configuration-store repositories over sqlx.
// The store itself is MySQL; user data sources queried at analysis time may
// be MySQL or Postgres and are handled by adapters/query.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"chatbi/domain/core"
	"chatbi/domain/source"
	"chatbi/ports"
)

// dataSourceRepository implements ports.DataSourceRepository
type dataSourceRepository struct {
	db *sqlx.DB
}

// NewDataSourceRepository creates a new data source repository
func NewDataSourceRepository(db *sqlx.DB) ports.DataSourceRepository {
	return &dataSourceRepository{db: db}
}

func (r *dataSourceRepository) Create(ctx context.Context, ds *source.DataSource) error {
	query := `INSERT INTO data_sources (
		id, name, driver, dsn, description, enabled, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		ds.ID, ds.Name, ds.Driver, ds.DSN, ds.Description, ds.Enabled, ds.CreatedAt, ds.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}
	return nil
}

func (r *dataSourceRepository) GetByID(ctx context.Context, id core.ID) (*source.DataSource, error) {
	query := `SELECT id, name, driver, dsn, COALESCE(description, '') AS description,
		enabled, created_at, updated_at
	FROM data_sources WHERE id = ?`

	var ds source.DataSource
	if err := r.db.GetContext(ctx, &ds, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("data source", id.String())
		}
		return nil, fmt.Errorf("failed to get data source: %w", err)
	}
	return &ds, nil
}

func (r *dataSourceRepository) List(ctx context.Context) ([]*source.DataSource, error) {
	query := `SELECT id, name, driver, dsn, COALESCE(description, '') AS description,
		enabled, created_at, updated_at
	FROM data_sources ORDER BY created_at DESC`

	sources := []*source.DataSource{}
	if err := r.db.SelectContext(ctx, &sources, query); err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}
	return sources, nil
}

func (r *dataSourceRepository) Update(ctx context.Context, ds *source.DataSource) error {
	ds.UpdatedAt = time.Now().UTC()
	query := `UPDATE data_sources SET
		name = ?, driver = ?, dsn = ?, description = ?, enabled = ?, updated_at = ?
	WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		ds.Name, ds.Driver, ds.DSN, ds.Description, ds.Enabled, ds.UpdatedAt, ds.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update data source: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NewNotFoundError("data source", ds.ID.String())
	}
	return nil
}

func (r *dataSourceRepository) Delete(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM data_sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete data source: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NewNotFoundError("data source", id.String())
	}
	return nil
}
