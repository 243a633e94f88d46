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

// dataTableRepository implements ports.DataTableRepository
type dataTableRepository struct {
	db *sqlx.DB
}

// NewDataTableRepository creates a new data table repository
func NewDataTableRepository(db *sqlx.DB) ports.DataTableRepository {
	return &dataTableRepository{db: db}
}

func (r *dataTableRepository) Create(ctx context.Context, dt *source.DataTable) error {
	query := `INSERT INTO data_tables (
		id, data_source_id, name, display_name, description, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		dt.ID, dt.DataSourceID, dt.Name, dt.DisplayName, dt.Description, dt.CreatedAt, dt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create data table: %w", err)
	}
	return nil
}

func (r *dataTableRepository) GetByID(ctx context.Context, id core.ID) (*source.DataTable, error) {
	query := `SELECT id, data_source_id, name,
		COALESCE(display_name, '') AS display_name, COALESCE(description, '') AS description,
		created_at, updated_at
	FROM data_tables WHERE id = ?`

	var dt source.DataTable
	if err := r.db.GetContext(ctx, &dt, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("data table", id.String())
		}
		return nil, fmt.Errorf("failed to get data table: %w", err)
	}
	return &dt, nil
}

func (r *dataTableRepository) ListByDataSource(ctx context.Context, dataSourceID core.ID) ([]*source.DataTable, error) {
	query := `SELECT id, data_source_id, name,
		COALESCE(display_name, '') AS display_name, COALESCE(description, '') AS description,
		created_at, updated_at
	FROM data_tables WHERE data_source_id = ? ORDER BY name`

	tables := []*source.DataTable{}
	if err := r.db.SelectContext(ctx, &tables, query, dataSourceID); err != nil {
		return nil, fmt.Errorf("failed to list data tables: %w", err)
	}
	return tables, nil
}

func (r *dataTableRepository) Update(ctx context.Context, dt *source.DataTable) error {
	dt.UpdatedAt = time.Now().UTC()
	query := `UPDATE data_tables SET
		name = ?, display_name = ?, description = ?, updated_at = ?
	WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, dt.Name, dt.DisplayName, dt.Description, dt.UpdatedAt, dt.ID)
	if err != nil {
		return fmt.Errorf("failed to update data table: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NewNotFoundError("data table", dt.ID.String())
	}
	return nil
}

func (r *dataTableRepository) Delete(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM data_tables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete data table: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NewNotFoundError("data table", id.String())
	}
	return nil
}
