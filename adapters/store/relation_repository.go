package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"chatbi/domain/core"
	"chatbi/domain/source"
	"chatbi/ports"
)

// relationRepository implements ports.RelationRepository
type relationRepository struct {
	db *sqlx.DB
}

// NewRelationRepository creates a new table relation repository
func NewRelationRepository(db *sqlx.DB) ports.RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) Create(ctx context.Context, rel *source.TableRelation) error {
	query := `INSERT INTO table_relations (
		id, source_table_id, target_table_id, source_column, target_column, relation_type, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rel.ID, rel.SourceTableID, rel.TargetTableID, rel.SourceColumn, rel.TargetColumn,
		rel.RelationType, rel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create table relation: %w", err)
	}
	return nil
}

func (r *relationRepository) ListByTable(ctx context.Context, tableID core.ID) ([]*source.TableRelation, error) {
	query := `SELECT id, source_table_id, target_table_id, source_column, target_column,
		relation_type, created_at
	FROM table_relations
	WHERE source_table_id = ? OR target_table_id = ?
	ORDER BY created_at`

	relations := []*source.TableRelation{}
	if err := r.db.SelectContext(ctx, &relations, query, tableID, tableID); err != nil {
		return nil, fmt.Errorf("failed to list table relations: %w", err)
	}
	return relations, nil
}

func (r *relationRepository) Delete(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM table_relations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete table relation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NewNotFoundError("table relation", id.String())
	}
	return nil
}
