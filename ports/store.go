package ports

import (
	"context"

	"chatbi/domain/core"
	"chatbi/domain/source"
)

// DataSourceRepository defines storage operations for data source configurations
type DataSourceRepository interface {
	Create(ctx context.Context, ds *source.DataSource) error
	GetByID(ctx context.Context, id core.ID) (*source.DataSource, error)
	List(ctx context.Context) ([]*source.DataSource, error)
	Update(ctx context.Context, ds *source.DataSource) error
	Delete(ctx context.Context, id core.ID) error
}

// DataTableRepository defines storage operations for registered data tables
type DataTableRepository interface {
	Create(ctx context.Context, dt *source.DataTable) error
	GetByID(ctx context.Context, id core.ID) (*source.DataTable, error)
	ListByDataSource(ctx context.Context, dataSourceID core.ID) ([]*source.DataTable, error)
	Update(ctx context.Context, dt *source.DataTable) error
	Delete(ctx context.Context, id core.ID) error
}

// RelationRepository defines storage operations for table relations
type RelationRepository interface {
	Create(ctx context.Context, rel *source.TableRelation) error
	ListByTable(ctx context.Context, tableID core.ID) ([]*source.TableRelation, error)
	Delete(ctx context.Context, id core.ID) error
}
