package ports

import (
	"context"

	"chatbi/domain/core"
	"chatbi/domain/source"
	"chatbi/domain/table"
)

// QueryExecutor runs read-only SQL against a user data source through a
// pooled connection. Implementations must release connections on every exit
// path and surface pool exhaustion as a retryable error rather than
// blocking indefinitely.
type QueryExecutor interface {
	Execute(ctx context.Context, ds *source.DataSource, query string) (*table.Result, error)
	Introspect(ctx context.Context, ds *source.DataSource) ([]source.TableSchema, error)
	Ping(ctx context.Context, ds *source.DataSource) error
}

// PoolInvalidator drops a cached connection pool after a data source's
// connection settings change or the source is deleted.
type PoolInvalidator interface {
	Invalidate(id core.ID)
}
