package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"chatbi/domain/core"
	"chatbi/domain/source"
	"chatbi/domain/table"
	"chatbi/internal"
	"chatbi/internal/config"
	"chatbi/ports"
)

// introspectParallelism bounds the concurrent column lookups during schema
// introspection.
const introspectParallelism = 4

// Executor implements ports.QueryExecutor over a pool registry.
// Connections are acquired with a bounded timeout and released on every exit
// path; when the pool cannot hand out a connection in time, the caller gets
// a retryable pool-unavailable error instead of blocking.
type Executor struct {
	registry *Registry
	cfg      config.QueryConfig
	log      *internal.Logger
}

// NewExecutor creates a query executor
func NewExecutor(registry *Registry, cfg config.QueryConfig, log *internal.Logger) *Executor {
	return &Executor{
		registry: registry,
		cfg:      cfg,
		log:      log.WithComponent("QueryExecutor"),
	}
}

var _ ports.QueryExecutor = (*Executor)(nil)

// Execute runs a read-only statement and materializes the rows
func (e *Executor) Execute(ctx context.Context, ds *source.DataSource, query string) (*table.Result, error) {
	if err := validateReadOnly(query); err != nil {
		return nil, err
	}

	db, err := e.registry.Pool(ds)
	if err != nil {
		return nil, err
	}

	acquireCtx, cancel := context.WithTimeout(ctx, e.cfg.AcquireTimeout)
	defer cancel()
	conn, err := db.Connx(acquireCtx)
	if err != nil {
		// Only the acquire timeout itself means pool exhaustion; the
		// request's own deadline expiring here is not retryable.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("failed to acquire connection: %w", ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: data source %s", core.ErrPoolUnavailable, ds.ID)
		}
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	start := time.Now()
	rows, err := conn.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &table.Result{Columns: columns, Rows: []table.Row{}}
	for rows.Next() {
		if len(result.Rows) >= e.cfg.MaxRows {
			e.log.Warn("result truncated at %d rows for data source %s", e.cfg.MaxRows, ds.ID)
			break
		}
		row := make(table.Row, len(columns))
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		normalizeRow(row)
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	e.log.Debug("executed query on %s: %d rows in %s", ds.Name, len(result.Rows), time.Since(start))
	return result, nil
}

// Introspect lists the tables of a data source and fans out the per-table
// column lookups concurrently.
func (e *Executor) Introspect(ctx context.Context, ds *source.DataSource) ([]source.TableSchema, error) {
	db, err := e.registry.Pool(ds)
	if err != nil {
		return nil, err
	}

	tables := []string{}
	if err := db.SelectContext(ctx, &tables, tablesQuery(ds.Driver)); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	schemas := make([]source.TableSchema, len(tables))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(introspectParallelism)
	for i, name := range tables {
		g.Go(func() error {
			type columnRow struct {
				Name     string `db:"column_name"`
				DataType string `db:"data_type"`
				Nullable string `db:"is_nullable"`
			}
			cols := []columnRow{}
			query := db.Rebind(columnsQuery(ds.Driver))
			if err := db.SelectContext(gctx, &cols, query, name); err != nil {
				return fmt.Errorf("failed to describe table %s: %w", name, err)
			}

			schema := source.TableSchema{Name: name, Columns: make([]source.ColumnSchema, len(cols))}
			for j, c := range cols {
				schema.Columns[j] = source.ColumnSchema{
					Name:     c.Name,
					DataType: c.DataType,
					Nullable: strings.EqualFold(c.Nullable, "YES"),
				}
			}
			mu.Lock()
			schemas[i] = schema
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas, nil
}

// Ping verifies the data source is reachable
func (e *Executor) Ping(ctx context.Context, ds *source.DataSource) error {
	db, err := e.registry.Pool(ds)
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, e.cfg.AcquireTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("data source %s unreachable: %w", ds.Name, err)
	}
	return nil
}

// validateReadOnly rejects anything that is not a SELECT or WITH statement.
// The AI model is prompted to emit SELECTs only, but the guard is enforced
// here, not trusted to the prompt.
func validateReadOnly(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return fmt.Errorf("%w: empty statement", core.ErrQueryRejected)
	}
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("%w: only SELECT statements are allowed", core.ErrQueryRejected)
	}
	if i := strings.Index(trimmed, ";"); i >= 0 && strings.TrimRight(trimmed[i:], "; \t\n") != "" {
		return fmt.Errorf("%w: multiple statements are not allowed", core.ErrQueryRejected)
	}
	return nil
}

func tablesQuery(driver source.Driver) string {
	if driver == source.DriverPostgres {
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_type = 'BASE TABLE' ORDER BY table_name`
	}
	return `SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name`
}

func columnsQuery(driver source.Driver) string {
	if driver == source.DriverPostgres {
		return `SELECT column_name, data_type, is_nullable FROM information_schema.columns
			WHERE table_schema = 'public' AND table_name = ? ORDER BY ordinal_position`
	}
	return `SELECT column_name, data_type, is_nullable FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position`
}

// normalizeRow converts driver byte slices to strings so results serialize
// and coerce uniformly.
func normalizeRow(row table.Row) {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
}
