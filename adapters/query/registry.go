// Package query executes read-only SQL against user data sources through
// bounded connection pools, one pool per data source.
package query

import (
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	// SQL drivers for the two supported data source kinds.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"chatbi/domain/core"
	"chatbi/domain/source"
	"chatbi/internal/config"
)

// Registry caches one sqlx pool per data source. Pools are opened lazily and
// bounded by the query configuration so a misbehaving source cannot exhaust
// the process.
type Registry struct {
	mu    sync.RWMutex
	pools map[core.ID]*sqlx.DB
	cfg   config.QueryConfig
}

// NewRegistry creates an empty pool registry
func NewRegistry(cfg config.QueryConfig) *Registry {
	return &Registry{
		pools: make(map[core.ID]*sqlx.DB),
		cfg:   cfg,
	}
}

// Pool returns the pool for a data source, opening it on first use.
// sqlx.Open does not dial; connection failures surface on first query.
func (r *Registry) Pool(ds *source.DataSource) (*sqlx.DB, error) {
	r.mu.RLock()
	db, ok := r.pools[ds.ID]
	r.mu.RUnlock()
	if ok {
		return db, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if db, ok := r.pools[ds.ID]; ok {
		return db, nil
	}

	db, err := sqlx.Open(string(ds.Driver), ds.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool for data source %s: %w", ds.ID, err)
	}
	db.SetMaxOpenConns(r.cfg.MaxOpenConns)
	db.SetMaxIdleConns(r.cfg.MaxIdleConns)
	r.pools[ds.ID] = db
	return db, nil
}

// Invalidate drops the cached pool for a data source, e.g. after its DSN
// changed or it was deleted.
func (r *Registry) Invalidate(id core.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if db, ok := r.pools[id]; ok {
		db.Close()
		delete(r.pools, id)
	}
}

// Close shuts every cached pool
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, db := range r.pools {
		db.Close()
		delete(r.pools, id)
	}
}
