package source

import (
	"fmt"
	"strings"
	"time"

	"chatbi/domain/core"
)

// Driver identifies the SQL driver used to reach a user data source
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
)

// DataSource is a user-registered database connection
type DataSource struct {
	ID          core.ID   `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Driver      Driver    `json:"driver" db:"driver"`
	DSN         string    `json:"dsn" db:"dsn"`
	Description string    `json:"description,omitempty" db:"description"`
	Enabled     bool      `json:"enabled" db:"enabled"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks the fields a data source needs before it can be stored
func (d *DataSource) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("data source name is required")
	}
	if strings.TrimSpace(d.DSN) == "" {
		return fmt.Errorf("data source DSN is required")
	}
	switch d.Driver {
	case DriverMySQL, DriverPostgres:
		return nil
	default:
		return fmt.Errorf("unsupported driver %q", d.Driver)
	}
}

// NewDataSource creates a data source with generated ID and timestamps
func NewDataSource(name string, driver Driver, dsn string) *DataSource {
	now := time.Now().UTC()
	return &DataSource{
		ID:        core.NewID(),
		Name:      name,
		Driver:    driver,
		DSN:       dsn,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DataTable is a table exposed for querying within a data source
type DataTable struct {
	ID           core.ID   `json:"id" db:"id"`
	DataSourceID core.ID   `json:"data_source_id" db:"data_source_id"`
	Name         string    `json:"name" db:"name"`
	DisplayName  string    `json:"display_name,omitempty" db:"display_name"`
	Description  string    `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableRelation links two data tables for join generation
type TableRelation struct {
	ID            core.ID   `json:"id" db:"id"`
	SourceTableID core.ID   `json:"source_table_id" db:"source_table_id"`
	TargetTableID core.ID   `json:"target_table_id" db:"target_table_id"`
	SourceColumn  string    `json:"source_column" db:"source_column"`
	TargetColumn  string    `json:"target_column" db:"target_column"`
	RelationType  string    `json:"relation_type" db:"relation_type"` // 'one_to_one', 'one_to_many', 'many_to_many'
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ColumnSchema describes one column of an introspected table
type ColumnSchema struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Nullable bool   `json:"nullable"`
}

// TableSchema describes one introspected table
type TableSchema struct {
	Name    string         `json:"name"`
	Columns []ColumnSchema `json:"columns"`
}
