package mssql

import (
	"fmt"
	"time"

	"github.com/ekaya-inc/cardinality/pkg/adapters/datasource"
	sqlsafe "github.com/ekaya-inc/cardinality/pkg/sql"
)

// DefaultSchema is used when the table reference has no schema.
const DefaultSchema = "dbo"

// DefaultConnectionTimeout applies when no connect timeout is configured.
const DefaultConnectionTimeout = 30 * time.Second

// Config contains what a loader needs to reach one SQL Server table.
type Config struct {
	URL            string // sqlserver:// URL without the table parameter
	Schema         string
	Table          string
	MaxConns       int
	ConnectTimeout time.Duration
}

// FromSource creates a Config from a parsed source reference.
func FromSource(src *datasource.Source, opts datasource.LoaderOptions) (*Config, error) {
	if src.Table == "" {
		return nil, fmt.Errorf("sqlserver source %s: table is required", src.Display())
	}
	schema, table := sqlsafe.SplitQualifiedName(src.Table, DefaultSchema)
	if err := sqlsafe.CheckIdentifiers(schema, nil); err != nil {
		return nil, err
	}
	if err := sqlsafe.CheckIdentifiers(table, nil); err != nil {
		return nil, err
	}

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectionTimeout
	}

	return &Config{
		URL:            src.Location,
		Schema:         schema,
		Table:          table,
		MaxConns:       int(opts.MaxConns),
		ConnectTimeout: timeout,
	}, nil
}
