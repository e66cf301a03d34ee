package postgres

import (
	"fmt"
	"time"

	"github.com/ekaya-inc/cardinality/pkg/adapters/datasource"
	sqlsafe "github.com/ekaya-inc/cardinality/pkg/sql"
)

// DefaultSchema is used when the table reference has no schema.
const DefaultSchema = "public"

// Config contains what a loader needs to reach one PostgreSQL table.
type Config struct {
	URL            string // connection URL without the table parameter
	Schema         string
	Table          string
	MaxConns       int32
	ConnectTimeout time.Duration
}

// FromSource creates a Config from a parsed source reference.
func FromSource(src *datasource.Source, opts datasource.LoaderOptions) (*Config, error) {
	if src.Table == "" {
		return nil, fmt.Errorf("postgres source %s: table is required", src.Display())
	}
	schema, table := sqlsafe.SplitQualifiedName(src.Table, DefaultSchema)
	if err := sqlsafe.CheckIdentifiers(schema, nil); err != nil {
		return nil, err
	}
	if err := sqlsafe.CheckIdentifiers(table, nil); err != nil {
		return nil, err
	}

	return &Config{
		URL:            src.Location,
		Schema:         schema,
		Table:          table,
		MaxConns:       opts.MaxConns,
		ConnectTimeout: opts.ConnectTimeout,
	}, nil
}
