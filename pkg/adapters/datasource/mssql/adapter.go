package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	mssqldb "github.com/microsoft/go-mssqldb" // SQL Server driver
	"go.uber.org/zap"

	"github.com/ekaya-inc/cardinality/pkg/adapters/datasource"
	"github.com/ekaya-inc/cardinality/pkg/apperrors"
	"github.com/ekaya-inc/cardinality/pkg/logging"
	"github.com/ekaya-inc/cardinality/pkg/models"
	"github.com/ekaya-inc/cardinality/pkg/retry"
	sqlsafe "github.com/ekaya-inc/cardinality/pkg/sql"
)

// SQL Server error numbers the loader translates.
const (
	errInvalidColumnName = 207
	errInvalidObjectName = 208
)

// Loader reads key columns from a SQL Server table.
type Loader struct {
	config    *Config
	db        *sql.DB
	name      string
	normalize bool
	logger    *zap.Logger
}

// NewLoader opens the database and verifies it is reachable, retrying
// transient failures.
func NewLoader(ctx context.Context, cfg *Config, name string, opts datasource.LoaderOptions) (*Loader, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("mssql")

	db, err := sql.Open("sqlserver", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open sqlserver connection: %s", logging.SanitizeError(err))
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}

	attempt := 0
	err = retry.DoIfRetryable(ctx, opts.Retry, func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			logger.Debug("Connection attempt failed",
				zap.Int("attempt", attempt),
				zap.String("error", logging.SanitizeError(err)))
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to sqlserver %s: %s", name, logging.SanitizeError(err))
	}

	return &Loader{
		config:    cfg,
		db:        db,
		name:      name,
		normalize: opts.NormalizeNumbers,
		logger:    logger,
	}, nil
}

// LoadDataset reads the named columns of every row in the table.
func (l *Loader) LoadDataset(ctx context.Context, columns []string) (*models.Dataset, error) {
	if err := sqlsafe.CheckIdentifiers(l.config.Table, columns); err != nil {
		return nil, err
	}
	ds, err := models.NewDataset(l.name, columns)
	if err != nil {
		return nil, err
	}

	query := buildSelectQuery(l.config.Schema, l.config.Table, columns)
	l.logger.Debug("Loading table", zap.String("query", logging.SanitizeQuery(query)))

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, l.translateError(err)
	}
	defer rows.Close()

	raw := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row from %s: %w", l.name, err)
		}
		values := make([]models.Value, len(raw))
		for i, s := range raw {
			values[i] = l.toValue(s)
		}
		if err := ds.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, l.translateError(err)
	}

	l.logger.Debug("Loaded table",
		zap.String("schema", l.config.Schema),
		zap.String("table", l.config.Table),
		zap.Int("rows", ds.Len()))

	return ds, nil
}

func (l *Loader) toValue(s sql.NullString) models.Value {
	if !s.Valid {
		return models.NullValue()
	}
	if l.normalize {
		return models.StringValue(datasource.NormalizeNumber(s.String))
	}
	return models.StringValue(s.String)
}

func (l *Loader) translateError(err error) error {
	var msErr mssqldb.Error
	if errors.As(err, &msErr) {
		switch msErr.Number {
		case errInvalidColumnName:
			return fmt.Errorf("%w: %s in %s", apperrors.ErrUnknownColumn, msErr.Message, l.name)
		case errInvalidObjectName:
			return fmt.Errorf("%w: %s in %s", apperrors.ErrTableNotFound, msErr.Message, l.name)
		}
	}
	return fmt.Errorf("query %s: %s", l.name, logging.SanitizeError(err))
}

// Close closes the database handle.
func (l *Loader) Close() error {
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// Ensure Loader implements DatasetLoader at compile time.
var _ datasource.DatasetLoader = (*Loader)(nil)
