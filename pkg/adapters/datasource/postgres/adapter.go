package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ekaya-inc/cardinality/pkg/adapters/datasource"
	"github.com/ekaya-inc/cardinality/pkg/apperrors"
	"github.com/ekaya-inc/cardinality/pkg/logging"
	"github.com/ekaya-inc/cardinality/pkg/models"
	"github.com/ekaya-inc/cardinality/pkg/retry"
	sqlsafe "github.com/ekaya-inc/cardinality/pkg/sql"
)

// PostgreSQL error codes the loader translates.
const (
	codeUndefinedColumn = "42703"
	codeUndefinedTable  = "42P01"
)

// Loader reads key columns from a PostgreSQL table.
type Loader struct {
	config    *Config
	pool      *pgxpool.Pool
	name      string
	normalize bool
	logger    *zap.Logger
}

// NewLoader connects to the database, retrying transient failures such as a
// server that is still starting up.
func NewLoader(ctx context.Context, cfg *Config, name string, opts datasource.LoaderOptions) (*Loader, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("postgres")

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres connection string: %s", logging.SanitizeError(err))
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	attempt := 0
	pool, err := retry.DoWithResult(ctx, opts.Retry, true, func() (*pgxpool.Pool, error) {
		attempt++
		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			logger.Debug("Connection attempt failed",
				zap.Int("attempt", attempt),
				zap.String("error", logging.SanitizeError(err)))
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres %s: %s", name, logging.SanitizeError(err))
	}

	return &Loader{
		config:    cfg,
		pool:      pool,
		name:      name,
		normalize: opts.NormalizeNumbers,
		logger:    logger,
	}, nil
}

// buildSelectQuery returns a SELECT that reads the columns as text so values
// compare the same way regardless of column type.
func buildSelectQuery(schema, table string, columns []string) string {
	exprs := make([]string, len(columns))
	for i, c := range columns {
		ident := pgx.Identifier{c}.Sanitize()
		exprs[i] = ident + "::text AS " + ident
	}
	return fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(exprs, ", "),
		pgx.Identifier{schema, table}.Sanitize())
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

	rows, err := l.pool.Query(ctx, query)
	if err != nil {
		return nil, l.translateError(err)
	}
	defer rows.Close()

	raw := make([]*string, len(columns))
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

func (l *Loader) toValue(s *string) models.Value {
	if s == nil {
		return models.NullValue()
	}
	if l.normalize {
		return models.StringValue(datasource.NormalizeNumber(*s))
	}
	return models.StringValue(*s)
}

func (l *Loader) translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedColumn:
			return fmt.Errorf("%w: %s in %s", apperrors.ErrUnknownColumn, pgErr.Message, l.name)
		case codeUndefinedTable:
			return fmt.Errorf("%w: %s in %s", apperrors.ErrTableNotFound, pgErr.Message, l.name)
		}
	}
	return fmt.Errorf("query %s: %s", l.name, logging.SanitizeError(err))
}

// Close releases the connection pool.
func (l *Loader) Close() error {
	if l.pool != nil {
		l.pool.Close()
		l.pool = nil
	}
	return nil
}

// Ensure Loader implements DatasetLoader at compile time.
var _ datasource.DatasetLoader = (*Loader)(nil)
