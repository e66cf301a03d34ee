package tsv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ekaya-inc/cardinality/pkg/adapters/datasource"
	"github.com/ekaya-inc/cardinality/pkg/apperrors"
	"github.com/ekaya-inc/cardinality/pkg/models"
)

// Loader reads a delimited text file with a header row.
type Loader struct {
	path        string
	name        string
	delimiter   rune
	nullMarkers map[string]struct{}
	normalize   bool
	file        *os.File
	logger      *zap.Logger
}

// NewLoader opens the file behind src.
func NewLoader(src *datasource.Source, opts datasource.LoaderOptions) (*Loader, error) {
	f, err := os.Open(src.Location)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Location, err)
	}

	markers := make(map[string]struct{}, len(opts.NullMarkers))
	for _, m := range opts.NullMarkers {
		markers[m] = struct{}{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = '\t'
	}

	return &Loader{
		path:        src.Location,
		name:        src.Display(),
		delimiter:   delimiter,
		nullMarkers: markers,
		normalize:   opts.NormalizeNumbers,
		file:        f,
		logger:      logger.Named("tsv"),
	}, nil
}

// LoadDataset reads the header, then every record, keeping only the
// requested columns. The file is read once; a second call fails.
func (l *Loader) LoadDataset(ctx context.Context, columns []string) (*models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := csv.NewReader(l.file)
	r.Comma = l.delimiter
	r.ReuseRecord = true
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: no header row", l.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", l.path, err)
	}

	positions := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := positions[h]; !dup {
			positions[h] = i
		}
	}
	pick := make([]int, len(columns))
	for i, c := range columns {
		pos, ok := positions[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q not in header of %s", apperrors.ErrUnknownColumn, c, l.path)
		}
		pick[i] = pos
	}

	ds, err := models.NewDataset(l.name, columns)
	if err != nil {
		return nil, err
	}

	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", l.path, err)
		}

		values := make([]models.Value, len(pick))
		for i, pos := range pick {
			if pos >= len(record) {
				values[i] = models.NullValue() // short row
				continue
			}
			values[i] = l.parseValue(record[pos])
		}
		if err := ds.AppendRow(values...); err != nil {
			return nil, err
		}
	}

	l.logger.Debug("Loaded file",
		zap.String("path", l.path),
		zap.Strings("columns", columns),
		zap.Int("rows", ds.Len()))

	return ds, nil
}

func (l *Loader) parseValue(field string) models.Value {
	if _, isNull := l.nullMarkers[field]; isNull {
		return models.NullValue()
	}
	if l.normalize {
		field = datasource.NormalizeNumber(field)
	}
	return models.StringValue(field)
}

// Close releases the file.
func (l *Loader) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Ensure Loader implements DatasetLoader at compile time.
var _ datasource.DatasetLoader = (*Loader)(nil)
