package datasource

import (
	"context"

	"github.com/ekaya-inc/cardinality/pkg/models"
)

// DatasetLoader reads tabular data from a source into memory.
// Each implementation owns its file handle or connection and must be closed
// when done.
type DatasetLoader interface {
	// LoadDataset reads only the named columns, in the given order.
	// Missing values are returned as null.
	LoadDataset(ctx context.Context, columns []string) (*models.Dataset, error)

	// Close releases the underlying resources.
	Close() error
}
