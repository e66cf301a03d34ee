package datasource

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/cardinality/pkg/retry"
)

// LoaderOptions carries the settings shared by all loaders.
type LoaderOptions struct {
	// Delimiter separates fields in file sources.
	Delimiter rune
	// NullMarkers are field values read as null in file sources.
	NullMarkers []string
	// NormalizeNumbers rewrites numeric text to a canonical form so 1 and 1.0
	// compare equal.
	NormalizeNumbers bool

	// MaxConns caps the connection pool of database sources.
	MaxConns int32
	// ConnectTimeout bounds each connection attempt.
	ConnectTimeout time.Duration
	// Retry controls reconnect behavior for transient failures.
	Retry *retry.Config

	Logger *zap.Logger
}

// DatasetLoaderFactory creates loaders from the registry.
type DatasetLoaderFactory interface {
	// NewLoader creates a loader for the given source.
	NewLoader(ctx context.Context, src *Source) (DatasetLoader, error)
}

type registryFactory struct {
	opts LoaderOptions
}

// NewDatasetLoaderFactory returns a factory that uses the global registry.
func NewDatasetLoaderFactory(opts LoaderOptions) DatasetLoaderFactory {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = '\t'
	}
	return &registryFactory{
		opts: opts,
	}
}

func (f *registryFactory) NewLoader(ctx context.Context, src *Source) (DatasetLoader, error) {
	factory := GetLoaderFactory(src.Type)
	if factory == nil {
		return nil, fmt.Errorf("unsupported datasource type: %s (not compiled in)", src.Type)
	}
	return factory(ctx, src, f.opts)
}

// Ensure registryFactory implements DatasetLoaderFactory at compile time.
var _ DatasetLoaderFactory = (*registryFactory)(nil)
