package datasource

import (
	"context"
	"sync"
)

// DatasourceAdapterInfo describes a registered adapter.
type DatasourceAdapterInfo struct {
	Type        string   `json:"type"`         // "tsv", "postgres", "sqlserver"
	DisplayName string   `json:"display_name"` // "Tab-separated file", "PostgreSQL"
	Description string   `json:"description"`
	Schemes     []string `json:"schemes"` // URL schemes routed to this adapter; empty for file adapters
}

// DatasourceAdapterRegistration contains info + factory for creating loaders.
type DatasourceAdapterRegistration struct {
	Info          DatasourceAdapterInfo
	LoaderFactory func(ctx context.Context, src *Source, opts LoaderOptions) (DatasetLoader, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]DatasourceAdapterRegistration)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg DatasourceAdapterRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// GetLoaderFactory returns the loader factory for a datasource type.
// Returns nil if type is not registered.
func GetLoaderFactory(dsType string) func(ctx context.Context, src *Source, opts LoaderOptions) (DatasetLoader, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[dsType]; ok {
		return reg.LoaderFactory
	}
	return nil
}

// typeForScheme returns the adapter type serving a URL scheme.
func typeForScheme(scheme string) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, reg := range registry {
		for _, s := range reg.Info.Schemes {
			if s == scheme {
				return reg.Info.Type, true
			}
		}
	}
	return "", false
}
