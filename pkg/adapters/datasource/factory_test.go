package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ekaya-inc/cardinality/pkg/models"
)

// mockLoader records the options it was created with.
type mockLoader struct {
	opts   LoaderOptions
	closed bool
}

func (m *mockLoader) LoadDataset(ctx context.Context, columns []string) (*models.Dataset, error) {
	return models.NewDataset("mock", columns)
}

func (m *mockLoader) Close() error {
	m.closed = true
	return nil
}

const mockType = "mock-factory-test"

func init() {
	Register(DatasourceAdapterRegistration{
		Info: DatasourceAdapterInfo{
			Type:        mockType,
			DisplayName: "Mock",
			Schemes:     []string{"mockdb"},
		},
		LoaderFactory: func(ctx context.Context, src *Source, opts LoaderOptions) (DatasetLoader, error) {
			return &mockLoader{opts: opts}, nil
		},
	})
}

func TestDatasetLoaderFactory_NewLoader(t *testing.T) {
	factory := NewDatasetLoaderFactory(LoaderOptions{
		NullMarkers: []string{"NA"},
		Logger:      zaptest.NewLogger(t),
	})

	l, err := factory.NewLoader(context.Background(), &Source{Type: mockType})
	require.NoError(t, err)

	mock, ok := l.(*mockLoader)
	require.True(t, ok)
	assert.Equal(t, '\t', mock.opts.Delimiter, "delimiter defaults to tab")
	assert.Equal(t, []string{"NA"}, mock.opts.NullMarkers)
	assert.NotNil(t, mock.opts.Logger)
}

func TestDatasetLoaderFactory_UnsupportedType(t *testing.T) {
	factory := NewDatasetLoaderFactory(LoaderOptions{})

	_, err := factory.NewLoader(context.Background(), &Source{Type: "unknown"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported datasource type: unknown")
}

func TestRegistry(t *testing.T) {
	assert.NotNil(t, GetLoaderFactory(mockType))
	assert.Nil(t, GetLoaderFactory("nope"))

	dsType, ok := typeForScheme("mockdb")
	assert.True(t, ok)
	assert.Equal(t, mockType, dsType)

	_, ok = typeForScheme("ftp")
	assert.False(t, ok)
}
