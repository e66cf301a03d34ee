package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ekaya-inc/cardinality/pkg/adapters/datasource"
	_ "github.com/ekaya-inc/cardinality/pkg/adapters/datasource/tsv"
	"github.com/ekaya-inc/cardinality/pkg/apperrors"
	"github.com/ekaya-inc/cardinality/pkg/models"
)

// fakeLoaderFactory serves canned datasets keyed by source location.
type fakeLoaderFactory struct {
	mu       sync.Mutex
	datasets map[string]*models.Dataset
	loadErr  map[string]error
	closed   int
}

func (f *fakeLoaderFactory) NewLoader(ctx context.Context, src *datasource.Source) (datasource.DatasetLoader, error) {
	return &fakeLoader{factory: f, location: src.Location}, nil
}

type fakeLoader struct {
	factory  *fakeLoaderFactory
	location string
}

func (l *fakeLoader) LoadDataset(ctx context.Context, columns []string) (*models.Dataset, error) {
	if err := l.factory.loadErr[l.location]; err != nil {
		return nil, err
	}
	ds, ok := l.factory.datasets[l.location]
	if !ok {
		return nil, errors.New("no dataset for " + l.location)
	}
	return ds, nil
}

func (l *fakeLoader) Close() error {
	l.factory.mu.Lock()
	defer l.factory.mu.Unlock()
	l.factory.closed++
	return nil
}

// touch creates an empty file so the path parses as a file source.
func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

func newTestRelationService(t *testing.T, loaders datasource.DatasetLoaderFactory) *relationService {
	svc := NewRelationService(loaders, NewKeyValidator(zap.NewNop()), NewCardinalityAnalyzer(zap.NewNop()), zaptest.NewLogger(t))
	s := svc.(*relationService)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestRelationService_Analyze(t *testing.T) {
	dir := t.TempDir()
	pkPath := touch(t, dir, "pk.tsv")
	fkPath := touch(t, dir, "fk.tsv")

	loaders := &fakeLoaderFactory{
		datasets: map[string]*models.Dataset{
			pkPath: column(t, pkPath, 1, 2, 3),
			fkPath: column(t, fkPath, 1, 1, 2, nil),
		},
	}
	svc := newTestRelationService(t, loaders)

	report, err := svc.Analyze(context.Background(), AnalyzeRequest{
		PrimaryKey: KeySide{Ref: pkPath, Columns: idKey},
		ForeignKey: KeySide{Ref: fkPath, Columns: idKey},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, pkPath, report.PrimaryKeySource)
	assert.Equal(t, fkPath, report.ForeignKeySource)
	assert.Equal(t, 3, report.PrimaryKeyRows)
	assert.Equal(t, 4, report.ForeignKeyRows)
	assert.Equal(t, rel(0, 1, 0, 2), report.Relation)
	assert.Equal(t, "0,1 to 0,2", report.Cardinality)
	assert.Equal(t, models.RelationOneToMany, report.Class)
	assert.Equal(t, models.RelationManyToOne, report.ReverseClass)
	assert.Equal(t, "0,2 to 0,1", report.ReverseNotation)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), report.AnalyzedAt)
	assert.Equal(t, 2, loaders.closed)
}

func TestRelationService_KeyViolation(t *testing.T) {
	dir := t.TempDir()
	pkPath := touch(t, dir, "pk.tsv")
	fkPath := touch(t, dir, "fk.tsv")

	loaders := &fakeLoaderFactory{
		datasets: map[string]*models.Dataset{
			pkPath: column(t, pkPath, 1, 1),
			fkPath: column(t, fkPath, 1),
		},
	}
	svc := newTestRelationService(t, loaders)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		PrimaryKey: KeySide{Ref: pkPath, Columns: idKey},
		ForeignKey: KeySide{Ref: fkPath, Columns: idKey},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicatePrimaryKey)
}

func TestRelationService_ColumnCountCheckedBeforeLoading(t *testing.T) {
	loaders := &fakeLoaderFactory{}
	svc := newTestRelationService(t, loaders)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		PrimaryKey: KeySide{Ref: "/does/not/exist", Columns: []string{"a", "b"}},
		ForeignKey: KeySide{Ref: "/does/not/exist", Columns: []string{"a"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrColumnCountMismatch)
	assert.Equal(t, 0, loaders.closed)
}

func TestRelationService_EmptyKey(t *testing.T) {
	svc := newTestRelationService(t, &fakeLoaderFactory{})

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		PrimaryKey: KeySide{Ref: "pk.tsv"},
		ForeignKey: KeySide{Ref: "fk.tsv", Columns: idKey},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmptyKey)
}

func TestRelationService_NotAFile(t *testing.T) {
	dir := t.TempDir()
	svc := newTestRelationService(t, &fakeLoaderFactory{})

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		PrimaryKey: KeySide{Ref: dir, Columns: idKey},
		ForeignKey: KeySide{Ref: dir, Columns: idKey},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotAFile)
	assert.Equal(t, dir+" is not a file", err.Error())
}

func TestRelationService_LoadError(t *testing.T) {
	dir := t.TempDir()
	pkPath := touch(t, dir, "pk.tsv")
	fkPath := touch(t, dir, "fk.tsv")

	loadErr := errors.New("disk on fire")
	loaders := &fakeLoaderFactory{
		datasets: map[string]*models.Dataset{
			pkPath: column(t, pkPath, 1),
		},
		loadErr: map[string]error{fkPath: loadErr},
	}
	svc := newTestRelationService(t, loaders)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		PrimaryKey: KeySide{Ref: pkPath, Columns: idKey},
		ForeignKey: KeySide{Ref: fkPath, Columns: idKey},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, 2, loaders.closed)
}

func TestRelationService_AnalyzeFiles(t *testing.T) {
	dir := t.TempDir()
	pkPath := filepath.Join(dir, "customers.tsv")
	fkPath := filepath.Join(dir, "orders.tsv")
	require.NoError(t, os.WriteFile(pkPath, []byte("id\tname\n1\tann\n2\tbob\n3\tcy\n"), 0o600))
	require.NoError(t, os.WriteFile(fkPath, []byte("order\tcustomer\n10\t1\n11\t1.0\n12\t2\n13\t\n"), 0o600))

	loaders := datasource.NewDatasetLoaderFactory(datasource.LoaderOptions{
		NullMarkers:      []string{""},
		NormalizeNumbers: true,
		Logger:           zaptest.NewLogger(t),
	})
	svc := newTestRelationService(t, loaders)

	report, err := svc.Analyze(context.Background(), AnalyzeRequest{
		PrimaryKey: KeySide{Ref: pkPath, Columns: []string{"id"}},
		ForeignKey: KeySide{Ref: fkPath, Columns: []string{"customer"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "0,1 to 0,2", report.Cardinality)
	assert.Equal(t, []string{"customer"}, report.ForeignKeyColumns)
}
