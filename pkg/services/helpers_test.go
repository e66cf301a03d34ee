package services

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/cardinality/pkg/models"
)

// newDataset builds a dataset from literal rows. A nil cell is null; ints are
// stored in their decimal form.
func newDataset(t *testing.T, name string, columns []string, rows ...[]any) *models.Dataset {
	t.Helper()

	ds, err := models.NewDataset(name, columns)
	require.NoError(t, err)

	for _, row := range rows {
		values := make([]models.Value, len(row))
		for i, cell := range row {
			switch v := cell.(type) {
			case nil:
				values[i] = models.NullValue()
			case string:
				values[i] = models.StringValue(v)
			case int:
				values[i] = models.StringValue(strconv.Itoa(v))
			default:
				t.Fatalf("unsupported cell type %T", cell)
			}
		}
		require.NoError(t, ds.AppendRow(values...))
	}
	return ds
}

// column builds a single-column dataset.
func column(t *testing.T, name string, cells ...any) *models.Dataset {
	t.Helper()
	rows := make([][]any, len(cells))
	for i, c := range cells {
		rows[i] = []any{c}
	}
	return newDataset(t, name, []string{"id"}, rows...)
}

var idKey = []string{"id"}
