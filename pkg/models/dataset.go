package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ekaya-inc/cardinality/pkg/apperrors"
)

// Value is a nullable scalar cell. The zero Value is null.
type Value struct {
	String string
	Valid  bool
}

// NullValue returns the null sentinel.
func NullValue() Value {
	return Value{}
}

// StringValue returns a non-null value.
func StringValue(s string) Value {
	return Value{String: s, Valid: true}
}

// IsNull reports whether v is the null sentinel.
func (v Value) IsNull() bool {
	return !v.Valid
}

func (v Value) display() string {
	if !v.Valid {
		return "<null>"
	}
	return strconv.Quote(v.String)
}

// Dataset is an in-memory table: ordered columns and rows of nullable values.
// The column index is built once when the dataset is created.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]Value

	index map[string]int
}

// NewDataset creates an empty dataset with the given column names.
// Column names must be unique.
func NewDataset(name string, columns []string) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; ok {
			return nil, fmt.Errorf("%w: %q in %s", apperrors.ErrDuplicateColumn, c, name)
		}
		index[c] = i
	}

	cols := make([]string, len(columns))
	copy(cols, columns)

	return &Dataset{
		Name:    name,
		Columns: cols,
		index:   index,
	}, nil
}

// AppendRow adds a row. The number of values must match the column count.
func (d *Dataset) AppendRow(values ...Value) error {
	if len(values) != len(d.Columns) {
		return fmt.Errorf("%w: %s has %d columns, got %d values",
			apperrors.ErrRowWidth, d.Name, len(d.Columns), len(values))
	}
	row := make([]Value, len(values))
	copy(row, values)
	d.Rows = append(d.Rows, row)
	return nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndexes resolves a key specification to column positions.
func (d *Dataset) ColumnIndexes(names []string) ([]int, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w (%s)", apperrors.ErrEmptyKey, d.Name)
	}
	idx := make([]int, len(names))
	for i, n := range names {
		pos, ok := d.index[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q not in %s", apperrors.ErrUnknownColumn, n, d.Name)
		}
		idx[i] = pos
	}
	return idx, nil
}

// KeyTuple extracts the values of row at the given column positions.
func (d *Dataset) KeyTuple(row int, idx []int) KeyTuple {
	t := make(KeyTuple, len(idx))
	for i, pos := range idx {
		t[i] = d.Rows[row][pos]
	}
	return t
}

// KeyTuple is the ordered list of values of a row across its key columns.
type KeyTuple []Value

// AllNull reports whether every component is null. An empty tuple is all-null.
func (t KeyTuple) AllNull() bool {
	for _, v := range t {
		if v.Valid {
			return false
		}
	}
	return true
}

// Encode returns a string that is equal for two tuples exactly when the tuples
// are positionally equal, with null equal to null. Used as a map key.
func (t KeyTuple) Encode() string {
	var b strings.Builder
	for _, v := range t {
		if !v.Valid {
			b.WriteString("\x00;")
			continue
		}
		b.WriteByte(0x01)
		b.WriteString(strconv.Itoa(len(v.String)))
		b.WriteByte(':')
		b.WriteString(v.String)
	}
	return b.String()
}

func (t KeyTuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = v.display()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
