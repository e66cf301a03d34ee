package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/cardinality/pkg/apperrors"
)

func requireViolation(t *testing.T, err error, kind ViolationKind) *KeyViolation {
	t.Helper()
	require.Error(t, err)
	var v *KeyViolation
	require.True(t, errors.As(err, &v), "expected *KeyViolation, got %T: %v", err, err)
	assert.Equal(t, kind, v.Kind)
	return v
}

func TestKeyValidator_Valid(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())

	pk := column(t, "pk", 1, 2, 3, 4, 5)
	fk := column(t, "fk", 1, 2, 2, 3, nil)

	assert.NoError(t, v.CheckKeys(pk, idKey, fk, idKey))
}

func TestKeyValidator_ColumnCountMismatch(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())

	pk := newDataset(t, "pk", []string{"a", "b"}, []any{1, 1})
	fk := column(t, "fk", 1)

	err := v.CheckKeys(pk, []string{"a", "b"}, fk, idKey)
	kv := requireViolation(t, err, ColumnCountMismatch)
	assert.ErrorIs(t, err, apperrors.ErrColumnCountMismatch)
	assert.Equal(t, -1, kv.Row)
	assert.Equal(t,
		"the number of columns must be the same for primary and foreign keys: 2 primary key columns, 1 foreign key columns",
		err.Error())
}

func TestKeyValidator_NullPrimaryKey(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())

	pk := column(t, "pk", 1, 2, nil, 4)
	fk := column(t, "fk", 1)

	err := v.CheckKeys(pk, idKey, fk, idKey)
	kv := requireViolation(t, err, NullPrimaryKey)
	assert.ErrorIs(t, err, apperrors.ErrNullPrimaryKey)
	assert.Equal(t, 2, kv.Row)
	assert.Equal(t, "primary keys cannot be null: pk row 3 has key (<null>)", err.Error())
}

func TestKeyValidator_CompositePrimaryKeyPartialNull(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())
	key := []string{"a", "b"}

	// Only a key with every component null is a null key.
	pk := newDataset(t, "pk", key, []any{1, nil}, []any{nil, 1})
	fk := newDataset(t, "fk", key, []any{1, nil})
	assert.NoError(t, v.CheckKeys(pk, key, fk, key))

	pk = newDataset(t, "pk", key, []any{1, 1}, []any{nil, nil})
	requireViolation(t, v.CheckKeys(pk, key, fk, key), NullPrimaryKey)
}

func TestKeyValidator_DuplicatePrimaryKey(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())

	pk := column(t, "pk", 1, 2, 3, 2)
	fk := column(t, "fk", 1)

	err := v.CheckKeys(pk, idKey, fk, idKey)
	kv := requireViolation(t, err, DuplicatePrimaryKey)
	assert.ErrorIs(t, err, apperrors.ErrDuplicatePrimaryKey)
	assert.Equal(t, 3, kv.Row)
	assert.Equal(t, `("2")`, kv.Tuple.String())
}

func TestKeyValidator_DuplicateCompositeKey(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())
	key := []string{"a", "b"}

	pk := newDataset(t, "pk", key, []any{1, 1}, []any{1, 2})
	fk := newDataset(t, "fk", key)
	assert.NoError(t, v.CheckKeys(pk, key, fk, key))

	pk = newDataset(t, "pk", key, []any{1, 2}, []any{1, 2})
	requireViolation(t, v.CheckKeys(pk, key, fk, key), DuplicatePrimaryKey)

	// Matching nulls in the same position make the tuples identical.
	pk = newDataset(t, "pk", key, []any{1, nil}, []any{1, nil})
	requireViolation(t, v.CheckKeys(pk, key, fk, key), DuplicatePrimaryKey)
}

func TestKeyValidator_OrphanForeignKey(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())

	pk := column(t, "pk", 1, 2, 3)
	fk := column(t, "fk", 1, nil, 9)

	err := v.CheckKeys(pk, idKey, fk, idKey)
	kv := requireViolation(t, err, OrphanForeignKey)
	assert.ErrorIs(t, err, apperrors.ErrOrphanForeignKey)
	assert.Equal(t, "fk", kv.Dataset)
	assert.Equal(t, 2, kv.Row)
}

func TestKeyValidator_AllNullForeignKeyIgnored(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())
	key := []string{"a", "b"}

	pk := newDataset(t, "pk", key, []any{1, 1})
	fk := newDataset(t, "fk", key, []any{nil, nil}, []any{1, 1})
	assert.NoError(t, v.CheckKeys(pk, key, fk, key))

	// A partially null foreign key still has to match.
	fk = newDataset(t, "fk", key, []any{1, nil})
	requireViolation(t, v.CheckKeys(pk, key, fk, key), OrphanForeignKey)
}

func TestKeyValidator_EmptyForeignKey(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())

	pk := column(t, "pk", 1, 2, 3)
	fk := column(t, "fk")

	assert.NoError(t, v.CheckKeys(pk, idKey, fk, idKey))
}

func TestKeyValidator_ValuesCompareAsText(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())

	pk := column(t, "pk", "1", "2")
	fk := column(t, "fk", "1.0")

	requireViolation(t, v.CheckKeys(pk, idKey, fk, idKey), OrphanForeignKey)
}

func TestKeyValidator_UnknownColumn(t *testing.T) {
	v := NewKeyValidator(zap.NewNop())

	pk := column(t, "pk", 1)
	fk := column(t, "fk", 1)

	err := v.CheckKeys(pk, []string{"missing"}, fk, idKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownColumn)

	var kv *KeyViolation
	assert.False(t, errors.As(err, &kv))
}

func TestViolationKind_String(t *testing.T) {
	assert.Equal(t, "column_count_mismatch", ColumnCountMismatch.String())
	assert.Equal(t, "null_primary_key", NullPrimaryKey.String())
	assert.Equal(t, "duplicate_primary_key", DuplicatePrimaryKey.String())
	assert.Equal(t, "orphan_foreign_key", OrphanForeignKey.String())
	assert.Equal(t, "unknown", ViolationKind(0).String())
}
