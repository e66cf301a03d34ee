package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/cardinality/pkg/apperrors"
	"github.com/ekaya-inc/cardinality/pkg/models"
)

// ViolationKind identifies which key check failed.
type ViolationKind int

const (
	ColumnCountMismatch ViolationKind = iota + 1
	NullPrimaryKey
	DuplicatePrimaryKey
	OrphanForeignKey
)

func (k ViolationKind) String() string {
	switch k {
	case ColumnCountMismatch:
		return "column_count_mismatch"
	case NullPrimaryKey:
		return "null_primary_key"
	case DuplicatePrimaryKey:
		return "duplicate_primary_key"
	case OrphanForeignKey:
		return "orphan_foreign_key"
	default:
		return "unknown"
	}
}

func (k ViolationKind) sentinel() error {
	switch k {
	case ColumnCountMismatch:
		return apperrors.ErrColumnCountMismatch
	case NullPrimaryKey:
		return apperrors.ErrNullPrimaryKey
	case DuplicatePrimaryKey:
		return apperrors.ErrDuplicatePrimaryKey
	case OrphanForeignKey:
		return apperrors.ErrOrphanForeignKey
	default:
		return nil
	}
}

// KeyViolation is returned when a primary key or foreign key check fails.
// It unwraps to the matching apperrors sentinel.
type KeyViolation struct {
	Kind    ViolationKind
	Dataset string
	Row     int // zero-based; -1 when the violation is not tied to a row
	Tuple   models.KeyTuple
	Detail  string
}

func (e *KeyViolation) Error() string {
	msg := e.Kind.sentinel().Error()
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", msg, e.Detail)
	case e.Row >= 0:
		return fmt.Sprintf("%s: %s row %d has key %s", msg, e.Dataset, e.Row+1, e.Tuple)
	default:
		return msg
	}
}

func (e *KeyViolation) Unwrap() error {
	return e.Kind.sentinel()
}

// KeyValidator checks that a declared primary key / foreign key pair is sane
// before any cardinality is computed.
type KeyValidator interface {
	// CheckKeys returns nil when the primary key columns are non-null and unique
	// and every non-null foreign key tuple matches a primary key tuple.
	// A failed check is reported as *KeyViolation; unresolvable columns are
	// reported as wrapped apperrors.ErrUnknownColumn or apperrors.ErrEmptyKey.
	CheckKeys(pk *models.Dataset, pkColumns []string, fk *models.Dataset, fkColumns []string) error
}

type keyValidator struct {
	logger *zap.Logger
}

// NewKeyValidator creates a key validator.
func NewKeyValidator(logger *zap.Logger) KeyValidator {
	return &keyValidator{
		logger: logger.Named("key-validator"),
	}
}

var _ KeyValidator = (*keyValidator)(nil)

func (v *keyValidator) CheckKeys(pk *models.Dataset, pkColumns []string, fk *models.Dataset, fkColumns []string) error {
	if err := checkColumnCounts(pkColumns, fkColumns); err != nil {
		return err
	}

	pkIdx, err := pk.ColumnIndexes(pkColumns)
	if err != nil {
		return fmt.Errorf("resolve primary key: %w", err)
	}
	fkIdx, err := fk.ColumnIndexes(fkColumns)
	if err != nil {
		return fmt.Errorf("resolve foreign key: %w", err)
	}

	// A composite key is null only when every component is null.
	for row := range pk.Rows {
		if t := pk.KeyTuple(row, pkIdx); t.AllNull() {
			return &KeyViolation{Kind: NullPrimaryKey, Dataset: pk.Name, Row: row, Tuple: t}
		}
	}

	primary := make(map[string]struct{}, pk.Len())
	for row := range pk.Rows {
		t := pk.KeyTuple(row, pkIdx)
		k := t.Encode()
		if _, dup := primary[k]; dup {
			return &KeyViolation{Kind: DuplicatePrimaryKey, Dataset: pk.Name, Row: row, Tuple: t}
		}
		primary[k] = struct{}{}
	}

	checked := make(map[string]struct{})
	for row := range fk.Rows {
		t := fk.KeyTuple(row, fkIdx)
		if t.AllNull() {
			continue
		}
		k := t.Encode()
		if _, seen := checked[k]; seen {
			continue
		}
		if _, ok := primary[k]; !ok {
			return &KeyViolation{Kind: OrphanForeignKey, Dataset: fk.Name, Row: row, Tuple: t}
		}
		checked[k] = struct{}{}
	}

	v.logger.Debug("Keys validated",
		zap.String("pk", pk.Name),
		zap.String("fk", fk.Name),
		zap.Int("pk_rows", pk.Len()),
		zap.Int("fk_rows", fk.Len()),
		zap.Int("distinct_fk_keys", len(checked)))

	return nil
}

func checkColumnCounts(pkColumns, fkColumns []string) error {
	if len(pkColumns) != len(fkColumns) {
		return &KeyViolation{
			Kind:   ColumnCountMismatch,
			Row:    -1,
			Detail: fmt.Sprintf("%d primary key columns, %d foreign key columns", len(pkColumns), len(fkColumns)),
		}
	}
	return nil
}
