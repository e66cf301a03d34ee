package apperrors

import "errors"

// Key violations. A failed key check wraps exactly one of these.
var (
	ErrColumnCountMismatch = errors.New("the number of columns must be the same for primary and foreign keys")
	ErrNullPrimaryKey      = errors.New("primary keys cannot be null")
	ErrDuplicatePrimaryKey = errors.New("primary keys must be unique")
	ErrOrphanForeignKey    = errors.New("every foreign key must match a primary key")
)

var (
	ErrEmptyKey           = errors.New("key must name at least one column")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrDuplicateColumn    = errors.New("duplicate column")
	ErrRowWidth           = errors.New("row width does not match column count")
	ErrNotAFile           = errors.New("not a file")
	ErrUnsupportedSource  = errors.New("unsupported source")
	ErrUnsafeIdentifier   = errors.New("unsafe SQL identifier")
	ErrTableNotSpecified  = errors.New("table is required")
	ErrTableNotFound      = errors.New("table not found")
	ErrInvalidOutputStyle = errors.New("invalid output format")
)
