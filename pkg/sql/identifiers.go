package sql

import (
	"fmt"
	"strings"
	"unicode"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/ekaya-inc/cardinality/pkg/apperrors"
)

// InjectionCheckResult contains the result of an injection check on an identifier.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Kind        string // "table" or "column"
	Name        string // The identifier that was checked
}

// CheckIdentifierForInjection uses libinjection to detect SQL injection
// patterns in a user-supplied identifier. Identifiers are always quoted before
// use; this rejects obviously hostile input early with a clear message.
//
// Returns nil if no injection is detected.
func CheckIdentifierForInjection(kind, name string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(name)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			Kind:        kind,
			Name:        name,
		}
	}
	return nil
}

// CheckIdentifiers validates a table reference and column names before a
// loader builds its SELECT statement.
func CheckIdentifiers(table string, columns []string) error {
	if err := checkIdentifier("table", table); err != nil {
		return err
	}
	for _, c := range columns {
		if err := checkIdentifier("column", c); err != nil {
			return err
		}
	}
	return nil
}

func checkIdentifier(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty %s name", apperrors.ErrUnsafeIdentifier, kind)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %s name %q contains a control character", apperrors.ErrUnsafeIdentifier, kind, name)
		}
	}
	if result := CheckIdentifierForInjection(kind, name); result != nil {
		return fmt.Errorf("%w: %s name %q (fingerprint %s)", apperrors.ErrUnsafeIdentifier, kind, name, result.Fingerprint)
	}
	return nil
}

// SplitQualifiedName parses a table name that may include a schema:
// schema.table, "schema"."table" or [schema].[table].
// Returns (schema, table), using defaultSchema when none is given.
func SplitQualifiedName(name, defaultSchema string) (string, string) {
	cleaned := strings.NewReplacer("[", "", "]", "", `"`, "").Replace(name)

	if i := strings.Index(cleaned, "."); i >= 0 {
		return cleaned[:i], cleaned[i+1:]
	}
	return defaultSchema, cleaned
}
