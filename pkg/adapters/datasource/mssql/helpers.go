package mssql

import (
	"fmt"
	"strings"
)

// quoteName quotes an identifier the way QUOTENAME() does: square brackets,
// with ] escaped as ]].
func quoteName(identifier string) string {
	escaped := strings.ReplaceAll(identifier, "]", "]]")
	return fmt.Sprintf("[%s]", escaped)
}

// buildFullyQualifiedName builds a fully qualified table name: [schema].[table]
func buildFullyQualifiedName(schema, table string) string {
	return fmt.Sprintf("%s.%s", quoteName(schema), quoteName(table))
}

// buildSelectQuery returns a SELECT that reads the columns as NVARCHAR so
// values compare the same way regardless of column type.
func buildSelectQuery(schema, table string, columns []string) string {
	exprs := make([]string, len(columns))
	for i, c := range columns {
		ident := quoteName(c)
		exprs[i] = fmt.Sprintf("CAST(%s AS NVARCHAR(MAX)) AS %s", ident, ident)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), buildFullyQualifiedName(schema, table))
}
