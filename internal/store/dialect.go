package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect names the SQL backend of a roster database. Values double as goose
// dialect names.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "pgx"
)

// DialectFromDSN picks the backend for dsn: postgres URLs use pgx, anything
// else is a sqlite path.
func DialectFromDSN(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// builder returns a squirrel statement builder with the dialect's placeholders.
func (d Dialect) builder() sq.StatementBuilderType {
	if d == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}
