package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/migrations"
	"github.com/sethvargo/go-retry"
)

// Statements failing with an error the classifier marks retryable are run
// again up to execRetries times.
const (
	execRetries      = 2
	execRetryBackoff = 20 * time.Millisecond
)

// DB is a roster database connection together with its dialect and error
// classifier.
type DB struct {
	*sql.DB
	dialect            Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Connect opens the database named by dsn, picking the driver from its form.
func Connect(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	switch DialectFromDSN(dsn) {
	case DialectPostgres:
		return NewConnectPostgres(ctx, dsn, log)
	default:
		return NewConnectSQLite(ctx, dsn, log)
	}
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate() error {
	if err := migrations.Migrate(db.DB, string(db.dialect)); err != nil {
		return fmt.Errorf("error migrating %s database: %w", db.dialect, err)
	}
	return nil
}

// Dialect returns the backend of the connection.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// exec runs a statement and retries it while the classifier reports the
// failure as retryable.
func (db *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	backoff := retry.WithMaxRetries(execRetries, retry.NewExponential(execRetryBackoff))

	var res sql.Result
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		res, err = db.ExecContext(ctx, query, args...)
		if err != nil && db.errorClassificator.Classify(err) == Retryable {
			db.logger.Warn().Err(err).Msg("retrying statement")
			return retry.RetryableError(err)
		}
		return err
	})
	return res, err
}
