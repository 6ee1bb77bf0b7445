package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteMemory = ":memory:"

// NewConnectSQLite opens a sqlite database at dsn. The file is created when
// missing. An in-memory database is pinned to a single connection so every
// query sees the same data.
func NewConnectSQLite(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	if dsn == "" {
		dsn = sqliteMemory
	}

	inMemory := dsn == sqliteMemory || strings.Contains(dsn, "mode=memory")
	if !inMemory && !strings.HasPrefix(dsn, "file:") {
		if err := createLocalDBFileIfNotExists(dsn); err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}
	if inMemory {
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
		conn.SetConnMaxIdleTime(0)
	}

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, fmt.Errorf("error connecting database: %w", err)
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("dsn", dsn).Msg("connected to database successfully")

	return &DB{
		DB:                 conn,
		dialect:            DialectSQLite,
		logger:             log,
		errorClassificator: NewSQLiteErrorClassifier(),
	}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		_ = f.Close()
	}

	return nil
}
