package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"barberm/internal/logging"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB is the SQLite-backed appointment store.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewDB opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for tests.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	dbLogger := logging.Component(logger, "database")
	dbLogger.Info().Str("path", path).Msg("database initialized")
	return &DB{db: db, logger: dbLogger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS appointments (
            id TEXT PRIMARY KEY,
            client_name TEXT NOT NULL,
            client_email TEXT NOT NULL DEFAULT '',
            client_phone TEXT NOT NULL DEFAULT '',
            service TEXT NOT NULL,
            service_duration INTEGER NOT NULL,
            service_price REAL NOT NULL,
            date TEXT NOT NULL,
            time TEXT NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending',
            rejection_reason TEXT NOT NULL DEFAULT '',
            final_price REAL NOT NULL DEFAULT 0,
            payment_method TEXT NOT NULL DEFAULT '',
            completion_notes TEXT NOT NULL DEFAULT '',
            completed_at DATETIME,
            deleted INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_client_email ON appointments(client_email)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_client_phone ON appointments(client_phone)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_deleted ON appointments(deleted)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// PingContext checks the underlying connection.
func (db *DB) PingContext(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.db.Close()
}
