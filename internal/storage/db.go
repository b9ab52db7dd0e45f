package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"unimoddb/internal/logging"
)

// MemoryLocation is the transient, non-durable store target.
const MemoryLocation = ":memory:"

// DB represents the persisted modification store
type DB struct {
	conn     *sql.DB
	logger   *logging.Logger
	location string
}

// Open opens or creates the SQLite store at location. location is either
// MemoryLocation or a durable file path; parent directories are created as
// needed. Whether the store already holds modification data is reported by
// Initialized, not decided here.
func Open(location string, logger *logging.Logger) (*DB, error) {
	if location == "" {
		location = MemoryLocation
	}

	if location != MemoryLocation {
		if err := os.MkdirAll(filepath.Dir(location), 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", location)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A pooled connection would see a different, empty in-memory database.
	// The store is single-writer anyway, so one connection suffices.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA busy_timeout=5000",  // Wait up to 5 seconds on lock
		"PRAGMA temp_store=MEMORY",  // Use memory for temp tables
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	db := &DB{
		conn:     conn,
		logger:   logger,
		location: location,
	}

	return db, nil
}

// Initialized reports whether the mods table exists at this location.
// A populated store skips feed loading entirely on subsequent opens.
func (db *DB) Initialized() (bool, error) {
	var name string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master WHERE type='table' AND name='mods'
	`).Scan(&name)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to probe schema: %w", err)
	}
	return true, nil
}

// Location returns the store target this handle was opened against
func (db *DB) Location() string {
	return db.location
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// BeginTx starts a new transaction
func (db *DB) BeginTx() (*sql.Tx, error) {
	return db.conn.Begin()
}

// WithTx executes a function within a transaction
// If the function returns an error, the transaction is rolled back
// Otherwise, the transaction is committed
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // Re-throw panic after rollback
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("failed to rollback transaction", logging.Fields{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			})
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Exec executes a query without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}
