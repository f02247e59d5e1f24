// Package database persists the registry of quality variants observed by
// the proxy. It stores fingerprints and their derived metrics only; media
// bytes live in the external cache store.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// VariantDB is the handle for the variant registry
type VariantDB struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// OpenPath opens or creates the database at a specific path
func OpenPath(path string) (*VariantDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL keeps API readers from blocking the recorder
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return open(db, path)
}

// OpenInMemory opens an in-memory database for testing
func OpenInMemory() (*VariantDB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	return open(db, ":memory:")
}

func open(db *sql.DB, path string) (*VariantDB, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	vdb := &VariantDB{
		db:   db,
		path: path,
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return vdb, nil
}

// Close closes the database connection
func (m *VariantDB) Close() error {
	return m.db.Close()
}

// Path returns the filesystem path to the database file
func (m *VariantDB) Path() string {
	return m.path
}

// DB returns the underlying sql.DB for advanced operations
func (m *VariantDB) DB() *sql.DB {
	return m.db
}
