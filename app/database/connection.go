package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle for the feed registry. The registry runs on
// an in-memory database: it lives exactly as long as the process, which
// is the ownership model for all portal state.
type DB struct {
	*sql.DB
}

// InMemoryDSN is the default registry location. Shared cache keeps the
// one in-memory database visible across pooled connections.
const InMemoryDSN = "file:registry?mode=memory&cache=shared"

// NewConnection opens the registry database and verifies it responds.
func NewConnection(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = InMemoryDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection avoids each pooled connection getting its own
	// private in-memory database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{DB: db}, nil
}
