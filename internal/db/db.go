package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour spoken by the inventory database.
type Dialect string

// Supported dialects.
const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// ParseDialect validates a dialect name from configuration.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(name) {
	case SQLite, Postgres:
		return Dialect(name), nil
	case "postgresql":
		return Postgres, nil
	}
	return "", fmt.Errorf("unknown database driver %q (want sqlite or postgres)", name)
}

// Open opens a database connection for the given dialect. SQLite connections
// get the same pragmas on every open.
func Open(dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if dialect != SQLite {
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("connecting to %s: %w", dialect, err)
		}
		return db, nil
	}

	// An in-memory database exists per connection, so keep exactly one.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}
