package db

import (
	"database/sql"
	"fmt"
)

// sqliteSchema is the inventory schema for local and test databases.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS inventory (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    brand          TEXT,
    size           TEXT,
    category       TEXT,
    brand_category TEXT,
    cost_price     NUMERIC,
    asking_price   NUMERIC,
    sale_price     NUMERIC,
    image_url      TEXT,
    image_urls     TEXT,
    status         TEXT NOT NULL DEFAULT 'for_sale'
                   CHECK (status IN ('for_sale', 'sold', 'on_hold', 'draft', 'donated')),
    closet_display TEXT CHECK (closet_display IN ('public', 'hidden', 'nfs')),
    notes          TEXT,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    sold_at        DATETIME
);

CREATE INDEX IF NOT EXISTS idx_inventory_status_created
    ON inventory(status, created_at);

CREATE INDEX IF NOT EXISTS idx_inventory_status_sold
    ON inventory(status, sold_at);

CREATE TABLE IF NOT EXISTS images (
    id         TEXT PRIMARY KEY,
    item_id    TEXT NOT NULL REFERENCES inventory(id),
    mime       TEXT NOT NULL,
    data       BLOB NOT NULL,
    thumbnail  BLOB NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// postgresSchema mirrors the hosted inventory table.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS inventory (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    brand          TEXT,
    size           TEXT,
    category       TEXT,
    brand_category TEXT,
    cost_price     NUMERIC(10, 2),
    asking_price   NUMERIC(10, 2),
    sale_price     NUMERIC(10, 2),
    image_url      TEXT,
    image_urls     TEXT,
    status         TEXT NOT NULL DEFAULT 'for_sale'
                   CHECK (status IN ('for_sale', 'sold', 'on_hold', 'draft', 'donated')),
    closet_display TEXT CHECK (closet_display IN ('public', 'hidden', 'nfs')),
    notes          TEXT,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    sold_at        TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_inventory_status_created
    ON inventory(status, created_at DESC);

CREATE INDEX IF NOT EXISTS idx_inventory_status_sold
    ON inventory(status, sold_at DESC);

CREATE TABLE IF NOT EXISTS images (
    id         TEXT PRIMARY KEY,
    item_id    TEXT NOT NULL REFERENCES inventory(id),
    mime       TEXT NOT NULL,
    data       BYTEA NOT NULL,
    thumbnail  BYTEA NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB, dialect Dialect) error {
	schema := sqliteSchema
	if dialect == Postgres {
		schema = postgresSchema
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
