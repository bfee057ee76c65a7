// Package results persists simulation reports to SQLite and exports them as
// CSV and JSON for plotting tools.
package results

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    label TEXT,
    seed INTEGER NOT NULL,
    population_size INTEGER NOT NULL,
    days INTEGER NOT NULL,
    finished INTEGER NOT NULL,
    peak_active INTEGER NOT NULL,
    peak_day INTEGER NOT NULL,
    confirmed_cases INTEGER NOT NULL,
    total_exposures INTEGER NOT NULL,
    case_fatality REAL,        -- NULL when undefined
    population_fatality REAL,
    recovery REAL,
    never_infected REAL,
    config TEXT                -- YAML
);

CREATE TABLE IF NOT EXISTS run_days (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    day INTEGER NOT NULL,
    susceptible INTEGER NOT NULL,
    exposed INTEGER NOT NULL,
    infectious INTEGER NOT NULL,
    quarantined INTEGER NOT NULL,
    recovered INTEGER NOT NULL,
    dead INTEGER NOT NULL,
    confirmed INTEGER NOT NULL,
    PRIMARY KEY (run_id, day)
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InitSchema creates the tables if they do not exist and records the schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}
