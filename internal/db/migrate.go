package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS templates (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		mode              TEXT NOT NULL DEFAULT 'agreement'
		                  CHECK(mode IN ('agreement','rfq')),
		classification    TEXT NOT NULL DEFAULT '',
		acceptance        TEXT NOT NULL DEFAULT '',
		billing_cycle     TEXT NOT NULL DEFAULT '',
		duration_value    INTEGER NOT NULL DEFAULT 0,
		duration_unit     TEXT NOT NULL DEFAULT '',
		grace_value       INTEGER NOT NULL DEFAULT 0,
		grace_unit        TEXT NOT NULL DEFAULT '',
		plan_kind         TEXT NOT NULL DEFAULT 'upfront'
		                  CHECK(plan_kind IN ('upfront','installments','as_defined')),
		plan_installments INTEGER NOT NULL DEFAULT 0,
		currency          TEXT NOT NULL DEFAULT 'USD',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_templates_name ON templates(name)`,

	`CREATE TABLE IF NOT EXISTS template_items (
		id          TEXT PRIMARY KEY,
		template_id TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
		block_ref   TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL,
		unit_price  INTEGER NOT NULL DEFAULT 0,
		quantity    INTEGER NOT NULL DEFAULT 1,
		cycle       TEXT NOT NULL DEFAULT 'once'
		            CHECK(cycle IN ('once','monthly','quarterly','yearly')),
		ad_hoc      INTEGER NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_template_items_template ON template_items(template_id)`,

	`CREATE TABLE IF NOT EXISTS template_taxes (
		template_id TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
		code        TEXT NOT NULL,
		rate_bps    INTEGER NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (template_id, code)
	)`,
}
