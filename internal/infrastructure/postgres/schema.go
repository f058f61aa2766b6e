package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		name_normalized TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		category        TEXT NOT NULL DEFAULT '',
		tags            TEXT[] NOT NULL DEFAULT '{}',
		image_url       TEXT NOT NULL DEFAULT '',
		unit            TEXT NOT NULL DEFAULT 'unit',
		price_per_unit  DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_qty         DOUBLE PRECISION NOT NULL DEFAULT 1,
		default_qty     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS products_name_normalized_idx ON products (name_normalized)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               UUID PRIMARY KEY,
		session_id       TEXT NOT NULL,
		items            JSONB NOT NULL,
		total            DOUBLE PRECISION NOT NULL,
		customer_name    TEXT NOT NULL,
		customer_email   TEXT NOT NULL,
		customer_address TEXT NOT NULL,
		customer_phone   TEXT NOT NULL,
		status           TEXT NOT NULL DEFAULT 'pending',
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS suggestions (
		id              BIGSERIAL PRIMARY KEY,
		ingredient_name TEXT NOT NULL,
		normalized_name TEXT NOT NULL,
		quantity        TEXT NOT NULL DEFAULT '',
		dish            TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'unmatched',
		closest         TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS suggestions_status_created_idx ON suggestions (status, created_at DESC)`,
}

// EnsureSchema 建立資料表，可重複執行
func (c *Client) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
