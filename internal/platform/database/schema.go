package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ridloal/product-catalog/internal/platform/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		category_id BIGINT REFERENCES categories(id) ON DELETE RESTRICT,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		stock       BIGINT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category_id ON products (category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_stock ON products (stock)`,
}

// EnsureSchema creates the catalog tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	logger.Info("Database schema is up to date")
	return nil
}
