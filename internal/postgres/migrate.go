package postgres

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is idempotent. The stock CHECK backs up the conditional decrement.
const schema = `
CREATE TABLE IF NOT EXISTS ingredients (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	category   TEXT NOT NULL CHECK (category IN ('base','sauce','cheese','veggie','meat')),
	price      NUMERIC(12,2) NOT NULL CHECK (price >= 0),
	stock      INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	threshold  INTEGER NOT NULL DEFAULT 20,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ingredients_stock_idx ON ingredients (stock);

CREATE TABLE IF NOT EXISTS orders (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL,
	base_id            TEXT NOT NULL,
	sauce_id           TEXT NOT NULL,
	cheese_id          TEXT NOT NULL,
	veggie_ids         TEXT[] NOT NULL DEFAULT '{}',
	meat_ids           TEXT[] NOT NULL DEFAULT '{}',
	total_price        NUMERIC(12,2) NOT NULL,
	payment_status     TEXT NOT NULL DEFAULT 'pending',
	status             TEXT NOT NULL DEFAULT 'Order Received',
	gateway_order_id   TEXT NOT NULL DEFAULT '',
	gateway_payment_id TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS orders_user_created_idx ON orders (user_id, created_at DESC);
`

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
