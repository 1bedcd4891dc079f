package postgres

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sales_records (
	id            BIGSERIAL PRIMARY KEY,
	sale_date     DATE        NOT NULL,
	product_id    BIGINT      NOT NULL,
	quantity_sold BIGINT      NOT NULL CHECK (quantity_sold >= 0),
	batch_id      TEXT        NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_sales_records_product_date ON sales_records (product_id, sale_date);
`

// EnsureSchema crea la tabla del historial si no existe. Es idempotente.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear esquema sales_records: %w", err)
	}
	return nil
}
