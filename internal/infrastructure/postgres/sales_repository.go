package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

var salesColumns = []string{"sale_date", "product_id", "quantity_sold", "batch_id", "created_at"}

// SalesRepo implementación de SalesRepository sobre PostgreSQL (usable con pool o tx).
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador del historial. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// Append copia el lote con COPY dentro de una transacción: o entra todo o nada.
func (r *SalesRepo) Append(ctx context.Context, records []entity.SalesRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"sales_records"}, salesColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{rec.Date, rec.ProductID, rec.QuantitySold, rec.BatchID, rec.CreatedAt}, nil
		}),
	)
	if err != nil {
		return 0, mapWriteError("copy sales_records", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return int(n), nil
}

// GetHistory obtiene las ventas de un producto ordenadas por fecha.
func (r *SalesRepo) GetHistory(ctx context.Context, productID int64) ([]entity.SalesRecord, error) {
	query := `
		SELECT sale_date, product_id, quantity_sold, batch_id, created_at
		FROM sales_records WHERE product_id = $1
		ORDER BY sale_date, id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("get sales history: %w", err)
	}
	defer rows.Close()

	var list []entity.SalesRecord
	for rows.Next() {
		rec, err := scanSalesRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// GetAllHistories obtiene el historial completo agrupado por producto.
func (r *SalesRepo) GetAllHistories(ctx context.Context) (map[int64][]entity.SalesRecord, error) {
	query := `
		SELECT sale_date, product_id, quantity_sold, batch_id, created_at
		FROM sales_records
		ORDER BY product_id, sale_date, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all sales histories: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]entity.SalesRecord)
	for rows.Next() {
		rec, err := scanSalesRecord(rows)
		if err != nil {
			return nil, err
		}
		out[rec.ProductID] = append(out[rec.ProductID], rec)
	}
	return out, rows.Err()
}

// Summaries agrega el historial por producto. El promedio diario sale de Postgres como
// NUMERIC y se escanea a decimal.Decimal con el codec registrado en NewPool.
func (r *SalesRepo) Summaries(ctx context.Context) ([]entity.SalesSummary, error) {
	query := `
		SELECT product_id,
		       count(*),
		       count(DISTINCT sale_date),
		       sum(quantity_sold)::bigint,
		       round(sum(quantity_sold)::numeric / count(DISTINCT sale_date), $1),
		       min(sale_date),
		       max(sale_date)
		FROM sales_records
		GROUP BY product_id
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, entity.SummaryAvgPlaces)
	if err != nil {
		return nil, fmt.Errorf("sales summaries: %w", err)
	}
	defer rows.Close()

	var list []entity.SalesSummary
	for rows.Next() {
		var s entity.SalesSummary
		if err := rows.Scan(&s.ProductID, &s.Records, &s.Days, &s.TotalUnits, &s.AvgDaily, &s.FirstDate, &s.LastDate); err != nil {
			return nil, fmt.Errorf("scan sales summary: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Count devuelve el total de registros.
func (r *SalesRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sales_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales_records: %w", err)
	}
	return n, nil
}

func scanSalesRecord(rows pgx.Rows) (entity.SalesRecord, error) {
	var rec entity.SalesRecord
	if err := rows.Scan(&rec.Date, &rec.ProductID, &rec.QuantitySold, &rec.BatchID, &rec.CreatedAt); err != nil {
		return rec, fmt.Errorf("scan sales record: %w", err)
	}
	rec.Date = rec.Date.UTC()
	return rec, nil
}
