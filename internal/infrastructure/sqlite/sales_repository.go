// Package sqlite guarda el historial de ventas en un archivo local (STORE_DRIVER=sqlite).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sales_records (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	sale_date     TEXT    NOT NULL,
	product_id    INTEGER NOT NULL,
	quantity_sold INTEGER NOT NULL CHECK (quantity_sold >= 0),
	batch_id      TEXT    NOT NULL DEFAULT '',
	created_at    TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_records_product_date ON sales_records (product_id, sale_date);
`

// SalesRepo implementación de SalesRepository sobre SQLite (modernc, sin cgo).
type SalesRepo struct {
	db *sql.DB
}

// Open abre (o crea) la base en path con WAL y aplica el esquema. ":memory:" sirve para tests.
func Open(ctx context.Context, path string) (*SalesRepo, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de datos: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Un solo escritor; con :memory: además cada conexión sería una base distinta.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("crear esquema sqlite: %w", err)
	}
	return &SalesRepo{db: db}, nil
}

// Close cierra la base.
func (r *SalesRepo) Close() error {
	return r.db.Close()
}

// Append inserta el lote en una transacción.
func (r *SalesRepo) Append(ctx context.Context, records []entity.SalesRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales_records (sale_date, product_id, quantity_sold, batch_id, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.Date.UTC().Format(entity.DateLayout), rec.ProductID, rec.QuantitySold,
			rec.BatchID, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return 0, mapWriteError("insert sales record", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return len(records), nil
}

// GetHistory obtiene las ventas de un producto ordenadas por fecha.
func (r *SalesRepo) GetHistory(ctx context.Context, productID int64) ([]entity.SalesRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sale_date, product_id, quantity_sold, batch_id, created_at
		FROM sales_records WHERE product_id = ?
		ORDER BY sale_date, id`, productID)
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT sale_date, product_id, quantity_sold, batch_id, created_at
		FROM sales_records
		ORDER BY product_id, sale_date, id`)
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

// Summaries agrega el historial por producto. SQLite no tiene NUMERIC exacto:
// el promedio diario se divide en decimal.
func (r *SalesRepo) Summaries(ctx context.Context) ([]entity.SalesSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, count(*), count(DISTINCT sale_date), sum(quantity_sold),
		       min(sale_date), max(sale_date)
		FROM sales_records
		GROUP BY product_id
		ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("sales summaries: %w", err)
	}
	defer rows.Close()

	var list []entity.SalesSummary
	for rows.Next() {
		var (
			s           entity.SalesSummary
			first, last string
		)
		if err := rows.Scan(&s.ProductID, &s.Records, &s.Days, &s.TotalUnits, &first, &last); err != nil {
			return nil, fmt.Errorf("scan sales summary: %w", err)
		}
		if s.FirstDate, err = time.Parse(entity.DateLayout, first); err != nil {
			return nil, fmt.Errorf("fecha almacenada inválida %q: %w", first, err)
		}
		if s.LastDate, err = time.Parse(entity.DateLayout, last); err != nil {
			return nil, fmt.Errorf("fecha almacenada inválida %q: %w", last, err)
		}
		s.AvgDaily = decimal.NewFromInt(s.TotalUnits).DivRound(decimal.NewFromInt(int64(s.Days)), entity.SummaryAvgPlaces)
		list = append(list, s)
	}
	return list, rows.Err()
}

// Count devuelve el total de registros.
func (r *SalesRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM sales_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales_records: %w", err)
	}
	return n, nil
}

func scanSalesRecord(rows *sql.Rows) (entity.SalesRecord, error) {
	var (
		rec             entity.SalesRecord
		date, createdAt string
	)
	if err := rows.Scan(&date, &rec.ProductID, &rec.QuantitySold, &rec.BatchID, &createdAt); err != nil {
		return rec, fmt.Errorf("scan sales record: %w", err)
	}
	d, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return rec, fmt.Errorf("fecha almacenada inválida %q: %w", date, err)
	}
	rec.Date = d
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = ts
	}
	return rec, nil
}

// mapWriteError traduce los rechazos del CHECK del esquema a errores de dominio.
func mapWriteError(op string, err error) error {
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) && sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_CHECK {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
