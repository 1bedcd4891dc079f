package repository

import (
	"context"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// SalesRepository define el puerto del historial de ventas (DIP).
// Es append-only: Append nunca deduplica, ingestar dos veces el mismo lote lo duplica.
type SalesRepository interface {
	// Append agrega los registros en una sola transacción y devuelve cuántos se guardaron.
	Append(ctx context.Context, records []entity.SalesRecord) (int, error)

	// GetHistory devuelve las ventas de un producto ordenadas por fecha ascendente.
	GetHistory(ctx context.Context, productID int64) ([]entity.SalesRecord, error)

	// GetAllHistories devuelve el historial de cada producto, ordenado por fecha ascendente.
	GetAllHistories(ctx context.Context) (map[int64][]entity.SalesRecord, error)

	// Summaries devuelve un agregado por producto con ventas, ordenado por product_id.
	Summaries(ctx context.Context) ([]entity.SalesSummary, error)

	// Count devuelve el total de registros almacenados.
	Count(ctx context.Context) (int, error)
}
