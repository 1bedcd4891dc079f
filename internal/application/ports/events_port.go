package ports

import (
	"context"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// EventPublisher publica eventos de inventario hacia otros sistemas (Kafka o no-op).
type EventPublisher interface {
	Publish(ctx context.Context, event entity.InventoryEvent) error
}

// RecommendationCache guarda el resultado de un cálculo de recomendaciones por clave de parámetros.
// Una ingesta de ventas invalida todas las claves.
type RecommendationCache interface {
	Get(ctx context.Context, key string) ([]entity.StockRecommendation, bool, error)
	Set(ctx context.Context, key string, recs []entity.StockRecommendation) error
	Invalidate(ctx context.Context) error
}
