package sales

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// IngestUseCase agrega lotes de ventas al historial.
// No es idempotente: el mismo archivo ingestado dos veces queda duplicado.
type IngestUseCase struct {
	salesRepo repository.SalesRepository
	cache     ports.RecommendationCache
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewIngestUseCase construye el caso de uso. cache y publisher pueden ser nil.
func NewIngestUseCase(
	salesRepo repository.SalesRepository,
	cache ports.RecommendationCache,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		salesRepo: salesRepo,
		cache:     cache,
		publisher: publisher,
		log:       log.Named("ingest"),
		now:       time.Now,
	}
}

// IngestCSV parsea y agrega un CSV de ventas como un único lote.
func (uc *IngestUseCase) IngestCSV(ctx context.Context, r io.Reader, charset string) (*dto.IngestSalesResponse, error) {
	records, err := ParseCSV(r, charset)
	if err != nil {
		return nil, err
	}
	return uc.Ingest(ctx, records)
}

// Ingest agrega registros ya parseados con un batch id común.
func (uc *IngestUseCase) Ingest(ctx context.Context, records []entity.SalesRecord) (*dto.IngestSalesResponse, error) {
	batchID := uuid.New().String()
	now := uc.now().UTC()
	for i := range records {
		records[i].BatchID = batchID
		records[i].CreatedAt = now
	}

	n := 0
	if len(records) > 0 {
		var err error
		n, err = uc.salesRepo.Append(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("guardar lote de ventas: %w", err)
		}
	}
	total, err := uc.salesRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar ventas: %w", err)
	}

	if n > 0 {
		if uc.cache != nil {
			if err := uc.cache.Invalidate(ctx); err != nil {
				uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de recomendaciones")
			}
		}
		if uc.publisher != nil {
			ev := entity.InventoryEvent{
				ID:         uuid.New().String(),
				Type:       entity.EventSalesIngested,
				BatchID:    batchID,
				Rows:       n,
				OccurredAt: now,
			}
			if err := uc.publisher.Publish(ctx, ev); err != nil {
				uc.log.Warn().Err(err).Str("batch_id", batchID).Msg("no se pudo publicar evento de ingesta")
			}
		}
	}

	uc.log.Info().Str("batch_id", batchID).Int("rows", n).Int("rows_total", total).Msg("lote de ventas ingestado")
	return &dto.IngestSalesResponse{
		Status:       "ok",
		RowsIngested: n,
		RowsTotal:    total,
		BatchID:      batchID,
	}, nil
}
