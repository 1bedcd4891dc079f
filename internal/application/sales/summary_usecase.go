package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

// SummaryUseCase resume el historial cargado: qué productos tienen ventas y cuánto cubren.
type SummaryUseCase struct {
	salesRepo repository.SalesRepository
}

// NewSummaryUseCase construye el caso de uso.
func NewSummaryUseCase(salesRepo repository.SalesRepository) *SummaryUseCase {
	return &SummaryUseCase{salesRepo: salesRepo}
}

// Summary devuelve un agregado por producto (orden product_id) y el total de registros.
func (uc *SummaryUseCase) Summary(ctx context.Context) (*dto.SalesSummaryResponse, error) {
	sums, err := uc.salesRepo.Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("resumir historial: %w", err)
	}
	total, err := uc.salesRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar historial: %w", err)
	}
	if sums == nil {
		sums = []entity.SalesSummary{}
	}
	return &dto.SalesSummaryResponse{Products: sums, RowsTotal: total}, nil
}
