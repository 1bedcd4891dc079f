package inventory

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/forecast"
	"github.com/jhoicas/restock-api/internal/domain/repository"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// RecommendationUseCase calcula el stock recomendado de cada producto con ventas registradas.
// Lee el historial completo, aplica el motor de forecast y opcionalmente cachea el resultado.
type RecommendationUseCase struct {
	salesRepo repository.SalesRepository
	cache     ports.RecommendationCache
	defaults  forecast.Params
	log       *logger.Logger
}

// NewRecommendationUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewRecommendationUseCase(
	salesRepo repository.SalesRepository,
	cache ports.RecommendationCache,
	defaults forecast.Params,
	log *logger.Logger,
) *RecommendationUseCase {
	return &RecommendationUseCase{
		salesRepo: salesRepo,
		cache:     cache,
		defaults:  defaults,
		log:       log.Named("recommendations"),
	}
}

// ParamOverrides parámetros explícitos de una consulta; nil = usar el valor por defecto.
type ParamOverrides struct {
	LeadTimeDays *int
	Window       *int
	Z            *float64
}

// ResolveParams completa los parámetros con los valores por defecto y los valida.
// Un valor explícito no positivo se rechaza con domain.ErrInvalidInput.
func (uc *RecommendationUseCase) ResolveParams(o ParamOverrides) (forecast.Params, error) {
	p := uc.defaults
	if o.LeadTimeDays != nil {
		p.LeadTimeDays = *o.LeadTimeDays
	}
	if o.Window != nil {
		p.Window = *o.Window
	}
	if o.Z != nil {
		p.Z = *o.Z
	}
	if err := p.Validate(); err != nil {
		return forecast.Params{}, err
	}
	return p, nil
}

// Recommendations devuelve una recomendación por producto, ordenadas por product_id.
func (uc *RecommendationUseCase) Recommendations(ctx context.Context, p forecast.Params) ([]entity.StockRecommendation, error) {
	key := cacheKey(p)
	if uc.cache != nil {
		recs, ok, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("caché de recomendaciones no disponible")
		} else if ok {
			return recs, nil
		}
	}

	histories, err := uc.salesRepo.GetAllHistories(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar historial de ventas: %w", err)
	}

	recs := make([]entity.StockRecommendation, 0, len(histories))
	for pid, history := range histories {
		est, err := forecast.Compute(entity.Quantities(sortedByDate(history)), p)
		if err != nil {
			return nil, fmt.Errorf("producto %d: %w", pid, err)
		}
		recs = append(recs, entity.StockRecommendation{
			ProductID:      pid,
			RecommendedQty: est.Recommended,
			LastSalesAvg:   est.MovingAverage,
		})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ProductID < recs[j].ProductID })

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, recs); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear recomendaciones")
		}
	}
	return recs, nil
}

// CalculateStock arma la respuesta de GET /calculate_stock.
func (uc *RecommendationUseCase) CalculateStock(ctx context.Context, p forecast.Params) (*dto.CalculateStockResponse, error) {
	recs, err := uc.Recommendations(ctx, p)
	if err != nil {
		return nil, err
	}
	products := make(map[int64]dto.ProductRecommendationDTO, len(recs))
	for _, r := range recs {
		products[r.ProductID] = dto.ProductRecommendationDTO{
			RecommendedQty: r.RecommendedQty,
			LastSalesAvg:   r.LastSalesAvg,
		}
	}
	return &dto.CalculateStockResponse{
		Products:     products,
		LeadTimeDays: p.LeadTimeDays,
		Window:       p.Window,
		Z:            p.Z,
	}, nil
}

// ProductEstimate calcula la recomendación de un solo producto con sus valores intermedios.
// Sin ventas registradas devuelve domain.ErrNotFound.
func (uc *RecommendationUseCase) ProductEstimate(ctx context.Context, productID int64, p forecast.Params) (*dto.ProductEstimateResponse, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product_id debe ser positivo", domain.ErrInvalidInput)
	}
	history, err := uc.salesRepo.GetHistory(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("cargar historial del producto %d: %w", productID, err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: producto %d sin ventas registradas", domain.ErrNotFound, productID)
	}
	est, err := forecast.Compute(entity.Quantities(sortedByDate(history)), p)
	if err != nil {
		return nil, fmt.Errorf("producto %d: %w", productID, err)
	}
	return &dto.ProductEstimateResponse{
		ProductID:      productID,
		RecommendedQty: est.Recommended,
		LastSalesAvg:   est.MovingAverage,
		StdDev:         est.StdDev,
		SafetyStock:    est.SafetyStock,
		Records:        len(history),
		LeadTimeDays:   p.LeadTimeDays,
		Window:         p.Window,
		Z:              p.Z,
	}, nil
}

// sortedByDate ordena por fecha ascendente sin asumir que el almacén lo garantiza.
func sortedByDate(history []entity.SalesRecord) []entity.SalesRecord {
	if sort.SliceIsSorted(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) }) {
		return history
	}
	out := make([]entity.SalesRecord, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func cacheKey(p forecast.Params) string {
	return strconv.Itoa(p.LeadTimeDays) + ":" + strconv.Itoa(p.Window) + ":" + strconv.FormatFloat(p.Z, 'f', -1, 64)
}
