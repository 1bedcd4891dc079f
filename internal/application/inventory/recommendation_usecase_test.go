package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restock-api/internal/application/inventory"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/forecast"
	"github.com/jhoicas/restock-api/pkg/logger"
)

func newRecommendationUC(repo *fakeSalesRepo, cache *fakeCache) *inventory.RecommendationUseCase {
	if cache == nil {
		return inventory.NewRecommendationUseCase(repo, nil, forecast.DefaultParams(), logger.Nop())
	}
	return inventory.NewRecommendationUseCase(repo, cache, forecast.DefaultParams(), logger.Nop())
}

func TestCalculateStock_OrdenaHistorialYCalcula(t *testing.T) {
	repo := &fakeSalesRepo{histories: map[int64][]entity.SalesRecord{
		// desordenado a propósito: la última venta (día 3) es 9
		101: {day(101, 3, 9), day(101, 1, 1), day(101, 2, 5)},
		102: {day(102, 1, 4)},
	}}
	uc := newRecommendationUC(repo, nil)

	p := forecast.Params{LeadTimeDays: 2, Z: 0, Window: 1}
	resp, err := uc.CalculateStock(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, resp.Products, 2)
	assert.Equal(t, 9.0, resp.Products[101].LastSalesAvg, "window=1 toma la venta más reciente por fecha")
	assert.Equal(t, int64(18), resp.Products[101].RecommendedQty)
	assert.Equal(t, int64(8), resp.Products[102].RecommendedQty)
	assert.Equal(t, 2, resp.LeadTimeDays)
	assert.Equal(t, 1, resp.Window)
}

func TestCalculateStock_SinVentas(t *testing.T) {
	uc := newRecommendationUC(&fakeSalesRepo{histories: map[int64][]entity.SalesRecord{}}, nil)

	resp, err := uc.CalculateStock(context.Background(), forecast.DefaultParams())
	require.NoError(t, err)
	assert.NotNil(t, resp.Products)
	assert.Empty(t, resp.Products)
}

func TestRecommendations_UsaCache(t *testing.T) {
	repo := &fakeSalesRepo{histories: map[int64][]entity.SalesRecord{7: {day(7, 1, 2)}}}
	cache := &fakeCache{data: map[string][]entity.StockRecommendation{}}
	uc := newRecommendationUC(repo, cache)

	first, err := uc.Recommendations(context.Background(), forecast.DefaultParams())
	require.NoError(t, err)
	second, err := uc.Recommendations(context.Background(), forecast.DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), repo.calls.Load(), "la segunda lectura sale de caché")
	assert.Equal(t, 1, cache.sets)

	// Otros parámetros → otra clave.
	_, err = uc.Recommendations(context.Background(), forecast.Params{LeadTimeDays: 3, Z: 1.65, Window: 7})
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestRecommendations_ErrorDelRepositorio(t *testing.T) {
	repo := &fakeSalesRepo{err: errors.New("db caída")}
	uc := newRecommendationUC(repo, nil)

	_, err := uc.Recommendations(context.Background(), forecast.DefaultParams())
	assert.Error(t, err)
}

func TestResolveParams(t *testing.T) {
	uc := newRecommendationUC(&fakeSalesRepo{}, nil)

	p, err := uc.ResolveParams(inventory.ParamOverrides{})
	require.NoError(t, err)
	assert.Equal(t, forecast.DefaultParams(), p)

	lt, w, z := 14, 3, 2.0
	p, err = uc.ResolveParams(inventory.ParamOverrides{LeadTimeDays: &lt, Window: &w, Z: &z})
	require.NoError(t, err)
	assert.Equal(t, forecast.Params{LeadTimeDays: 14, Z: 2, Window: 3}, p)

	zero := 0
	_, err = uc.ResolveParams(inventory.ParamOverrides{Window: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := -2
	_, err = uc.ResolveParams(inventory.ParamOverrides{LeadTimeDays: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductEstimate_Desglose(t *testing.T) {
	repo := &fakeSalesRepo{histories: map[int64][]entity.SalesRecord{
		101: {day(101, 3, 9), day(101, 1, 1), day(101, 2, 5)},
	}}
	uc := newRecommendationUC(repo, nil)

	res, err := uc.ProductEstimate(context.Background(), 101, forecast.Params{LeadTimeDays: 2, Z: 0, Window: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(101), res.ProductID)
	assert.Equal(t, 7.0, res.LastSalesAvg, "(5+9)/2 tras ordenar por fecha")
	assert.InDelta(t, 3.265986, res.StdDev, 1e-6, "σ poblacional de 1,5,9")
	assert.Zero(t, res.SafetyStock)
	assert.Equal(t, int64(14), res.RecommendedQty)
	assert.Equal(t, 3, res.Records)
	assert.Equal(t, 2, res.Window)
}

func TestProductEstimate_Errores(t *testing.T) {
	uc := newRecommendationUC(&fakeSalesRepo{histories: map[int64][]entity.SalesRecord{}}, nil)

	_, err := uc.ProductEstimate(context.Background(), 55, forecast.DefaultParams())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ProductEstimate(context.Background(), 0, forecast.DefaultParams())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
