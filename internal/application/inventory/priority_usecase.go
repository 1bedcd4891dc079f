package inventory

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/forecast"
	domaininventory "github.com/jhoicas/restock-api/internal/domain/inventory"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// PriorityUseCase genera la lista priorizada de reposición.
// Cruza las recomendaciones con la cantidad actual de cada producto en el ledger.
type PriorityUseCase struct {
	recommendations *RecommendationUseCase
	ledger          ports.Ledger
	readTimeout     time.Duration
	concurrency     int
	log             *logger.Logger
}

// ReadOptions límites de las lecturas al ledger.
type ReadOptions struct {
	Timeout     time.Duration // por lectura; 0 = sin timeout propio
	Concurrency int           // lecturas simultáneas; < 1 = 1
}

// NewPriorityUseCase construye el caso de uso de prioridad.
func NewPriorityUseCase(
	recommendations *RecommendationUseCase,
	ledger ports.Ledger,
	opts ReadOptions,
	log *logger.Logger,
) *PriorityUseCase {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &PriorityUseCase{
		recommendations: recommendations,
		ledger:          ledger,
		readTimeout:     opts.Timeout,
		concurrency:     opts.Concurrency,
		log:             log.Named("priority"),
	}
}

// RestockPriority devuelve las entradas ordenadas por score descendente y los productos
// cuya lectura del ledger falló (tomados con stock 0).
func (uc *PriorityUseCase) RestockPriority(ctx context.Context, p forecast.Params) (*dto.RestockPriorityResponse, error) {
	recs, err := uc.recommendations.Recommendations(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return &dto.RestockPriorityResponse{Priority: []entity.PriorityEntry{}}, nil
	}

	recommended := make(map[int64]int64, len(recs))
	ids := make([]int64, 0, len(recs))
	for _, r := range recs {
		recommended[r.ProductID] = r.RecommendedQty
		ids = append(ids, r.ProductID)
	}

	current, failed := domaininventory.CurrentFromReadings(uc.ReadAll(ctx, ids))
	if len(failed) > 0 {
		uc.log.Warn().
			Ints64("product_ids", failed).
			Int("failed", len(failed)).
			Int("total", len(ids)).
			Msg("lecturas del ledger fallidas, se asume stock 0")
	}

	return &dto.RestockPriorityResponse{
		Priority:           domaininventory.RankPriorities(recommended, current),
		LedgerReadFailures: failed,
	}, nil
}

// ReadAll lee la cantidad de cada producto en paralelo (como máximo uc.concurrency a la vez),
// cada lectura con su propio timeout. Espera a que terminen todas antes de devolver.
// Nunca falla: cada error queda en la LedgerReading de su producto.
func (uc *PriorityUseCase) ReadAll(ctx context.Context, productIDs []int64) []entity.LedgerReading {
	readings := make([]entity.LedgerReading, len(productIDs))

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for i, pid := range productIDs {
		i, pid := i, pid
		g.Go(func() error {
			readings[i] = uc.readOne(ctx, pid)
			return nil
		})
	}
	_ = g.Wait()

	return readings
}

func (uc *PriorityUseCase) readOne(ctx context.Context, productID int64) entity.LedgerReading {
	rctx := ctx
	if uc.readTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, uc.readTimeout)
		defer cancel()
	}

	qty, err := uc.ledger.ReadQuantity(rctx, productID)
	if err == nil && qty < 0 {
		err = fmt.Errorf("%w: cantidad negativa %d", domain.ErrLedgerRead, qty)
	}
	if err != nil {
		uc.log.Debug().Err(err).Int64("product_id", productID).Msg("lectura del ledger")
		return entity.LedgerReading{ProductID: productID, Err: err}
	}
	return entity.LedgerReading{ProductID: productID, Quantity: qty}
}
