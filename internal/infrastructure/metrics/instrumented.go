package metrics

import (
	"context"
	"time"

	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

var (
	_ ports.Ledger               = (*InstrumentedLedger)(nil)
	_ repository.SalesRepository = (*InstrumentedSalesRepo)(nil)
)

// InstrumentedLedger decora un ports.Ledger contando lecturas y escrituras.
type InstrumentedLedger struct {
	next ports.Ledger
}

// NewInstrumentedLedger envuelve next.
func NewInstrumentedLedger(next ports.Ledger) *InstrumentedLedger {
	return &InstrumentedLedger{next: next}
}

func (l *InstrumentedLedger) ReadQuantity(ctx context.Context, productID int64) (int64, error) {
	start := time.Now()
	qty, err := l.next.ReadQuantity(ctx, productID)
	LedgerReadDuration.Observe(time.Since(start).Seconds())
	LedgerReadsTotal.WithLabelValues(result(err)).Inc()
	return qty, err
}

func (l *InstrumentedLedger) ReadProduct(ctx context.Context, productID int64) (*entity.ProductState, error) {
	start := time.Now()
	p, err := l.next.ReadProduct(ctx, productID)
	LedgerReadDuration.Observe(time.Since(start).Seconds())
	LedgerReadsTotal.WithLabelValues(result(err)).Inc()
	return p, err
}

func (l *InstrumentedLedger) WriteQuantity(ctx context.Context, productID, quantity int64) (*entity.LedgerReceipt, error) {
	r, err := l.next.WriteQuantity(ctx, productID, quantity)
	LedgerWritesTotal.WithLabelValues(entity.LedgerActionUpsert, result(err)).Inc()
	return r, err
}

func (l *InstrumentedLedger) Restock(ctx context.Context, productID, quantity int64) (*entity.LedgerReceipt, error) {
	r, err := l.next.Restock(ctx, productID, quantity)
	LedgerWritesTotal.WithLabelValues(entity.LedgerActionRestock, result(err)).Inc()
	return r, err
}

func (l *InstrumentedLedger) ApplyDiscount(ctx context.Context, productID int64) (*entity.LedgerReceipt, error) {
	r, err := l.next.ApplyDiscount(ctx, productID)
	LedgerWritesTotal.WithLabelValues(entity.LedgerActionDiscount, result(err)).Inc()
	return r, err
}

// InstrumentedSalesRepo decora el repositorio contando registros agregados.
type InstrumentedSalesRepo struct {
	repository.SalesRepository
}

// NewInstrumentedSalesRepo envuelve next.
func NewInstrumentedSalesRepo(next repository.SalesRepository) *InstrumentedSalesRepo {
	return &InstrumentedSalesRepo{SalesRepository: next}
}

func (r *InstrumentedSalesRepo) Append(ctx context.Context, records []entity.SalesRecord) (int, error) {
	n, err := r.SalesRepository.Append(ctx, records)
	if err == nil {
		SalesRecordsIngestedTotal.Add(float64(n))
	}
	return n, err
}
