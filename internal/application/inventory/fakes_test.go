package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba de los puertos
// ──────────────────────────────────────────────────────────────────────────────

type fakeSalesRepo struct {
	histories map[int64][]entity.SalesRecord
	calls     atomic.Int32
	err       error
}

func (r *fakeSalesRepo) Append(_ context.Context, records []entity.SalesRecord) (int, error) {
	for _, rec := range records {
		r.histories[rec.ProductID] = append(r.histories[rec.ProductID], rec)
	}
	return len(records), nil
}

func (r *fakeSalesRepo) GetHistory(_ context.Context, productID int64) ([]entity.SalesRecord, error) {
	return r.histories[productID], nil
}

func (r *fakeSalesRepo) GetAllHistories(context.Context) (map[int64][]entity.SalesRecord, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return r.histories, nil
}

func (r *fakeSalesRepo) Summaries(context.Context) ([]entity.SalesSummary, error) {
	return nil, nil
}

func (r *fakeSalesRepo) Count(context.Context) (int, error) {
	n := 0
	for _, h := range r.histories {
		n += len(h)
	}
	return n, nil
}

// day construye un registro para el día d de enero de 2026.
func day(pid int64, d int, qty int64) entity.SalesRecord {
	return entity.SalesRecord{
		Date:         time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC),
		ProductID:    pid,
		QuantitySold: qty,
	}
}

type fakeLedger struct {
	mu         sync.Mutex
	quantities map[int64]int64
	failRead   map[int64]bool
	blockRead  map[int64]bool
	writeErr   error
	inFlight   atomic.Int32
	maxFlight  atomic.Int32
	readDelay  time.Duration
	writes     []string
}

func (l *fakeLedger) ReadQuantity(ctx context.Context, productID int64) (int64, error) {
	n := l.inFlight.Add(1)
	defer l.inFlight.Add(-1)
	for {
		m := l.maxFlight.Load()
		if n <= m || l.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if l.readDelay > 0 {
		time.Sleep(l.readDelay)
	}
	if l.blockRead[productID] {
		<-ctx.Done()
		return 0, errors.Join(domain.ErrLedgerRead, ctx.Err())
	}
	if l.failRead[productID] {
		return 0, domain.ErrLedgerRead
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quantities[productID], nil
}

func (l *fakeLedger) ReadProduct(ctx context.Context, productID int64) (*entity.ProductState, error) {
	q, err := l.ReadQuantity(ctx, productID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	_, known := l.quantities[productID]
	l.mu.Unlock()
	if !known {
		return &entity.ProductState{}, nil
	}
	return &entity.ProductState{ProductID: productID, Quantity: q}, nil
}

func (l *fakeLedger) receipt(action string, productID, qty int64) (*entity.LedgerReceipt, error) {
	if l.writeErr != nil {
		return nil, l.writeErr
	}
	l.writes = append(l.writes, action)
	return &entity.LedgerReceipt{TxHash: "0xabc", Status: 1, Action: action, ProductID: productID, Quantity: qty}, nil
}

func (l *fakeLedger) WriteQuantity(_ context.Context, productID, quantity int64) (*entity.LedgerReceipt, error) {
	return l.receipt(entity.LedgerActionUpsert, productID, quantity)
}

func (l *fakeLedger) Restock(_ context.Context, productID, quantity int64) (*entity.LedgerReceipt, error) {
	return l.receipt(entity.LedgerActionRestock, productID, quantity)
}

func (l *fakeLedger) ApplyDiscount(_ context.Context, productID int64) (*entity.LedgerReceipt, error) {
	return l.receipt(entity.LedgerActionDiscount, productID, 0)
}

type fakeCache struct {
	data map[string][]entity.StockRecommendation
	sets int
}

func (c *fakeCache) Get(_ context.Context, key string) ([]entity.StockRecommendation, bool, error) {
	recs, ok := c.data[key]
	return recs, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, recs []entity.StockRecommendation) error {
	c.sets++
	c.data[key] = recs
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.data = map[string][]entity.StockRecommendation{}
	return nil
}

type fakePublisher struct {
	events []entity.InventoryEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev entity.InventoryEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}
