package chain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
)

var _ ports.Ledger = (*SimulatedLedger)(nil)

// SimulatedLedger ledger en memoria con la semántica del contrato (LEDGER_MODE=simulated).
// Cada escritura "mina" un bloque y devuelve un hash determinista.
type SimulatedLedger struct {
	mu        sync.RWMutex
	products  map[int64]entity.ProductState
	failReads map[int64]bool
	block     uint64
	now       func() time.Time
}

// NewSimulatedLedger crea el ledger con cantidades iniciales opcionales.
func NewSimulatedLedger(initial map[int64]int64) *SimulatedLedger {
	l := &SimulatedLedger{
		products:  make(map[int64]entity.ProductState, len(initial)),
		failReads: make(map[int64]bool),
		now:       time.Now,
	}
	for id, qty := range initial {
		l.products[id] = entity.ProductState{ProductID: id, Quantity: qty}
	}
	return l
}

// FailReads hace que las lecturas de esos productos fallen (pruebas de degradación).
func (l *SimulatedLedger) FailReads(ids ...int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		l.failReads[id] = true
	}
}

// ReadQuantity devuelve la cantidad; un producto desconocido vale cero como en el contrato.
func (l *SimulatedLedger) ReadQuantity(ctx context.Context, productID int64) (int64, error) {
	p, err := l.ReadProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.Quantity, nil
}

// ReadProduct devuelve el estado del producto.
func (l *SimulatedLedger) ReadProduct(ctx context.Context, productID int64) (*entity.ProductState, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: producto %d: %w", domain.ErrLedgerRead, productID, err)
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.failReads[productID] {
		return nil, fmt.Errorf("%w: producto %d: lectura simulada fallida", domain.ErrLedgerRead, productID)
	}
	p, ok := l.products[productID]
	if !ok {
		return &entity.ProductState{}, nil
	}
	return &p, nil
}

// WriteQuantity fija la cantidad absoluta.
func (l *SimulatedLedger) WriteQuantity(ctx context.Context, productID, quantity int64) (*entity.LedgerReceipt, error) {
	return l.mine(ctx, entity.LedgerActionUpsert, productID, quantity, func(p *entity.ProductState) {
		p.Quantity = quantity
	})
}

// Restock suma quantity a la cantidad actual.
func (l *SimulatedLedger) Restock(ctx context.Context, productID, quantity int64) (*entity.LedgerReceipt, error) {
	return l.mine(ctx, entity.LedgerActionRestock, productID, quantity, func(p *entity.ProductState) {
		p.Quantity += quantity
	})
}

// ApplyDiscount marca el descuento.
func (l *SimulatedLedger) ApplyDiscount(ctx context.Context, productID int64) (*entity.LedgerReceipt, error) {
	return l.mine(ctx, entity.LedgerActionDiscount, productID, 0, func(p *entity.ProductState) {
		p.DiscountApplied = true
	})
}

func (l *SimulatedLedger) mine(ctx context.Context, action string, productID, quantity int64, apply func(*entity.ProductState)) (*entity.LedgerReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLedgerWrite, action, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.products[productID]
	p.ProductID = productID
	apply(&p)
	p.LastUpdated = l.now().UTC().Truncate(time.Second)
	l.products[productID] = p
	l.block++

	hash := crypto.Keccak256Hash([]byte(fmt.Sprintf("%s:%d:%d:%d", action, productID, quantity, l.block)))
	return &entity.LedgerReceipt{
		TxHash:      hash.Hex(),
		BlockNumber: l.block,
		Status:      1,
		Action:      action,
		ProductID:   productID,
		Quantity:    quantity,
	}, nil
}
