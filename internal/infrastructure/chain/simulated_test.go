package chain_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/infrastructure/chain"
)

func TestSimulatedLedger_WriteRestockDiscount(t *testing.T) {
	ctx := context.Background()
	l := chain.NewSimulatedLedger(map[int64]int64{101: 5})

	qty, err := l.ReadQuantity(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty)

	r1, err := l.WriteQuantity(ctx, 101, 20)
	require.NoError(t, err)
	assert.Equal(t, entity.LedgerActionUpsert, r1.Action)
	assert.Equal(t, uint64(1), r1.Status)
	assert.Len(t, r1.TxHash, 66)

	r2, err := l.Restock(ctx, 101, 7)
	require.NoError(t, err)
	assert.Greater(t, r2.BlockNumber, r1.BlockNumber)
	assert.NotEqual(t, r1.TxHash, r2.TxHash)

	_, err = l.ApplyDiscount(ctx, 101)
	require.NoError(t, err)

	p, err := l.ReadProduct(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(27), p.Quantity)
	assert.True(t, p.DiscountApplied)
	assert.False(t, p.LastUpdated.IsZero())
}

func TestSimulatedLedger_UnknownProductIsZero(t *testing.T) {
	qty, err := chain.NewSimulatedLedger(nil).ReadQuantity(context.Background(), 999)
	require.NoError(t, err)
	assert.Zero(t, qty)
}

func TestSimulatedLedger_FailReads(t *testing.T) {
	l := chain.NewSimulatedLedger(map[int64]int64{101: 5, 102: 1})
	l.FailReads(102)

	_, err := l.ReadQuantity(context.Background(), 102)
	assert.ErrorIs(t, err, domain.ErrLedgerRead)
	_, err = l.ReadQuantity(context.Background(), 101)
	assert.NoError(t, err)
}

func TestSimulatedLedger_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := chain.NewSimulatedLedger(nil)

	_, err := l.ReadQuantity(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrLedgerRead)
	_, err = l.Restock(ctx, 1, 1)
	assert.ErrorIs(t, err, domain.ErrLedgerWrite)
}

func TestSimulatedLedger_ConcurrentRestocks(t *testing.T) {
	ctx := context.Background()
	l := chain.NewSimulatedLedger(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Restock(ctx, 7, 2)
		}()
	}
	wg.Wait()

	qty, err := l.ReadQuantity(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(100), qty)
}
