package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/inventory"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/pkg/logger"
)

func TestRestockAndUpdateChain_OK(t *testing.T) {
	ledger := &fakeLedger{}
	pub := &fakePublisher{}
	uc := inventory.NewLedgerUseCase(ledger, pub, logger.Nop())

	resp, err := uc.RestockAndUpdateChain(context.Background(), dto.RestockAndUpdateChainRequest{ProductID: 101, NewQty: 40})
	require.NoError(t, err)

	assert.Equal(t, dto.StatusOnChainUpdated, resp.Status)
	assert.Equal(t, int64(101), resp.ProductID)
	require.NotNil(t, resp.Receipt)
	assert.Equal(t, "0xabc", resp.Receipt.TxHash)
	assert.Equal(t, []string{entity.LedgerActionUpsert}, ledger.writes)

	require.Len(t, pub.events, 1)
	assert.Equal(t, entity.EventLedgerUpdated, pub.events[0].Type)
	assert.Equal(t, int64(40), pub.events[0].Quantity)
	assert.NotEmpty(t, pub.events[0].ID)
	assert.False(t, pub.events[0].OccurredAt.IsZero())
}

func TestRestockAndUpdateChain_Validacion(t *testing.T) {
	uc := inventory.NewLedgerUseCase(&fakeLedger{}, &fakePublisher{}, logger.Nop())

	_, err := uc.RestockAndUpdateChain(context.Background(), dto.RestockAndUpdateChainRequest{ProductID: 0, NewQty: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RestockAndUpdateChain(context.Background(), dto.RestockAndUpdateChainRequest{ProductID: 1, NewQty: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEscritura_FalloSeDevuelveComoErrLedgerWrite(t *testing.T) {
	ledger := &fakeLedger{writeErr: errors.New("nonce too low")}
	pub := &fakePublisher{}
	uc := inventory.NewLedgerUseCase(ledger, pub, logger.Nop())

	_, err := uc.RestockAndUpdateChain(context.Background(), dto.RestockAndUpdateChainRequest{ProductID: 1, NewQty: 5})
	assert.ErrorIs(t, err, domain.ErrLedgerWrite)
	assert.Contains(t, err.Error(), "nonce too low")

	_, err = uc.Restock(context.Background(), dto.RestockRequest{ProductID: 1, Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrLedgerWrite)

	_, err = uc.ApplyDiscount(context.Background(), dto.ApplyDiscountRequest{ProductID: 1})
	assert.ErrorIs(t, err, domain.ErrLedgerWrite)

	assert.Empty(t, pub.events, "sin confirmación no hay evento")
}

func TestEscritura_LedgerNoDisponibleSeConserva(t *testing.T) {
	uc := inventory.NewLedgerUseCase(&fakeLedger{writeErr: domain.ErrLedgerUnavailable}, &fakePublisher{}, logger.Nop())

	_, err := uc.Restock(context.Background(), dto.RestockRequest{ProductID: 1, Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrLedgerUnavailable)
	assert.False(t, errors.Is(err, domain.ErrLedgerWrite))
}

func TestRestock_Validacion(t *testing.T) {
	uc := inventory.NewLedgerUseCase(&fakeLedger{}, &fakePublisher{}, logger.Nop())

	_, err := uc.Restock(context.Background(), dto.RestockRequest{ProductID: 1, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err := uc.Restock(context.Background(), dto.RestockRequest{ProductID: 1, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, dto.StatusRestockedOnChain, resp.Status)
	require.NotNil(t, resp.Quantity)
	assert.Equal(t, int64(3), *resp.Quantity)
}

func TestApplyDiscount_PorcentajePorDefecto(t *testing.T) {
	pub := &fakePublisher{}
	uc := inventory.NewLedgerUseCase(&fakeLedger{}, pub, logger.Nop())

	resp, err := uc.ApplyDiscount(context.Background(), dto.ApplyDiscountRequest{ProductID: 5})
	require.NoError(t, err)
	require.NotNil(t, resp.DiscountPercent)
	assert.Equal(t, dto.DefaultDiscountPercent, *resp.DiscountPercent)
	assert.Equal(t, dto.StatusDiscountApplied, resp.Status)
	require.Len(t, pub.events, 1)
	assert.Equal(t, dto.DefaultDiscountPercent, pub.events[0].DiscountPercent)

	for _, pct := range []int{-5, 101} {
		_, err := uc.ApplyDiscount(context.Background(), dto.ApplyDiscountRequest{ProductID: 5, DiscountPercent: pct})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "pct=%d", pct)
		// El mensaje documenta que 0 no es inválido sino el valor por defecto.
		assert.ErrorContains(t, err, "0 u omitido usa 20", "pct=%d", pct)
	}

	// Los extremos del rango son válidos y se respetan tal cual.
	for _, pct := range []int{1, 100} {
		resp, err := uc.ApplyDiscount(context.Background(), dto.ApplyDiscountRequest{ProductID: 5, DiscountPercent: pct})
		require.NoError(t, err, "pct=%d", pct)
		assert.Equal(t, pct, *resp.DiscountPercent)
	}
}

func TestEscritura_FalloDelBrokerNoDeshaceLaEscritura(t *testing.T) {
	ledger := &fakeLedger{}
	uc := inventory.NewLedgerUseCase(ledger, &fakePublisher{err: errors.New("broker caído")}, logger.Nop())

	resp, err := uc.RestockAndUpdateChain(context.Background(), dto.RestockAndUpdateChainRequest{ProductID: 2, NewQty: 9})
	require.NoError(t, err)
	assert.Equal(t, dto.StatusOnChainUpdated, resp.Status)
	assert.Len(t, ledger.writes, 1)
}

func TestGetOnChain(t *testing.T) {
	uc := inventory.NewLedgerUseCase(&fakeLedger{quantities: map[int64]int64{4: 11}}, nil, logger.Nop())

	st, err := uc.GetOnChain(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(11), st.Quantity)

	_, err = uc.GetOnChain(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetOnChain(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un id nunca escrito no existe en el contrato")
}
