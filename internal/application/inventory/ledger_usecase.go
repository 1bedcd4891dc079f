package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// LedgerUseCase escribe acciones de inventario (reposición, descuento) en el ledger.
// Las escrituras no se reintentan: un fallo cambia el estado real y se devuelve al llamador.
type LedgerUseCase struct {
	ledger    ports.Ledger
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(ledger ports.Ledger, publisher ports.EventPublisher, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		ledger:    ledger,
		publisher: publisher,
		log:       log.Named("ledger"),
		now:       time.Now,
	}
}

// RestockAndUpdateChain fija la cantidad on-chain de un producto tras una reposición física.
func (uc *LedgerUseCase) RestockAndUpdateChain(ctx context.Context, in dto.RestockAndUpdateChainRequest) (*dto.LedgerWriteResponse, error) {
	if in.ProductID <= 0 || in.NewQty < 0 {
		return nil, fmt.Errorf("%w: product_id debe ser positivo y new_qty no negativo", domain.ErrInvalidInput)
	}
	receipt, err := uc.ledger.WriteQuantity(ctx, in.ProductID, in.NewQty)
	if err != nil {
		return nil, uc.writeFailed(entity.LedgerActionUpsert, in.ProductID, err)
	}
	uc.log.Info().Int64("product_id", in.ProductID).Int64("quantity", in.NewQty).Str("tx", receipt.TxHash).Msg("cantidad actualizada on-chain")
	uc.publish(ctx, entity.InventoryEvent{
		Type:      entity.EventLedgerUpdated,
		ProductID: in.ProductID,
		Quantity:  in.NewQty,
		TxHash:    receipt.TxHash,
	})
	qty := in.NewQty
	return &dto.LedgerWriteResponse{
		Status:    dto.StatusOnChainUpdated,
		ProductID: in.ProductID,
		Quantity:  &qty,
		Receipt:   receipt,
	}, nil
}

// Restock suma unidades a la cantidad registrada on-chain.
func (uc *LedgerUseCase) Restock(ctx context.Context, in dto.RestockRequest) (*dto.LedgerWriteResponse, error) {
	if in.ProductID <= 0 || in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: product_id y quantity deben ser positivos", domain.ErrInvalidInput)
	}
	receipt, err := uc.ledger.Restock(ctx, in.ProductID, in.Quantity)
	if err != nil {
		return nil, uc.writeFailed(entity.LedgerActionRestock, in.ProductID, err)
	}
	uc.log.Info().Int64("product_id", in.ProductID).Int64("quantity", in.Quantity).Str("tx", receipt.TxHash).Msg("reposición registrada on-chain")
	uc.publish(ctx, entity.InventoryEvent{
		Type:      entity.EventLedgerRestocked,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		TxHash:    receipt.TxHash,
	})
	qty := in.Quantity
	return &dto.LedgerWriteResponse{
		Status:    dto.StatusRestockedOnChain,
		ProductID: in.ProductID,
		Quantity:  &qty,
		Receipt:   receipt,
	}, nil
}

// ApplyDiscount marca el descuento on-chain. El porcentaje no viaja al contrato:
// lo administra el backend y se publica en el evento.
func (uc *LedgerUseCase) ApplyDiscount(ctx context.Context, in dto.ApplyDiscountRequest) (*dto.LedgerWriteResponse, error) {
	pct := in.DiscountPercent
	if pct == 0 {
		pct = dto.DefaultDiscountPercent
	}
	if in.ProductID <= 0 || pct < 0 || pct > 100 {
		return nil, fmt.Errorf("%w: product_id positivo y discount_percent entre 1 y 100 (0 u omitido usa %d)",
			domain.ErrInvalidInput, dto.DefaultDiscountPercent)
	}
	receipt, err := uc.ledger.ApplyDiscount(ctx, in.ProductID)
	if err != nil {
		return nil, uc.writeFailed(entity.LedgerActionDiscount, in.ProductID, err)
	}
	uc.log.Info().Int64("product_id", in.ProductID).Int("discount_percent", pct).Str("tx", receipt.TxHash).Msg("descuento aplicado on-chain")
	uc.publish(ctx, entity.InventoryEvent{
		Type:            entity.EventDiscountApplied,
		ProductID:       in.ProductID,
		DiscountPercent: pct,
		TxHash:          receipt.TxHash,
	})
	return &dto.LedgerWriteResponse{
		Status:          dto.StatusDiscountApplied,
		ProductID:       in.ProductID,
		DiscountPercent: &pct,
		Receipt:         receipt,
	}, nil
}

// GetOnChain devuelve el estado del producto en el contrato.
func (uc *LedgerUseCase) GetOnChain(ctx context.Context, productID int64) (*entity.ProductState, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product_id debe ser positivo", domain.ErrInvalidInput)
	}
	state, err := uc.ledger.ReadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	// El contrato devuelve ceros para un id nunca escrito.
	if state.ProductID == 0 && state.LastUpdated.IsZero() {
		return nil, fmt.Errorf("%w: producto %d no registrado en el ledger", domain.ErrNotFound, productID)
	}
	return state, nil
}

// writeFailed normaliza el error de escritura: siempre queda envuelto en ErrLedgerWrite
// salvo que el ledger no esté disponible.
func (uc *LedgerUseCase) writeFailed(action string, productID int64, err error) error {
	uc.log.Error().Err(err).Str("action", action).Int64("product_id", productID).Msg("escritura en el ledger fallida")
	if errors.Is(err, domain.ErrLedgerWrite) || errors.Is(err, domain.ErrLedgerUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrLedgerWrite, action, err)
}

// publish emite el evento; un fallo del broker no deshace una escritura ya confirmada.
func (uc *LedgerUseCase) publish(ctx context.Context, ev entity.InventoryEvent) {
	if uc.publisher == nil {
		return
	}
	ev.ID = uuid.New().String()
	ev.OccurredAt = uc.now().UTC()
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("event", ev.Type).Int64("product_id", ev.ProductID).Msg("no se pudo publicar evento")
	}
}
