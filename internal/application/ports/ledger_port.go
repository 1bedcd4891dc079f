package ports

import (
	"context"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// Ledger define el puerto de salida hacia el sistema de registro de cantidades en mano
// (contrato de inventario on-chain o su simulación en memoria).
//
// Las lecturas fallidas se devuelven envueltas en domain.ErrLedgerRead; quien lee decide
// la política (la lista de prioridad sustituye por cero). Las escrituras solo retornan
// cuando la transacción quedó minada; un fallo se devuelve envuelto en domain.ErrLedgerWrite.
type Ledger interface {
	// ReadQuantity devuelve la cantidad actual de un producto.
	ReadQuantity(ctx context.Context, productID int64) (int64, error)

	// ReadProduct devuelve el estado completo del producto en el contrato.
	ReadProduct(ctx context.Context, productID int64) (*entity.ProductState, error)

	// WriteQuantity fija la cantidad absoluta (addOrUpdateProduct).
	WriteQuantity(ctx context.Context, productID, quantity int64) (*entity.LedgerReceipt, error)

	// Restock suma quantity a la cantidad registrada.
	Restock(ctx context.Context, productID, quantity int64) (*entity.LedgerReceipt, error)

	// ApplyDiscount marca el producto con descuento aplicado.
	ApplyDiscount(ctx context.Context, productID int64) (*entity.LedgerReceipt, error)
}
