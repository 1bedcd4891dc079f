package entity

import "time"

// LedgerReading resultado de leer un producto del ledger: cantidad o error, nunca ambos.
// La política de sustituir por cero la aplica quien consume la lectura.
type LedgerReading struct {
	ProductID int64
	Quantity  int64
	Err       error
}

// OK indica si la lectura tuvo éxito.
func (r LedgerReading) OK() bool { return r.Err == nil }

// QuantityOr devuelve la cantidad leída o fallback si la lectura falló.
func (r LedgerReading) QuantityOr(fallback int64) int64 {
	if r.Err != nil {
		return fallback
	}
	return r.Quantity
}

// ProductState estado de un producto tal como lo guarda el contrato de inventario.
type ProductState struct {
	ProductID       int64     `json:"product_id"`
	Quantity        int64     `json:"quantity"`
	LastUpdated     time.Time `json:"last_updated"`
	DiscountApplied bool      `json:"discount_applied"`
}

// Acciones escritas en el ledger.
const (
	LedgerActionUpsert   = "add_or_update_product"
	LedgerActionRestock  = "restock"
	LedgerActionDiscount = "apply_discount"
)

// LedgerReceipt confirmación de una transacción ya minada.
type LedgerReceipt struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	BlockHash   string `json:"block_hash,omitempty"`
	Status      uint64 `json:"status"` // 1 = éxito
	GasUsed     uint64 `json:"gas_used"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Action      string `json:"action"`
	ProductID   int64  `json:"product_id"`
	Quantity    int64  `json:"quantity,omitempty"`
}
