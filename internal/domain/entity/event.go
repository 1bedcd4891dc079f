package entity

import "time"

// Tipos de evento de inventario publicados al broker.
const (
	EventSalesIngested   = "sales.ingested"
	EventLedgerUpdated   = "ledger.quantity_updated"
	EventLedgerRestocked = "ledger.restocked"
	EventDiscountApplied = "ledger.discount_applied"
)

// InventoryEvent evento de dominio emitido tras una ingesta o una escritura confirmada en el ledger.
type InventoryEvent struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	ProductID       int64     `json:"product_id,omitempty"`
	Quantity        int64     `json:"quantity,omitempty"`
	DiscountPercent int       `json:"discount_percent,omitempty"`
	BatchID         string    `json:"batch_id,omitempty"`
	Rows            int       `json:"rows,omitempty"`
	TxHash          string    `json:"tx_hash,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
