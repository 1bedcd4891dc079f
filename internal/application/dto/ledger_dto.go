package dto

import "github.com/jhoicas/restock-api/internal/domain/entity"

// RestockAndUpdateChainRequest body de POST /restock_and_update_chain.
type RestockAndUpdateChainRequest struct {
	ProductID int64 `json:"product_id" query:"product_id"`
	NewQty    int64 `json:"new_qty" query:"new_qty"`
}

// RestockRequest body de POST /restock (reposición relativa).
type RestockRequest struct {
	ProductID int64 `json:"product_id" query:"product_id"`
	Quantity  int64 `json:"quantity" query:"quantity"`
}

// ApplyDiscountRequest body de POST /apply_discount. DiscountPercent 0 = 20 por defecto.
type ApplyDiscountRequest struct {
	ProductID       int64 `json:"product_id" query:"product_id"`
	DiscountPercent int   `json:"discount_percent" query:"discount_percent"`
}

// DefaultDiscountPercent porcentaje aplicado si el request no lo indica.
const DefaultDiscountPercent = 20

// LedgerWriteResponse eco del recibo de una escritura confirmada.
type LedgerWriteResponse struct {
	Status          string                `json:"status"`
	ProductID       int64                 `json:"product_id"`
	Quantity        *int64                `json:"quantity,omitempty"`
	DiscountPercent *int                  `json:"discount_percent,omitempty"`
	Receipt         *entity.LedgerReceipt `json:"receipt"`
}

// Estados devueltos por las escrituras.
const (
	StatusOnChainUpdated   = "on_chain_updated"
	StatusRestockedOnChain = "restocked_on_chain"
	StatusDiscountApplied  = "discount_applied_on_chain"
)
