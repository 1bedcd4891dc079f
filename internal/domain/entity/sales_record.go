package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord una línea de venta diaria de un producto. Inmutable una vez registrada:
// el almacén solo agrega (append-only) y nunca actualiza ni borra.
type SalesRecord struct {
	Date         time.Time // día calendario (UTC, sin hora)
	ProductID    int64
	QuantitySold int64
	BatchID      string // lote de ingesta que la creó
	CreatedAt    time.Time
}

// DateLayout formato de fecha de los registros de venta (CSV y API).
const DateLayout = "2006-01-02"

// Quantities devuelve las cantidades vendidas en el orden del slice.
func Quantities(history []SalesRecord) []float64 {
	out := make([]float64, len(history))
	for i, r := range history {
		out[i] = float64(r.QuantitySold)
	}
	return out
}

// SalesSummary agregado del historial de un producto.
// AvgDaily = TotalUnits / Days, con 4 decimales (mitad lejos de cero).
type SalesSummary struct {
	ProductID  int64           `json:"product_id"`
	Records    int             `json:"records"`
	Days       int             `json:"days"` // fechas distintas con venta registrada
	TotalUnits int64           `json:"total_units"`
	AvgDaily   decimal.Decimal `json:"avg_daily"`
	FirstDate  time.Time       `json:"first_date"`
	LastDate   time.Time       `json:"last_date"`
}

// SummaryAvgPlaces decimales de SalesSummary.AvgDaily.
const SummaryAvgPlaces = 4
