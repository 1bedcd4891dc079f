package dto

import (
	"time"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// ProductRecommendationDTO recomendación publicada por producto.
type ProductRecommendationDTO struct {
	RecommendedQty int64   `json:"recommended_qty"`
	LastSalesAvg   float64 `json:"last_sales_avg"`
}

// CalculateStockResponse respuesta de GET /calculate_stock.
// Las claves del mapa son product_id (JSON las serializa como string).
type CalculateStockResponse struct {
	Products     map[int64]ProductRecommendationDTO `json:"products"`
	LeadTimeDays int                                `json:"lead_time_days"`
	Window       int                                `json:"window"`
	Z            float64                            `json:"z"`
}

// ProductEstimateResponse respuesta de GET /calculate_stock/:product_id: el cálculo desglosado.
type ProductEstimateResponse struct {
	ProductID      int64   `json:"product_id"`
	RecommendedQty int64   `json:"recommended_qty"`
	LastSalesAvg   float64 `json:"last_sales_avg"`
	StdDev         float64 `json:"std_dev"`
	SafetyStock    float64 `json:"safety_stock"`
	Records        int     `json:"records"`
	LeadTimeDays   int     `json:"lead_time_days"`
	Window         int     `json:"window"`
	Z              float64 `json:"z"`
}

// RestockPriorityResponse respuesta de GET /restock_priority.
type RestockPriorityResponse struct {
	Priority []entity.PriorityEntry `json:"priority"`
	// LedgerReadFailures productos cuya lectura falló y se tomaron con stock 0.
	LedgerReadFailures []int64 `json:"ledger_read_failures,omitempty"`
}

// EOQQuery parámetros de GET /eoq.
type EOQQuery struct {
	AnnualDemand float64 `query:"annual_demand"`
	SetupCost    float64 `query:"setup_cost"`
	HoldingCost  float64 `query:"holding_cost"`
}

// EOQResponse respuesta de GET /eoq.
type EOQResponse struct {
	EOQ int64 `json:"eoq"`
}

// PriorityReport datos del reporte PDF de prioridad de reposición.
type PriorityReport struct {
	GeneratedAt        time.Time
	LeadTimeDays       int
	Window             int
	Z                  float64
	Priority           []entity.PriorityEntry
	LedgerReadFailures []int64
}
