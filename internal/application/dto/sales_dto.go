package dto

import "github.com/jhoicas/restock-api/internal/domain/entity"

// IngestSalesResponse respuesta de POST /ingest_sales.
type IngestSalesResponse struct {
	Status       string `json:"status"`
	RowsIngested int    `json:"rows_ingested"`
	RowsTotal    int    `json:"rows_total"`
	BatchID      string `json:"batch_id"`
}

// SalesSummaryResponse respuesta de GET /sales/summary.
type SalesSummaryResponse struct {
	Products  []entity.SalesSummary `json:"products"`
	RowsTotal int                   `json:"rows_total"`
}
