package entity

// StockRecommendation nivel de stock recomendado para un producto.
// Derivado y efímero: se recalcula en cada petición.
type StockRecommendation struct {
	ProductID      int64   `json:"product_id"`
	RecommendedQty int64   `json:"recommended_qty"`
	LastSalesAvg   float64 `json:"last_sales_avg"` // media móvil usada en el cálculo
}

// PriorityEntry una fila de la lista priorizada de reposición.
// Need = max(0, Recommended-Current); Score = Need/Recommended (0 si Recommended = 0).
type PriorityEntry struct {
	ProductID   int64   `json:"product_id"`
	Recommended int64   `json:"recommended"`
	Current     int64   `json:"current"`
	Need        int64   `json:"need"`
	Score       float64 `json:"score"`
}
