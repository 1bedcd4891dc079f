package forecast

import (
	"fmt"
	"math"

	"github.com/jhoicas/restock-api/internal/domain"
)

// EOQ cantidad económica de pedido: sqrt(2*D*S/H), redondeada al par más cercano.
// D demanda anual en unidades, S costo fijo por pedido, H costo de mantener una unidad un año.
func EOQ(annualDemand, setupCost, holdingCost float64) (int64, error) {
	if annualDemand < 0 || setupCost < 0 {
		return 0, fmt.Errorf("%w: demanda y costo de pedido no pueden ser negativos", domain.ErrInvalidInput)
	}
	if holdingCost <= 0 {
		return 0, fmt.Errorf("%w: costo de mantener debe ser positivo", domain.ErrInvalidInput)
	}
	return roundQty(math.Sqrt(2 * annualDemand * setupCost / holdingCost)), nil
}
