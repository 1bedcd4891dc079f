// Package forecast estima la demanda diaria de un producto y el stock recomendado
// a partir de su historial de ventas ordenado por fecha.
package forecast

import (
	"fmt"
	"math"

	"github.com/jhoicas/restock-api/internal/domain"
)

// DefaultServiceZ z-score para ~95% de nivel de servicio unilateral bajo demanda normal.
// Es una aproximación, no un ajuste estadístico; se puede cambiar por configuración.
const DefaultServiceZ = 1.65

// MovingAverage media aritmética de los últimos min(window, len(history)) valores.
// Historial vacío → 0. window < 1 → domain.ErrInvalidInput.
func MovingAverage(history []float64, window int) (float64, error) {
	if window < 1 {
		return 0, fmt.Errorf("%w: window debe ser positivo (recibido %d)", domain.ErrInvalidInput, window)
	}
	if len(history) == 0 {
		return 0, nil
	}
	tail := history
	if len(tail) > window {
		tail = tail[len(tail)-window:]
	}
	return mean(tail), nil
}

// PopulationStdDev desviación estándar poblacional (ddof=0). Menos de 2 valores → 0.
func PopulationStdDev(history []float64) float64 {
	if len(history) < 2 {
		return 0
	}
	m := mean(history)
	var sum float64
	for _, x := range history {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(history)))
}

// SafetyStock = z * stdDev * sqrt(max(1, leadTimeDays)).
func SafetyStock(stdDev float64, leadTimeDays int, z float64) float64 {
	lt := leadTimeDays
	if lt < 1 {
		lt = 1
	}
	return z * stdDev * math.Sqrt(float64(lt))
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
