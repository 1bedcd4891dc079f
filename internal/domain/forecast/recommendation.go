package forecast

import (
	"fmt"
	"math"

	"github.com/jhoicas/restock-api/internal/domain"
)

// Params parámetros del motor de recomendación.
type Params struct {
	LeadTimeDays int     // días entre pedir y recibir la reposición
	Z            float64 // z-score del nivel de servicio
	Window       int     // días de la media móvil
}

// DefaultParams lead time 7, z 1.65, ventana 7.
func DefaultParams() Params {
	return Params{LeadTimeDays: 7, Z: DefaultServiceZ, Window: 7}
}

// Validate exige lead time y ventana positivos y un z finito no negativo.
func (p Params) Validate() error {
	if p.LeadTimeDays < 1 {
		return fmt.Errorf("%w: lead_time_days debe ser positivo (recibido %d)", domain.ErrInvalidInput, p.LeadTimeDays)
	}
	if p.Window < 1 {
		return fmt.Errorf("%w: window debe ser positivo (recibido %d)", domain.ErrInvalidInput, p.Window)
	}
	if p.Z < 0 || math.IsNaN(p.Z) || math.IsInf(p.Z, 0) {
		return fmt.Errorf("%w: z debe ser un número finito >= 0", domain.ErrInvalidInput)
	}
	return nil
}

// Estimate valores intermedios del cálculo de un producto.
type Estimate struct {
	MovingAverage float64
	StdDev        float64
	SafetyStock   float64
	Raw           float64 // MovingAverage*LeadTimeDays + SafetyStock
	Recommended   int64
}

// Compute calcula la recomendación completa para un historial ordenado por fecha ascendente.
//
//	ma  = MovingAverage(history, Window)
//	std = PopulationStdDev(history)
//	ss  = SafetyStock(std, LeadTimeDays, Z)
//	rec = max(0, roundHalfEven(ma*LeadTimeDays + ss))
func Compute(history []float64, p Params) (Estimate, error) {
	ma, err := MovingAverage(history, p.Window)
	if err != nil {
		return Estimate{}, err
	}
	std := PopulationStdDev(history)
	ss := SafetyStock(std, p.LeadTimeDays, p.Z)
	raw := ma*float64(p.LeadTimeDays) + ss
	return Estimate{
		MovingAverage: ma,
		StdDev:        std,
		SafetyStock:   ss,
		Raw:           raw,
		Recommended:   roundQty(raw),
	}, nil
}

// RecommendedStock stock recomendado (entero no negativo) para el historial dado.
func RecommendedStock(history []float64, p Params) (int64, error) {
	est, err := Compute(history, p)
	if err != nil {
		return 0, err
	}
	return est.Recommended, nil
}

// roundQty redondea al entero más cercano con empates al par (2.5 → 2, 3.5 → 4)
// y nunca devuelve negativos.
func roundQty(raw float64) int64 {
	if math.IsNaN(raw) || raw <= 0 {
		return 0
	}
	return int64(math.RoundToEven(raw))
}
