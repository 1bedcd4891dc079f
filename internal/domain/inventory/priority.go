package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// ScorePlaces decimales con los que se publica el score de prioridad.
const ScorePlaces = 4

// Score calcula la necesidad y el score de prioridad de un producto (servicio de dominio).
//
//	need  = max(0, recommended - current)
//	score = need / recommended, redondeado a ScorePlaces con mitad al par; 0 si recommended <= 0
//
// Con current >= 0 el score queda en [0, 1]. Un current negativo (no debería llegar del
// ledger) se trata como 0.
func Score(recommended, current int64) (need int64, score float64) {
	if current < 0 {
		current = 0
	}
	need = recommended - current
	if need < 0 {
		need = 0
	}
	if recommended <= 0 {
		return need, 0
	}
	score = decimal.NewFromInt(need).
		DivRound(decimal.NewFromInt(recommended), ScorePlaces+8).
		RoundBank(ScorePlaces).
		InexactFloat64()
	return need, score
}

// RankPriorities cruza las recomendaciones con las cantidades actuales del ledger y
// devuelve la lista ordenada por score descendente (desempate: product_id ascendente).
// Un producto sin cantidad en current se considera con stock 0.
func RankPriorities(recommendations, current map[int64]int64) []entity.PriorityEntry {
	entries := make([]entity.PriorityEntry, 0, len(recommendations))
	for pid, rec := range recommendations {
		cur := current[pid]
		if cur < 0 {
			cur = 0
		}
		need, score := Score(rec, cur)
		entries = append(entries, entity.PriorityEntry{
			ProductID:   pid,
			Recommended: rec,
			Current:     cur,
			Need:        need,
			Score:       score,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.ProductID < b.ProductID
	})
	return entries
}

// CurrentFromReadings aplica la política de lectura del ledger: una lectura fallida vale 0
// solo para su producto. Devuelve el mapa de cantidades y los productos que fallaron.
func CurrentFromReadings(readings []entity.LedgerReading) (current map[int64]int64, failed []int64) {
	current = make(map[int64]int64, len(readings))
	for _, r := range readings {
		if !r.OK() {
			failed = append(failed, r.ProductID)
		}
		current[r.ProductID] = r.QuantityOr(0)
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
	return current, failed
}
