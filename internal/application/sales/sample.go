package sales

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// SampleProducts productos del conjunto de demostración.
var SampleProducts = []int64{101, 102, 103, 104, 105, 106}

// GenerateSample genera days días de ventas que terminan en end (incluido), una fila por
// producto y día. Cada producto vende Poisson(3 + id%3) unidades diarias.
func GenerateSample(rng *rand.Rand, end time.Time, days int, products []int64) []entity.SalesRecord {
	y, m, d := end.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := last.AddDate(0, 0, -(days - 1))

	out := make([]entity.SalesRecord, 0, days*len(products))
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		for _, pid := range products {
			out = append(out, entity.SalesRecord{
				Date:         date,
				ProductID:    pid,
				QuantitySold: poisson(rng, float64(3+pid%3)),
			})
		}
	}
	return out
}

// poisson muestreo de Knuth; suficiente para lambdas pequeñas.
func poisson(rng *rand.Rand, lambda float64) int64 {
	limit := math.Exp(-lambda)
	var k int64
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// WriteCSV escribe los registros con la cabecera date,product_id,quantity_sold.
func WriteCSV(w io.Writer, records []entity.SalesRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{colDate, colProduct, colQuantity}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(entity.DateLayout),
			strconv.FormatInt(r.ProductID, 10),
			strconv.FormatInt(r.QuantitySold, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("escribir fila: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
