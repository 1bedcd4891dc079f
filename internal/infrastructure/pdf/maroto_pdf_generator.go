// Package pdf genera el reporte de prioridad de reposición.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + parámetros  │  fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Recomendado | Actual | Faltante | Score│
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: productos / faltante total / lecturas fallidas     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain/entity"
)

var _ ports.ReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	title string
}

// NewMarotoPDFGenerator construye el generador; appName aparece como autor del documento.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{title: appName}
}

// GeneratePriorityReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePriorityReport(_ context.Context, r dto.PriorityReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Prioridad de reposición", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(r.Priority) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin historial de ventas: no hay productos para priorizar.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	m.AddRows(tableDetailRows(r.Priority, r.LedgerReadFailures)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRows(r)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y parámetros del cálculo (izq), fecha de generación (der).
func headerRow(r dto.PriorityReport) core.Row {
	params := fmt.Sprintf("Lead time: %d días   |   Ventana: %d   |   z: %s",
		r.LeadTimeDays, r.Window, strconv.FormatFloat(r.Z, 'f', -1, 64))

	return row.New(18).Add(
		col.New(8).Add(
			text.New("PRIORIDAD DE REPOSICIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(params, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.GeneratedAt.Format("02/01/2006 15:04 MST"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de prioridad.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Producto", 3, align.Left),
		h("Recomendado", 2, align.Right),
		h("Actual", 2, align.Right),
		h("Faltante", 2, align.Right),
		h("Score", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por producto. Los productos sin lectura del ledger se marcan con *.
func tableDetailRows(entries []entity.PriorityEntry, failed []int64) []core.Row {
	failedSet := make(map[int64]bool, len(failed))
	for _, id := range failed {
		failedSet[id] = true
	}
	result := make([]core.Row, 0, len(entries))
	for i, e := range entries {
		current := formatThousands(e.Current)
		currentColor := (*props.Color)(nil)
		if failedSet[e.ProductID] {
			current += " *"
			currentColor = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(strconv.FormatInt(e.ProductID, 10), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatThousands(e.Recommended), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(current, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: currentColor})),
			col.New(2).Add(text.New(formatThousands(e.Need), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatScore(e.Score), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// summaryRows: totales y nota de lecturas fallidas.
func summaryRows(r dto.PriorityReport) []core.Row {
	var need int64
	for _, e := range r.Priority {
		need += e.Need
	}
	rows := []core.Row{
		row.New(14).Add(
			col.New(6),
			col.New(3).Add(
				text.New("Productos:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1}),
				text.New("Faltante total:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 7, Color: colorPrimary}),
			),
			col.New(3).Add(
				text.New(strconv.Itoa(len(r.Priority)), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}),
				text.New(formatThousands(need), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 7, Color: colorPrimary}),
			),
		),
	}
	if len(r.LedgerReadFailures) > 0 {
		ids := make([]string, len(r.LedgerReadFailures))
		for i, id := range r.LedgerReadFailures {
			ids[i] = strconv.FormatInt(id, 10)
		}
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("* Sin lectura del ledger, se asumió stock 0: "+strings.Join(ids, ", "), props.Text{
				Size: 7.5, Top: 3, Color: colorAlert,
			}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatScore muestra el score con 4 decimales.
func formatScore(score float64) string {
	return decimal.NewFromFloat(score).StringFixed(4)
}

// formatThousands inserta puntos de miles. Ej: 25000 → "25.000", -1500 → "-1.500".
func formatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
