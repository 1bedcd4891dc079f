package sales

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// Columnas obligatorias del CSV de ventas (en cualquier orden).
const (
	colDate     = "date"
	colProduct  = "product_id"
	colQuantity = "quantity_sold"
)

// dateLayouts formatos de fecha aceptados; la hora, si viene, se descarta.
var dateLayouts = []string{entity.DateLayout, "2006-01-02 15:04:05", time.RFC3339}

// decoderFor devuelve el decodificador del charset indicado. Vacío = UTF-8 (con o sin BOM).
// Exportaciones de hojas de cálculo en español suelen llegar en ISO-8859-1 o Windows-1252.
func decoderFor(charset string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: charset no soportado %q", domain.ErrInvalidInput, charset)
	}
}

// ParseCSV lee registros date,product_id,quantity_sold. La cabecera es obligatoria.
// Cualquier fila inválida rechaza el archivo completo indicando la línea.
func ParseCSV(r io.Reader, charset string) ([]entity.SalesRecord, error) {
	dec, err := decoderFor(charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cabecera: %v", domain.ErrInvalidInput, err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []entity.SalesRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		line, _ := cr.FieldPos(0)
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: línea %d: %v", domain.ErrInvalidInput, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

type columns struct{ date, product, quantity int }

func columnIndex(header []string) (columns, error) {
	c := columns{-1, -1, -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case colDate:
			c.date = i
		case colProduct:
			c.product = i
		case colQuantity:
			c.quantity = i
		}
	}
	if c.date < 0 || c.product < 0 || c.quantity < 0 {
		return c, fmt.Errorf("%w: la cabecera debe incluir %s,%s,%s", domain.ErrInvalidInput, colDate, colProduct, colQuantity)
	}
	return c, nil
}

func parseRow(row []string, c columns) (entity.SalesRecord, error) {
	date, err := parseDate(strings.TrimSpace(row[c.date]))
	if err != nil {
		return entity.SalesRecord{}, err
	}
	pid, err := strconv.ParseInt(strings.TrimSpace(row[c.product]), 10, 64)
	if err != nil || pid <= 0 {
		return entity.SalesRecord{}, fmt.Errorf("product_id inválido %q", row[c.product])
	}
	qty, err := parseQuantity(strings.TrimSpace(row[c.quantity]))
	if err != nil {
		return entity.SalesRecord{}, err
	}
	return entity.SalesRecord{Date: date, ProductID: pid, QuantitySold: qty}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida %q (formato %s)", s, entity.DateLayout)
}

// parseQuantity acepta enteros y flotantes enteros ("3.0"); rechaza negativos y fracciones.
func parseQuantity(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("quantity_sold negativo %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("quantity_sold inválido %q", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("quantity_sold negativo %v", f)
	}
	// float64(math.MaxInt64) es 2^63: cualquier valor >= desborda int64.
	if f >= math.MaxInt64 {
		return 0, fmt.Errorf("quantity_sold fuera de rango %q", s)
	}
	return int64(f), nil
}
