package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restock-api/internal/application/sales"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// SalesHandler recibe lotes de ventas y resume el historial.
type SalesHandler struct {
	ingest  *sales.IngestUseCase
	summary *sales.SummaryUseCase
	log     *logger.Logger
}

// NewSalesHandler construye el handler.
func NewSalesHandler(ingest *sales.IngestUseCase, summary *sales.SummaryUseCase, log *logger.Logger) *SalesHandler {
	return &SalesHandler{ingest: ingest, summary: summary, log: log}
}

// IngestSales godoc
// @Summary      Ingestar CSV de ventas
// @Description  CSV con cabecera date,product_id,quantity_sold (cualquier orden). Se agrega al
//
//	historial como un lote; ingestar el mismo archivo dos veces lo duplica.
//
// @Tags         sales
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "CSV de ventas"
// @Param        charset  formData  string  false  "utf-8 (default), iso-8859-1, windows-1252"
// @Success      200  {object}  dto.IngestSalesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /ingest_sales [post]
func (h *SalesHandler) IngestSales(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return invalidBody(c, "campo file requerido (multipart/form-data)")
	}
	f, err := fh.Open()
	if err != nil {
		return invalidBody(c, "no se pudo leer el archivo")
	}
	defer f.Close()

	res, err := h.ingest.IngestCSV(c.UserContext(), f, c.FormValue("charset"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res)
}

// Summary godoc
// @Summary      Resumen del historial de ventas
// @Description  Por producto: registros, días con venta, unidades y promedio diario (4 decimales).
// @Tags         sales
// @Produce      json
// @Success      200  {object}  dto.SalesSummaryResponse
// @Router       /sales/summary [get]
func (h *SalesHandler) Summary(c *fiber.Ctx) error {
	res, err := h.summary.Summary(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res)
}
