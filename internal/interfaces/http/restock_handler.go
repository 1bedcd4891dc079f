package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/inventory"
	"github.com/jhoicas/restock-api/internal/domain/forecast"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// RestockHandler expone recomendaciones, prioridad de reposición y EOQ.
type RestockHandler struct {
	recs     *inventory.RecommendationUseCase
	priority *inventory.PriorityUseCase
	report   *inventory.ReportUseCase
	log      *logger.Logger
}

// NewRestockHandler construye el handler. report puede ser nil (sin ruta PDF).
func NewRestockHandler(
	recs *inventory.RecommendationUseCase,
	priority *inventory.PriorityUseCase,
	report *inventory.ReportUseCase,
	log *logger.Logger,
) *RestockHandler {
	return &RestockHandler{recs: recs, priority: priority, report: report, log: log}
}

// CalculateStock godoc
// @Summary      Stock recomendado por producto
// @Description  Media móvil de la ventana más stock de seguridad (z·σ·√lead time), redondeado al par.
// @Tags         restock
// @Produce      json
// @Param        lead_time_days  query  int     false  "Días de reposición (default 7)"
// @Param        window          query  int     false  "Ventana de la media móvil (default 7)"
// @Param        z               query  number  false  "Factor de nivel de servicio (default 1.65)"
// @Success      200  {object}  dto.CalculateStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /calculate_stock [get]
func (h *RestockHandler) CalculateStock(c *fiber.Ctx) error {
	p, err := h.params(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.recs.CalculateStock(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res)
}

// ProductEstimate godoc
// @Summary      Cálculo desglosado de un producto
// @Description  Media móvil, desviación estándar poblacional y stock de seguridad usados para la recomendación.
// @Tags         restock
// @Produce      json
// @Param        product_id      path   int     true   "product_id"
// @Param        lead_time_days  query  int     false  "Días de reposición"
// @Param        window          query  int     false  "Ventana de la media móvil"
// @Param        z               query  number  false  "Factor de nivel de servicio"
// @Success      200  {object}  dto.ProductEstimateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /calculate_stock/{product_id} [get]
func (h *RestockHandler) ProductEstimate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("product_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id debe ser entero"})
	}
	p, err := h.params(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.recs.ProductEstimate(c.UserContext(), int64(id), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res)
}

// RestockPriority godoc
// @Summary      Lista priorizada de reposición
// @Description  Cruza el stock recomendado con la cantidad en el ledger. score = faltante/recomendado,
//
//	orden descendente. Una lectura fallida del ledger cuenta como stock 0 y se informa
//	en ledger_read_failures.
//
// @Tags         restock
// @Produce      json
// @Param        lead_time_days  query  int     false  "Días de reposición"
// @Param        window          query  int     false  "Ventana de la media móvil"
// @Param        z               query  number  false  "Factor de nivel de servicio"
// @Success      200  {object}  dto.RestockPriorityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /restock_priority [get]
func (h *RestockHandler) RestockPriority(c *fiber.Ctx) error {
	p, err := h.params(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.priority.RestockPriority(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res)
}

// RestockPriorityPDF godoc
// @Summary      Reporte PDF de prioridad de reposición
// @Tags         restock
// @Produce      application/pdf
// @Param        lead_time_days  query  int     false  "Días de reposición"
// @Param        window          query  int     false  "Ventana de la media móvil"
// @Param        z               query  number  false  "Factor de nivel de servicio"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /restock_priority/pdf [get]
func (h *RestockHandler) RestockPriorityPDF(c *fiber.Ctx) error {
	p, err := h.params(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	doc, err := h.report.PriorityPDF(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="restock_priority.pdf"`)
	return c.Send(doc)
}

// EOQ godoc
// @Summary      Cantidad económica de pedido
// @Tags         restock
// @Produce      json
// @Param        annual_demand  query  number  true  "Demanda anual en unidades"
// @Param        setup_cost     query  number  true  "Costo fijo por pedido"
// @Param        holding_cost   query  number  true  "Costo anual de mantener una unidad"
// @Success      200  {object}  dto.EOQResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /eoq [get]
func (h *RestockHandler) EOQ(c *fiber.Ctx) error {
	var q dto.EOQQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c, "parámetros numéricos inválidos")
	}
	eoq, err := forecast.EOQ(q.AnnualDemand, q.SetupCost, q.HoldingCost)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.EOQResponse{EOQ: eoq})
}

func (h *RestockHandler) params(c *fiber.Ctx) (forecast.Params, error) {
	o, err := paramOverrides(c)
	if err != nil {
		return forecast.Params{}, err
	}
	return h.recs.ResolveParams(o)
}
