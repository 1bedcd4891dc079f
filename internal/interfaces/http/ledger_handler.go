package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/inventory"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// LedgerHandler escribe y lee el contrato de inventario.
type LedgerHandler struct {
	uc  *inventory.LedgerUseCase
	log *logger.Logger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *inventory.LedgerUseCase, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{uc: uc, log: log}
}

// RestockAndUpdateChain godoc
// @Summary      Fijar la cantidad on-chain
// @Description  Llama addOrUpdateProduct y espera el recibo. Acepta JSON o query params.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestockAndUpdateChainRequest  true  "product_id, new_qty"
// @Success      200  {object}  dto.LedgerWriteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /restock_and_update_chain [post]
func (h *LedgerHandler) RestockAndUpdateChain(c *fiber.Ctx) error {
	var in dto.RestockAndUpdateChainRequest
	if err := bindRequest(c, &in); err != nil {
		return invalidBody(c, "cuerpo inválido")
	}
	res, err := h.uc.RestockAndUpdateChain(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res)
}

// Restock godoc
// @Summary      Sumar unidades on-chain
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestockRequest  true  "product_id, quantity"
// @Success      200  {object}  dto.LedgerWriteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /restock [post]
func (h *LedgerHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := bindRequest(c, &in); err != nil {
		return invalidBody(c, "cuerpo inválido")
	}
	res, err := h.uc.Restock(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res)
}

// ApplyDiscount godoc
// @Summary      Marcar descuento on-chain
// @Description  El contrato solo guarda la marca; el porcentaje (default 20) se devuelve en la respuesta.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyDiscountRequest  true  "product_id, discount_percent"
// @Success      200  {object}  dto.LedgerWriteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /apply_discount [post]
func (h *LedgerHandler) ApplyDiscount(c *fiber.Ctx) error {
	var in dto.ApplyDiscountRequest
	if err := bindRequest(c, &in); err != nil {
		return invalidBody(c, "cuerpo inválido")
	}
	res, err := h.uc.ApplyDiscount(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res)
}

// GetOnChain godoc
// @Summary      Estado on-chain de un producto
// @Tags         ledger
// @Produce      json
// @Param        id   path  int  true  "product_id"
// @Success      200  {object}  entity.ProductState
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /products/{id}/on_chain [get]
func (h *LedgerHandler) GetOnChain(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id debe ser entero"})
	}
	state, err := h.uc.GetOnChain(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(state)
}
