package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/inventory"
	"github.com/jhoicas/restock-api/internal/application/sales"
	"github.com/jhoicas/restock-api/pkg/jwt"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Recommendations *inventory.RecommendationUseCase
	Priority        *inventory.PriorityUseCase
	Report          *inventory.ReportUseCase
	Ledger          *inventory.LedgerUseCase
	Ingest          *sales.IngestUseCase
	Summary         *sales.SummaryUseCase
	ServiceName     string
	// JWTSecret vacío deja las rutas de escritura sin autenticación (desarrollo local).
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.StatusResponse{Status: "ok", Service: deps.ServiceName})
	})

	// Lecturas (público)
	restock := NewRestockHandler(deps.Recommendations, deps.Priority, deps.Report, log)
	app.Get("/calculate_stock", restock.CalculateStock)
	app.Get("/calculate_stock/:product_id", restock.ProductEstimate)
	app.Get("/restock_priority", restock.RestockPriority)
	if deps.Report != nil {
		app.Get("/restock_priority/pdf", restock.RestockPriorityPDF)
	}
	app.Get("/eoq", restock.EOQ)

	ledger := NewLedgerHandler(deps.Ledger, log)
	app.Get("/products/:id/on_chain", ledger.GetOnChain)

	// Escrituras: JWT + RBAC cuando hay secreto configurado
	guard := func(roles ...string) []fiber.Handler {
		if deps.JWTSecret == "" {
			return nil
		}
		return []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(roles...)}
	}
	with := func(mw []fiber.Handler, h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, mw...), h)
	}

	salesHandler := NewSalesHandler(deps.Ingest, deps.Summary, log)
	if deps.Summary != nil {
		app.Get("/sales/summary", salesHandler.Summary)
	}
	app.Post("/ingest_sales", with(guard(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleAnalista), salesHandler.IngestSales)...)

	writers := guard(jwt.RoleAdmin, jwt.RoleBodeguero)
	app.Post("/restock_and_update_chain", with(writers, ledger.RestockAndUpdateChain)...)
	app.Post("/restock", with(writers, ledger.Restock)...)
	app.Post("/apply_discount", with(writers, ledger.ApplyDiscount)...)
}
