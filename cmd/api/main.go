package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/restock-api/internal/application/inventory"
	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/application/sales"
	"github.com/jhoicas/restock-api/internal/domain/forecast"
	"github.com/jhoicas/restock-api/internal/domain/repository"
	"github.com/jhoicas/restock-api/internal/infrastructure/broker"
	infracache "github.com/jhoicas/restock-api/internal/infrastructure/cache"
	"github.com/jhoicas/restock-api/internal/infrastructure/chain"
	"github.com/jhoicas/restock-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/restock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/restock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/restock-api/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/restock-api/internal/interfaces/http"
	"github.com/jhoicas/restock-api/pkg/config"
	"github.com/jhoicas/restock-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("ledger", cfg.Ledger.Mode).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// Historial de ventas
	var salesRepo repository.SalesRepository
	switch cfg.Store.Driver {
	case "sqlite":
		repo, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Store.SQLitePath).Msg("abrir SQLite")
		}
		closers = append(closers, func() { _ = repo.Close() })
		salesRepo = repo
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		closers = append(closers, pool.Close)
		salesRepo = postgres.NewSalesRepository(pool)
	}
	salesRepo = metrics.NewInstrumentedSalesRepo(salesRepo)

	// Ledger de inventario: contrato real o simulación en memoria
	var ledger ports.Ledger
	if cfg.Ledger.Mode == "chain" {
		eth, err := chain.DialEthereum(ctx, cfg.Ledger, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión al ledger on-chain")
		}
		closers = append(closers, eth.Close)
		ledger = eth
	} else {
		log.Warn().Msg("LEDGER_MODE=simulated: las cantidades viven en memoria y se pierden al reiniciar")
		ledger = chain.NewSimulatedLedger(nil)
	}
	ledger = metrics.NewInstrumentedLedger(ledger)

	// Caché de recomendaciones (Redis opcional)
	recCache, err := infracache.NewRecommendationCache(ctx, cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("Redis no disponible, se continúa sin caché")
		recCache = infracache.NoopCache{}
	}
	if c, ok := recCache.(io.Closer); ok {
		closers = append(closers, func() { _ = c.Close() })
	}

	// Eventos (Kafka opcional)
	publisher := broker.NewEventPublisher(cfg.Broker, log)
	if c, ok := publisher.(io.Closer); ok {
		closers = append(closers, func() { _ = c.Close() })
	}

	defaults := forecast.Params{
		LeadTimeDays: cfg.Forecast.LeadTimeDays,
		Window:       cfg.Forecast.Window,
		Z:            cfg.Forecast.ServiceZ,
	}
	recommendationUC := inventory.NewRecommendationUseCase(salesRepo, recCache, defaults, log)
	priorityUC := inventory.NewPriorityUseCase(recommendationUC, ledger, inventory.ReadOptions{
		Timeout:     cfg.Ledger.ReadTimeout,
		Concurrency: cfg.Ledger.ReadConcurrency,
	}, log)
	reportUC := inventory.NewReportUseCase(priorityUC, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	ledgerUC := inventory.NewLedgerUseCase(ledger, publisher, log)
	ingestUC := sales.NewIngestUseCase(salesRepo, recCache, publisher, log)
	summaryUC := sales.NewSummaryUseCase(salesRepo)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// Las escrituras esperan el recibo de la transacción.
		WriteTimeout: cfg.Ledger.ReceiptTimeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    32 * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(metrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Restock API",
		}))
	}

	app.Get("/metrics", metrics.Handler())

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: rutas de escritura sin autenticación")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		Recommendations: recommendationUC,
		Priority:        priorityUC,
		Report:          reportUC,
		Ledger:          ledgerUC,
		Ingest:          ingestUC,
		Summary:         summaryUC,
		ServiceName:     cfg.App.Name,
		JWTSecret:       cfg.JWT.Secret,
		Log:             log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
