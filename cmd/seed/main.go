// seed genera un historial de ventas sintético (Poisson por producto) para desarrollo.
//
// Uso:
//
//	go run ./cmd/seed -out sales_data.csv -days 30
//	go run ./cmd/seed -ingest -days 90 -seed 7
//
// Con -ingest los registros se agregan al almacén configurado (STORE_DRIVER) como un único lote.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/jhoicas/restock-api/internal/application/sales"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
	"github.com/jhoicas/restock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/restock-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/restock-api/pkg/config"
	"github.com/jhoicas/restock-api/pkg/logger"
)

func main() {
	out := flag.String("out", "sales_data.csv", "archivo CSV de salida")
	ingest := flag.Bool("ingest", false, "agregar al almacén configurado en lugar de escribir CSV")
	days := flag.Int("days", 30, "días de historial hasta hoy")
	seed := flag.Int64("seed", 42, "semilla del generador")
	flag.Parse()

	if *days < 1 {
		fmt.Fprintln(os.Stderr, "-days debe ser positivo")
		os.Exit(2)
	}

	rng := rand.New(rand.NewSource(*seed))
	records := sales.GenerateSample(rng, time.Now(), *days, sales.SampleProducts)

	if !*ingest {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := sales.WriteCSV(f, records); err != nil {
			fmt.Fprintf(os.Stderr, "Escribir CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generado: %s (%d registros)\n", *out, len(records))
		return
	}

	if err := ingestRecords(records); err != nil {
		fmt.Fprintf(os.Stderr, "Ingestar: %v\n", err)
		os.Exit(1)
	}
}

func ingestRecords(records []entity.SalesRecord) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	ctx := context.Background()

	var repo repository.SalesRepository
	switch cfg.Store.Driver {
	case "sqlite":
		r, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return err
		}
		defer r.Close()
		repo = r
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()
		repo = postgres.NewSalesRepository(pool)
	}

	// Sin caché ni broker: el seed no debe emitir eventos de negocio.
	res, err := sales.NewIngestUseCase(repo, nil, nil, log).Ingest(ctx, records)
	if err != nil {
		return err
	}
	fmt.Printf("Ingestados %d registros (total %d, lote %s)\n", res.RowsIngested, res.RowsTotal, res.BatchID)
	return nil
}
