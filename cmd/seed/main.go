// seed prepara una base de ventas: aplica migraciones, garantiza el cliente de contado
// y, opcionalmente, importa un catálogo de productos desde CSV.
//
// Uso: go run ./cmd/seed [-catalog productos.csv] [-charset ISO-8859-1]
// El CSV usa ';' como separador y encabezado:
// nombre;codigo_barras;precio_venta;precio_compra;unidad;minimo;existencia
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func main() {
	catalogPath := flag.String("catalog", "", "ruta del CSV de productos")
	charset := flag.String("charset", "UTF-8", "codificación del CSV (UTF-8, ISO-8859-1, WINDOWS-1252)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conectar a la base de datos")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	customerUC := billing.NewCustomerUseCase(postgres.NewCustomerRepository(pool))
	created, err := customerUC.EnsureFallbackCustomer(ctx, cfg.Billing.FallbackCustomerID, cfg.Storage.FallbackName)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente de contado")
	}
	log.Info().
		Int64("customer_id", cfg.Billing.FallbackCustomerID).
		Bool("created", created).
		Msg("cliente de contado listo")

	if *catalogPath == "" {
		return
	}

	f, err := os.Open(*catalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir catálogo")
	}
	defer f.Close()

	rows, err := parseCatalog(catalogReader(f, *charset))
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool))
	movementUC := inventory.NewRegisterMovementUseCase(postgres.NewTxRunner(pool), postgres.NewStockMovementRepository(pool))

	imported, skipped := 0, 0
	for _, row := range rows {
		p, err := productUC.Create(ctx, row.Product)
		if errors.Is(err, domain.ErrDuplicate) {
			log.Warn().Int("line", row.Line).Str("barcode", row.Product.Barcode).Msg("producto existente, se omite")
			skipped++
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Int("line", row.Line).Msg("crear producto")
		}
		if row.Quantity > 0 {
			_, err := movementUC.AdjustStock(ctx, inventory.AdjustmentInput{
				ProductID: p.ID,
				Quantity:  row.Quantity,
				Operation: dto.AdjustSet,
				Reason:    "Existencia inicial (importación de catálogo)",
			})
			if err != nil {
				log.Fatal().Err(err).Int("line", row.Line).Msg("existencia inicial")
			}
		}
		imported++
	}

	log.Info().Int("imported", imported).Int("skipped", skipped).Msg("catálogo importado")
}
