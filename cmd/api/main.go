package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// txRunner transacciones de inventario y de facturación sobre el mismo backend.
type txRunner interface {
	inventory.TxRunner
	billing.BillingTxRunner
}

// storage adaptadores de persistencia elegidos por STORAGE_DRIVER.
type storage struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	invoices  repository.InvoiceRepository
	movements repository.StockMovementRepository
	tx        txRunner
	shutdown  func()
}

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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	policy := billing.Policy{
		FallbackCustomerID:   cfg.Billing.FallbackCustomerID,
		OnMissingCustomer:    cfg.Billing.OnMissingCustomer,
		OnInvalidItem:        cfg.Billing.OnInvalidItem,
		StockPolicy:          cfg.Billing.StockPolicy,
		ClampAmountDue:       cfg.Billing.ClampAmountDue,
		RequirePositiveTotal: cfg.Billing.RequirePositiveTotal,
		NumberPrefix:         cfg.Billing.NumberPrefix,
		DefaultPaymentMethod: cfg.Billing.DefaultPaymentMethod,
		DefaultCompanyID:     cfg.Billing.DefaultCompanyID,
	}
	if err := policy.Validate(); err != nil {
		log.Fatal().Err(err).Msg("políticas de facturación")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.shutdown()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	billingMetrics := metrics.NewBillingMetrics(registry, metrics.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
	})

	registerMovementUC := inventory.NewRegisterMovementUseCase(store.tx, store.movements)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.products)
	customerUC := billing.NewCustomerUseCase(store.customers)
	productUC := usecase.NewProductUseCase(store.products)
	resolver := billing.NewEntityResolver(
		store.customers, store.products, policy, billingMetrics, log.Component("resolver"),
	)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(
		store.tx, registerMovementUC, resolver, policy, billingMetrics, log.Component("billing"),
	)
	invoiceQueryUC := billing.NewInvoiceQueryUseCase(store.invoices)

	// El cliente de contado debe existir; si no, las ventas sin cliente fallarían por FK.
	if cfg.Storage.SeedFallback || cfg.Storage.Driver == config.StorageMemory {
		created, err := customerUC.EnsureFallbackCustomer(ctx, policy.FallbackCustomerID, cfg.Storage.FallbackName)
		if err != nil {
			log.Fatal().Err(err).Msg("crear cliente de contado")
		}
		if created {
			log.Info().Int64("customer_id", policy.FallbackCustomerID).Msg("cliente de contado creado")
		}
	} else if ok, err := customerUC.VerifyFallbackCustomer(ctx, policy.FallbackCustomerID); err != nil || !ok {
		log.Warn().Err(err).
			Int64("customer_id", policy.FallbackCustomerID).
			Msg("el cliente de contado no existe; las facturas sin cliente válido fallarán")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerPath,
			Path:     "docs",
			Title:    "Ventas API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})
	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		RegisterMovement: registerMovementUC,
		Replenishment:    replenishmentUC,
		CustomerUC:       customerUC,
		CreateInvoice:    createInvoiceUC,
		InvoiceQuery:     invoiceQueryUC,
		JWTSecret:        cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			customers: store.Customers(),
			products:  store.Products(),
			invoices:  store.Invoices(),
			movements: store.Movements(),
			tx:        store,
			shutdown:  func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.AutoMigrate {
		if err := postgres.RunMigrations(pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		customers: postgres.NewCustomerRepository(pool),
		products:  postgres.NewProductRepository(pool),
		invoices:  postgres.NewInvoiceRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		shutdown:  pool.Close,
	}, nil
}
