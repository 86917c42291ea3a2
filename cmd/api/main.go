package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	appanalytics "github.com/bmvdigital/pos-feria-2026/internal/application/analytics"
	"github.com/bmvdigital/pos-feria-2026/internal/application/audit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/credit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/inventory"
	"github.com/bmvdigital/pos-feria-2026/internal/application/sales"
	"github.com/bmvdigital/pos-feria-2026/internal/application/usecase"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/ledger"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/internal/infrastructure/memory"
	"github.com/bmvdigital/pos-feria-2026/internal/infrastructure/postgres"
	httpRouter "github.com/bmvdigital/pos-feria-2026/internal/interfaces/http"
	"github.com/bmvdigital/pos-feria-2026/pkg/config"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

// backend agrupa los puertos de persistencia del driver elegido.
type backend struct {
	txRunner    repository.TxRunner
	reads       repository.Repos
	analytics   repository.AnalyticsRepository
	idempotency repository.IdempotencyRepository
	close       func()
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("abrir almacenamiento")
	}
	defer store.close()

	policy := ledger.Policy{
		CreditLimit:           cfg.Policy.CreditLimit,
		RestoreCreditOnCancel: cfg.Policy.RestoreCreditOnCancel,
		Overpayment:           cfg.Policy.Overpayment,
	}
	salesCfg := sales.Config{DecrementStockOnSale: cfg.Policy.DecrementStockOnSale}

	warehouseUC := usecase.NewWarehouseUseCase(store.txRunner, store.reads, log)
	productUC := usecase.NewProductUseCase(store.txRunner, store.reads, log)
	inventoryUC := inventory.NewInventoryUseCase(store.txRunner, store.reads, cfg.Policy.LowStockThreshold, log)
	creditUC := credit.NewCreditUseCase(store.txRunner, store.reads, policy, log)
	orderUC := sales.NewOrderUseCase(store.txRunner, store.reads, policy, salesCfg, log)
	saleUC := sales.NewSaleUseCase(store.txRunner, store.reads, policy, salesCfg, log)
	auditUC := audit.NewAuditUseCase(store.txRunner, store.reads.Audit)
	dashboardUC := appanalytics.NewDashboardUseCase(store.analytics)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		Immutable:    true,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Feria API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		InventoryUC: inventoryUC,
		CreditUC:    creditUC,
		OrderUC:     orderUC,
		SaleUC:      saleUC,
		AuditUC:     auditUC,
		DashboardUC: dashboardUC,
		Idempotency: store.idempotency,
		Logger:      log,
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

// openBackend abre el store en memoria o el pool de PostgreSQL (con migraciones si AUTO_MIGRATE).
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Store.Driver == config.DriverMemory {
		s := memory.New()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		return &backend{
			txRunner:    s,
			reads:       s.Repos(),
			analytics:   s.Analytics(),
			idempotency: s.Idempotency(),
			close:       func() {},
		}, nil
	}

	if cfg.Store.AutoMigrate {
		if err := postgres.MigrateUp(cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &backend{
		txRunner:    postgres.NewTxRunner(pool),
		reads:       postgres.NewRepos(pool),
		analytics:   postgres.NewAnalyticsRepository(pool),
		idempotency: postgres.NewIdempotencyRepository(pool),
		close:       pool.Close,
	}, nil
}
