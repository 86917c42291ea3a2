package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/bmvdigital/pos-feria-2026/internal/application/analytics"
	"github.com/bmvdigital/pos-feria-2026/internal/application/audit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/credit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/inventory"
	"github.com/bmvdigital/pos-feria-2026/internal/application/sales"
	"github.com/bmvdigital/pos-feria-2026/internal/application/usecase"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	InventoryUC *inventory.InventoryUseCase
	CreditUC    *credit.CreditUseCase
	OrderUC     *sales.OrderUseCase
	SaleUC      *sales.SaleUseCase
	AuditUC     *audit.AuditUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Idempotency repository.IdempotencyRepository
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", RequestLogger(log.Component("http")), ActorMiddleware())
	if deps.Idempotency != nil {
		api.Use(Idempotency(deps.Idempotency, log))
	}

	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/adjustments", inventoryHandler.AdjustStock)
	invGroup.Get("/stock", inventoryHandler.ListStock)
	invGroup.Get("/low-stock", inventoryHandler.ListLowStock)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.CreditUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Post("/:id/payments", clientHandler.RegisterPayment)
	clients.Get("/:id/statement", clientHandler.Statement)
	clients.Get("/:id/can-credit", clientHandler.CanCredit)

	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/deliver", orderHandler.Deliver)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Delete("/:id", saleHandler.Delete)

	auditGroup := api.Group("/audit")
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/", auditHandler.List)
	auditGroup.Get("/event-types", auditHandler.EventTypes)
	auditGroup.Delete("/:id", auditHandler.Delete)

	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.DashboardUC)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/receivables", clientHandler.Receivables)
}
