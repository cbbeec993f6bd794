package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	CustomerUC       *billing.CustomerUseCase
	CreateInvoice    *billing.CreateInvoiceUseCase
	InvoiceQuery     *billing.InvoiceQueryUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Identidad opcional: sin JWT_SECRET la API es anónima.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Inventory
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Replenishment)
	invGroup.Post("/adjustments", inventoryHandler.AdjustStock)
	invGroup.Get("/products/:id/movements", inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.InvoiceQuery)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/reference/:reference", invoiceHandler.GetByReference)
	invoices.Get("/:id", invoiceHandler.GetByID)
}
