package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-ledger/internal/application/ledger"
	"github.com/jhoicas/ventas-ledger/internal/application/usecase"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *ledger.Service
	ProductUC *usecase.ProductUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	sellers := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	stockers := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	admins := RequireRole(entity.RoleAdmin)

	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Ledger)
	orders.Get("/stats/daily", orderHandler.DailyStats)
	orders.Get("/stats/pending-summary", orderHandler.PendingSummary)
	orders.Get("/stats/monthly", orderHandler.MonthlyStats)
	orders.Post("/", sellers, orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Delete("/:id", admins, orderHandler.Delete)

	payments := api.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.Ledger)
	payments.Post("/", sellers, paymentHandler.Register)
	payments.Get("/order/:id", paymentHandler.ListByOrder)
	payments.Get("/order/:id/summary", paymentHandler.Summary)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Ledger)
	products.Get("/low-stock", productHandler.LowStock)
	products.Post("/", stockers, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/stock/release", stockers, productHandler.Release)
	products.Put("/:id/stock", stockers, productHandler.SetStock)
}
