package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/billing"
	"github.com/jhoicas/storefront-api/internal/application/export"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/application/order"
	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	OnboardingUC *auth.OnboardingUseCase
	StoreUC      *usecase.StoreUseCase
	ShippingUC   *usecase.ShippingUseCase
	CategoryUC   *usecase.CategoryUseCase
	ProductUC    *usecase.ProductUseCase
	CustomerUC   *usecase.CustomerUseCase
	ExpenseUC    *usecase.ExpenseUseCase
	InventoryUC  *inventory.UseCase
	OrderUC      *order.UseCase
	InvoicePDF   *billing.PDFUseCase
	ExportUC     *export.UseCase
	DashboardUC  *analytics.DashboardUseCase
	JWTSecret    string
	Sessions     ports.SessionStore
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.OnboardingUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Vitrina pública: tienda por slug, catálogo, checkout y consulta de pedido por token.
	publicHandler := NewPublicHandler(deps.StoreUC, deps.ProductUC, deps.OrderUC)
	public := api.Group("/public")
	public.Get("/stores/:slug", publicHandler.GetStore)
	public.Get("/stores/:slug/products", publicHandler.ListProducts)
	public.Post("/stores/:slug/orders", publicHandler.Checkout)
	public.Get("/orders/:token", publicHandler.GetOrder)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Sessions))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/session", authHandler.Session)

	// Todo lo demás opera sobre la tienda del token.
	scoped := protected.Group("/", RequireStore())
	managers := RequireRole("owner", "admin")

	storeHandler := NewStoreHandler(deps.StoreUC)
	store := scoped.Group("/store")
	store.Get("/", storeHandler.Get)
	store.Put("/", managers, storeHandler.Update)
	store.Post("/images/:kind", managers, storeHandler.UploadImage)
	store.Get("/settings", storeHandler.GetSettings)
	store.Put("/settings", managers, storeHandler.UpdateSettings)

	shippingHandler := NewShippingHandler(deps.ShippingUC)
	shipping := scoped.Group("/shipping-options")
	shipping.Get("/", shippingHandler.List)
	shipping.Post("/", managers, shippingHandler.Add)
	shipping.Put("/:name", managers, shippingHandler.Update)
	shipping.Delete("/:name", managers, shippingHandler.Remove)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := scoped.Group("/categories")
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	productHandler := NewProductHandler(deps.ProductUC)
	products := scoped.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/variants", productHandler.AddVariant)
	products.Put("/:id/variants/:variantId", productHandler.UpdateVariant)
	products.Delete("/:id/variants/:variantId", productHandler.DeleteVariant)

	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv := scoped.Group("/inventory")
	inv.Get("/", inventoryHandler.List)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Post("/:id/adjust", inventoryHandler.Adjust)
	inv.Put("/:id/threshold", inventoryHandler.SetThreshold)

	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := scoped.Group("/customers")
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	orderHandler := NewOrderHandler(deps.OrderUC, deps.InvoicePDF)
	orders := scoped.Group("/orders")
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id/status", orderHandler.UpdateStatus)
	orders.Put("/:id/payment-status", orderHandler.UpdatePaymentStatus)
	orders.Post("/:id/token", orderHandler.Token)
	orders.Get("/:id/invoice", orderHandler.Invoice)

	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenseCategories := scoped.Group("/expense-categories")
	expenseCategories.Get("/", expenseHandler.ListCategories)
	expenseCategories.Post("/", managers, expenseHandler.CreateCategory)
	expenseCategories.Put("/:id", managers, expenseHandler.UpdateCategory)
	expenseCategories.Delete("/:id", managers, expenseHandler.DeleteCategory)

	expenses := scoped.Group("/expenses")
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/summary", expenseHandler.Summary)
	expenses.Get("/:id", expenseHandler.GetByID)
	expenses.Post("/", managers, expenseHandler.Create)
	expenses.Put("/:id", managers, expenseHandler.Update)
	expenses.Delete("/:id", managers, expenseHandler.Delete)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	scoped.Get("/dashboard", dashboardHandler.GetSummary)

	exportHandler := NewExportHandler(deps.ExportUC)
	scoped.Get("/exports/:dataset", exportHandler.Export)
}
