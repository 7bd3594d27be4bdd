// @title                       Storefront API
// @version                     1.0
// @description                 Tiendas en línea: catálogo, inventario, pedidos, clientes, gastos y reportes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/billing"
	appexport "github.com/jhoicas/storefront-api/internal/application/export"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/application/order"
	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/infrastructure/cache"
	infraexport "github.com/jhoicas/storefront-api/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/storefront-api/internal/infrastructure/pdf"
	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storefront-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/storefront-api/internal/interfaces/http"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

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
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	orderSecret := cfg.OrderToken.Secret
	if orderSecret == "" {
		log.Warn().Msg("ORDER_TOKEN_SECRET vacío, se usa JWT_SECRET para los tokens de pedido")
		orderSecret = cfg.JWT.Secret
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Sesiones revocadas y caché de tiendas: Redis si está configurado, si no memoria del proceso.
	var (
		sessions   ports.SessionStore
		storeCache ports.StoreCache
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		sessions = cache.NewRedisSessionStore(rdb)
		storeCache = cache.NewRedisStoreCache(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: sesiones y caché en memoria del proceso")
		sessions = cache.NewMemorySessionStore()
		storeCache = cache.NewMemoryStoreCache()
	}

	var files ports.ObjectStorage = storage.Disabled{}
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3Storage(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento de objetos")
		}
		files = s3
	} else {
		log.Warn().Msg("STORAGE_BUCKET vacío: subida de imágenes deshabilitada")
	}

	userRepo := postgres.NewUserRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}
	authUC := auth.NewAuthUseCase(userRepo, storeRepo, sessions, jwtCfg)
	onboardingUC := auth.NewOnboardingUseCase(userRepo, storeRepo, files, jwtCfg, auth.StoreDefaults{
		Currency:          cfg.Store.Currency,
		LowStockThreshold: cfg.Store.LowStockThreshold,
	}, log.Component("onboarding"))

	orderUC := order.NewUseCase(txRunner, orderRepo, productRepo, customerRepo, storeRepo, order.TokenConfig{
		Secret:   orderSecret,
		ExpHours: cfg.OrderToken.Expiration,
		ViewURL:  cfg.OrderToken.ViewURL,
	}, log.Component("orders"))

	// PDF: factura del pedido y exportación tabular
	invoicePDFUC := billing.NewPDFUseCase(orderRepo, storeRepo, orderUC, infrapdf.NewMarotoPDFGenerator())
	exportUC := appexport.NewUseCase(appexport.Repositories{
		Products:   productRepo,
		Categories: categoryRepo,
		Inventory:  inventoryRepo,
		Orders:     orderRepo,
		Customers:  customerRepo,
		Expenses:   expenseRepo,
	}, infraexport.CSVWriter{}, infraexport.XLSXWriter{}, infrapdf.NewTableWriter())

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs (requiere `swag init -g cmd/api/main.go`)
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Storefront API",
		}))
	} else {
		log.Info().Str("file", cfg.HTTP.SwaggerFile).Msg("sin swagger.json, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		OnboardingUC: onboardingUC,
		StoreUC:      usecase.NewStoreUseCase(storeRepo, storeCache, files, log),
		ShippingUC:   usecase.NewShippingUseCase(txRunner, storeRepo),
		CategoryUC:   usecase.NewCategoryUseCase(categoryRepo),
		ProductUC:    usecase.NewProductUseCase(txRunner, productRepo, inventoryRepo, categoryRepo, storeRepo),
		CustomerUC:   usecase.NewCustomerUseCase(customerRepo),
		ExpenseUC:    usecase.NewExpenseUseCase(expenseRepo),
		InventoryUC:  inventory.NewUseCase(txRunner, inventoryRepo, log.Component("inventory")),
		OrderUC:      orderUC,
		InvoicePDF:   invoicePDFUC,
		ExportUC:     exportUC,
		DashboardUC:  appanalytics.NewDashboardUseCase(analyticsRepo),
		JWTSecret:    cfg.JWT.Secret,
		Sessions:     sessions,
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
