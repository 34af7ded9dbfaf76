package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"fashionwms/internal/bom"
	"fashionwms/internal/caching"
	"fashionwms/internal/config"
	"fashionwms/internal/costing"
	"fashionwms/internal/handlers"
	"fashionwms/internal/jobs/background"
	"fashionwms/internal/ledger"
	"fashionwms/internal/middleware"
	"fashionwms/internal/repositories"
	"fashionwms/internal/services"
	"fashionwms/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create repositories
	variantRepo := repositories.NewVariantRepo()
	stockRepo := repositories.NewStockRepo()
	txnRepo := repositories.NewTransactionRepo()
	bomRepo := repositories.NewBOMRepo()
	orderRepo := repositories.NewProductionOrderRepo()
	reservationRepo := repositories.NewReservationRepo()
	receiveLogRepo := repositories.NewReceiveLogRepo()
	purchaseRepo := repositories.NewPurchaseRepo()
	supplierRepo := repositories.NewSupplierRepo()
	warehouseRepo := repositories.NewWarehouseRepo()
	draftRepo := repositories.NewDraftRepo()

	txManager := repositories.NewTxManager(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Core components
	stockLedger := ledger.New(stockRepo, txnRepo)
	costingEngine := costing.NewEngine(variantRepo, stockRepo, purchaseRepo)
	bomResolver := bom.NewResolver(bomRepo)

	// Create services
	productSvc := services.NewProductService(pool, txManager, variantRepo, cacheSvc)
	inventorySvc := services.NewInventoryService(pool, txManager, stockLedger, stockRepo, variantRepo, warehouseRepo, cacheSvc)
	productionSvc := services.NewProductionService(pool, txManager, stockLedger, bomResolver, variantRepo, orderRepo, reservationRepo, receiveLogRepo, warehouseRepo, cacheSvc)
	purchaseSvc := services.NewPurchaseService(pool, txManager, stockLedger, costingEngine, purchaseRepo, supplierRepo, variantRepo, warehouseRepo, cacheSvc)
	warehouseSvc := services.NewWarehouseService(pool, txManager, warehouseRepo, stockRepo, txnRepo, cacheSvc)
	draftSvc := services.NewDraftService(pool, txManager, draftRepo)

	// Create handlers
	healthHandlers := handlers.NewHealthHandlers(pool)
	productHandlers := handlers.NewProductHandlers(productSvc)
	inventoryHandlers := handlers.NewInventoryHandlers(inventorySvc)
	productionHandlers := handlers.NewProductionHandlers(productionSvc)
	purchaseHandlers := handlers.NewPurchaseHandlers(purchaseSvc)
	warehouseHandlers := handlers.NewWarehouseHandlers(warehouseSvc)
	draftHandlers := handlers.NewDraftHandlers(draftSvc)

	// Background jobs
	lowStockThreshold, err := decimal.NewFromString(cfg.Jobs.LowStockThreshold)
	if err != nil {
		log.Fatalf("Invalid low stock threshold %q: %v", cfg.Jobs.LowStockThreshold, err)
	}
	scheduler := background.NewJobScheduler(
		pool,
		stockRepo,
		txnRepo,
		cacheSvc,
		time.Duration(cfg.Jobs.ReconcileIntervalMinutes)*time.Minute,
		time.Duration(cfg.Jobs.LowStockIntervalMinutes)*time.Minute,
		lowStockThreshold,
	)
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))
	v1.Use(middleware.WarehouseScope())

	// Variant registry
	v1.GET("/variants", productHandlers.ListVariants)
	v1.POST("/variants", productHandlers.CreateVariant)
	v1.GET("/variants/:id", productHandlers.GetVariant)
	v1.GET("/variants/sku/:sku", productHandlers.GetVariantBySKU)

	// Inventory
	v1.POST("/inventory/transfers", inventoryHandlers.Transfer)
	v1.GET("/inventory/warehouses/:warehouse_id", inventoryHandlers.ListByWarehouse)
	v1.GET("/inventory/warehouses/:warehouse_id/variants/:variant_id", inventoryHandlers.OnHand)
	v1.GET("/inventory/warehouses/:warehouse_id/variants/:variant_id/history", inventoryHandlers.History)
	v1.GET("/inventory/variants/:variant_id/total", inventoryHandlers.TotalOnHand)

	// Recipes and production orders
	v1.POST("/production/recipes", productionHandlers.CreateRecipe)
	v1.GET("/production/recipes/:variant_id", productionHandlers.GetRecipe)
	v1.GET("/production/orders", productionHandlers.ListOrders)
	v1.POST("/production/orders", productionHandlers.CreateOrder)
	v1.POST("/production/orders/quick", productionHandlers.CreateQuickOrder)
	v1.GET("/production/orders/:id", productionHandlers.GetOrder)
	v1.PUT("/production/orders/:id", productionHandlers.UpdateOrder)
	v1.DELETE("/production/orders/:id", productionHandlers.DeleteOrder)
	v1.POST("/production/orders/:id/start", productionHandlers.StartOrder)
	v1.POST("/production/orders/:id/receive", productionHandlers.ReceiveOrder)
	v1.POST("/production/orders/:id/finish", productionHandlers.FinishOrder)
	v1.GET("/production/orders/:id/receive-logs", productionHandlers.ReceiveHistory)
	v1.GET("/production/orders/:id/reservations", productionHandlers.Reservations)
	v1.GET("/production/orders/:id/print", productionHandlers.PrintData)
	v1.PATCH("/production/orders/:id/steps/:step_id", productionHandlers.SetStepDone)
	v1.DELETE("/production/receive-logs/:id", productionHandlers.RevertReceiveLog)

	// Purchases and suppliers
	v1.GET("/purchases", purchaseHandlers.ListPurchases)
	v1.POST("/purchases", purchaseHandlers.CreatePurchase)
	v1.GET("/purchases/:id", purchaseHandlers.GetPurchase)
	v1.PUT("/purchases/:id", purchaseHandlers.UpdatePurchase)
	v1.DELETE("/purchases/:id", purchaseHandlers.DeletePurchase)
	v1.GET("/suppliers", purchaseHandlers.ListSuppliers)
	v1.POST("/suppliers", purchaseHandlers.CreateSupplier)
	v1.GET("/suppliers/:id", purchaseHandlers.GetSupplier)

	// Brands and warehouses
	v1.GET("/brands", warehouseHandlers.ListBrands)
	v1.POST("/brands", warehouseHandlers.CreateBrand)
	v1.GET("/warehouses", warehouseHandlers.ListWarehouses)
	v1.POST("/warehouses", warehouseHandlers.CreateWarehouse)
	v1.GET("/warehouses/:id", warehouseHandlers.GetWarehouse)
	v1.PUT("/warehouses/:id", warehouseHandlers.UpdateWarehouse)
	v1.DELETE("/warehouses/:id", warehouseHandlers.DeleteWarehouse)
	v1.GET("/warehouses/:id/summary", warehouseHandlers.WarehouseSummary)

	// Sample drafts
	v1.GET("/drafts", draftHandlers.ListDrafts)
	v1.POST("/drafts", draftHandlers.CreateDraft)
	v1.GET("/drafts/:id", draftHandlers.GetDraft)
	v1.PUT("/drafts/:id", draftHandlers.UpdateDraft)
	v1.DELETE("/drafts/:id", draftHandlers.DeleteDraft)

	log.Printf("fashionwms server v%s starting on port %d", version, cfg.Server.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Server.Port)))
}
