package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/printhaus/printhaus-api/config"
	"github.com/printhaus/printhaus-api/controllers"
	"github.com/printhaus/printhaus-api/middleware"
	"github.com/printhaus/printhaus-api/services"
	"github.com/printhaus/printhaus-api/storage"
)

// app wires the stores, services and controllers behind the router. All
// state is owned here and handed to the components that need it; nothing
// is package-level.
type app struct {
	files     *storage.DataFileManager
	users     *storage.UserStore
	materials *storage.MaterialStore
	inventory *storage.InventoryStore
	orders    *storage.OrderStore
	invoices  *storage.InvoiceStore
	config    *storage.ConfigStore
	backups   *services.BackupService

	userController     *controllers.UserController
	materialController *controllers.MaterialController
	orderController    *controllers.OrderController
	invoiceController  *controllers.InvoiceController
	configController   *controllers.ConfigController
	backupController   *controllers.BackupController
}

// newApp builds the full object graph and loads every registry from disk.
// A missing data directory is fine: registries load empty and the first
// save creates the files.
func newApp(cfg *config.Config) *app {
	files := storage.NewDataFileManager(cfg.DataDir, cfg.BackupDir)

	a := &app{
		files:     files,
		users:     storage.NewUserStore(files),
		materials: storage.NewMaterialStore(files),
		inventory: storage.NewInventoryStore(files),
		orders:    storage.NewOrderStore(files),
		invoices:  storage.NewInvoiceStore(files),
		config:    storage.NewConfigStore(files),
		backups:   services.NewBackupService(files, cfg.BackupKeepCount),
	}

	a.users.Load()
	a.materials.Load()
	a.inventory.Load()
	a.orders.Load()
	a.invoices.Load()
	a.config.Load()

	pricing := services.NewPricingService(a.config, a.materials, a.users)
	orderService := services.NewOrderService(a.orders, a.invoices, a.users, a.materials, a.inventory, a.config, pricing)

	a.userController = controllers.NewUserController(a.users)
	a.materialController = controllers.NewMaterialController(a.materials, a.inventory)
	a.orderController = controllers.NewOrderController(a.orders, orderService)
	a.invoiceController = controllers.NewInvoiceController(a.orders, a.invoices, orderService)
	a.configController = controllers.NewConfigController(a.config)
	a.backupController = controllers.NewBackupController(a.backups)

	return a
}

// setupRouter builds the Gin router with all API v1 routes
func setupRouter(a *app) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/users", a.userController.Create)
	}

	authed := v1.Group("", middleware.Identify(a.users))
	{
		authed.GET("/users/me", a.userController.Me)
		authed.PATCH("/users/me", a.userController.UpdateMe)

		authed.GET("/materials", a.materialController.List)
		authed.GET("/materials/:name", a.materialController.Get)
		authed.GET("/materials/:name/stock", a.materialController.GetStock)

		authed.POST("/orders", a.orderController.Create)
		authed.GET("/orders", a.orderController.List)
		authed.GET("/orders/:id", a.orderController.Get)
		authed.GET("/orders/:id/quote", a.orderController.Quote)
		authed.PATCH("/orders/:id/priority", a.orderController.SetPriority)
		authed.GET("/orders/:id/invoices", a.invoiceController.ListForOrder)
	}

	admin := authed.Group("", middleware.RequireAdmin())
	{
		admin.GET("/users", a.userController.List)
		admin.PATCH("/users/:username/role", a.userController.UpdateRole)

		admin.POST("/materials", a.materialController.Create)
		admin.PUT("/materials/:name", a.materialController.Update)
		admin.DELETE("/materials/:name", a.materialController.Delete)
		admin.PUT("/materials/:name/stock", a.materialController.SetStock)

		admin.PATCH("/orders/:id/status", a.orderController.UpdateStatus)
		admin.POST("/orders/:id/invoices", a.invoiceController.Create)
		admin.GET("/invoices", a.invoiceController.List)

		admin.GET("/config", a.configController.Get)
		admin.PUT("/config", a.configController.Update)
		admin.POST("/config/reset", a.configController.Reset)

		admin.POST("/backups", a.backupController.Create)
		admin.GET("/backups/:filename", a.backupController.List)
		admin.POST("/backups/restore", a.backupController.Restore)
		admin.POST("/backups/cleanup", a.backupController.Cleanup)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"success": true,
		"message": "Printhaus API is running",
	})
}

func main() {
	log.Println("Starting Printhaus API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	a := newApp(cfg)

	// Snapshot the data files we just loaded, then prune old backups.
	created := a.backups.BackupAll()
	deleted := a.backups.Cleanup()
	log.Printf("Startup backup complete: %d created, %d pruned", created, deleted)

	router := setupRouter(a)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
