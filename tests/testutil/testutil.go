// Package testutil builds fully wired application environments over
// throwaway directories for the integration and acceptance suites.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/printhaus/printhaus-api/controllers"
	"github.com/printhaus/printhaus-api/middleware"
	"github.com/printhaus/printhaus-api/models"
	"github.com/printhaus/printhaus-api/services"
	"github.com/printhaus/printhaus-api/storage"
)

// Env is a complete application instance: stores, services and the routed
// API, all rooted at the given data and backup directories.
type Env struct {
	Router    *gin.Engine
	Files     *storage.DataFileManager
	Users     *storage.UserStore
	Materials *storage.MaterialStore
	Inventory *storage.InventoryStore
	Orders    *storage.OrderStore
	Invoices  *storage.InvoiceStore
	Config    *storage.ConfigStore
	Backups   *services.BackupService
	Service   *services.OrderService

	DataDir   string
	BackupDir string
}

// NewEnv builds an environment over fresh temp directories.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	return OpenEnv(t, t.TempDir(), t.TempDir())
}

// OpenEnv builds an environment over existing directories, loading whatever
// state their data files hold. Opening the directories of a previous Env is
// how a process restart is simulated.
func OpenEnv(t *testing.T, dataDir, backupDir string) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	files := storage.NewDataFileManager(dataDir, backupDir)
	env := &Env{
		Files:     files,
		Users:     storage.NewUserStore(files),
		Materials: storage.NewMaterialStore(files),
		Inventory: storage.NewInventoryStore(files),
		Orders:    storage.NewOrderStore(files),
		Invoices:  storage.NewInvoiceStore(files),
		Config:    storage.NewConfigStore(files),
		Backups:   services.NewBackupService(files, 3),
		DataDir:   dataDir,
		BackupDir: backupDir,
	}

	env.Users.Load()
	env.Materials.Load()
	env.Inventory.Load()
	env.Orders.Load()
	env.Invoices.Load()
	env.Config.Load()

	pricing := services.NewPricingService(env.Config, env.Materials, env.Users)
	env.Service = services.NewOrderService(env.Orders, env.Invoices, env.Users, env.Materials, env.Inventory, env.Config, pricing)

	userController := controllers.NewUserController(env.Users)
	materialController := controllers.NewMaterialController(env.Materials, env.Inventory)
	orderController := controllers.NewOrderController(env.Orders, env.Service)
	invoiceController := controllers.NewInvoiceController(env.Orders, env.Invoices, env.Service)
	configController := controllers.NewConfigController(env.Config)
	backupController := controllers.NewBackupController(env.Backups)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/users", userController.Create)

	authed := v1.Group("", middleware.Identify(env.Users))
	authed.GET("/users/me", userController.Me)
	authed.PATCH("/users/me", userController.UpdateMe)
	authed.GET("/materials", materialController.List)
	authed.GET("/materials/:name", materialController.Get)
	authed.GET("/materials/:name/stock", materialController.GetStock)
	authed.POST("/orders", orderController.Create)
	authed.GET("/orders", orderController.List)
	authed.GET("/orders/:id", orderController.Get)
	authed.GET("/orders/:id/quote", orderController.Quote)
	authed.PATCH("/orders/:id/priority", orderController.SetPriority)
	authed.GET("/orders/:id/invoices", invoiceController.ListForOrder)

	admin := authed.Group("", middleware.RequireAdmin())
	admin.GET("/users", userController.List)
	admin.PATCH("/users/:username/role", userController.UpdateRole)
	admin.POST("/materials", materialController.Create)
	admin.PUT("/materials/:name", materialController.Update)
	admin.DELETE("/materials/:name", materialController.Delete)
	admin.PUT("/materials/:name/stock", materialController.SetStock)
	admin.PATCH("/orders/:id/status", orderController.UpdateStatus)
	admin.POST("/orders/:id/invoices", invoiceController.Create)
	admin.GET("/invoices", invoiceController.List)
	admin.GET("/config", configController.Get)
	admin.PUT("/config", configController.Update)
	admin.POST("/config/reset", configController.Reset)
	admin.POST("/backups", backupController.Create)
	admin.GET("/backups/:filename", backupController.List)
	admin.POST("/backups/restore", backupController.Restore)
	admin.POST("/backups/cleanup", backupController.Cleanup)

	env.Router = router
	return env
}

// Seed registers the standard fixtures: a customer, a vip, an admin and a
// stocked material, saved to disk.
func (e *Env) Seed(t *testing.T) {
	t.Helper()
	e.Users.Add(&models.User{Username: "maya", Name: "Maya Patel", Email: "maya@example.com", Role: models.RoleCustomer})
	e.Users.Add(&models.User{Username: "vera", Name: "Vera Novak", Email: "vera@example.com", Role: models.RoleVIP})
	e.Users.Add(&models.User{Username: "root", Name: "Site Admin", Email: "admin@example.com", Role: models.RoleAdmin})
	e.Materials.Add(models.NewMaterial("PLA", 0.02, 200, "white"))
	e.Inventory.SetStock("PLA", 1000)
	require.True(t, e.Users.Save())
	require.True(t, e.Materials.Save())
	require.True(t, e.Inventory.Save())
}

// Do performs an HTTP request as the given user and decodes the response
// envelope.
func (e *Env) Do(t *testing.T, method, path, username string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.Header.Set(middleware.UsernameHeader, username)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}
