package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printhaus/printhaus-api/models"
	"github.com/printhaus/printhaus-api/storage"
)

// UpdateConfigRequest carries a full replacement of the business settings.
// Updates are whole-document: the last writer wins, exactly like the
// underlying store.
type UpdateConfigRequest struct {
	ElectricityCostPerHour float64 `json:"electricity_cost_per_hour" binding:"gte=0"`
	MachineTimeCostPerHour float64 `json:"machine_time_cost_per_hour" binding:"gte=0"`
	BaseSetupCost          float64 `json:"base_setup_cost" binding:"gte=0"`
	TaxRate                float64 `json:"tax_rate" binding:"gte=0,lt=1"`
	Currency               string  `json:"currency" binding:"required"`
	RushOrdersEnabled      bool    `json:"rush_orders_enabled"`
	RushSurchargeRate      float64 `json:"rush_surcharge_rate" binding:"gte=0"`
	MaxQuantityPerOrder    int     `json:"max_quantity_per_order" binding:"gte=0"`
	MaxActiveOrdersPerUser int     `json:"max_active_orders_per_user" binding:"gte=0"`
}

// ConfigController exposes the system configuration to admins. All routes
// are admin only, gated by the router.
type ConfigController struct {
	config *storage.ConfigStore
}

// NewConfigController creates a config controller
func NewConfigController(config *storage.ConfigStore) *ConfigController {
	return &ConfigController{config: config}
}

// Get handles GET /api/v1/config
func (ctl *ConfigController) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctl.config.Get(),
	})
}

// Update handles PUT /api/v1/config - replaces the settings wholesale
func (ctl *ConfigController) Update(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	ctl.config.Replace(models.SystemConfig{
		ElectricityCostPerHour: req.ElectricityCostPerHour,
		MachineTimeCostPerHour: req.MachineTimeCostPerHour,
		BaseSetupCost:          req.BaseSetupCost,
		TaxRate:                req.TaxRate,
		Currency:               req.Currency,
		RushOrdersEnabled:      req.RushOrdersEnabled,
		RushSurchargeRate:      req.RushSurchargeRate,
		MaxQuantityPerOrder:    req.MaxQuantityPerOrder,
		MaxActiveOrdersPerUser: req.MaxActiveOrdersPerUser,
	})
	ctl.config.Save()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctl.config.Get(),
	})
}

// Reset handles POST /api/v1/config/reset - restores the hard-coded
// defaults
func (ctl *ConfigController) Reset(c *gin.Context) {
	ctl.config.Reset()
	ctl.config.Save()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctl.config.Get(),
	})
}
