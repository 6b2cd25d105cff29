package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printhaus/printhaus-api/models"
	"github.com/printhaus/printhaus-api/storage"
	"github.com/printhaus/printhaus-api/utils"
)

// MaterialRequest represents the request body for creating or updating a
// material
type MaterialRequest struct {
	Name        string  `json:"name" binding:"required"`
	CostPerGram float64 `json:"cost_per_gram" binding:"required,gt=0"`
	PrintTemp   int     `json:"print_temp" binding:"required,gt=0"`
	Color       string  `json:"color"`
}

// SetStockRequest represents the request body for a stock adjustment
type SetStockRequest struct {
	Grams *int `json:"grams" binding:"required"`
}

// MaterialController exposes the material catalog and its stock ledger.
// Write operations are admin only, gated by the router.
type MaterialController struct {
	materials *storage.MaterialStore
	inventory *storage.InventoryStore
}

// NewMaterialController creates a material controller
func NewMaterialController(materials *storage.MaterialStore, inventory *storage.InventoryStore) *MaterialController {
	return &MaterialController{materials: materials, inventory: inventory}
}

// List handles GET /api/v1/materials - returns the material catalog
func (ctl *MaterialController) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctl.materials.GetAll(),
	})
}

// Get handles GET /api/v1/materials/:name - returns one material with its
// current stock level
func (ctl *MaterialController) Get(c *gin.Context) {
	material := ctl.materials.GetByName(c.Param("name"))
	if material == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MATERIAL_NOT_FOUND",
				"message": "No material exists with this name",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"material":    material,
			"stock_grams": ctl.inventory.GetStock(material.Name),
		},
	})
}

// Create handles POST /api/v1/materials - adds a material to the catalog
func (ctl *MaterialController) Create(c *gin.Context) {
	var req MaterialRequest
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

	name, err := utils.ValidateName("name", req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	material := models.NewMaterial(name, req.CostPerGram, req.PrintTemp, req.Color)
	if !ctl.materials.Add(material) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_MATERIAL",
				"message": "A material with this name already exists",
			},
		})
		return
	}
	ctl.materials.Save()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    material,
	})
}

// Update handles PUT /api/v1/materials/:name - updates a material's
// properties. The path name wins over any name in the body; renaming a
// stocked material is not supported through the API because the stock
// ledger is keyed by name.
func (ctl *MaterialController) Update(c *gin.Context) {
	var req MaterialRequest
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

	material := models.NewMaterial(c.Param("name"), req.CostPerGram, req.PrintTemp, req.Color)
	if !ctl.materials.Update(material) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MATERIAL_NOT_FOUND",
				"message": "No material exists with this name",
			},
		})
		return
	}
	ctl.materials.Save()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    material,
	})
}

// Delete handles DELETE /api/v1/materials/:name - removes a material from
// the catalog
func (ctl *MaterialController) Delete(c *gin.Context) {
	if !ctl.materials.Remove(c.Param("name")) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MATERIAL_NOT_FOUND",
				"message": "No material exists with this name",
			},
		})
		return
	}
	ctl.materials.Save()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// GetStock handles GET /api/v1/materials/:name/stock
func (ctl *MaterialController) GetStock(c *gin.Context) {
	material := ctl.materials.GetByName(c.Param("name"))
	if material == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MATERIAL_NOT_FOUND",
				"message": "No material exists with this name",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"material_name": material.Name,
			"stock_grams":   ctl.inventory.GetStock(material.Name),
		},
	})
}

// SetStock handles PUT /api/v1/materials/:name/stock - records an absolute
// stock level for a material
func (ctl *MaterialController) SetStock(c *gin.Context) {
	material := ctl.materials.GetByName(c.Param("name"))
	if material == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MATERIAL_NOT_FOUND",
				"message": "No material exists with this name",
			},
		})
		return
	}

	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Grams == nil || *req.Grams < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STOCK",
				"message": "Stock grams must be a non-negative integer",
			},
		})
		return
	}

	ctl.inventory.SetStock(material.Name, *req.Grams)
	ctl.inventory.Save()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"material_name": material.Name,
			"stock_grams":   ctl.inventory.GetStock(material.Name),
		},
	})
}
