package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/printhaus/printhaus-api/middleware"
	"github.com/printhaus/printhaus-api/models"
	"github.com/printhaus/printhaus-api/services"
	"github.com/printhaus/printhaus-api/storage"
	"github.com/printhaus/printhaus-api/utils"
)

// CreateOrderRequest represents the request body for submitting an order
type CreateOrderRequest struct {
	MaterialName        string `json:"material_name" binding:"required"`
	Dimensions          string `json:"dimensions" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,gt=0"`
	SpecialInstructions string `json:"special_instructions"`
}

// UpdateStatusRequest represents the request body for a status update
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetPriorityRequest represents the request body for a priority change
type SetPriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

// OrderController exposes the order lifecycle over HTTP. It is thin
// plumbing: every rule lives in the order service.
type OrderController struct {
	orders  *storage.OrderStore
	service *services.OrderService
}

// NewOrderController creates an order controller
func NewOrderController(orders *storage.OrderStore, service *services.OrderService) *OrderController {
	return &OrderController{orders: orders, service: service}
}

// Create handles POST /api/v1/orders - submits a new order for the caller
func (ctl *OrderController) Create(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req CreateOrderRequest
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

	materialName, err := utils.ValidateName("material_name", req.MaterialName)
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

	order, err := ctl.service.SubmitOrder(
		user.Username,
		materialName,
		req.Dimensions,
		req.Quantity,
		utils.SanitizeText(req.SpecialInstructions),
	)
	if err != nil {
		status, code := submitErrorStatus(err)
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// List handles GET /api/v1/orders - admins see every order, customers see
// their own
func (ctl *OrderController) List(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var orders []*models.Order
	if user.IsAdmin() {
		orders = ctl.orders.GetAll()
	} else {
		orders = ctl.orders.GetByUsername(user.Username)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// Get handles GET /api/v1/orders/:id - returns one order to its owner or
// an admin
func (ctl *OrderController) Get(c *gin.Context) {
	user, order, ok := ctl.lookupOrder(c)
	if !ok {
		return
	}

	if !user.IsAdmin() && order.Username != user.Username {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You can only view your own orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateStatus handles PATCH /api/v1/orders/:id/status - admin only (the
// router applies the role gate)
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	_, order, ok := ctl.lookupOrder(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
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

	updated, err := ctl.service.UpdateStatus(order.OrderID, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// SetPriority handles PATCH /api/v1/orders/:id/priority - owner or admin
func (ctl *OrderController) SetPriority(c *gin.Context) {
	user, order, ok := ctl.lookupOrder(c)
	if !ok {
		return
	}

	if !user.IsAdmin() && order.Username != user.Username {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You can only change your own orders",
			},
		})
		return
	}

	var req SetPriorityRequest
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

	updated, err := ctl.service.SetPriority(order.OrderID, req.Priority)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// Quote handles GET /api/v1/orders/:id/quote - prices the order without
// issuing an invoice
func (ctl *OrderController) Quote(c *gin.Context) {
	user, order, ok := ctl.lookupOrder(c)
	if !ok {
		return
	}

	if !user.IsAdmin() && order.Username != user.Username {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You can only price your own orders",
			},
		})
		return
	}

	breakdown, err := ctl.service.Quote(order.OrderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    breakdown,
	})
}

// lookupOrder resolves the caller and the :id path parameter. On failure it
// writes the error response and returns ok=false.
func (ctl *OrderController) lookupOrder(c *gin.Context) (*models.User, *models.Order, bool) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, nil, false
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order ID must be an integer",
			},
		})
		return nil, nil, false
	}

	order := ctl.orders.GetByID(orderID)
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "No order exists with this ID",
			},
		})
		return nil, nil, false
	}

	return user, order, true
}

// submitErrorStatus maps order submission failures to HTTP responses
func submitErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrMaterialNotFound):
		return http.StatusNotFound, "MATERIAL_NOT_FOUND"
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND"
	case errors.Is(err, services.ErrInsufficientMaterial):
		return http.StatusConflict, "INSUFFICIENT_MATERIAL"
	case errors.Is(err, services.ErrQuantityLimit):
		return http.StatusBadRequest, "QUANTITY_LIMIT_EXCEEDED"
	case errors.Is(err, services.ErrActiveOrderLimit):
		return http.StatusBadRequest, "ORDER_LIMIT_EXCEEDED"
	case errors.Is(err, services.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_QUANTITY"
	default:
		return http.StatusInternalServerError, "ORDER_ERROR"
	}
}
