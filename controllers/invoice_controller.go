package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/printhaus/printhaus-api/middleware"
	"github.com/printhaus/printhaus-api/services"
	"github.com/printhaus/printhaus-api/storage"
)

// InvoiceController exposes invoices as an order sub-resource. Invoices are
// immutable snapshots: there are create and read operations, nothing else.
type InvoiceController struct {
	orders   *storage.OrderStore
	invoices *storage.InvoiceStore
	service  *services.OrderService
}

// NewInvoiceController creates an invoice controller
func NewInvoiceController(orders *storage.OrderStore, invoices *storage.InvoiceStore, service *services.OrderService) *InvoiceController {
	return &InvoiceController{orders: orders, invoices: invoices, service: service}
}

// Create handles POST /api/v1/orders/:id/invoices - issues an invoice for
// the order at today's price (admin only, gated by the router)
func (ctl *InvoiceController) Create(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order ID must be an integer",
			},
		})
		return
	}

	invoice, err := ctl.service.GenerateInvoice(orderID)
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

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    invoice,
	})
}

// ListForOrder handles GET /api/v1/orders/:id/invoices - returns the
// invoices issued for one order to its owner or an admin
func (ctl *InvoiceController) ListForOrder(c *gin.Context) {
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

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order ID must be an integer",
			},
		})
		return
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
		return
	}

	if !user.IsAdmin() && order.Username != user.Username {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You can only view invoices for your own orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctl.invoices.GetByOrderID(orderID),
	})
}

// List handles GET /api/v1/invoices - returns every invoice (admin only,
// gated by the router)
func (ctl *InvoiceController) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctl.invoices.GetAll(),
	})
}
