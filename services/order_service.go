package services

import (
	"errors"
	"strings"

	"github.com/printhaus/printhaus-api/models"
	"github.com/printhaus/printhaus-api/storage"
)

// Domain-rule violations surfaced by the order service. Callers map these
// to user-facing messages; nothing here is fatal.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrMaterialNotFound     = errors.New("material not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrQuantityLimit        = errors.New("quantity exceeds the per-order limit")
	ErrActiveOrderLimit     = errors.New("user has too many active orders")
	ErrInsufficientMaterial = errors.New("insufficient material in stock")
	ErrInvalidStatus        = errors.New("status must not be blank")
)

// OrderService owns the order lifecycle: submission with stock consumption,
// status and priority updates, and invoice generation. Every mutation is
// persisted through the backing stores before returning.
type OrderService struct {
	orders    *storage.OrderStore
	invoices  *storage.InvoiceStore
	users     *storage.UserStore
	materials *storage.MaterialStore
	inventory *storage.InventoryStore
	config    *storage.ConfigStore
	pricing   *PricingService
}

// NewOrderService creates an order service over the given stores.
func NewOrderService(
	orders *storage.OrderStore,
	invoices *storage.InvoiceStore,
	users *storage.UserStore,
	materials *storage.MaterialStore,
	inventory *storage.InventoryStore,
	config *storage.ConfigStore,
	pricing *PricingService,
) *OrderService {
	return &OrderService{
		orders:    orders,
		invoices:  invoices,
		users:     users,
		materials: materials,
		inventory: inventory,
		config:    config,
		pricing:   pricing,
	}
}

// SubmitOrder validates a new order, consumes quantity*10 grams of the
// material from stock and registers the order. On any failure nothing is
// consumed and no order is stored.
func (s *OrderService) SubmitOrder(username, materialName, dimensions string, quantity int, instructions string) (*models.Order, error) {
	if s.users.GetByUsername(username) == nil {
		return nil, ErrUserNotFound
	}
	material := s.materials.GetByName(materialName)
	if material == nil {
		return nil, ErrMaterialNotFound
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	config := s.config.Get()
	if config.MaxQuantityPerOrder > 0 && quantity > config.MaxQuantityPerOrder {
		return nil, ErrQuantityLimit
	}
	if config.MaxActiveOrdersPerUser > 0 && s.countActiveOrders(username) >= config.MaxActiveOrdersPerUser {
		return nil, ErrActiveOrderLimit
	}

	// Consume is all-or-nothing; a failed consume leaves stock untouched.
	required := quantity * GramsPerItem
	if !s.inventory.Consume(material.Name, required) {
		return nil, ErrInsufficientMaterial
	}

	order := models.NewOrder(username, material.Name, dimensions, quantity, instructions)
	order.EstimatePrintTime()
	s.orders.Register(order)

	s.orders.Save()
	s.inventory.Save()
	return order, nil
}

// UpdateStatus sets an order's status. Any non-blank trimmed string is
// legal; there is intentionally no enforced transition table.
func (s *OrderService) UpdateStatus(orderID int, status string) (*models.Order, error) {
	if strings.TrimSpace(status) == "" {
		if s.orders.GetByID(orderID) == nil {
			return nil, ErrOrderNotFound
		}
		return nil, ErrInvalidStatus
	}

	order := s.orders.UpdateStatus(orderID, status)
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.orders.Save()
	return order, nil
}

// SetPriority normalizes and sets an order's priority. Blank input leaves
// the priority unchanged without error, matching the model's silent no-op.
func (s *OrderService) SetPriority(orderID int, priority string) (*models.Order, error) {
	order := s.orders.SetPriority(orderID, priority)
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.orders.Save()
	return order, nil
}

// GenerateInvoice prices the order as it stands now and issues an immutable
// invoice snapshot. Later changes to the order never touch the invoice.
func (s *OrderService) GenerateInvoice(orderID int) (*models.Invoice, error) {
	order := s.orders.GetByID(orderID)
	if order == nil {
		return nil, ErrOrderNotFound
	}

	invoice := models.NewInvoice(order.OrderID, s.pricing.CalculatePrice(order))
	s.invoices.Register(invoice)
	s.invoices.Save()
	return invoice, nil
}

// Quote prices an order without issuing anything.
func (s *OrderService) Quote(orderID int) (PriceBreakdown, error) {
	order := s.orders.GetByID(orderID)
	if order == nil {
		return PriceBreakdown{}, ErrOrderNotFound
	}
	return s.pricing.Quote(order), nil
}

// countActiveOrders counts a user's orders that are not yet completed or
// cancelled.
func (s *OrderService) countActiveOrders(username string) int {
	active := 0
	for _, order := range s.orders.GetByUsername(username) {
		switch order.Status {
		case "completed", "cancelled":
		default:
			active++
		}
	}
	return active
}
