package services

import (
	"github.com/printhaus/printhaus-api/models"
	"github.com/printhaus/printhaus-api/storage"
)

// GramsPerItem is the filament drawn per ordered item. Both stock
// consumption at submission and the material cost term of the price use it.
const GramsPerItem = 10

// Discount and surcharge policy. Discounts compose multiplicatively in a
// fixed order: bulk first, then VIP, then rush surcharge, then tax. The
// sequence is a business contract, not an implementation detail.
const (
	bulkDiscountThreshold = 10
	bulkDiscountRate      = 0.05
	vipDiscountRate       = 0.10
)

// PriceBreakdown itemizes a quote for display. Total carries the final
// price after discounts, surcharge and tax.
type PriceBreakdown struct {
	MaterialCost         float64 `json:"material_cost"`
	SetupCost            float64 `json:"setup_cost"`
	ElectricityCost      float64 `json:"electricity_cost"`
	MachineCost          float64 `json:"machine_cost"`
	BulkDiscountApplied  bool    `json:"bulk_discount_applied"`
	VIPDiscountApplied   bool    `json:"vip_discount_applied"`
	RushSurchargeApplied bool    `json:"rush_surcharge_applied"`
	Subtotal             float64 `json:"subtotal"`
	Tax                  float64 `json:"tax"`
	Total                float64 `json:"total"`
	Currency             string  `json:"currency"`
	EstimatedPrintHours  float64 `json:"estimated_print_hours"`
}

// PricingService computes order prices from the material catalog, the
// ordering user's role and the current system configuration.
type PricingService struct {
	config    *storage.ConfigStore
	materials *storage.MaterialStore
	users     *storage.UserStore
}

// NewPricingService creates a pricing service over the given stores.
func NewPricingService(config *storage.ConfigStore, materials *storage.MaterialStore, users *storage.UserStore) *PricingService {
	return &PricingService{config: config, materials: materials, users: users}
}

// CalculatePrice returns the order's final price. An order with an unknown
// material or a non-positive quantity prices to 0; that is a deliberate
// zero-guard, not an error.
func (s *PricingService) CalculatePrice(order *models.Order) float64 {
	return s.Quote(order).Total
}

// Quote computes the full price breakdown for an order, refreshing the
// order's cached print-time estimate along the way.
func (s *PricingService) Quote(order *models.Order) PriceBreakdown {
	config := s.config.Get()
	breakdown := PriceBreakdown{Currency: config.Currency}

	if order == nil || order.Quantity <= 0 {
		return breakdown
	}
	material := s.materials.GetByName(order.MaterialName)
	if material == nil {
		return breakdown
	}

	hours := order.EstimatePrintTime()
	breakdown.EstimatedPrintHours = hours
	breakdown.MaterialCost = material.CostPerGram * float64(order.Quantity) * GramsPerItem
	breakdown.SetupCost = config.BaseSetupCost
	breakdown.ElectricityCost = config.ElectricityCostPerHour * hours
	breakdown.MachineCost = config.MachineTimeCostPerHour * hours

	subtotal := breakdown.MaterialCost + breakdown.SetupCost + breakdown.ElectricityCost + breakdown.MachineCost

	if order.Quantity >= bulkDiscountThreshold {
		subtotal *= 1 - bulkDiscountRate
		breakdown.BulkDiscountApplied = true
	}
	if user := s.users.GetByUsername(order.Username); user.IsVIP() {
		subtotal *= 1 - vipDiscountRate
		breakdown.VIPDiscountApplied = true
	}
	if order.Priority == models.PriorityRush && config.RushOrdersEnabled {
		subtotal *= 1 + config.RushSurchargeRate
		breakdown.RushSurchargeApplied = true
	}

	breakdown.Subtotal = subtotal
	breakdown.Tax = subtotal * config.TaxRate
	breakdown.Total = subtotal + breakdown.Tax
	return breakdown
}
