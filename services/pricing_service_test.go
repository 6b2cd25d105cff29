package services

import (
	"path/filepath"
	"testing"

	"github.com/printhaus/printhaus-api/models"
	"github.com/printhaus/printhaus-api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStores struct {
	files     *storage.DataFileManager
	users     *storage.UserStore
	materials *storage.MaterialStore
	inventory *storage.InventoryStore
	orders    *storage.OrderStore
	invoices  *storage.InvoiceStore
	config    *storage.ConfigStore
}

func newTestStores(t *testing.T) *testStores {
	t.Helper()

	base := t.TempDir()
	files := storage.NewDataFileManager(filepath.Join(base, "data"), filepath.Join(base, "backups"))
	return &testStores{
		files:     files,
		users:     storage.NewUserStore(files),
		materials: storage.NewMaterialStore(files),
		inventory: storage.NewInventoryStore(files),
		orders:    storage.NewOrderStore(files),
		invoices:  storage.NewInvoiceStore(files),
		config:    storage.NewConfigStore(files),
	}
}

func (s *testStores) pricingService() *PricingService {
	return NewPricingService(s.config, s.materials, s.users)
}

func (s *testStores) orderService() *OrderService {
	return NewOrderService(s.orders, s.invoices, s.users, s.materials, s.inventory, s.config, s.pricingService())
}

func TestCalculatePriceBaseScenario(t *testing.T) {
	s := newTestStores(t)
	s.users.Add(&models.User{Username: "maya", Role: models.RoleCustomer})
	s.materials.Add(models.NewMaterial("PLA", 0.02, 200, "white"))

	order := models.NewOrder("maya", "PLA", "10x5x3cm", 2, "")
	pricing := s.pricingService()

	// hours = 0.1 * 2; material = 0.02*2*10; subtotal = 0.40+5.00+0.15*0.2+2.50*0.2
	price := pricing.CalculatePrice(order)
	assert.InDelta(t, 5.93*1.08, price, 1e-9)
	assert.InDelta(t, 0.2, order.EstimatedPrintHours, 1e-9)
}

func TestCalculatePriceZeroGuards(t *testing.T) {
	s := newTestStores(t)
	s.users.Add(&models.User{Username: "maya", Role: models.RoleCustomer})
	s.materials.Add(models.NewMaterial("PLA", 0.02, 200, "white"))
	pricing := s.pricingService()

	unknownMaterial := models.NewOrder("maya", "Unobtainium", "10x5x3cm", 2, "")
	assert.Equal(t, 0.0, pricing.CalculatePrice(unknownMaterial))

	zeroQuantity := models.NewOrder("maya", "PLA", "10x5x3cm", 0, "")
	assert.Equal(t, 0.0, pricing.CalculatePrice(zeroQuantity))

	negativeQuantity := models.NewOrder("maya", "PLA", "10x5x3cm", -3, "")
	assert.Equal(t, 0.0, pricing.CalculatePrice(negativeQuantity))

	assert.Equal(t, 0.0, pricing.CalculatePrice(nil))
}

func TestCalculatePriceBulkDiscount(t *testing.T) {
	s := newTestStores(t)
	s.users.Add(&models.User{Username: "maya", Role: models.RoleCustomer})
	s.materials.Add(models.NewMaterial("PETG", 0.05, 230, "clear"))
	pricing := s.pricingService()

	order := models.NewOrder("maya", "PETG", "10x5x3cm", 10, "")

	// hours = 0.1*10 = 1; subtotal = 5.00+5.00+0.15+2.50 = 12.65; 5% off, then tax
	expected := 12.65 * 0.95 * 1.08
	assert.InDelta(t, expected, pricing.CalculatePrice(order), 1e-9)

	breakdown := pricing.Quote(order)
	assert.True(t, breakdown.BulkDiscountApplied)
	assert.False(t, breakdown.VIPDiscountApplied)
	assert.False(t, breakdown.RushSurchargeApplied)
}

func TestCalculatePriceVIPDiscount(t *testing.T) {
	s := newTestStores(t)
	s.users.Add(&models.User{Username: "vip-maya", Role: models.RoleVIP})
	s.materials.Add(models.NewMaterial("PLA", 0.02, 200, "white"))
	pricing := s.pricingService()

	order := models.NewOrder("vip-maya", "PLA", "10x5x3cm", 2, "")
	assert.InDelta(t, 5.93*0.90*1.08, pricing.CalculatePrice(order), 1e-9)
}

func TestCalculatePriceDiscountOrderIsBulkThenVIPThenRush(t *testing.T) {
	s := newTestStores(t)
	s.users.Add(&models.User{Username: "vip-maya", Role: models.RoleVIP})
	s.materials.Add(models.NewMaterial("PETG", 0.05, 230, "clear"))
	pricing := s.pricingService()

	order := models.NewOrder("vip-maya", "PETG", "10x5x3cm", 10, "")
	order.SetPriority("rush")

	expected := 12.65 * 0.95 * 0.90 * 1.25 * 1.08
	assert.InDelta(t, expected, pricing.CalculatePrice(order), 1e-9)

	breakdown := pricing.Quote(order)
	assert.True(t, breakdown.BulkDiscountApplied)
	assert.True(t, breakdown.VIPDiscountApplied)
	assert.True(t, breakdown.RushSurchargeApplied)
	assert.InDelta(t, breakdown.Subtotal+breakdown.Tax, breakdown.Total, 1e-9)
}

func TestRushSurchargeHonorsGlobalSwitch(t *testing.T) {
	s := newTestStores(t)
	s.users.Add(&models.User{Username: "maya", Role: models.RoleCustomer})
	s.materials.Add(models.NewMaterial("PLA", 0.02, 200, "white"))
	pricing := s.pricingService()

	order := models.NewOrder("maya", "PLA", "10x5x3cm", 2, "")
	order.SetPriority("rush")

	withRush := pricing.CalculatePrice(order)
	assert.InDelta(t, 5.93*1.25*1.08, withRush, 1e-9)

	disabled := s.config.Get()
	disabled.RushOrdersEnabled = false
	s.config.Replace(disabled)

	withoutRush := pricing.CalculatePrice(order)
	assert.InDelta(t, 5.93*1.08, withoutRush, 1e-9, "no surcharge while rush orders are disabled")
}

func TestQuoteUsesCurrentConfig(t *testing.T) {
	s := newTestStores(t)
	s.users.Add(&models.User{Username: "maya", Role: models.RoleCustomer})
	s.materials.Add(models.NewMaterial("PLA", 0.02, 200, "white"))
	pricing := s.pricingService()

	updated := s.config.Get()
	updated.TaxRate = 0.2
	updated.Currency = "EUR"
	s.config.Replace(updated)

	order := models.NewOrder("maya", "PLA", "10x5x3cm", 2, "")
	breakdown := pricing.Quote(order)

	assert.Equal(t, "EUR", breakdown.Currency)
	assert.InDelta(t, 5.93*1.2, breakdown.Total, 1e-9)
	require.InDelta(t, breakdown.Subtotal*0.2, breakdown.Tax, 1e-9)
}
