package models

// SystemConfig holds the shop's pricing and business-rule settings. It is
// read by the pricing engine and written only through admin operations.
// There is no versioning: the last writer wins, and Reset restores the
// hard-coded defaults.
type SystemConfig struct {
	ElectricityCostPerHour float64 `json:"electricity_cost_per_hour"`
	MachineTimeCostPerHour float64 `json:"machine_time_cost_per_hour"`
	BaseSetupCost          float64 `json:"base_setup_cost"`
	TaxRate                float64 `json:"tax_rate"`
	Currency               string  `json:"currency"`
	RushOrdersEnabled      bool    `json:"rush_orders_enabled"`
	RushSurchargeRate      float64 `json:"rush_surcharge_rate"`
	MaxQuantityPerOrder    int     `json:"max_quantity_per_order"`
	MaxActiveOrdersPerUser int     `json:"max_active_orders_per_user"`
}

// DefaultSystemConfig returns the SystemConfig populated with the shop's
// stock business rules.
func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		ElectricityCostPerHour: 0.15,
		MachineTimeCostPerHour: 2.50,
		BaseSetupCost:          5.00,
		TaxRate:                0.08,
		Currency:               "USD",
		RushOrdersEnabled:      true,
		RushSurchargeRate:      0.25,
		MaxQuantityPerOrder:    100,
		MaxActiveOrdersPerUser: 10,
	}
}

// Reset restores every setting to its default value in place.
func (c *SystemConfig) Reset() {
	*c = *DefaultSystemConfig()
}
