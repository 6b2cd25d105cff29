package models

// Material represents a printable material offered by the shop.
// Name is the natural key used by the inventory ledger and the registries;
// renaming a material does not migrate stock recorded under the old name
// (see DESIGN.md).
type Material struct {
	Name        string  `json:"name"`
	CostPerGram float64 `json:"cost_per_gram"`
	PrintTemp   int     `json:"print_temp"` // nozzle temperature in celsius
	Color       string  `json:"color"`
}

// NewMaterial creates a material with the given properties
func NewMaterial(name string, costPerGram float64, printTemp int, color string) *Material {
	return &Material{
		Name:        name,
		CostPerGram: costPerGram,
		PrintTemp:   printTemp,
		Color:       color,
	}
}
