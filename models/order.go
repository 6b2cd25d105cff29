package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Order priorities. Status is deliberately a free-form string (any non-blank
// value is accepted, e.g. "processing-50%"); priority is normalized to one of
// these but unknown values are tolerated.
const (
	PriorityNormal = "normal"
	PriorityRush   = "rush"
	PriorityVIP    = "vip"

	StatusPending = "pending"
)

// defaultDimensions is assumed whenever an order's dimension string cannot
// be parsed.
const defaultDimensions = "10x10x10cm"

// Order is the central transactional entity: it links a customer and a
// material by their natural keys and carries pricing, status and priority
// state. User and material records are resolved through the registries at
// the point of use, so orders survive reloads without dangling references.
type Order struct {
	OrderID             int       `json:"order_id"`
	Username            string    `json:"username"`
	MaterialName        string    `json:"material_name"`
	Dimensions          string    `json:"dimensions"` // "LxWxHcm"
	Quantity            int       `json:"quantity"`
	SpecialInstructions string    `json:"special_instructions"`
	Status              string    `json:"status"`
	Priority            string    `json:"priority"`
	EstimatedPrintHours float64   `json:"estimated_print_hours"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewOrder creates an order in the initial pending/normal state.
// The order ID is assigned by the order store at registration time.
func NewOrder(username, materialName, dimensions string, quantity int, instructions string) *Order {
	return &Order{
		Username:            username,
		MaterialName:        materialName,
		Dimensions:          dimensions,
		Quantity:            quantity,
		SpecialInstructions: instructions,
		Status:              StatusPending,
		Priority:            PriorityNormal,
		CreatedAt:           time.Now(),
	}
}

// UpdateStatus sets the order status. Any non-blank trimmed string is
// accepted; blank input is silently ignored. There is no enforced state
// machine on purpose.
func (o *Order) UpdateStatus(newStatus string) {
	s := strings.TrimSpace(newStatus)
	if s == "" {
		return
	}
	o.Status = s
}

// SetPriority normalizes and sets the order priority. Blank input leaves
// the priority unchanged (silent no-op, not an error).
func (o *Order) SetPriority(value string) {
	p := strings.ToLower(strings.TrimSpace(value))
	if p == "" {
		return
	}
	o.Priority = p
}

// EstimatePrintTime estimates total print hours from the order dimensions
// and quantity, caches the result on the order and returns it. The estimate
// is recomputed on every call.
//
// The volume is priced in whole 1000 cm³ blocks with a floor of 0.1 hours
// per item, so small parts never estimate to zero.
func (o *Order) EstimatePrintTime() float64 {
	l, w, h := parseDimensions(o.Dimensions)
	volume := l * w * h

	perItem := math.Floor(volume / 1000.0)
	if perItem < 0.1 {
		perItem = 0.1
	}

	quantity := o.Quantity
	if quantity < 1 {
		quantity = 1
	}

	o.EstimatedPrintHours = perItem * float64(quantity)
	return o.EstimatedPrintHours
}

// parseDimensions parses a "LxWxHcm" dimension string into three lengths.
// Parsing is case-insensitive, spaces and a trailing "cm" unit are ignored.
// Any failure falls back to the default 10x10x10 block.
func parseDimensions(dimensions string) (l, w, h float64) {
	s := strings.ToLower(strings.ReplaceAll(dimensions, " ", ""))
	s = strings.TrimSuffix(s, "cm")

	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return parseDefaultDimensions()
	}

	values := make([]float64, 3)
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v <= 0 {
			return parseDefaultDimensions()
		}
		values[i] = v
	}

	return values[0], values[1], values[2]
}

func parseDefaultDimensions() (l, w, h float64) {
	return 10, 10, 10
}
