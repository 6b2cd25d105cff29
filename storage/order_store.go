package storage

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/printhaus/printhaus-api/models"
)

// OrderFile is the data file backing the order registry.
const OrderFile = "orders.txt"

// firstOrderID seeds the process-wide order ID counter.
const firstOrderID = 1000

// OrderStore is the in-memory order registry with flat-file persistence.
// It owns the monotonic order ID counter: IDs are assigned under the store
// mutex at registration, and loading advances the counter past the highest
// persisted ID so restarts never reissue an ID.
//
// The store owns its entities. Accessors return snapshot copies, and every
// mutation of a registered order happens under the store mutex, so callers
// never share memory with a concurrent Save.
type OrderStore struct {
	mu     sync.Mutex
	files  *DataFileManager
	orders []*models.Order
	nextID int
}

// NewOrderStore creates an empty order registry persisted through the given
// file manager.
func NewOrderStore(files *DataFileManager) *OrderStore {
	return &OrderStore{files: files, nextID: firstOrderID}
}

// Register assigns the next order ID to the order and adds a copy of it to
// the registry. Rejects nil orders.
func (s *OrderStore) Register(order *models.Order) bool {
	if order == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order.OrderID = s.nextID
	s.nextID++
	owned := *order
	s.orders = append(s.orders, &owned)
	return true
}

// GetByID returns a copy of the order with the given ID, or nil.
func (s *OrderStore) GetByID(orderID int) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOrder(s.findLocked(orderID))
}

// GetAll returns a snapshot of the registry in insertion order.
func (s *OrderStore) GetAll() []*models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = copyOrder(o)
	}
	return out
}

// GetByUsername returns the orders submitted by the given user.
func (s *OrderStore) GetByUsername(username string) []*models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Order
	for _, o := range s.orders {
		if o.Username == username {
			out = append(out, copyOrder(o))
		}
	}
	return out
}

// UpdateStatus sets the status of the order with the given ID and returns
// a copy of its new state, or nil if the order is absent.
func (s *OrderStore) UpdateStatus(orderID int, status string) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.findLocked(orderID)
	if order == nil {
		return nil
	}
	order.UpdateStatus(status)
	return copyOrder(order)
}

// SetPriority sets the priority of the order with the given ID and returns
// a copy of its new state, or nil if the order is absent.
func (s *OrderStore) SetPriority(orderID int, priority string) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.findLocked(orderID)
	if order == nil {
		return nil
	}
	order.SetPriority(priority)
	return copyOrder(order)
}

// Remove deletes the order with the given ID. Returns false if absent.
func (s *OrderStore) Remove(orderID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.orders {
		if existing.OrderID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of registered orders.
func (s *OrderStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// Clear empties the registry without touching the data file or the ID
// counter.
func (s *OrderStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = nil
}

// ResetIDCounter reseeds the order ID counter. For test isolation only,
// never called in the production flow.
func (s *OrderStore) ResetIDCounter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = firstOrderID
}

// Save serializes the registry to its data file.
func (s *OrderStore) Save() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := fileHeader("orders", time.Now())
	for _, o := range s.orders {
		lines = append(lines, serializeOrder(o))
	}
	return s.files.WriteDataFile(OrderFile, joinLines(lines))
}

// Load clears the registry and reloads it from the data file, skipping any
// record that fails to parse and advancing the ID counter past every loaded
// order.
func (s *OrderStore) Load() bool {
	lines, ok := s.files.ReadDataLines(OrderFile)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = nil
	for _, line := range lines {
		if !isRecordLine(line) {
			continue
		}
		order, err := parseOrder(line)
		if err != nil {
			log.Printf("Skipping bad order record: %v", err)
			continue
		}
		if s.findLocked(order.OrderID) != nil {
			log.Printf("Skipping duplicate order record %d", order.OrderID)
			continue
		}
		s.orders = append(s.orders, order)
		if order.OrderID >= s.nextID {
			s.nextID = order.OrderID + 1
		}
	}
	return true
}

// copyOrder returns a detached copy of the order, or nil for nil.
func copyOrder(o *models.Order) *models.Order {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

// findLocked looks an order up by ID. Caller must hold s.mu.
func (s *OrderStore) findLocked(orderID int) *models.Order {
	for _, o := range s.orders {
		if o.OrderID == orderID {
			return o
		}
	}
	return nil
}

func serializeOrder(o *models.Order) string {
	return joinFields([]string{
		strconv.Itoa(o.OrderID),
		o.Username,
		o.MaterialName,
		o.Dimensions,
		strconv.Itoa(o.Quantity),
		o.SpecialInstructions,
		o.Status,
		o.Priority,
		strconv.FormatFloat(o.EstimatedPrintHours, 'f', -1, 64),
		o.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func parseOrder(line string) (*models.Order, error) {
	fields := splitFields(line)
	if len(fields) != 10 {
		return nil, fmt.Errorf("order record has %d fields, want 10", len(fields))
	}

	orderID, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("order record has bad ID %q: %w", fields[0], err)
	}
	quantity, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("order %d has bad quantity: %w", orderID, err)
	}
	hours, err := strconv.ParseFloat(fields[8], 64)
	if err != nil {
		return nil, fmt.Errorf("order %d has bad print hours: %w", orderID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, fields[9])
	if err != nil {
		return nil, fmt.Errorf("order %d has bad creation time: %w", orderID, err)
	}

	return &models.Order{
		OrderID:             orderID,
		Username:            fields[1],
		MaterialName:        fields[2],
		Dimensions:          fields[3],
		Quantity:            quantity,
		SpecialInstructions: fields[5],
		Status:              fields[6],
		Priority:            fields[7],
		EstimatedPrintHours: hours,
		CreatedAt:           createdAt,
	}, nil
}
