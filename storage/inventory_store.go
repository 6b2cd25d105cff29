package storage

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"
)

// InventoryFile is the data file backing the stock ledger.
const InventoryFile = "inventory.txt"

// DefaultStockGrams is the stock assumed for any material that was never
// explicitly stocked. Absence of a ledger entry is NOT zero: a fresh
// material reads as 1000 g until someone sets it. This convention is
// load-bearing for order submission against newly added materials.
const DefaultStockGrams = 1000

// InventoryStore is the stock ledger, keyed by material name. One mutex
// covers every read-modify-write, so Consume is a single atomic critical
// section and concurrent order submissions cannot both win the same grams.
type InventoryStore struct {
	mu    sync.Mutex
	files *DataFileManager
	stock map[string]int
}

// NewInventoryStore creates an empty stock ledger persisted through the
// given file manager.
func NewInventoryStore(files *DataFileManager) *InventoryStore {
	return &InventoryStore{files: files, stock: make(map[string]int)}
}

// SetStock records the stock level for a material. Blank names and negative
// amounts are silently ignored.
func (s *InventoryStore) SetStock(materialName string, grams int) {
	if materialName == "" || grams < 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[materialName] = grams
}

// GetStock returns the recorded stock for a material, the default of 1000 g
// if never explicitly set, or 0 for a blank name.
func (s *InventoryStore) GetStock(materialName string) int {
	if materialName == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(materialName)
}

// HasSufficient reports whether the material's stock covers the amount.
// False for a blank name; true for any amount <= 0.
func (s *InventoryStore) HasSufficient(materialName string, grams int) bool {
	if materialName == "" {
		return false
	}
	if grams <= 0 {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(materialName) >= grams
}

// Consume deducts grams from the material's stock, all-or-nothing: if the
// name is blank, the amount is not positive or the stock is insufficient it
// returns false and deducts nothing. Stock never goes negative.
func (s *InventoryStore) Consume(materialName string, grams int) bool {
	if materialName == "" || grams <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.getLocked(materialName)
	if current < grams {
		return false
	}
	s.stock[materialName] = current - grams
	return true
}

// Restock adds grams back to the material's stock. Blank names and
// non-positive amounts are silently ignored.
func (s *InventoryStore) Restock(materialName string, grams int) {
	if materialName == "" || grams <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[materialName] = s.getLocked(materialName) + grams
}

// Count returns the number of materials with an explicit ledger entry.
func (s *InventoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stock)
}

// Clear empties the ledger without touching the data file. Every material
// falls back to the default stock.
func (s *InventoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = make(map[string]int)
}

// Save serializes the ledger to its data file in name order, so repeated
// saves of the same ledger produce identical files.
func (s *InventoryStore) Save() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.stock))
	for name := range s.stock {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := fileHeader("inventory", time.Now())
	for _, name := range names {
		lines = append(lines, joinFields([]string{name, strconv.Itoa(s.stock[name])}))
	}
	return s.files.WriteDataFile(InventoryFile, joinLines(lines))
}

// Load clears the ledger and reloads it from the data file, skipping any
// record that fails to parse.
func (s *InventoryStore) Load() bool {
	lines, ok := s.files.ReadDataLines(InventoryFile)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stock = make(map[string]int)
	for _, line := range lines {
		if !isRecordLine(line) {
			continue
		}
		name, grams, err := parseStockEntry(line)
		if err != nil {
			log.Printf("Skipping bad inventory record: %v", err)
			continue
		}
		s.stock[name] = grams
	}
	return true
}

// getLocked reads a stock level applying the default-stock convention.
// Caller must hold s.mu.
func (s *InventoryStore) getLocked(materialName string) int {
	if grams, ok := s.stock[materialName]; ok {
		return grams
	}
	return DefaultStockGrams
}

func parseStockEntry(line string) (string, int, error) {
	fields := splitFields(line)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("inventory record has %d fields, want 2", len(fields))
	}
	if fields[0] == "" {
		return "", 0, fmt.Errorf("inventory record has empty material name")
	}

	grams, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, fmt.Errorf("inventory record %q has bad grams: %w", fields[0], err)
	}
	if grams < 0 {
		return "", 0, fmt.Errorf("inventory record %q has negative grams", fields[0])
	}
	return fields[0], grams, nil
}
