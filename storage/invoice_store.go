package storage

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/printhaus/printhaus-api/models"
)

// InvoiceFile is the data file backing the invoice registry.
const InvoiceFile = "invoices.txt"

// firstInvoiceID seeds the process-wide invoice ID counter.
const firstInvoiceID = 2000

// InvoiceStore is the in-memory invoice registry with flat-file
// persistence. Like the order store it owns its monotonic ID counter and
// its entities: accessors return copies. Invoices never change after
// registration.
type InvoiceStore struct {
	mu       sync.Mutex
	files    *DataFileManager
	invoices []*models.Invoice
	nextID   int
}

// NewInvoiceStore creates an empty invoice registry persisted through the
// given file manager.
func NewInvoiceStore(files *DataFileManager) *InvoiceStore {
	return &InvoiceStore{files: files, nextID: firstInvoiceID}
}

// Register assigns the next invoice ID to the invoice and adds it to the
// registry. Rejects nil invoices.
func (s *InvoiceStore) Register(invoice *models.Invoice) bool {
	if invoice == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	invoice.InvoiceID = s.nextID
	s.nextID++
	owned := *invoice
	s.invoices = append(s.invoices, &owned)
	return true
}

// GetByID returns a copy of the invoice with the given ID, or nil.
func (s *InvoiceStore) GetByID(invoiceID int) *models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyInvoice(s.findLocked(invoiceID))
}

// GetByOrderID returns the invoices issued for the given order.
func (s *InvoiceStore) GetByOrderID(orderID int) []*models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Invoice
	for _, inv := range s.invoices {
		if inv.OrderID == orderID {
			out = append(out, copyInvoice(inv))
		}
	}
	return out
}

// GetAll returns a snapshot of the registry in insertion order.
func (s *InvoiceStore) GetAll() []*models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Invoice, len(s.invoices))
	for i, inv := range s.invoices {
		out[i] = copyInvoice(inv)
	}
	return out
}

// Count returns the number of registered invoices.
func (s *InvoiceStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices)
}

// Clear empties the registry without touching the data file or the ID
// counter.
func (s *InvoiceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = nil
}

// ResetIDCounter reseeds the invoice ID counter. For test isolation only.
func (s *InvoiceStore) ResetIDCounter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = firstInvoiceID
}

// Save serializes the registry to its data file.
func (s *InvoiceStore) Save() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := fileHeader("invoices", time.Now())
	for _, inv := range s.invoices {
		lines = append(lines, serializeInvoice(inv))
	}
	return s.files.WriteDataFile(InvoiceFile, joinLines(lines))
}

// Load clears the registry and reloads it from the data file, skipping any
// record that fails to parse and advancing the ID counter.
func (s *InvoiceStore) Load() bool {
	lines, ok := s.files.ReadDataLines(InvoiceFile)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.invoices = nil
	for _, line := range lines {
		if !isRecordLine(line) {
			continue
		}
		invoice, err := parseInvoice(line)
		if err != nil {
			log.Printf("Skipping bad invoice record: %v", err)
			continue
		}
		if s.findLocked(invoice.InvoiceID) != nil {
			log.Printf("Skipping duplicate invoice record %d", invoice.InvoiceID)
			continue
		}
		s.invoices = append(s.invoices, invoice)
		if invoice.InvoiceID >= s.nextID {
			s.nextID = invoice.InvoiceID + 1
		}
	}
	return true
}

// copyInvoice returns a detached copy of the invoice, or nil for nil.
func copyInvoice(inv *models.Invoice) *models.Invoice {
	if inv == nil {
		return nil
	}
	c := *inv
	return &c
}

// findLocked looks an invoice up by ID. Caller must hold s.mu.
func (s *InvoiceStore) findLocked(invoiceID int) *models.Invoice {
	for _, inv := range s.invoices {
		if inv.InvoiceID == invoiceID {
			return inv
		}
	}
	return nil
}

func serializeInvoice(inv *models.Invoice) string {
	return joinFields([]string{
		strconv.Itoa(inv.InvoiceID),
		strconv.Itoa(inv.OrderID),
		strconv.FormatFloat(inv.TotalCost, 'f', -1, 64),
		inv.DateIssued.UTC().Format(time.RFC3339),
	})
}

func parseInvoice(line string) (*models.Invoice, error) {
	fields := splitFields(line)
	if len(fields) != 4 {
		return nil, fmt.Errorf("invoice record has %d fields, want 4", len(fields))
	}

	invoiceID, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("invoice record has bad ID %q: %w", fields[0], err)
	}
	orderID, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invoice %d has bad order ID: %w", invoiceID, err)
	}
	totalCost, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return nil, fmt.Errorf("invoice %d has bad total: %w", invoiceID, err)
	}
	dateIssued, err := time.Parse(time.RFC3339, fields[3])
	if err != nil {
		return nil, fmt.Errorf("invoice %d has bad issue date: %w", invoiceID, err)
	}

	return &models.Invoice{
		InvoiceID:  invoiceID,
		OrderID:    orderID,
		TotalCost:  totalCost,
		DateIssued: dateIssued,
	}, nil
}
