package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFiles(t *testing.T) *DataFileManager {
	t.Helper()
	base := t.TempDir()
	return NewDataFileManager(filepath.Join(base, "data"), filepath.Join(base, "backups"))
}

func TestGetStockDefaultsTo1000(t *testing.T) {
	inv := NewInventoryStore(newTestFiles(t))

	// Any material never explicitly stocked reads as exactly 1000 g
	assert.Equal(t, 1000, inv.GetStock("PLA"))
	assert.Equal(t, 1000, inv.GetStock("PETG"))
	assert.Equal(t, DefaultStockGrams, inv.GetStock("anything"))
}

func TestGetStockBlankNameIsZero(t *testing.T) {
	inv := NewInventoryStore(newTestFiles(t))
	assert.Equal(t, 0, inv.GetStock(""))
}

func TestSetStockIgnoresInvalidInput(t *testing.T) {
	inv := NewInventoryStore(newTestFiles(t))

	inv.SetStock("", 500)
	inv.SetStock("PLA", -1)
	assert.Equal(t, 1000, inv.GetStock("PLA"), "invalid set must not disturb the default")

	inv.SetStock("PLA", 250)
	assert.Equal(t, 250, inv.GetStock("PLA"))
	inv.SetStock("PLA", 0)
	assert.Equal(t, 0, inv.GetStock("PLA"))
}

func TestHasSufficient(t *testing.T) {
	inv := NewInventoryStore(newTestFiles(t))
	inv.SetStock("PLA", 100)

	assert.False(t, inv.HasSufficient("", 10))
	assert.True(t, inv.HasSufficient("PLA", 0))
	assert.True(t, inv.HasSufficient("PLA", -5))
	assert.True(t, inv.HasSufficient("PLA", 100))
	assert.False(t, inv.HasSufficient("PLA", 101))
	assert.True(t, inv.HasSufficient("never-stocked", 1000), "default stock counts")
}

func TestConsumeAllOrNothing(t *testing.T) {
	inv := NewInventoryStore(newTestFiles(t))
	inv.SetStock("PLA", 100)

	assert.False(t, inv.Consume("", 10))
	assert.False(t, inv.Consume("PLA", 0))
	assert.False(t, inv.Consume("PLA", -10))
	assert.Equal(t, 100, inv.GetStock("PLA"), "failed consume must not deduct")

	assert.False(t, inv.Consume("PLA", 101), "insufficient stock rejects the whole amount")
	assert.Equal(t, 100, inv.GetStock("PLA"))

	assert.True(t, inv.Consume("PLA", 60))
	assert.Equal(t, 40, inv.GetStock("PLA"))
	assert.True(t, inv.Consume("PLA", 40))
	assert.Equal(t, 0, inv.GetStock("PLA"))
	assert.False(t, inv.Consume("PLA", 1), "stock never goes negative")
}

func TestConsumeFromDefaultStock(t *testing.T) {
	inv := NewInventoryStore(newTestFiles(t))

	// Consuming from a never-stocked material starts from the default
	assert.True(t, inv.Consume("PLA", 300))
	assert.Equal(t, 700, inv.GetStock("PLA"))
}

func TestRestock(t *testing.T) {
	inv := NewInventoryStore(newTestFiles(t))
	inv.SetStock("PLA", 100)

	inv.Restock("PLA", 50)
	assert.Equal(t, 150, inv.GetStock("PLA"))

	inv.Restock("", 50)
	inv.Restock("PLA", -50)
	assert.Equal(t, 150, inv.GetStock("PLA"))
}

func TestInventoryRoundTrip(t *testing.T) {
	files := newTestFiles(t)
	inv := NewInventoryStore(files)

	inv.SetStock("PLA", 420)
	inv.SetStock("PETG", 0)
	inv.SetStock("Nylon 12", 999)
	require.True(t, inv.Save())

	inv.Clear()
	assert.Equal(t, 1000, inv.GetStock("PLA"), "cleared ledger falls back to defaults")

	require.True(t, inv.Load())
	assert.Equal(t, 420, inv.GetStock("PLA"))
	assert.Equal(t, 0, inv.GetStock("PETG"))
	assert.Equal(t, 999, inv.GetStock("Nylon 12"))
	assert.Equal(t, 3, inv.Count())
}

func TestInventoryLoadSkipsBadRecords(t *testing.T) {
	files := newTestFiles(t)
	require.True(t, files.WriteDataFile(InventoryFile, "# header\nPLA|100\nbroken line\nPETG|-5\nABS|50\n"))

	inv := NewInventoryStore(files)
	require.True(t, inv.Load())

	assert.Equal(t, 100, inv.GetStock("PLA"))
	assert.Equal(t, 50, inv.GetStock("ABS"))
	assert.Equal(t, 2, inv.Count(), "bad records are skipped, good ones keep loading")
}
