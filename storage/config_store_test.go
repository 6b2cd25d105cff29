package storage

import (
	"testing"

	"github.com/printhaus/printhaus-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStoreDefaults(t *testing.T) {
	store := NewConfigStore(newTestFiles(t))

	config := store.Get()
	assert.Equal(t, 0.15, config.ElectricityCostPerHour)
	assert.Equal(t, 2.50, config.MachineTimeCostPerHour)
	assert.Equal(t, 5.00, config.BaseSetupCost)
	assert.Equal(t, 0.08, config.TaxRate)
	assert.Equal(t, "USD", config.Currency)
	assert.True(t, config.RushOrdersEnabled)
}

func TestConfigStoreReplaceAndReset(t *testing.T) {
	store := NewConfigStore(newTestFiles(t))

	updated := store.Get()
	updated.TaxRate = 0.2
	updated.RushOrdersEnabled = false
	store.Replace(updated)

	assert.Equal(t, 0.2, store.Get().TaxRate)
	assert.False(t, store.Get().RushOrdersEnabled)

	store.Reset()
	assert.Equal(t, *models.DefaultSystemConfig(), store.Get())
}

func TestConfigStoreRoundTrip(t *testing.T) {
	files := newTestFiles(t)
	store := NewConfigStore(files)

	updated := store.Get()
	updated.ElectricityCostPerHour = 0.22
	updated.TaxRate = 0.19
	updated.Currency = "EUR"
	updated.RushOrdersEnabled = false
	updated.MaxQuantityPerOrder = 42
	store.Replace(updated)
	require.True(t, store.Save())

	store.Reset()
	require.True(t, store.Load())

	loaded := store.Get()
	assert.Equal(t, 0.22, loaded.ElectricityCostPerHour)
	assert.Equal(t, 0.19, loaded.TaxRate)
	assert.Equal(t, "EUR", loaded.Currency)
	assert.False(t, loaded.RushOrdersEnabled)
	assert.Equal(t, 42, loaded.MaxQuantityPerOrder)
}

func TestConfigStoreLoadKeepsDefaultsOnBadRecords(t *testing.T) {
	files := newTestFiles(t)
	require.True(t, files.WriteDataFile(ConfigFile,
		"# config\ntax_rate|0.12\nelectricity_cost_per_hour|not-a-number\nmystery_key|7\n"))

	store := NewConfigStore(files)
	require.True(t, store.Load())

	loaded := store.Get()
	assert.Equal(t, 0.12, loaded.TaxRate)
	assert.Equal(t, 0.15, loaded.ElectricityCostPerHour, "bad value keeps the default")
	assert.Equal(t, "USD", loaded.Currency)
}

func TestConfigStoreLoadMissingFileKeepsDefaults(t *testing.T) {
	store := NewConfigStore(newTestFiles(t))
	require.True(t, store.Load())
	assert.Equal(t, *models.DefaultSystemConfig(), store.Get())
}
