package storage

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/printhaus/printhaus-api/models"
)

// ConfigFile is the data file backing the system configuration.
const ConfigFile = "config.txt"

// ConfigStore holds the shop's SystemConfig and persists it as key|value
// lines. There is no versioning: the last writer wins.
type ConfigStore struct {
	mu     sync.Mutex
	files  *DataFileManager
	config *models.SystemConfig
}

// NewConfigStore creates a config store holding the default SystemConfig.
func NewConfigStore(files *DataFileManager) *ConfigStore {
	return &ConfigStore{files: files, config: models.DefaultSystemConfig()}
}

// Get returns a copy of the current configuration.
func (s *ConfigStore) Get() models.SystemConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.config
}

// Replace swaps in a new configuration wholesale.
func (s *ConfigStore) Replace(config models.SystemConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = &config
}

// Reset restores the hard-coded defaults.
func (s *ConfigStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = models.DefaultSystemConfig()
}

// Save serializes the configuration to its data file.
func (s *ConfigStore) Save() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.config
	lines := fileHeader("config", time.Now())
	lines = append(lines,
		configLine("electricity_cost_per_hour", strconv.FormatFloat(c.ElectricityCostPerHour, 'f', -1, 64)),
		configLine("machine_time_cost_per_hour", strconv.FormatFloat(c.MachineTimeCostPerHour, 'f', -1, 64)),
		configLine("base_setup_cost", strconv.FormatFloat(c.BaseSetupCost, 'f', -1, 64)),
		configLine("tax_rate", strconv.FormatFloat(c.TaxRate, 'f', -1, 64)),
		configLine("currency", c.Currency),
		configLine("rush_orders_enabled", strconv.FormatBool(c.RushOrdersEnabled)),
		configLine("rush_surcharge_rate", strconv.FormatFloat(c.RushSurchargeRate, 'f', -1, 64)),
		configLine("max_quantity_per_order", strconv.Itoa(c.MaxQuantityPerOrder)),
		configLine("max_active_orders_per_user", strconv.Itoa(c.MaxActiveOrdersPerUser)),
	)
	return s.files.WriteDataFile(ConfigFile, joinLines(lines))
}

// Load reloads the configuration from its data file. Settings start from
// the defaults and each parsed line overrides one of them, so a missing
// file or an unknown key just leaves the default in place.
func (s *ConfigStore) Load() bool {
	lines, ok := s.files.ReadDataLines(ConfigFile)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	config := models.DefaultSystemConfig()
	for _, line := range lines {
		if !isRecordLine(line) {
			continue
		}
		if err := applyConfigLine(config, line); err != nil {
			log.Printf("Skipping bad config record: %v", err)
		}
	}
	s.config = config
	return true
}

func configLine(key, value string) string {
	return joinFields([]string{key, value})
}

// applyConfigLine parses one key|value record and applies it to the config.
func applyConfigLine(c *models.SystemConfig, line string) error {
	fields := splitFields(line)
	if len(fields) != 2 {
		return fmt.Errorf("config record has %d fields, want 2", len(fields))
	}
	key, value := fields[0], fields[1]

	switch key {
	case "electricity_cost_per_hour":
		return setFloat(&c.ElectricityCostPerHour, key, value)
	case "machine_time_cost_per_hour":
		return setFloat(&c.MachineTimeCostPerHour, key, value)
	case "base_setup_cost":
		return setFloat(&c.BaseSetupCost, key, value)
	case "tax_rate":
		return setFloat(&c.TaxRate, key, value)
	case "currency":
		c.Currency = value
		return nil
	case "rush_orders_enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config %s has bad value %q: %w", key, value, err)
		}
		c.RushOrdersEnabled = enabled
		return nil
	case "rush_surcharge_rate":
		return setFloat(&c.RushSurchargeRate, key, value)
	case "max_quantity_per_order":
		return setInt(&c.MaxQuantityPerOrder, key, value)
	case "max_active_orders_per_user":
		return setInt(&c.MaxActiveOrdersPerUser, key, value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
}

func setFloat(dst *float64, key, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("config %s has bad value %q: %w", key, value, err)
	}
	*dst = v
	return nil
}

func setInt(dst *int, key, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("config %s has bad value %q: %w", key, value, err)
	}
	*dst = v
	return nil
}
