package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for the older toolchain.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	chdir(t, t.TempDir()) // no .env files in sight

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test", cfg.GoEnv)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "data/backups", cfg.BackupDir)
	assert.Equal(t, 5, cfg.BackupKeepCount)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/printhaus")
	t.Setenv("BACKUP_DIR", "/var/lib/printhaus/backups")
	t.Setenv("BACKUP_KEEP_COUNT", "9")
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/var/lib/printhaus", cfg.DataDir)
	assert.Equal(t, "/var/lib/printhaus/backups", cfg.BackupDir)
	assert.Equal(t, 9, cfg.BackupKeepCount)
}

func TestLoadRejectsBadRetention(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("BACKUP_KEEP_COUNT", "0")
	chdir(t, t.TempDir())

	_, err := Load()
	assert.Error(t, err)
}

func TestBadIntegerFallsBackToDefault(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("BACKUP_KEEP_COUNT", "lots")
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.BackupKeepCount)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DataDir: "data", BackupDir: "backups", BackupKeepCount: 1}
	assert.NoError(t, cfg.Validate())

	assert.Error(t, (&Config{BackupDir: "b", BackupKeepCount: 1}).Validate())
	assert.Error(t, (&Config{DataDir: "d", BackupKeepCount: 1}).Validate())
	assert.Error(t, (&Config{DataDir: "d", BackupDir: "b"}).Validate())
}
