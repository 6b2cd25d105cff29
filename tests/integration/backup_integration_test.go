package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhaus/printhaus-api/storage"
	"github.com/printhaus/printhaus-api/tests/testutil"
)

// TestBackupRetentionOverAPI verifies the retention policy through the API:
// repeated snapshots accumulate and cleanup prunes down to the keep count.
// Backup names carry second-resolution timestamps, so the rounds are spaced
// out to land on distinct names.
func TestBackupRetentionOverAPI(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Seed(t)

	rounds := 4
	for i := 0; i < rounds; i++ {
		if i > 0 {
			time.Sleep(1100 * time.Millisecond)
		}
		w, _ := env.Do(t, http.MethodPost, "/api/v1/backups", "root", nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, response := env.Do(t, http.MethodGet, "/api/v1/backups/"+storage.UserFile, "root", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"].([]interface{}), rounds)

	// The environment keeps 3 backups per file
	w, response = env.Do(t, http.MethodPost, "/api/v1/backups/cleanup", "root", nil)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := response["data"].(map[string]interface{})["backups_deleted"].(float64)
	assert.Equal(t, float64(3), deleted, "one excess backup of each of the three seeded files")

	w, response = env.Do(t, http.MethodGet, "/api/v1/backups/"+storage.UserFile, "root", nil)
	require.Equal(t, http.StatusOK, w.Code)
	names := response["data"].([]interface{})
	assert.Len(t, names, 3)

	// Survivors are the newest: the listing is chronological
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1].(string), names[i].(string))
	}
}

// TestRestoreNamedBackup restores a specific historical snapshot rather
// than the latest one.
func TestRestoreNamedBackup(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Seed(t)

	// Snapshot the original catalog
	require.True(t, env.Files.CreateBackup(storage.MaterialFile))
	w, response := env.Do(t, http.MethodGet, "/api/v1/backups/"+storage.MaterialFile, "root", nil)
	require.Equal(t, http.StatusOK, w.Code)
	original := response["data"].([]interface{})[0].(string)

	// Grow the catalog and snapshot again
	time.Sleep(1100 * time.Millisecond)
	w, _ = env.Do(t, http.MethodPost, "/api/v1/materials", "root", map[string]interface{}{
		"name":          "PETG",
		"cost_per_gram": 0.03,
		"print_temp":    230,
		"color":         "clear",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Files.CreateBackup(storage.MaterialFile))

	// Roll back to the first snapshot by name
	time.Sleep(1100 * time.Millisecond)
	w, _ = env.Do(t, http.MethodPost, "/api/v1/backups/restore", "root", map[string]interface{}{
		"filename": storage.MaterialFile,
		"backup":   original,
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.True(t, env.Materials.Load())
	assert.NotNil(t, env.Materials.GetByName("PLA"))
	assert.Nil(t, env.Materials.GetByName("PETG"))
}
