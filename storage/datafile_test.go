package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestManager returns a manager rooted in a temp dir with a fake clock
// that advances one second per backup, so sequential backups never collide
// on the timestamp.
func newTestManager(t *testing.T) *DataFileManager {
	t.Helper()

	base := t.TempDir()
	m := NewDataFileManager(filepath.Join(base, "data"), filepath.Join(base, "backups"))

	current := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	m.now = func() time.Time {
		current = current.Add(time.Second)
		return current
	}
	return m
}

func TestEnsureDirectoriesIdempotent(t *testing.T) {
	m := newTestManager(t)

	assert.True(t, m.EnsureDataDirectory())
	assert.True(t, m.EnsureDataDirectory())
	assert.True(t, m.EnsureBackupDirectory())
	assert.True(t, m.EnsureBackupDirectory())
}

func TestWriteAndReadDataFile(t *testing.T) {
	m := newTestManager(t)

	assert.True(t, m.WriteDataFile("materials.txt", "# header\nPLA|0.02|200|white\n"))

	lines, ok := m.ReadDataLines("materials.txt")
	require.True(t, ok)
	assert.Contains(t, lines, "PLA|0.02|200|white")

	// No temp files should survive the atomic write
	entries, err := os.ReadDir(m.DataDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadMissingFileIsEmptySuccess(t *testing.T) {
	m := newTestManager(t)

	lines, ok := m.ReadDataLines("never-written.txt")
	assert.True(t, ok)
	assert.Empty(t, lines)
}

func TestCreateBackupOfMissingFileFails(t *testing.T) {
	m := newTestManager(t)
	assert.False(t, m.CreateBackup("materials.txt"), "there is no backup of nothing")
}

func TestBackupListingIsChronological(t *testing.T) {
	m := newTestManager(t)

	for i := 0; i < 4; i++ {
		require.True(t, m.WriteDataFile("orders.txt", "content\n"))
		require.True(t, m.CreateBackup("orders.txt"))
	}

	backups := m.ListBackupsForFile("orders.txt")
	require.Len(t, backups, 4)
	for i := 1; i < len(backups); i++ {
		assert.Less(t, backups[i-1], backups[i], "listing must be in creation order")
	}
	for _, name := range backups {
		assert.Regexp(t, `^orders_\d{8}_\d{6}\.txt$`, name)
	}
}

func TestListBackupsFiltersByBaseName(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.WriteDataFile("orders.txt", "orders\n"))
	require.True(t, m.WriteDataFile("users.txt", "users\n"))
	require.True(t, m.CreateBackup("orders.txt"))
	require.True(t, m.CreateBackup("users.txt"))

	assert.Len(t, m.ListBackupsForFile("orders.txt"), 1)
	assert.Len(t, m.ListBackupsForFile("users.txt"), 1)
	assert.Empty(t, m.ListBackupsForFile("invoices.txt"))
}

func TestRestoreFromLatestBackup(t *testing.T) {
	m := newTestManager(t)

	for _, content := range []string{"first\n", "second\n", "third\n"} {
		require.True(t, m.WriteDataFile("orders.txt", content))
		require.True(t, m.CreateBackup("orders.txt"))
	}
	require.True(t, m.WriteDataFile("orders.txt", "current\n"))

	require.True(t, m.RestoreFromLatestBackup("orders.txt"))

	content, err := os.ReadFile(m.DataFilePath("orders.txt"))
	require.NoError(t, err)
	assert.Equal(t, "third\n", string(content), "latest backup wins")
}

func TestRestoreFromLatestBackupWithoutBackups(t *testing.T) {
	m := newTestManager(t)
	assert.False(t, m.RestoreFromLatestBackup("orders.txt"))
}

func TestRestoreSnapshotsTargetFirst(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.WriteDataFile("orders.txt", "old\n"))
	require.True(t, m.CreateBackup("orders.txt"))
	backups := m.ListBackupsForFile("orders.txt")
	require.Len(t, backups, 1)

	require.True(t, m.WriteDataFile("orders.txt", "current\n"))
	require.True(t, m.RestoreFromBackup(backups[0], "orders.txt"))

	// The pre-restore content must itself have been backed up
	after := m.ListBackupsForFile("orders.txt")
	require.Len(t, after, 2)

	content, err := os.ReadFile(filepath.Join(m.BackupDir(), after[1]))
	require.NoError(t, err)
	assert.Equal(t, "current\n", string(content))
}

func TestRestoreFromUnknownBackupFails(t *testing.T) {
	m := newTestManager(t)
	require.True(t, m.WriteDataFile("orders.txt", "content\n"))
	assert.False(t, m.RestoreFromBackup("orders_20200101_000000.txt", "orders.txt"))
}

func TestCleanupOldBackups(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.WriteDataFile("materials.txt", "content\n"))
	for i := 0; i < 5; i++ {
		require.True(t, m.CreateBackup("materials.txt"))
	}
	before := m.ListBackupsForFile("materials.txt")
	require.Len(t, before, 5)

	deleted := m.CleanupOldBackups("materials.txt", 2)
	assert.Equal(t, 3, deleted)

	after := m.ListBackupsForFile("materials.txt")
	require.Len(t, after, 2)
	// The newest two must survive
	assert.Equal(t, before[3:], after)
}

func TestCleanupBelowKeepCountIsNoOp(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.WriteDataFile("materials.txt", "content\n"))
	require.True(t, m.CreateBackup("materials.txt"))

	assert.Equal(t, 0, m.CleanupOldBackups("materials.txt", 2))
	assert.Len(t, m.ListBackupsForFile("materials.txt"), 1)
}

func TestCleanupAllOldBackups(t *testing.T) {
	m := newTestManager(t)

	for _, file := range []string{"orders.txt", "users.txt"} {
		require.True(t, m.WriteDataFile(file, "content\n"))
		for i := 0; i < 3; i++ {
			require.True(t, m.CreateBackup(file))
		}
	}

	assert.Equal(t, 4, m.CleanupAllOldBackups(1))
	assert.Len(t, m.ListBackupsForFile("orders.txt"), 1)
	assert.Len(t, m.ListBackupsForFile("users.txt"), 1)
}

func TestBackupNeverOverwritesSameSecondBackup(t *testing.T) {
	base := t.TempDir()
	m := NewDataFileManager(filepath.Join(base, "data"), filepath.Join(base, "backups"))

	// Freeze the clock so both backups land on the same name
	frozen := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	m.now = func() time.Time { return frozen }

	require.True(t, m.WriteDataFile("orders.txt", "first snapshot\n"))
	require.True(t, m.CreateBackup("orders.txt"))

	require.True(t, m.WriteDataFile("orders.txt", "second snapshot\n"))
	assert.False(t, m.CreateBackup("orders.txt"), "same-second backup must not replace an existing one")

	backups := m.ListBackupsForFile("orders.txt")
	require.Len(t, backups, 1)

	content, err := os.ReadFile(filepath.Join(base, "backups", backups[0]))
	require.NoError(t, err)
	assert.Equal(t, "first snapshot\n", string(content))
}
