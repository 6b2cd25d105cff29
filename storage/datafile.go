package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// backupTimestampFormat is fixed-width and zero-padded, so lexicographic
// order of backup filenames equals chronological order.
const backupTimestampFormat = "20060102_150405"

// DataFileManager is the shared low-level file utility behind every
// registry: directory bootstrap, atomic writes, and timestamped backup
// creation, listing, restore and retention cleanup.
//
// Disk trouble never propagates as an error to the business layer. Every
// I/O failure is logged and reported as a false/zero result instead.
type DataFileManager struct {
	dataDir   string
	backupDir string

	// now is the clock used for backup timestamps; overridable in tests
	now func() time.Time
}

// NewDataFileManager creates a manager rooted at the given data and backup
// directories. The directories are created lazily on first use.
func NewDataFileManager(dataDir, backupDir string) *DataFileManager {
	return &DataFileManager{
		dataDir:   dataDir,
		backupDir: backupDir,
		now:       time.Now,
	}
}

// DataDir returns the data directory path.
func (m *DataFileManager) DataDir() string {
	return m.dataDir
}

// BackupDir returns the backup directory path.
func (m *DataFileManager) BackupDir() string {
	return m.backupDir
}

// EnsureDataDirectory creates the data directory if it does not exist.
// Idempotent; returns false only if creation fails.
func (m *DataFileManager) EnsureDataDirectory() bool {
	if err := os.MkdirAll(m.dataDir, 0755); err != nil {
		log.Printf("Failed to create data directory %s: %v", m.dataDir, err)
		return false
	}
	return true
}

// EnsureBackupDirectory creates the backup directory if it does not exist.
// Idempotent; returns false only if creation fails.
func (m *DataFileManager) EnsureBackupDirectory() bool {
	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		log.Printf("Failed to create backup directory %s: %v", m.backupDir, err)
		return false
	}
	return true
}

// DataFilePath returns the full path of a data file by name.
func (m *DataFileManager) DataFilePath(filename string) string {
	return filepath.Join(m.dataDir, filename)
}

// WriteDataFile writes the full content of a data file atomically relative
// to readers: the content goes to a temp file first and is then renamed
// over the target, so a partially written file is never visible.
func (m *DataFileManager) WriteDataFile(filename, content string) bool {
	if !m.EnsureDataDirectory() {
		return false
	}

	tmp, err := os.CreateTemp(m.dataDir, filename+".tmp-*")
	if err != nil {
		log.Printf("Failed to create temp file for %s: %v", filename, err)
		return false
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		log.Printf("Failed to write %s: %v", filename, err)
		tmp.Close()
		os.Remove(tmpName)
		return false
	}
	if err := tmp.Close(); err != nil {
		log.Printf("Failed to close temp file for %s: %v", filename, err)
		os.Remove(tmpName)
		return false
	}

	if err := os.Rename(tmpName, m.DataFilePath(filename)); err != nil {
		log.Printf("Failed to replace %s: %v", filename, err)
		os.Remove(tmpName)
		return false
	}
	return true
}

// ReadDataLines reads a data file and returns its raw lines. A missing file
// is not an error: it reads as zero lines with ok=true, so a registry that
// has never been saved loads as empty.
func (m *DataFileManager) ReadDataLines(filename string) ([]string, bool) {
	content, err := os.ReadFile(m.DataFilePath(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, true
		}
		log.Printf("Failed to read %s: %v", filename, err)
		return nil, false
	}

	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return strings.Split(text, "\n"), true
}

// CreateBackup copies the current data file into the backup directory under
// <base>_<yyyyMMdd_HHmmss>.txt. Returns false if the source file does not
// exist yet (there is no backup of nothing) or if a backup already carries
// this second's name, since existing backups are never overwritten.
func (m *DataFileManager) CreateBackup(filename string) bool {
	source := m.DataFilePath(filename)
	if _, err := os.Stat(source); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to stat %s for backup: %v", filename, err)
		}
		return false
	}

	if !m.EnsureBackupDirectory() {
		return false
	}

	backupName := m.backupName(filename, m.now())
	target := filepath.Join(m.backupDir, backupName)

	// Backup names carry second-resolution timestamps. A name that is
	// already taken belongs to an earlier backup, and backups are never
	// overwritten.
	if _, err := os.Stat(target); err == nil {
		log.Printf("Backup %s already exists, not overwriting", backupName)
		return false
	}

	if err := copyFile(source, target); err != nil {
		log.Printf("Failed to back up %s: %v", filename, err)
		return false
	}

	log.Printf("Created backup %s", backupName)
	return true
}

// ListBackupsForFile returns every backup of the named data file, sorted
// lexicographically. Because the timestamp suffix is fixed-width, the
// listing is in true chronological order of creation.
func (m *DataFileManager) ListBackupsForFile(filename string) []string {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to list backup directory: %v", err)
		}
		return nil
	}

	prefix := baseName(filename) + "_"
	var backups []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".txt") {
			backups = append(backups, name)
		}
	}

	sort.Strings(backups)
	return backups
}

// RestoreFromBackup copies the named backup over the target data file.
// Whatever currently occupies the target path is backed up first, so a
// restore can itself be undone. Fails if the named backup does not exist.
func (m *DataFileManager) RestoreFromBackup(backupFilename, targetFilename string) bool {
	backupPath := filepath.Join(m.backupDir, backupFilename)
	if _, err := os.Stat(backupPath); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to stat backup %s: %v", backupFilename, err)
		}
		return false
	}

	// Restore-of-restore safety: snapshot the current target, if any.
	if _, err := os.Stat(m.DataFilePath(targetFilename)); err == nil {
		if !m.CreateBackup(targetFilename) {
			log.Printf("Failed to snapshot %s before restore", targetFilename)
			return false
		}
	}

	if !m.EnsureDataDirectory() {
		return false
	}
	if err := copyFile(backupPath, m.DataFilePath(targetFilename)); err != nil {
		log.Printf("Failed to restore %s from %s: %v", targetFilename, backupFilename, err)
		return false
	}

	log.Printf("Restored %s from %s", targetFilename, backupFilename)
	return true
}

// RestoreFromLatestBackup restores the most recent backup of the named data
// file. Fails if no backup exists.
func (m *DataFileManager) RestoreFromLatestBackup(filename string) bool {
	backups := m.ListBackupsForFile(filename)
	if len(backups) == 0 {
		log.Printf("No backups found for %s", filename)
		return false
	}
	return m.RestoreFromBackup(backups[len(backups)-1], filename)
}

// CleanupOldBackups deletes the oldest backups of the named data file until
// at most keepCount remain, and returns the number deleted. A negative
// keepCount is treated as zero.
func (m *DataFileManager) CleanupOldBackups(filename string, keepCount int) int {
	if keepCount < 0 {
		keepCount = 0
	}

	backups := m.ListBackupsForFile(filename)
	excess := len(backups) - keepCount
	if excess <= 0 {
		return 0
	}

	deleted := 0
	for _, name := range backups[:excess] {
		if err := os.Remove(filepath.Join(m.backupDir, name)); err != nil {
			log.Printf("Failed to delete backup %s: %v", name, err)
			continue
		}
		deleted++
	}
	return deleted
}

// CleanupAllOldBackups applies the retention policy to every data file
// present in the data directory and returns the total number of backups
// deleted.
func (m *DataFileManager) CleanupAllOldBackups(keepCount int) int {
	total := 0
	for _, filename := range m.ListDataFiles() {
		total += m.CleanupOldBackups(filename, keepCount)
	}
	return total
}

// ListDataFiles returns the names of the .txt data files currently on disk.
func (m *DataFileManager) ListDataFiles() []string {
	entries, err := os.ReadDir(m.dataDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to list data directory: %v", err)
		}
		return nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
			files = append(files, entry.Name())
		}
	}
	return files
}

// backupName builds the timestamped backup filename for a data file.
func (m *DataFileManager) backupName(filename string, at time.Time) string {
	return fmt.Sprintf("%s_%s.txt", baseName(filename), at.Format(backupTimestampFormat))
}

// baseName strips the .txt extension from a data file name.
func baseName(filename string) string {
	return strings.TrimSuffix(filename, ".txt")
}

// copyFile copies src to dst through a temp file plus rename, so readers
// never observe a half-copied file.
func copyFile(src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, dst)
}
