package services

import (
	"log"

	"github.com/printhaus/printhaus-api/storage"
)

// BackupService drives the timestamped backup rotation on top of the file
// manager: snapshot every data file, prune by the retention policy, and
// restore. Failures are logged and reported as counts/booleans, never as
// crashes, so disk trouble cannot take the business layer down.
type BackupService struct {
	files     *storage.DataFileManager
	keepCount int
}

// NewBackupService creates a backup service retaining keepCount backups per
// data file.
func NewBackupService(files *storage.DataFileManager, keepCount int) *BackupService {
	return &BackupService{files: files, keepCount: keepCount}
}

// BackupFile snapshots a single data file.
func (s *BackupService) BackupFile(filename string) bool {
	return s.files.CreateBackup(filename)
}

// BackupAll snapshots every data file currently on disk and returns the
// number of backups created.
func (s *BackupService) BackupAll() int {
	created := 0
	for _, filename := range s.files.ListDataFiles() {
		if s.files.CreateBackup(filename) {
			created++
		} else {
			log.Printf("Backup of %s failed", filename)
		}
	}
	return created
}

// ListBackups returns the backups of a data file in chronological order.
func (s *BackupService) ListBackups(filename string) []string {
	return s.files.ListBackupsForFile(filename)
}

// Restore overwrites a data file with the named backup, snapshotting the
// current file first.
func (s *BackupService) Restore(backupFilename, targetFilename string) bool {
	return s.files.RestoreFromBackup(backupFilename, targetFilename)
}

// RestoreLatest overwrites a data file with its most recent backup.
func (s *BackupService) RestoreLatest(filename string) bool {
	return s.files.RestoreFromLatestBackup(filename)
}

// CleanupFile prunes a single data file's backups down to the retention
// limit and returns the number deleted.
func (s *BackupService) CleanupFile(filename string) int {
	return s.files.CleanupOldBackups(filename, s.keepCount)
}

// Cleanup prunes every data file's backups down to the retention limit and
// returns the total number deleted.
func (s *BackupService) Cleanup() int {
	return s.files.CleanupAllOldBackups(s.keepCount)
}
