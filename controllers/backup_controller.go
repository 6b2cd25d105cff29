package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printhaus/printhaus-api/services"
)

// RestoreRequest represents the request body for a restore operation.
// Backup is optional: when absent, the latest backup of the file is used.
type RestoreRequest struct {
	Filename string `json:"filename" binding:"required"`
	Backup   string `json:"backup"`
}

// BackupController exposes backup rotation to admins. All routes are admin
// only, gated by the router. Failures surface as error envelopes, mirroring
// the boolean results of the backup layer; disk trouble never crashes a
// request.
type BackupController struct {
	backups *services.BackupService
}

// NewBackupController creates a backup controller
func NewBackupController(backups *services.BackupService) *BackupController {
	return &BackupController{backups: backups}
}

// Create handles POST /api/v1/backups - snapshots every data file
func (ctl *BackupController) Create(c *gin.Context) {
	created := ctl.backups.BackupAll()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"backups_created": created},
	})
}

// List handles GET /api/v1/backups/:filename - lists a data file's backups
// in chronological order
func (ctl *BackupController) List(c *gin.Context) {
	backups := ctl.backups.ListBackups(c.Param("filename"))
	if backups == nil {
		backups = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    backups,
	})
}

// Restore handles POST /api/v1/backups/restore - restores a data file from
// a named backup, or from its latest backup when none is named
func (ctl *BackupController) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	var restored bool
	if req.Backup != "" {
		restored = ctl.backups.Restore(req.Backup, req.Filename)
	} else {
		restored = ctl.backups.RestoreLatest(req.Filename)
	}
	if !restored {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RESTORE_FAILED",
				"message": "No matching backup exists or the restore failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"restored": req.Filename},
	})
}

// Cleanup handles POST /api/v1/backups/cleanup - prunes old backups per the
// retention policy and reports how many were deleted
func (ctl *BackupController) Cleanup(c *gin.Context) {
	deleted := ctl.backups.Cleanup()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"backups_deleted": deleted},
	})
}
