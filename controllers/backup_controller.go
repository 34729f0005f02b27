package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type BackupController struct {
	ledger *services.LedgerService
}

func NewBackupController(ledger *services.LedgerService) *BackupController {
	return &BackupController{ledger: ledger}
}

// GET /backup/export downloads the full-state snapshot. When a bucket is
// configured the artifact is also copied to S3.
func (bc *BackupController) Export(c *gin.Context) {
	snap := bc.ledger.ExportSnapshot()
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := bc.ledger.ExportFilename()
	if os.Getenv("S3_BUCKET") != "" {
		if _, err := utils.UploadSnapshot(raw, filename); err != nil {
			log.Printf("warning: backup upload failed: %v", err)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", raw)
}

// POST /backup/import accepts a previously exported snapshot.
func (bc *BackupController) Import(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body"})
		return
	}

	if err := bc.ledger.ImportSnapshot(raw); err != nil {
		if errors.Is(err, services.ErrFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "data imported successfully"})
}
