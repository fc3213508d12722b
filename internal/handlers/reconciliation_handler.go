package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fee-reconciliation-backend/internal/middleware"
	service "fee-reconciliation-backend/internal/services/reconciliation"
	"fee-reconciliation-backend/internal/services/statement"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxStatementSize caps bank-statement uploads at 10MB.
const MaxStatementSize = 10 << 20

type ReconciliationHandler struct {
	service *service.Service
}

func NewReconciliationHandler(s *service.Service) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

// Upload receives a bank-statement CSV, runs the reconciliation batch
// and returns the per-category breakdown.
func (h *ReconciliationHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("bankStatement")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bank statement file required"})
		return
	}
	if file.Size > MaxStatementSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds 10MB limit"})
		return
	}
	if !isCSV(file) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only CSV files are accepted"})
		return
	}

	// Temp copy consumed and removed by the service, success or not.
	dst := filepath.Join(os.TempDir(), uuid.New().String()+".csv")
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	uploadedBy := c.GetString(middleware.ContextUserID)
	result, err := h.service.Reconcile(dst, file.Filename, uploadedBy)
	if errors.Is(err, service.ErrNoValidTransactions) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "No valid transactions found in bank statement",
			"errors":  result.Errors,
		})
		return
	}
	if errors.Is(err, statement.ErrMissingHeader) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summary := result.Summary()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Processed %d transactions", summary.TotalProcessed),
		"summary": summary,
		"results": result,
	})
}

// Logs lists recent reconciliation runs, newest first.
func (h *ReconciliationHandler) Logs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	logs, err := h.service.RecentLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func isCSV(file *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(file.Filename), ".csv") {
		return true
	}
	switch file.Header.Get("Content-Type") {
	case "text/csv", "application/csv", "application/vnd.ms-excel":
		return true
	}
	return false
}
