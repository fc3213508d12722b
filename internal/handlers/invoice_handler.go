package handler

import (
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"time"

	"fee-reconciliation-backend/internal/config"
	"fee-reconciliation-backend/internal/models"
	"fee-reconciliation-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceHandler struct {
	invoiceRepo *repository.InvoiceRepository
	paymentRepo *repository.PaymentTransactionRepository
}

func NewInvoiceHandler(
	invoiceRepo *repository.InvoiceRepository,
	paymentRepo *repository.PaymentTransactionRepository,
) *InvoiceHandler {
	return &InvoiceHandler{invoiceRepo: invoiceRepo, paymentRepo: paymentRepo}
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var payload struct {
		StudentID       string          `json:"student_id"`
		ReferenceNumber string          `json:"reference_number"`
		AmountDue       decimal.Decimal `json:"amount_due"`
		DueDate         string          `json:"due_date"` // "yyyy-mm-dd"
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.ReferenceNumber == "" || !payload.AmountDue.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference number and positive amount required"})
		return
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date, expected yyyy-mm-dd"})
		return
	}

	invoice := models.NewInvoice(payload.StudentID, payload.ReferenceNumber, payload.AmountDue, dueDate)
	if err := h.invoiceRepo.Create(invoice); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "invoice created", "invoice": invoice})
}

// UploadCSV bulk-imports fee invoices. Expected named columns:
// reference_number, student_id, amount_due, due_date. Rows that fail
// validation are skipped and counted, the import continues.
func (h *InvoiceHandler) UploadCSV(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read CSV header"})
		return
	}
	col := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	log := config.GetLogger()
	inserted := 0
	skipped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		reference := cell(record, col, "reference_number")
		amount, amountErr := decimal.NewFromString(cell(record, col, "amount_due"))
		dueDate, dateErr := parseDueDate(cell(record, col, "due_date"))
		if reference == "" || amountErr != nil || !amount.IsPositive() || dateErr != nil {
			skipped++
			continue
		}

		invoice := models.NewInvoice(cell(record, col, "student_id"), reference, amount, dueDate)
		if err := h.invoiceRepo.Create(invoice); err != nil {
			config.LogError(log, "handlers", "UploadCSV", reference, err)
			skipped++
			continue
		}
		inserted++
	}

	c.JSON(http.StatusOK, gin.H{
		"file":            header.Filename,
		"invoicesAdded":   inserted,
		"invoicesSkipped": skipped,
	})
}

func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoiceRepo.Search(
		c.Query("status"),
		c.Query("reference"),
		c.Query("student_id"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// Get returns one invoice with its payment history.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}

	invoice, err := h.invoiceRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	payments, err := h.paymentRepo.ListByInvoice(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice, "payments": payments})
}

func (h *InvoiceHandler) Stats(c *gin.Context) {
	totals, err := h.invoiceRepo.TotalsByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

func parseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		d, err = time.Parse("02-01-2006", s)
	}
	return d, err
}

func cell(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
