package repository

import (
	"errors"

	"fee-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Expose DB if needed
func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}

// OldestEligibleByReference returns the unpaid/partial invoice with the
// earliest due date for an exact reference, or nil when none exists.
// Oldest-debt-first: ties on reference are broken by due_date.
func (r *InvoiceRepository) OldestEligibleByReference(reference string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.
		Where("reference_number = ?", reference).
		Where("status IN ?", models.EligibleInvoiceStatuses).
		Order("due_date ASC").
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Search lists invoices with optional filters, used by the admin UI.
func (r *InvoiceRepository) Search(status, reference, studentID string) ([]models.Invoice, error) {
	var invoices []models.Invoice

	query := r.db.Model(&models.Invoice{}).Order("due_date ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if reference != "" {
		query = query.Where("reference_number = ?", reference)
	}
	if studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}

	err := query.Find(&invoices).Error
	return invoices, err
}

type InvoiceStatusTotal struct {
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Paid        decimal.Decimal `json:"paid"`
}

// TotalsByStatus aggregates count, outstanding and paid sums per status.
func (r *InvoiceRepository) TotalsByStatus() ([]InvoiceStatusTotal, error) {
	var rows []InvoiceStatusTotal
	err := r.db.Model(&models.Invoice{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(outstanding_balance),0) as outstanding, COALESCE(SUM(amount_paid),0) as paid").
		Group("status").
		Scan(&rows).Error
	return rows, err
}
