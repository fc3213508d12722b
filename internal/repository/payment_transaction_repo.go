package repository

import (
	"time"

	"fee-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentTransactionRepository struct {
	db *gorm.DB
}

func NewPaymentTransactionRepository(db *gorm.DB) *PaymentTransactionRepository {
	return &PaymentTransactionRepository{db: db}
}

// Exists reports whether a payment with the identical raw reference,
// amount and calendar date was already recorded. The check is
// string-exact on the incoming reference, not on the fuzzily resolved
// invoice reference.
func (r *PaymentTransactionRepository) Exists(reference string, amount decimal.Decimal, date time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.PaymentTransaction{}).
		Where("reference_number = ? AND amount = ? AND transaction_date = ?", reference, amount, date).
		Count(&count).Error
	return count > 0, err
}

func (r *PaymentTransactionRepository) Create(payment *models.PaymentTransaction) error {
	return r.db.Create(payment).Error
}

func (r *PaymentTransactionRepository) ListByInvoice(invoiceID uuid.UUID) ([]models.PaymentTransaction, error) {
	var payments []models.PaymentTransaction
	err := r.db.
		Where("invoice_id = ?", invoiceID).
		Order("transaction_date ASC").
		Find(&payments).Error
	return payments, err
}
