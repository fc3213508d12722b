package reconciliation

import (
	"time"

	"fee-reconciliation-backend/internal/models"
	"fee-reconciliation-backend/internal/services/statement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// applyPayment mutates the resolved invoice per the payment state
// table and appends the immutable PaymentTransaction row. It must run
// inside the caller's per-row database transaction. The invoice struct
// is updated in place so the caller can report the new state.
func applyPayment(db *gorm.DB, invoice *models.Invoice, tx *statement.Transaction) (string, error) {
	outstanding := invoice.OutstandingBalance
	if outstanding.IsZero() {
		outstanding = invoice.AmountDue
	}

	var category string
	switch cmp := tx.Amount.Cmp(outstanding); {
	case cmp == 0:
		invoice.Status = models.InvoiceStatusPaid
		invoice.OutstandingBalance = decimal.Zero
		invoice.OverpaidAmount = decimal.Zero
		category = CategoryMatched
	case cmp > 0:
		invoice.Status = models.InvoiceStatusOverpaid
		invoice.OutstandingBalance = decimal.Zero
		invoice.OverpaidAmount = tx.Amount.Sub(outstanding)
		category = CategoryOverpaid
	default:
		invoice.Status = models.InvoiceStatusPartial
		invoice.OutstandingBalance = outstanding.Sub(tx.Amount)
		invoice.OverpaidAmount = decimal.Zero
		category = CategoryPartial
	}
	invoice.AmountPaid = invoice.AmountPaid.Add(tx.Amount)

	// Map form so zero decimals are written too.
	err := db.Model(&models.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"status":              invoice.Status,
			"amount_paid":         invoice.AmountPaid,
			"outstanding_balance": invoice.OutstandingBalance,
			"overpaid_amount":     invoice.OverpaidAmount,
		}).Error
	if err != nil {
		return "", err
	}

	payment := &models.PaymentTransaction{
		ID:              uuid.New(),
		InvoiceID:       invoice.ID,
		StudentID:       invoice.StudentID,
		ReferenceNumber: tx.Reference,
		Amount:          tx.Amount,
		TransactionDate: tx.Date,
		Description:     tx.Description,
		CreatedAt:       time.Now(),
	}
	if err := db.Create(payment).Error; err != nil {
		return "", err
	}

	return category, nil
}
