package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentTransaction is the immutable audit row written for every bank
// transaction that was applied to an invoice. The triple
// (reference_number, amount, transaction_date) is the duplicate-detection
// key; reference_number holds the raw incoming reference, not the
// resolved invoice reference.
type PaymentTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;index" json:"invoice_id"`
	StudentID       string          `gorm:"index" json:"student_id"`
	ReferenceNumber string          `gorm:"index" json:"reference_number"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	TransactionDate time.Time       `gorm:"index" json:"transaction_date"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}
