package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses. An invoice is only a reconciliation target while
// unpaid or partially paid.
const (
	InvoiceStatusUnpaid   = "unpaid"
	InvoiceStatusPartial  = "partial"
	InvoiceStatusPaid     = "paid"
	InvoiceStatusOverpaid = "overpaid"
)

var EligibleInvoiceStatuses = []string{InvoiceStatusUnpaid, InvoiceStatusPartial}

type Invoice struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID          string          `gorm:"index" json:"student_id"`
	ReferenceNumber    string          `gorm:"index" json:"reference_number"`
	AmountDue          decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount_due"`
	AmountPaid         decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount_paid"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(12,2)" json:"outstanding_balance"`
	OverpaidAmount     decimal.Decimal `gorm:"type:decimal(12,2)" json:"overpaid_amount"`
	Status             string          `gorm:"index" json:"status"`
	DueDate            time.Time       `json:"due_date"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// NewInvoice builds a fresh unpaid invoice with the derived balances
// initialized so the matcher never sees an inconsistent row.
func NewInvoice(studentID, referenceNumber string, amountDue decimal.Decimal, dueDate time.Time) *Invoice {
	return &Invoice{
		ID:                 uuid.New(),
		StudentID:          studentID,
		ReferenceNumber:    referenceNumber,
		AmountDue:          amountDue,
		AmountPaid:         decimal.Zero,
		OutstandingBalance: amountDue,
		OverpaidAmount:     decimal.Zero,
		Status:             InvoiceStatusUnpaid,
		DueDate:            dueDate,
		CreatedAt:          time.Now(),
	}
}
