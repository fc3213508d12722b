package reconciliation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Result categories. Every parsed transaction lands in exactly one.
const (
	CategoryMatched   = "matched"
	CategoryPartial   = "partial"
	CategoryOverpaid  = "overpaid"
	CategoryUnmatched = "unmatched"
	CategoryDuplicate = "duplicate"
	CategoryError     = "error"
)

// Outcome is one transaction's final classification, with the invoice
// context when one was touched.
type Outcome struct {
	Reference          string           `json:"reference"`
	Amount             decimal.Decimal  `json:"amount"`
	TransactionDate    time.Time        `json:"transaction_date"`
	Description        string           `json:"description,omitempty"`
	InvoiceID          *uuid.UUID       `json:"invoice_id,omitempty"`
	StudentID          string           `json:"student_id,omitempty"`
	InvoiceReference   string           `json:"invoice_reference,omitempty"`
	InvoiceStatus      string           `json:"invoice_status,omitempty"`
	OutstandingBalance *decimal.Decimal `json:"outstanding_balance,omitempty"`
	OverpaidAmount     *decimal.Decimal `json:"overpaid_amount,omitempty"`
}

// ErrorEntry covers both parse rejections (raw row + reason) and
// per-row persistence failures (reference + error message).
type ErrorEntry struct {
	Row       map[string]string `json:"row,omitempty"`
	Reference string            `json:"reference,omitempty"`
	Reason    string            `json:"reason"`
}

type Result struct {
	Matched    []Outcome    `json:"matched"`
	Partial    []Outcome    `json:"partial"`
	Overpaid   []Outcome    `json:"overpaid"`
	Unmatched  []Outcome    `json:"unmatched"`
	Duplicates []Outcome    `json:"duplicates"`
	Errors     []ErrorEntry `json:"errors"`
}

func newResult() *Result {
	return &Result{
		Matched:    []Outcome{},
		Partial:    []Outcome{},
		Overpaid:   []Outcome{},
		Unmatched:  []Outcome{},
		Duplicates: []Outcome{},
		Errors:     []ErrorEntry{},
	}
}

type Summary struct {
	TotalProcessed int `json:"totalProcessed"`
	Matched        int `json:"matched"`
	Partial        int `json:"partial"`
	Overpaid       int `json:"overpaid"`
	Unmatched      int `json:"unmatched"`
	Duplicates     int `json:"duplicates"`
	Errors         int `json:"errors"`
}

func (r *Result) Summary() Summary {
	s := Summary{
		Matched:    len(r.Matched),
		Partial:    len(r.Partial),
		Overpaid:   len(r.Overpaid),
		Unmatched:  len(r.Unmatched),
		Duplicates: len(r.Duplicates),
		Errors:     len(r.Errors),
	}
	s.TotalProcessed = s.Matched + s.Partial + s.Overpaid + s.Unmatched + s.Duplicates + s.Errors
	return s
}
