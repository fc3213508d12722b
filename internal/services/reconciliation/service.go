package reconciliation

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"fee-reconciliation-backend/internal/config"
	"fee-reconciliation-backend/internal/models"
	"fee-reconciliation-backend/internal/repository"
	"fee-reconciliation-backend/internal/services/statement"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNoValidTransactions aborts a run before any database write: the
// file parsed but produced nothing applicable.
var ErrNoValidTransactions = errors.New("no valid transactions found in bank statement")

// errDuplicateTransaction is internal: it forces the per-row
// transaction to roll back and routes the row to the duplicates bucket.
var errDuplicateTransaction = errors.New("duplicate transaction")

type Service struct {
	invoiceRepo   *repository.InvoiceRepository
	paymentRepo   *repository.PaymentTransactionRepository
	uploadLogRepo *repository.UploadLogRepository
	db            *gorm.DB
	log           *logrus.Logger
}

func NewService(
	invoiceRepo *repository.InvoiceRepository,
	paymentRepo *repository.PaymentTransactionRepository,
	uploadLogRepo *repository.UploadLogRepository,
) *Service {
	return &Service{
		invoiceRepo:   invoiceRepo,
		paymentRepo:   paymentRepo,
		uploadLogRepo: uploadLogRepo,
		db:            invoiceRepo.DB(),
		log:           config.GetLogger(),
	}
}

// Reconcile runs one batch: parse the whole file first, then apply the
// valid transactions strictly in file order, each inside its own
// database transaction. The uploaded file is deleted on every exit
// path. Returns ErrNoValidTransactions (with the partial result, so
// parse errors are still reportable) when nothing parsed.
func (s *Service) Reconcile(path, filename, uploadedBy string) (*Result, error) {
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	transactions, rowErrors, parseErr := statement.ParseFile(f, time.Now())
	f.Close()
	if parseErr != nil {
		return nil, parseErr
	}

	result := newResult()
	for _, re := range rowErrors {
		result.Errors = append(result.Errors, ErrorEntry{Row: re.Row, Reason: re.Reason})
	}

	if len(transactions) == 0 {
		return result, ErrNoValidTransactions
	}

	for i := range transactions {
		s.processTransaction(result, &transactions[i])
	}

	s.writeUploadLog(filename, uploadedBy, result)

	return result, nil
}

// processTransaction classifies a single transaction. All database
// work is scoped to one transaction: a failure rolls back this row only
// and the batch continues.
func (s *Service) processTransaction(result *Result, tx *statement.Transaction) {
	outcome := Outcome{
		Reference:       tx.Reference,
		Amount:          tx.Amount,
		TransactionDate: tx.Date,
		Description:     tx.Description,
	}

	var category string
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		duplicate, err := repository.NewPaymentTransactionRepository(dbtx).
			Exists(tx.Reference, tx.Amount, tx.Date)
		if err != nil {
			return err
		}
		if duplicate {
			return errDuplicateTransaction
		}

		invoice, err := resolveInvoice(dbtx, tx.Reference)
		if err != nil {
			return err
		}
		if invoice == nil {
			// Unmatched is a classification, not a failure; the empty
			// transaction commits and nothing is persisted.
			category = CategoryUnmatched
			return nil
		}

		category, err = applyPayment(dbtx, invoice, tx)
		if err != nil {
			return err
		}

		outcome.InvoiceID = &invoice.ID
		outcome.StudentID = invoice.StudentID
		outcome.InvoiceReference = invoice.ReferenceNumber
		outcome.InvoiceStatus = invoice.Status
		outcome.OutstandingBalance = &invoice.OutstandingBalance
		outcome.OverpaidAmount = &invoice.OverpaidAmount
		return nil
	})

	switch {
	case errors.Is(err, errDuplicateTransaction):
		result.Duplicates = append(result.Duplicates, outcome)
	case err != nil:
		s.log.WithFields(logrus.Fields{
			"module":    "reconciliation",
			"reference": tx.Reference,
		}).Warn("transaction failed: ", err.Error())
		result.Errors = append(result.Errors, ErrorEntry{
			Reference: tx.Reference,
			Reason:    err.Error(),
		})
	default:
		switch category {
		case CategoryMatched:
			result.Matched = append(result.Matched, outcome)
		case CategoryPartial:
			result.Partial = append(result.Partial, outcome)
		case CategoryOverpaid:
			result.Overpaid = append(result.Overpaid, outcome)
		default:
			result.Unmatched = append(result.Unmatched, outcome)
		}
	}
}

// writeUploadLog is best-effort: a failed audit insert is logged and
// swallowed, never surfaced to the caller.
func (s *Service) writeUploadLog(filename, uploadedBy string, result *Result) {
	summary := result.Summary()
	detail, err := json.Marshal(result)
	if err != nil {
		detail = nil
	}

	logRow := &models.UploadLog{
		ID:             uuid.New(),
		Filename:       filename,
		UploadedBy:     uploadedBy,
		MatchedCount:   summary.Matched,
		PartialCount:   summary.Partial,
		OverpaidCount:  summary.Overpaid,
		UnmatchedCount: summary.Unmatched,
		DuplicateCount: summary.Duplicates,
		ErrorCount:     summary.Errors,
		TotalProcessed: summary.TotalProcessed,
		Detail:         datatypes.JSON(detail),
		CreatedAt:      time.Now(),
	}
	if err := s.uploadLogRepo.Create(logRow); err != nil {
		config.LogError(s.log, "reconciliation", "writeUploadLog", filename, err)
	}
}

// RecentLogs lists the latest reconciliation runs for the audit view.
func (s *Service) RecentLogs(limit int) ([]models.UploadLog, error) {
	return s.uploadLogRepo.Recent(limit)
}
