package reconciliation

import (
	"strings"

	"fee-reconciliation-backend/internal/models"
	"fee-reconciliation-backend/internal/repository"

	"gorm.io/gorm"
)

const referencePadWidth = 3

// referenceCandidates returns the lookup attempts for a raw reference,
// strictest first: exact, zero-padded to three characters, then with
// leading zeros stripped. Duplicates are dropped so each variant is
// tried once.
func referenceCandidates(reference string) []string {
	candidates := []string{reference}

	padded := reference
	for len(padded) < referencePadWidth {
		padded = "0" + padded
	}
	if padded != reference {
		candidates = append(candidates, padded)
	}

	trimmed := strings.TrimLeft(reference, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	if trimmed != reference && trimmed != padded {
		candidates = append(candidates, trimmed)
	}

	return candidates
}

// resolveInvoice walks the candidate chain and returns the first
// eligible invoice, oldest due date first. A nil invoice with a nil
// error means the transaction is unmatched.
func resolveInvoice(db *gorm.DB, reference string) (*models.Invoice, error) {
	repo := repository.NewInvoiceRepository(db)
	for _, candidate := range referenceCandidates(reference) {
		invoice, err := repo.OldestEligibleByReference(candidate)
		if err != nil {
			return nil, err
		}
		if invoice != nil {
			return invoice, nil
		}
	}
	return nil, nil
}
