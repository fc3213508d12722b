package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UploadLog records one reconciliation batch run. Writing it is
// best-effort: a failed insert never rolls back the reconciliation.
type UploadLog struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Filename       string         `json:"filename"`
	UploadedBy     string         `gorm:"index" json:"uploaded_by"`
	MatchedCount   int            `json:"matched_count"`
	PartialCount   int            `json:"partial_count"`
	OverpaidCount  int            `json:"overpaid_count"`
	UnmatchedCount int            `json:"unmatched_count"`
	DuplicateCount int            `json:"duplicate_count"`
	ErrorCount     int            `json:"error_count"`
	TotalProcessed int            `json:"total_processed"`
	Detail         datatypes.JSON `json:"detail"`
	CreatedAt      time.Time      `json:"created_at"`
}
