package repository

import (
	"fee-reconciliation-backend/internal/models"

	"gorm.io/gorm"
)

type UploadLogRepository struct {
	db *gorm.DB
}

func NewUploadLogRepository(db *gorm.DB) *UploadLogRepository {
	return &UploadLogRepository{db: db}
}

func (r *UploadLogRepository) Create(log *models.UploadLog) error {
	return r.db.Create(log).Error
}

func (r *UploadLogRepository) Recent(limit int) ([]models.UploadLog, error) {
	var logs []models.UploadLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
