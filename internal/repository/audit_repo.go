package repository

import (
	"context"

	"hrms-backend/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry
func (r *AuditRepository) CreateAuditLog(ctx context.Context, userID *uint, action string, details string) error {
	log := &models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByAction returns a page of audit entries for an action, newest first
func (r *AuditRepository) ListByAction(ctx context.Context, action string, limit, offset int) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}
	err := r.db.WithContext(ctx).
		Where("action = ?", action).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, err
}
