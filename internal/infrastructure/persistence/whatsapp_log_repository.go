package persistence

import (
	"context"

	"github.com/agendify/backend/internal/domain/messaging"
	"github.com/agendify/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWhatsAppLogRepository implements WhatsAppLogRepository using GORM
type GormWhatsAppLogRepository struct {
	db *gorm.DB
}

// NewGormWhatsAppLogRepository creates a new GormWhatsAppLogRepository
func NewGormWhatsAppLogRepository(db *gorm.DB) *GormWhatsAppLogRepository {
	return &GormWhatsAppLogRepository{db: db}
}

// Save inserts a new log entry
func (r *GormWhatsAppLogRepository) Save(ctx context.Context, log *messaging.WhatsAppLog) error {
	var model models.WhatsAppLogModel
	model.FromDomainLog(log)
	return r.db.WithContext(ctx).Create(&model).Error
}
