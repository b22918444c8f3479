package persistence

import (
	"context"
	"errors"

	"github.com/agendify/backend/internal/domain/identity"
	"github.com/agendify/backend/internal/domain/shared"
	"github.com/agendify/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProfileRepository implements ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByPhone finds a profile by the exact stored phone number
func (r *GormProfileRepository) FindByPhone(ctx context.Context, phone string) (*identity.UserProfile, error) {
	if phone == "" {
		return nil, shared.ErrNotFound
	}
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserID finds a profile by its owning auth user ID
func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.UserProfile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
