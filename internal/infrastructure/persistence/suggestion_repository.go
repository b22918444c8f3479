package persistence

import (
	"context"
	"errors"

	"github.com/agendify/backend/internal/domain/insight"
	"github.com/agendify/backend/internal/domain/shared"
	"github.com/agendify/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSuggestionRepository implements SuggestionRepository using GORM
type GormSuggestionRepository struct {
	db *gorm.DB
}

// NewGormSuggestionRepository creates a new GormSuggestionRepository
func NewGormSuggestionRepository(db *gorm.DB) *GormSuggestionRepository {
	return &GormSuggestionRepository{db: db}
}

// Save inserts a new suggestion
func (r *GormSuggestionRepository) Save(ctx context.Context, suggestion *insight.Suggestion) error {
	var model models.SuggestionModel
	if err := model.FromDomainSuggestion(suggestion); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// SaveAll inserts a batch of suggestions in one statement
func (r *GormSuggestionRepository) SaveAll(ctx context.Context, suggestions []*insight.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	suggestionModels := make([]models.SuggestionModel, len(suggestions))
	for i, s := range suggestions {
		if err := suggestionModels[i].FromDomainSuggestion(s); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Create(&suggestionModels).Error
}

// FindByID finds a suggestion by its ID
func (r *GormSuggestionRepository) FindByID(ctx context.Context, id uuid.UUID) (*insight.Suggestion, error) {
	var model models.SuggestionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByUser returns all suggestions for a user, newest first
func (r *GormSuggestionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]insight.Suggestion, error) {
	var suggestionModels []models.SuggestionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&suggestionModels).Error; err != nil {
		return nil, err
	}
	suggestions := make([]insight.Suggestion, len(suggestionModels))
	for i, model := range suggestionModels {
		s, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		suggestions[i] = *s
	}
	return suggestions, nil
}

// UpdateStatus persists a status transition for a suggestion
func (r *GormSuggestionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status insight.Status) error {
	result := r.db.WithContext(ctx).Model(&models.SuggestionModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
