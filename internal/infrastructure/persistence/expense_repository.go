package persistence

import (
	"context"
	"time"

	"github.com/agendify/backend/internal/domain/finance"
	"github.com/agendify/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Save inserts a new expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	var model models.ExpenseModel
	model.FromDomainExpense(expense)
	return r.db.WithContext(ctx).Create(&model).Error
}

// recentExpenseRow is the scan target for the category-resolving query
type recentExpenseRow struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Description     string
	Amount          decimal.Decimal
	CategoryID      *uuid.UUID
	TransactionDate time.Time
	PaymentMethod   *string
	AICategorized   bool `gorm:"column:ai_categorized"`
	FileURL         *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CategoryName    *string
}

// FindRecentByUser returns a user's expenses since the cutoff date, newest
// first, capped at limit, with category names resolved in the same query
func (r *GormExpenseRepository) FindRecentByUser(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]finance.ExpenseWithCategory, error) {
	var rows []recentExpenseRow
	if err := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Select("expenses.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.user_id = ? AND expenses.transaction_date >= ?", userID, since).
		Order("expenses.transaction_date DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	expenses := make([]finance.ExpenseWithCategory, len(rows))
	for i, row := range rows {
		model := models.ExpenseModel{
			ID:              row.ID,
			UserID:          row.UserID,
			Description:     row.Description,
			Amount:          row.Amount,
			CategoryID:      row.CategoryID,
			TransactionDate: row.TransactionDate,
			PaymentMethod:   row.PaymentMethod,
			AICategorized:   row.AICategorized,
			FileURL:         row.FileURL,
			CreatedAt:       row.CreatedAt,
			UpdatedAt:       row.UpdatedAt,
		}
		expenses[i] = finance.ExpenseWithCategory{Expense: *model.ToDomain()}
		if row.CategoryName != nil {
			expenses[i].CategoryName = *row.CategoryName
		}
	}
	return expenses, nil
}
