package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExpenseWithCategory pairs an expense with its resolved category name for
// analysis prompts. CategoryName is empty when the expense is uncategorized.
type ExpenseWithCategory struct {
	Expense
	CategoryName string
}

// ExpenseRepository defines persistence for expenses
type ExpenseRepository interface {
	Save(ctx context.Context, expense *Expense) error
	// FindRecentByUser returns a user's expenses with transaction_date on or
	// after the cutoff, newest first, capped at limit. Category names are
	// resolved in the same query.
	FindRecentByUser(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]ExpenseWithCategory, error)
}

// CategoryRepository defines read access to the category vocabulary
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]Category, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
