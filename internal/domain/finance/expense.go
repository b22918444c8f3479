package finance

import (
	"time"

	"github.com/agendify/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how an expense was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "dinheiro"
	PaymentMethodCredit   PaymentMethod = "cartao_credito"
	PaymentMethodDebit    PaymentMethod = "cartao_debito"
	PaymentMethodPix      PaymentMethod = "pix"
	PaymentMethodTransfer PaymentMethod = "transferencia"
)

// IsValid checks if the payment method is one of the known values
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCredit, PaymentMethodDebit,
		PaymentMethodPix, PaymentMethodTransfer:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Expense represents a single user expense. Expenses are created either by
// the AI extraction pipeline (AICategorized = true) or directly through the
// dashboard.
type Expense struct {
	shared.BaseEntity
	UserID          uuid.UUID
	Description     string
	Amount          decimal.Decimal
	CategoryID      *uuid.UUID
	TransactionDate time.Time
	PaymentMethod   *PaymentMethod
	AICategorized   bool
	FileURL         string
}

// NewExpense creates a new expense, validating its invariants
func NewExpense(userID uuid.UUID, description string, amount decimal.Decimal, transactionDate time.Time) (*Expense, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense requires an owning user")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense description is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense amount must not be negative")
	}

	return &Expense{
		BaseEntity:      shared.NewBaseEntity(),
		UserID:          userID,
		Description:     description,
		Amount:          amount,
		TransactionDate: truncateToDate(transactionDate),
	}, nil
}

// SetCategory assigns a category reference
func (e *Expense) SetCategory(categoryID uuid.UUID) {
	e.CategoryID = &categoryID
}

// SetPaymentMethod assigns a payment method; unknown values are ignored
// rather than rejected, since the AI output is advisory here.
func (e *Expense) SetPaymentMethod(method PaymentMethod) {
	if method.IsValid() {
		e.PaymentMethod = &method
	}
}

// MarkAICategorized flags the expense as created by the extraction pipeline
func (e *Expense) MarkAICategorized() {
	e.AICategorized = true
}

// truncateToDate drops the time-of-day component; transaction_date is a
// calendar date, not a timestamp.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
