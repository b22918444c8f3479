// Package finance contains the AI expense extraction pipeline.
package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agendify/backend/internal/domain/finance"
	"github.com/agendify/backend/internal/domain/insight"
	"github.com/agendify/backend/internal/domain/shared"
	"github.com/agendify/backend/internal/infrastructure/ai"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	extractionTemperature = 0.1
	extractionMaxTokens   = 500

	// minConfidence must be strictly exceeded for an expense to be
	// persisted; highConfidence upgrades the review suggestion's priority.
	minConfidence  = 0.6
	highConfidence = 0.8
)

// TextGenerator produces text completions for a prompt
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// ExtractionService turns free-form expense messages into persisted expenses
// using the AI text service.
type ExtractionService struct {
	categoryRepo   finance.CategoryRepository
	expenseRepo    finance.ExpenseRepository
	suggestionRepo insight.SuggestionRepository
	generator      TextGenerator
	logger         *zap.Logger
}

// NewExtractionService creates a new ExtractionService
func NewExtractionService(
	categoryRepo finance.CategoryRepository,
	expenseRepo finance.ExpenseRepository,
	suggestionRepo insight.SuggestionRepository,
	generator TextGenerator,
	logger *zap.Logger,
) *ExtractionService {
	return &ExtractionService{
		categoryRepo:   categoryRepo,
		expenseRepo:    expenseRepo,
		suggestionRepo: suggestionRepo,
		generator:      generator,
		logger:         logger.Named("extraction"),
	}
}

// ExtractRequest represents a request to extract an expense from a message
type ExtractRequest struct {
	Message string `json:"message" binding:"required"`
	Source  string `json:"source"`
}

// ExtractedExpense is the structured data the AI returns for a message
type ExtractedExpense struct {
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      string          `json:"category_id"`
	PaymentMethod   string          `json:"payment_method"`
	TransactionDate string          `json:"transaction_date"`
	Confidence      float64         `json:"confidence"`
	IsExpense       bool            `json:"is_expense"`
}

// ExtractionResult represents the outcome of one extraction
type ExtractionResult struct {
	Success        bool             `json:"success"`
	ExpenseCreated bool             `json:"expense_created"`
	ExtractedData  ExtractedExpense `json:"extracted_data"`
}

// Extract runs the AI over a message and, when it identifies an expense with
// confidence strictly above the threshold, persists the expense plus a review
// suggestion. A message that is not an expense is a successful extraction
// with ExpenseCreated false.
func (s *ExtractionService) Extract(ctx context.Context, userID uuid.UUID, message, source string) (*ExtractionResult, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	prompt := buildExtractionPrompt(message, categories)

	raw, err := s.generator.GenerateContent(ctx, prompt, extractionTemperature, extractionMaxTokens)
	if err != nil {
		return nil, err
	}

	var data ExtractedExpense
	if err := json.Unmarshal([]byte(ai.StripCodeFences(raw)), &data); err != nil {
		s.logger.Error("Failed to parse AI extraction response",
			zap.String("response", raw),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: invalid JSON response from AI", shared.ErrUpstream)
	}

	result := &ExtractionResult{
		Success:       true,
		ExtractedData: data,
	}

	if !data.IsExpense || data.Confidence <= minConfidence {
		return result, nil
	}

	if err := s.createExpense(ctx, userID, data); err != nil {
		return nil, err
	}
	result.ExpenseCreated = true

	s.createReviewSuggestion(ctx, userID, message, source, data)

	return result, nil
}

// createExpense persists the extracted expense
func (s *ExtractionService) createExpense(ctx context.Context, userID uuid.UUID, data ExtractedExpense) error {
	transactionDate := time.Now()
	if data.TransactionDate != "" {
		parsed, err := time.Parse("2006-01-02", data.TransactionDate)
		if err == nil {
			transactionDate = parsed
		} else {
			s.logger.Warn("AI returned unparseable transaction date, using today",
				zap.String("transaction_date", data.TransactionDate),
			)
		}
	}

	expense, err := finance.NewExpense(userID, data.Description, data.Amount, transactionDate)
	if err != nil {
		return err
	}

	if data.CategoryID != "" {
		s.resolveCategory(ctx, expense, data.CategoryID)
	}
	expense.SetPaymentMethod(finance.PaymentMethod(data.PaymentMethod))
	expense.MarkAICategorized()

	return s.expenseRepo.Save(ctx, expense)
}

// resolveCategory assigns the AI-chosen category when it actually exists.
// The AI occasionally hallucinates category IDs; the expense is stored
// uncategorized in that case rather than rejected.
func (s *ExtractionService) resolveCategory(ctx context.Context, expense *finance.Expense, rawID string) {
	categoryID, err := uuid.Parse(rawID)
	if err != nil {
		s.logger.Warn("AI returned malformed category ID", zap.String("category_id", rawID))
		return
	}

	exists, err := s.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		s.logger.Warn("Failed to verify category", zap.String("category_id", rawID), zap.Error(err))
		return
	}
	if !exists {
		s.logger.Warn("AI returned unknown category ID", zap.String("category_id", rawID))
		return
	}

	expense.SetCategory(categoryID)
}

// createReviewSuggestion records a suggestion so the user can review what the
// AI extracted. Failure to save it never fails the extraction.
func (s *ExtractionService) createReviewSuggestion(ctx context.Context, userID uuid.UUID, message, source string, data ExtractedExpense) {
	extractedJSON, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("Failed to serialize extracted data for suggestion", zap.Error(err))
		return
	}

	priority := insight.PriorityMedium
	if data.Confidence > highConfidence {
		priority = insight.PriorityHigh
	}

	suggestion, err := insight.NewSuggestion(
		userID,
		insight.SuggestionTypeExpenseExtraction,
		"Despesa criada via WhatsApp",
		fmt.Sprintf("Nova despesa: %s - R$ %s", data.Description, data.Amount.StringFixed(2)),
		priority,
		insight.ExtractionMetadata{
			Source:          source,
			OriginalMessage: message,
			ExtractedData:   extractedJSON,
			Confidence:      data.Confidence,
		},
	)
	if err != nil {
		s.logger.Warn("Failed to build review suggestion", zap.Error(err))
		return
	}

	if err := s.suggestionRepo.Save(ctx, suggestion); err != nil {
		s.logger.Warn("Failed to save review suggestion", zap.Error(err))
	}
}

// buildExtractionPrompt asks the model for strict JSON, giving it the
// category vocabulary so it can pick an existing category ID.
func buildExtractionPrompt(message string, categories []finance.Category) string {
	pairs := make([]string, len(categories))
	for i, c := range categories {
		pairs[i] = fmt.Sprintf("%s: %s", c.ID, c.Name)
	}

	return fmt.Sprintf(`
Analise esta mensagem de despesa e extraia as informações estruturadas.
Mensagem: "%s"

Categorias disponíveis: %s

Responda APENAS com um JSON válido no seguinte formato:
{
  "description": "descrição da despesa",
  "amount": número_valor,
  "category_id": "uuid_da_categoria_mais_apropriada",
  "payment_method": "dinheiro|cartao_credito|cartao_debito|pix|transferencia",
  "transaction_date": "YYYY-MM-DD",
  "confidence": número_entre_0_e_1,
  "is_expense": boolean
}

Se não conseguir identificar uma despesa válida, retorne:
{
  "is_expense": false,
  "confidence": 0
}
`, message, strings.Join(pairs, ", "))
}
