// Package insight contains the AI spending-analysis suggestion generator and
// the suggestion review operations backing the dashboard.
package insight

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
	analysisTemperature = 0.3
	analysisMaxTokens   = 1000

	// analysisWindowDays and analysisExpenseLimit bound how much history the
	// prompt carries.
	analysisWindowDays   = 30
	analysisExpenseLimit = 50
)

// AnalysisType selects which angle the generator analyzes spending from
type AnalysisType string

const (
	AnalysisTypeExpense  AnalysisType = "expense_analysis"
	AnalysisTypeBudget   AnalysisType = "budget_optimization"
	AnalysisTypeInsights AnalysisType = "spending_insights"
)

// IsValid checks if the analysis type is known
func (t AnalysisType) IsValid() bool {
	return t == AnalysisTypeExpense || t == AnalysisTypeBudget || t == AnalysisTypeInsights
}

// TextGenerator produces text completions for a prompt
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// SuggestionService generates, lists, and reviews AI suggestions
type SuggestionService struct {
	expenseRepo    finance.ExpenseRepository
	suggestionRepo insight.SuggestionRepository
	generator      TextGenerator
	logger         *zap.Logger
}

// NewSuggestionService creates a new SuggestionService
func NewSuggestionService(
	expenseRepo finance.ExpenseRepository,
	suggestionRepo insight.SuggestionRepository,
	generator TextGenerator,
	logger *zap.Logger,
) *SuggestionService {
	return &SuggestionService{
		expenseRepo:    expenseRepo,
		suggestionRepo: suggestionRepo,
		generator:      generator,
		logger:         logger.Named("suggestions"),
	}
}

// GenerateRequest represents a request to generate suggestions
type GenerateRequest struct {
	Type string `json:"type"`
}

// ProviderSuggestion is one suggestion as returned by the AI
type ProviderSuggestion struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	EstimatedSavings decimal.Decimal `json:"estimated_savings"`
	Priority         string          `json:"priority"`
	Category         string          `json:"category"`
}

// AnalysisSummary describes the expense window the suggestions were based on
type AnalysisSummary struct {
	TotalExpenses int             `json:"total_expenses"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	AvgDaily      decimal.Decimal `json:"avg_daily"`
	Period        string          `json:"period"`
}

// GenerateResult represents the outcome of a generation run
type GenerateResult struct {
	Success         bool                 `json:"success"`
	Suggestions     []ProviderSuggestion `json:"suggestions"`
	Message         string               `json:"message,omitempty"`
	AnalysisSummary *AnalysisSummary     `json:"analysis_summary,omitempty"`
}

// expenseSummary is the per-expense shape embedded in analysis prompts
type expenseSummary struct {
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Date          string          `json:"date"`
	PaymentMethod *string         `json:"payment_method"`
}

// providerResponse is the JSON envelope the AI is asked to return
type providerResponse struct {
	Suggestions []ProviderSuggestion `json:"suggestions"`
}

// Generate analyzes the user's last 30 days of expenses and persists the
// suggestions the AI produces. An empty expense window short-circuits to a
// successful empty result without calling the AI.
func (s *SuggestionService) Generate(ctx context.Context, userID uuid.UUID, analysisType AnalysisType) (*GenerateResult, error) {
	if analysisType == "" {
		analysisType = AnalysisTypeExpense
	}
	if !analysisType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown analysis type")
	}

	since := time.Now().AddDate(0, 0, -analysisWindowDays)
	expenses, err := s.expenseRepo.FindRecentByUser(ctx, userID, since, analysisExpenseLimit)
	if err != nil {
		return nil, err
	}

	if len(expenses) == 0 {
		return &GenerateResult{
			Success:     true,
			Suggestions: []ProviderSuggestion{},
			Message:     "Não há despesas suficientes para gerar sugestões",
		}, nil
	}

	summaries := make([]expenseSummary, len(expenses))
	totalSpent := decimal.Zero
	for i, exp := range expenses {
		category := "Sem categoria"
		if exp.CategoryName != "" {
			category = exp.CategoryName
		}
		var paymentMethod *string
		if exp.PaymentMethod != nil {
			pm := exp.PaymentMethod.String()
			paymentMethod = &pm
		}
		summaries[i] = expenseSummary{
			Description:   exp.Description,
			Amount:        exp.Amount,
			Category:      category,
			Date:          exp.TransactionDate.Format("2006-01-02"),
			PaymentMethod: paymentMethod,
		}
		totalSpent = totalSpent.Add(exp.Amount)
	}
	avgDaily := totalSpent.Div(decimal.NewFromInt(analysisWindowDays))

	prompt, err := buildAnalysisPrompt(analysisType, summaries, totalSpent, avgDaily)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.GenerateContent(ctx, prompt, analysisTemperature, analysisMaxTokens)
	if err != nil {
		return nil, err
	}

	var parsed providerResponse
	if err := json.Unmarshal([]byte(ai.StripCodeFences(raw)), &parsed); err != nil {
		s.logger.Error("Failed to parse AI suggestions response",
			zap.String("response", raw),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: invalid JSON response from AI", shared.ErrUpstream)
	}

	suggestions, err := s.buildSuggestions(userID, analysisType, parsed.Suggestions)
	if err != nil {
		return nil, err
	}

	if len(suggestions) > 0 {
		if err := s.suggestionRepo.SaveAll(ctx, suggestions); err != nil {
			s.logger.Warn("Failed to save generated suggestions", zap.Error(err))
		}
	}

	if parsed.Suggestions == nil {
		parsed.Suggestions = []ProviderSuggestion{}
	}

	return &GenerateResult{
		Success:     true,
		Suggestions: parsed.Suggestions,
		AnalysisSummary: &AnalysisSummary{
			TotalExpenses: len(expenses),
			TotalSpent:    totalSpent,
			AvgDaily:      avgDaily,
			Period:        fmt.Sprintf("%d days", analysisWindowDays),
		},
	}, nil
}

// buildSuggestions validates the whole provider batch before any insert.
// One bad entry rejects the batch; partially persisted runs would be worse
// than a retried one.
func (s *SuggestionService) buildSuggestions(userID uuid.UUID, analysisType AnalysisType, items []ProviderSuggestion) ([]*insight.Suggestion, error) {
	now := time.Now()
	suggestions := make([]*insight.Suggestion, 0, len(items))
	for _, item := range items {
		suggestion, err := insight.NewSuggestion(
			userID,
			insight.SuggestionTypeFinancialInsight,
			item.Title,
			item.Description,
			insight.MapProviderPriority(item.Priority),
			insight.InsightMetadata{
				EstimatedSavings: item.EstimatedSavings,
				Priority:         item.Priority,
				Category:         item.Category,
				AnalysisType:     string(analysisType),
				GeneratedAt:      now,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid JSON response from AI", shared.ErrUpstream)
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions, nil
}

// SuggestionResponse represents a stored suggestion in API responses
type SuggestionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Priority    string          `json:"priority"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// List returns all suggestions for a user, newest first
func (s *SuggestionService) List(ctx context.Context, userID uuid.UUID) ([]SuggestionResponse, error) {
	suggestions, err := s.suggestionRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]SuggestionResponse, len(suggestions))
	for i, sg := range suggestions {
		raw, err := insight.MarshalMetadata(sg.Metadata)
		if err != nil {
			return nil, err
		}
		responses[i] = SuggestionResponse{
			ID:          sg.ID,
			Type:        string(sg.Type),
			Title:       sg.Title,
			Description: sg.Description,
			Metadata:    raw,
			Priority:    string(sg.Priority),
			Status:      string(sg.Status),
			CreatedAt:   sg.CreatedAt,
		}
	}
	return responses, nil
}

// UpdateStatusRequest represents a status transition request
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=applied dismissed"`
}

// UpdateStatus applies a review decision to an active suggestion. Only the
// owning user may transition their suggestions.
func (s *SuggestionService) UpdateStatus(ctx context.Context, userID, suggestionID uuid.UUID, status string) error {
	suggestion, err := s.suggestionRepo.FindByID(ctx, suggestionID)
	if err != nil {
		return err
	}
	if suggestion.UserID != userID {
		return shared.ErrNotFound
	}

	switch insight.Status(status) {
	case insight.StatusApplied:
		err = suggestion.Apply()
	case insight.StatusDismissed:
		err = suggestion.Dismiss()
	default:
		return shared.NewDomainError("INVALID_INPUT", "Status must be applied or dismissed")
	}
	if err != nil {
		return err
	}

	return s.suggestionRepo.UpdateStatus(ctx, suggestionID, suggestion.Status)
}

// analysisJSONFooter pins the response contract. All analysis types share it
// so every run can be parsed and persisted the same way.
const analysisJSONFooter = `
Responda APENAS com um JSON válido no formato:
{
  "suggestions": [
    {
      "title": "título da sugestão",
      "description": "descrição detalhada",
      "estimated_savings": número_valor_estimado,
      "priority": "alta|média|baixa",
      "category": "categoria_relacionada"
    }
  ]
}`

// buildAnalysisPrompt renders the per-type analysis prompt
func buildAnalysisPrompt(analysisType AnalysisType, summaries []expenseSummary, totalSpent, avgDaily decimal.Decimal) (string, error) {
	detail, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize expense summary: %w", err)
	}

	var b strings.Builder
	switch analysisType {
	case AnalysisTypeExpense:
		fmt.Fprintf(&b, `
Analise os gastos dos últimos %d dias deste usuário e gere sugestões personalizadas:

Total gasto: R$ %s
Média diária: R$ %s

Despesas detalhadas:
%s

Gere 3-5 sugestões específicas e acionáveis para otimizar os gastos.
Para cada sugestão, inclua:
- Título claro e objetivo
- Descrição detalhada
- Impacto financeiro estimado
- Prioridade (alta/média/baixa)
`, analysisWindowDays, totalSpent.StringFixed(2), avgDaily.StringFixed(2), detail)

	case AnalysisTypeBudget:
		fmt.Fprintf(&b, `
Com base nos gastos, sugira um orçamento otimizado por categoria:

%s

Gere sugestões de orçamento mensal por categoria com metas realistas e dicas de economia.
`, detail)

	case AnalysisTypeInsights:
		fmt.Fprintf(&b, `
Analise padrões de gastos e identifique insights importantes:

%s

Identifique padrões, tendências e alertas nos gastos.
Gere insights acionáveis sobre comportamento financeiro.
`, detail)
	}

	b.WriteString(analysisJSONFooter)
	return b.String(), nil
}
