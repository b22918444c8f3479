package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agendify/backend/internal/domain/finance"
	"github.com/agendify/backend/internal/domain/insight"
	"github.com/agendify/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCategoryRepo struct {
	categories []finance.Category
	existing   map[uuid.UUID]bool
}

func (f *fakeCategoryRepo) FindAll(ctx context.Context) ([]finance.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.existing[id], nil
}

type fakeExpenseRepo struct {
	saved   []*finance.Expense
	saveErr error
}

func (f *fakeExpenseRepo) Save(ctx context.Context, expense *finance.Expense) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, expense)
	return nil
}

func (f *fakeExpenseRepo) FindRecentByUser(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]finance.ExpenseWithCategory, error) {
	return nil, nil
}

type fakeSuggestionRepo struct {
	saved []*insight.Suggestion
}

func (f *fakeSuggestionRepo) Save(ctx context.Context, s *insight.Suggestion) error {
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeSuggestionRepo) SaveAll(ctx context.Context, ss []*insight.Suggestion) error {
	f.saved = append(f.saved, ss...)
	return nil
}

func (f *fakeSuggestionRepo) FindByID(ctx context.Context, id uuid.UUID) (*insight.Suggestion, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeSuggestionRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]insight.Suggestion, error) {
	return nil, nil
}

func (f *fakeSuggestionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status insight.Status) error {
	return nil
}

type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newExtractionFixture(response string) (*ExtractionService, *fakeCategoryRepo, *fakeExpenseRepo, *fakeSuggestionRepo, *fakeGenerator) {
	categoryRepo := &fakeCategoryRepo{existing: map[uuid.UUID]bool{}}
	expenseRepo := &fakeExpenseRepo{}
	suggestionRepo := &fakeSuggestionRepo{}
	generator := &fakeGenerator{response: response}
	service := NewExtractionService(categoryRepo, expenseRepo, suggestionRepo, generator, zap.NewNop())
	return service, categoryRepo, expenseRepo, suggestionRepo, generator
}

func TestExtractionService_Extract(t *testing.T) {
	userID := uuid.New()

	t.Run("creates expense and high priority suggestion above 0.8 confidence", func(t *testing.T) {
		categoryID := uuid.New()
		service, categoryRepo, expenseRepo, suggestionRepo, _ := newExtractionFixture(
			`{"description":"Almoço no restaurante","amount":45.90,"category_id":"` + categoryID.String() + `","payment_method":"pix","transaction_date":"2026-08-15","confidence":0.92,"is_expense":true}`)
		categoryRepo.existing[categoryID] = true

		result, err := service.Extract(context.Background(), userID, "gastei 45,90 no almoço via pix", "whatsapp")

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.ExpenseCreated)

		require.Len(t, expenseRepo.saved, 1)
		expense := expenseRepo.saved[0]
		assert.Equal(t, userID, expense.UserID)
		assert.Equal(t, "Almoço no restaurante", expense.Description)
		assert.Equal(t, "45.9", expense.Amount.String())
		require.NotNil(t, expense.CategoryID)
		assert.Equal(t, categoryID, *expense.CategoryID)
		require.NotNil(t, expense.PaymentMethod)
		assert.Equal(t, finance.PaymentMethodPix, *expense.PaymentMethod)
		assert.True(t, expense.AICategorized)
		assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), expense.TransactionDate)

		require.Len(t, suggestionRepo.saved, 1)
		suggestion := suggestionRepo.saved[0]
		assert.Equal(t, insight.SuggestionTypeExpenseExtraction, suggestion.Type)
		assert.Equal(t, insight.PriorityHigh, suggestion.Priority)
		assert.Equal(t, "Despesa criada via WhatsApp", suggestion.Title)

		meta, ok := suggestion.Metadata.(insight.ExtractionMetadata)
		require.True(t, ok)
		assert.Equal(t, "whatsapp", meta.Source)
		assert.Equal(t, "gastei 45,90 no almoço via pix", meta.OriginalMessage)
		assert.InDelta(t, 0.92, meta.Confidence, 1e-9)
	})

	t.Run("medium priority suggestion between thresholds", func(t *testing.T) {
		service, _, expenseRepo, suggestionRepo, _ := newExtractionFixture(
			`{"description":"Uber","amount":18.50,"transaction_date":"2026-08-20","confidence":0.7,"is_expense":true}`)

		result, err := service.Extract(context.Background(), userID, "uber 18,50", "whatsapp")

		require.NoError(t, err)
		assert.True(t, result.ExpenseCreated)
		require.Len(t, expenseRepo.saved, 1)
		assert.Nil(t, expenseRepo.saved[0].CategoryID)
		require.Len(t, suggestionRepo.saved, 1)
		assert.Equal(t, insight.PriorityMedium, suggestionRepo.saved[0].Priority)
	})

	t.Run("confidence at the threshold does not create anything", func(t *testing.T) {
		service, _, expenseRepo, suggestionRepo, _ := newExtractionFixture(
			`{"description":"Mercado","amount":100,"confidence":0.6,"is_expense":true}`)

		result, err := service.Extract(context.Background(), userID, "mercado 100", "whatsapp")

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.False(t, result.ExpenseCreated)
		assert.Empty(t, expenseRepo.saved)
		assert.Empty(t, suggestionRepo.saved)
	})

	t.Run("non-expense message is a successful no-op", func(t *testing.T) {
		service, _, expenseRepo, _, _ := newExtractionFixture(`{"is_expense":false,"confidence":0}`)

		result, err := service.Extract(context.Background(), userID, "bom dia!", "whatsapp")

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.False(t, result.ExpenseCreated)
		assert.Empty(t, expenseRepo.saved)
	})

	t.Run("strips markdown fences before parsing", func(t *testing.T) {
		service, _, expenseRepo, _, _ := newExtractionFixture(
			"```json\n{\"description\":\"Padaria\",\"amount\":12,\"transaction_date\":\"2026-08-30\",\"confidence\":0.75,\"is_expense\":true}\n```")

		result, err := service.Extract(context.Background(), userID, "padaria 12 reais", "whatsapp")

		require.NoError(t, err)
		assert.True(t, result.ExpenseCreated)
		require.Len(t, expenseRepo.saved, 1)
	})

	t.Run("malformed AI response is a hard error", func(t *testing.T) {
		service, _, expenseRepo, suggestionRepo, _ := newExtractionFixture("desculpe, não entendi")

		result, err := service.Extract(context.Background(), userID, "gastei 50", "whatsapp")

		assert.Nil(t, result)
		assert.True(t, errors.Is(err, shared.ErrUpstream))
		assert.Empty(t, expenseRepo.saved)
		assert.Empty(t, suggestionRepo.saved)
	})

	t.Run("unknown category degrades to uncategorized", func(t *testing.T) {
		service, _, expenseRepo, _, _ := newExtractionFixture(
			`{"description":"Farmácia","amount":30,"category_id":"` + uuid.New().String() + `","transaction_date":"2026-08-29","confidence":0.9,"is_expense":true}`)

		result, err := service.Extract(context.Background(), userID, "farmácia 30", "whatsapp")

		require.NoError(t, err)
		assert.True(t, result.ExpenseCreated)
		require.Len(t, expenseRepo.saved, 1)
		assert.Nil(t, expenseRepo.saved[0].CategoryID)
	})

	t.Run("prompt carries the category vocabulary", func(t *testing.T) {
		service, categoryRepo, _, _, generator := newExtractionFixture(`{"is_expense":false,"confidence":0}`)
		categoryID := uuid.New()
		categoryRepo.categories = []finance.Category{{Name: "Alimentação"}}
		categoryRepo.categories[0].ID = categoryID

		_, err := service.Extract(context.Background(), userID, "oi", "whatsapp")

		require.NoError(t, err)
		assert.Contains(t, generator.prompt, categoryID.String()+": Alimentação")
		assert.Contains(t, generator.prompt, `Mensagem: "oi"`)
	})

	t.Run("generator failure propagates", func(t *testing.T) {
		service, _, _, _, generator := newExtractionFixture("")
		generator.err = errors.New("upstream timeout")

		_, err := service.Extract(context.Background(), userID, "gastei 50", "whatsapp")

		assert.Error(t, err)
	})
}
