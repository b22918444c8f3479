package handler

import (
	"context"
	"time"

	appfinance "github.com/agendify/backend/internal/application/finance"
	"github.com/agendify/backend/internal/domain/finance"
	"github.com/agendify/backend/internal/domain/identity"
	"github.com/agendify/backend/internal/domain/insight"
	"github.com/agendify/backend/internal/domain/messaging"
	"github.com/agendify/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type fakeCategoryRepo struct {
	categories []finance.Category
}

func (f *fakeCategoryRepo) FindAll(ctx context.Context) ([]finance.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeExpenseRepo struct {
	saved  []*finance.Expense
	recent []finance.ExpenseWithCategory
}

func (f *fakeExpenseRepo) Save(ctx context.Context, expense *finance.Expense) error {
	f.saved = append(f.saved, expense)
	return nil
}

func (f *fakeExpenseRepo) FindRecentByUser(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]finance.ExpenseWithCategory, error) {
	return f.recent, nil
}

type fakeSuggestionRepo struct {
	byID    map[uuid.UUID]*insight.Suggestion
	byUser  []insight.Suggestion
	saved   []*insight.Suggestion
	updated map[uuid.UUID]insight.Status
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{
		byID:    make(map[uuid.UUID]*insight.Suggestion),
		updated: make(map[uuid.UUID]insight.Status),
	}
}

func (f *fakeSuggestionRepo) Save(ctx context.Context, suggestion *insight.Suggestion) error {
	f.saved = append(f.saved, suggestion)
	return nil
}

func (f *fakeSuggestionRepo) SaveAll(ctx context.Context, suggestions []*insight.Suggestion) error {
	f.saved = append(f.saved, suggestions...)
	return nil
}

func (f *fakeSuggestionRepo) FindByID(ctx context.Context, id uuid.UUID) (*insight.Suggestion, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeSuggestionRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]insight.Suggestion, error) {
	return f.byUser, nil
}

func (f *fakeSuggestionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status insight.Status) error {
	f.updated[id] = status
	return nil
}

type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeProfileRepo struct {
	byPhone map[string]*identity.UserProfile
}

func (f *fakeProfileRepo) FindByPhone(ctx context.Context, phone string) (*identity.UserProfile, error) {
	if p, ok := f.byPhone[phone]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.UserProfile, error) {
	return nil, shared.ErrNotFound
}

type fakeLogRepo struct {
	saved []*messaging.WhatsAppLog
}

func (f *fakeLogRepo) Save(ctx context.Context, log *messaging.WhatsAppLog) error {
	f.saved = append(f.saved, log)
	return nil
}

type fakeExtractor struct {
	calls  int
	result *appfinance.ExtractionResult
	err    error
}

func (f *fakeExtractor) Extract(ctx context.Context, userID uuid.UUID, message, source string) (*appfinance.ExtractionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeSender struct {
	to        string
	body      string
	messageID string
	err       error
}

func (f *fakeSender) SendText(ctx context.Context, to, body string) (string, error) {
	f.to = to
	f.body = body
	if f.err != nil {
		return "", f.err
	}
	return f.messageID, nil
}
