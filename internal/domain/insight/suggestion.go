package insight

import (
	"context"

	"github.com/agendify/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SuggestionType tags what produced a suggestion and which metadata variant
// it carries.
type SuggestionType string

const (
	// SuggestionTypeExpenseExtraction marks review suggestions created
	// alongside an auto-extracted expense.
	SuggestionTypeExpenseExtraction SuggestionType = "expense_extraction"
	// SuggestionTypeFinancialInsight marks recommendations produced by the
	// spending-analysis generator.
	SuggestionTypeFinancialInsight SuggestionType = "ai_financial_insight"
)

// IsValid checks if the type is a known SuggestionType
func (t SuggestionType) IsValid() bool {
	return t == SuggestionTypeExpenseExtraction || t == SuggestionTypeFinancialInsight
}

// Priority is the internal priority vocabulary
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// providerPriorities maps the AI output locale ("alta"/"média"/"baixa") to
// the internal vocabulary. Anything unrecognized maps to low.
var providerPriorities = map[string]Priority{
	"alta":  PriorityHigh,
	"média": PriorityMedium,
	"baixa": PriorityLow,
}

// MapProviderPriority translates a provider-locale priority string
func MapProviderPriority(s string) Priority {
	if p, ok := providerPriorities[s]; ok {
		return p
	}
	return PriorityLow
}

// Status represents the review state of a suggestion
type Status string

const (
	StatusActive    Status = "active"
	StatusApplied   Status = "applied"
	StatusDismissed Status = "dismissed"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusApplied || s == StatusDismissed
}

// IsTerminal returns true once a suggestion has been applied or dismissed
func (s Status) IsTerminal() bool {
	return s == StatusApplied || s == StatusDismissed
}

// Suggestion is a persisted, user-reviewable recommendation produced by the
// extraction pipeline or the suggestion generator.
type Suggestion struct {
	shared.BaseEntity
	UserID      uuid.UUID
	Type        SuggestionType
	Title       string
	Description string
	Metadata    Metadata
	Priority    Priority
	Status      Status
}

// NewSuggestion creates an active suggestion. The metadata variant must match
// the suggestion type.
func NewSuggestion(userID uuid.UUID, typ SuggestionType, title, description string, priority Priority, meta Metadata) (*Suggestion, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Suggestion requires an owning user")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown suggestion type")
	}
	if title == "" || description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Suggestion title and description are required")
	}
	if meta != nil && meta.SuggestionType() != typ {
		return nil, shared.NewDomainError("INVALID_INPUT", "Metadata variant does not match suggestion type")
	}

	return &Suggestion{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Type:        typ,
		Title:       title,
		Description: description,
		Metadata:    meta,
		Priority:    priority,
		Status:      StatusActive,
	}, nil
}

// Apply moves an active suggestion to applied. Terminal states never move.
func (s *Suggestion) Apply() error {
	return s.transition(StatusApplied)
}

// Dismiss moves an active suggestion to dismissed. Terminal states never move.
func (s *Suggestion) Dismiss() error {
	return s.transition(StatusDismissed)
}

func (s *Suggestion) transition(to Status) error {
	if s.Status != StatusActive {
		return shared.ErrInvalidState
	}
	s.Status = to
	return nil
}

// SuggestionRepository defines persistence for suggestions
type SuggestionRepository interface {
	Save(ctx context.Context, suggestion *Suggestion) error
	SaveAll(ctx context.Context, suggestions []*Suggestion) error
	FindByID(ctx context.Context, id uuid.UUID) (*Suggestion, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Suggestion, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
