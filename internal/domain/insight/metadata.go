package insight

import (
	"encoding/json"
	"time"

	"github.com/agendify/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Metadata is the typed payload attached to a suggestion. Each suggestion
// type has exactly one metadata variant; the stored JSON shape matches what
// the dashboard already reads.
type Metadata interface {
	SuggestionType() SuggestionType
}

// ExtractionMetadata accompanies expense_extraction suggestions and records
// what the AI extracted, for human review.
type ExtractionMetadata struct {
	Source          string          `json:"source"`
	OriginalMessage string          `json:"original_message"`
	ExtractedData   json.RawMessage `json:"extracted_data"`
	Confidence      float64         `json:"confidence"`
}

// SuggestionType identifies the variant's owning suggestion type
func (ExtractionMetadata) SuggestionType() SuggestionType {
	return SuggestionTypeExpenseExtraction
}

// InsightMetadata accompanies ai_financial_insight suggestions. Priority
// keeps the provider-locale value as returned by the AI; the mapped internal
// priority lives on the suggestion itself.
type InsightMetadata struct {
	EstimatedSavings decimal.Decimal `json:"estimated_savings"`
	Priority         string          `json:"priority"`
	Category         string          `json:"category"`
	AnalysisType     string          `json:"analysis_type"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// SuggestionType identifies the variant's owning suggestion type
func (InsightMetadata) SuggestionType() SuggestionType {
	return SuggestionTypeFinancialInsight
}

// MarshalMetadata serializes a metadata variant for storage. Nil metadata
// serializes to nil (stored as SQL NULL).
func MarshalMetadata(m Metadata) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// UnmarshalMetadata deserializes stored metadata into the variant matching
// the suggestion type.
func UnmarshalMetadata(typ SuggestionType, raw []byte) (Metadata, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	switch typ {
	case SuggestionTypeExpenseExtraction:
		var m ExtractionMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	case SuggestionTypeFinancialInsight:
		var m InsightMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown suggestion type")
	}
}
