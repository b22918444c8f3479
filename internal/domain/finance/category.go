package finance

import (
	"github.com/agendify/backend/internal/domain/shared"
)

// Category is reference data used to classify expenses. The extraction
// pipeline feeds the full category list to the AI service as a closed
// vocabulary; this service never creates or mutates categories.
type Category struct {
	shared.BaseEntity
	Name  string
	Color string
	Icon  string
}
