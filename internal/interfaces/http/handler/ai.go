package handler

import (
	financeapp "github.com/agendify/backend/internal/application/finance"
	insightapp "github.com/agendify/backend/internal/application/insight"
	"github.com/agendify/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// defaultExtractionSource tags expenses extracted through the dashboard
// endpoint when the caller does not say otherwise; the webhook pipeline
// always passes "whatsapp" explicitly.
const defaultExtractionSource = "manual"

// AIHandler handles AI-backed expense extraction and suggestion endpoints
type AIHandler struct {
	BaseHandler
	extraction  *financeapp.ExtractionService
	suggestions *insightapp.SuggestionService
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(extraction *financeapp.ExtractionService, suggestions *insightapp.SuggestionService) *AIHandler {
	return &AIHandler{
		extraction:  extraction,
		suggestions: suggestions,
	}
}

// ExtractExpense runs AI expense extraction over a free-form message
func (h *AIHandler) ExtractExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req financeapp.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Source == "" {
		req.Source = defaultExtractionSource
	}

	result, err := h.extraction.Extract(c.Request.Context(), userID, req.Message, req.Source)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GenerateSuggestions analyzes recent spending and produces AI suggestions
func (h *AIHandler) GenerateSuggestions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req insightapp.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.suggestions.Generate(c.Request.Context(), userID, insightapp.AnalysisType(req.Type))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListSuggestions returns the user's suggestions, newest first
func (h *AIHandler) ListSuggestions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	suggestions, err := h.suggestions.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, suggestions)
}

// SuggestionStatusResponse confirms a suggestion status change
type SuggestionStatusResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// UpdateSuggestionStatus applies a review decision to a suggestion
func (h *AIHandler) UpdateSuggestionStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid suggestion ID")
		return
	}
	suggestionID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid suggestion ID")
		return
	}

	var req insightapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.suggestions.UpdateStatus(c.Request.Context(), userID, suggestionID, req.Status); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SuggestionStatusResponse{ID: suggestionID, Status: req.Status})
}
