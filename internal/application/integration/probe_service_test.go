package integration

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/agendify/backend/internal/infrastructure/whatsapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAIProber struct {
	hasKey   bool
	model    string
	response string
	err      error
	prompt   string
	temp     float64
	tokens   int
}

func (f *fakeAIProber) HasAPIKey() bool { return f.hasKey }
func (f *fakeAIProber) Model() string   { return f.model }

func (f *fakeAIProber) GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	f.prompt = prompt
	f.temp = temperature
	f.tokens = maxTokens
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeWhatsAppProber struct {
	hasKey      bool
	hasNumberID bool
	info        *whatsapp.NumberInfo
	err         error
}

func (f *fakeWhatsAppProber) HasAPIKey() bool   { return f.hasKey }
func (f *fakeWhatsAppProber) HasNumberID() bool { return f.hasNumberID }

func (f *fakeWhatsAppProber) GetNumberInfo(ctx context.Context) (*whatsapp.NumberInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

func TestProbeService_TestGemini(t *testing.T) {
	t.Run("reports missing API key without calling the provider", func(t *testing.T) {
		ai := &fakeAIProber{hasKey: false}
		service := NewProbeService(ai, &fakeWhatsAppProber{}, zap.NewNop())

		result := service.TestGemini(context.Background())

		assert.False(t, result.Success)
		assert.Equal(t, http.StatusBadRequest, result.StatusCode)
		assert.Equal(t, "Gemini API key not configured", result.Error)
		assert.Equal(t, false, result.Details["has_api_key"])
		assert.Empty(t, ai.prompt)
	})

	t.Run("sends trivial prompt and returns the response", func(t *testing.T) {
		ai := &fakeAIProber{hasKey: true, model: "gemini-pro", response: "OK"}
		service := NewProbeService(ai, &fakeWhatsAppProber{}, zap.NewNop())

		result := service.TestGemini(context.Background())

		assert.True(t, result.Success)
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Equal(t, "Gemini API connection successful", result.Message)
		assert.Equal(t, "OK", result.TestResponse)
		assert.Equal(t, "gemini-pro", result.Details["model"])
		assert.Contains(t, ai.prompt, "Responda apenas 'OK'")
		assert.Equal(t, 0.1, ai.temp)
		assert.Equal(t, 10, ai.tokens)
	})

	t.Run("reports provider failure", func(t *testing.T) {
		ai := &fakeAIProber{hasKey: true, err: errors.New("quota exceeded")}
		service := NewProbeService(ai, &fakeWhatsAppProber{}, zap.NewNop())

		result := service.TestGemini(context.Background())

		assert.False(t, result.Success)
		assert.Equal(t, http.StatusBadGateway, result.StatusCode)
		assert.Equal(t, "Gemini API connection failed", result.Error)
		assert.Equal(t, "quota exceeded", result.Details["error"])
	})
}

func TestProbeService_TestWhatsApp(t *testing.T) {
	t.Run("reports which credentials are missing", func(t *testing.T) {
		wa := &fakeWhatsAppProber{hasKey: true, hasNumberID: false}
		service := NewProbeService(&fakeAIProber{}, wa, zap.NewNop())

		result := service.TestWhatsApp(context.Background())

		assert.False(t, result.Success)
		assert.Equal(t, http.StatusBadRequest, result.StatusCode)
		assert.Equal(t, "WhatsApp API credentials not configured", result.Error)
		assert.Equal(t, true, result.Details["has_api_key"])
		assert.Equal(t, false, result.Details["has_number_id"])
	})

	t.Run("returns phone number info on success", func(t *testing.T) {
		info := &whatsapp.NumberInfo{
			ID:                 "1234567890",
			DisplayPhoneNumber: "+55 11 99999-8888",
			VerifiedName:       "Agendify",
			QualityRating:      "GREEN",
		}
		wa := &fakeWhatsAppProber{hasKey: true, hasNumberID: true, info: info}
		service := NewProbeService(&fakeAIProber{}, wa, zap.NewNop())

		result := service.TestWhatsApp(context.Background())

		require.True(t, result.Success)
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Equal(t, "WhatsApp API connection successful", result.Message)
		assert.Equal(t, info, result.PhoneNumberInfo)
	})

	t.Run("reports provider failure", func(t *testing.T) {
		wa := &fakeWhatsAppProber{hasKey: true, hasNumberID: true, err: errors.New("invalid OAuth access token")}
		service := NewProbeService(&fakeAIProber{}, wa, zap.NewNop())

		result := service.TestWhatsApp(context.Background())

		assert.False(t, result.Success)
		assert.Equal(t, http.StatusBadGateway, result.StatusCode)
		assert.Equal(t, "WhatsApp API connection failed", result.Error)
		assert.Equal(t, "invalid OAuth access token", result.Details["error"])
	})
}
