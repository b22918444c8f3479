package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	integrationapp "github.com/agendify/backend/internal/application/integration"
	"github.com/agendify/backend/internal/infrastructure/whatsapp"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAIProber struct {
	hasKey   bool
	response string
	err      error
}

func (f *fakeAIProber) HasAPIKey() bool { return f.hasKey }
func (f *fakeAIProber) Model() string   { return "gemini-pro" }

func (f *fakeAIProber) GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeWhatsAppProber struct {
	hasKey      bool
	hasNumberID bool
	info        *whatsapp.NumberInfo
}

func (f *fakeWhatsAppProber) HasAPIKey() bool   { return f.hasKey }
func (f *fakeWhatsAppProber) HasNumberID() bool { return f.hasNumberID }

func (f *fakeWhatsAppProber) GetNumberInfo(ctx context.Context) (*whatsapp.NumberInfo, error) {
	return f.info, nil
}

func setupProbeRouter(ai *fakeAIProber, wa *fakeWhatsAppProber) *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := integrationapp.NewProbeService(ai, wa, zap.NewNop())
	h := NewProbeHandler(service)

	engine := gin.New()
	engine.POST("/api/v1/ai/test-connection", h.TestGemini)
	engine.POST("/api/v1/whatsapp/test-connection", h.TestWhatsApp)
	return engine
}

func TestProbeHandler_TestGemini(t *testing.T) {
	t.Run("reports success with test response", func(t *testing.T) {
		engine := setupProbeRouter(&fakeAIProber{hasKey: true, response: "OK"}, &fakeWhatsAppProber{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/test-connection", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var result integrationapp.ProbeResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, "OK", result.TestResponse)
	})

	t.Run("answers bad request when the key is missing", func(t *testing.T) {
		engine := setupProbeRouter(&fakeAIProber{hasKey: false}, &fakeWhatsAppProber{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/test-connection", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var result integrationapp.ProbeResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Equal(t, "Gemini API key not configured", result.Error)
	})

	t.Run("answers bad gateway when the provider rejects", func(t *testing.T) {
		engine := setupProbeRouter(&fakeAIProber{hasKey: true, err: errors.New("quota exceeded")}, &fakeWhatsAppProber{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/test-connection", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadGateway, w.Code)
		var result integrationapp.ProbeResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Equal(t, "Gemini API connection failed", result.Error)
	})
}

func TestProbeHandler_TestWhatsApp(t *testing.T) {
	engine := setupProbeRouter(&fakeAIProber{}, &fakeWhatsAppProber{
		hasKey:      true,
		hasNumberID: true,
		info:        &whatsapp.NumberInfo{ID: "1234567890", VerifiedName: "Agendify"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/whatsapp/test-connection", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result integrationapp.ProbeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	require.NotNil(t, result.PhoneNumberInfo)
	assert.Equal(t, "Agendify", result.PhoneNumberInfo.VerifiedName)
}
