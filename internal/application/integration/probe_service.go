// Package integration holds connectivity probes for the external providers.
package integration

import (
	"context"
	"net/http"

	"github.com/agendify/backend/internal/infrastructure/whatsapp"
	"go.uber.org/zap"
)

const (
	probePrompt      = "Responda apenas 'OK' se você pode me ouvir."
	probeTemperature = 0.1
	probeMaxTokens   = 10
)

// AIProber is the slice of the AI client the probe needs
type AIProber interface {
	HasAPIKey() bool
	Model() string
	GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// WhatsAppProber is the slice of the WhatsApp client the probe needs
type WhatsAppProber interface {
	HasAPIKey() bool
	HasNumberID() bool
	GetNumberInfo(ctx context.Context) (*whatsapp.NumberInfo, error)
}

// ProbeResult is the outcome of a connectivity test. Success false with a
// populated Error means the provider is unreachable or misconfigured.
// StatusCode carries the HTTP status the endpoint should answer with:
// 400 for missing credentials, 502 when the provider rejects the call.
type ProbeResult struct {
	StatusCode      int                    `json:"-"`
	Success         bool                   `json:"success"`
	Message         string                 `json:"message,omitempty"`
	TestResponse    string                 `json:"test_response,omitempty"`
	Error           string                 `json:"error,omitempty"`
	Details         map[string]interface{} `json:"details,omitempty"`
	PhoneNumberInfo *whatsapp.NumberInfo   `json:"phone_number_info,omitempty"`
}

// ProbeService runs connectivity checks against the AI and WhatsApp providers
type ProbeService struct {
	ai       AIProber
	whatsapp WhatsAppProber
	logger   *zap.Logger
}

// NewProbeService creates a new ProbeService
func NewProbeService(ai AIProber, wa WhatsAppProber, logger *zap.Logger) *ProbeService {
	return &ProbeService{
		ai:       ai,
		whatsapp: wa,
		logger:   logger.Named("probes"),
	}
}

// TestGemini sends a trivial prompt to the AI provider and reports whether a
// response came back.
func (s *ProbeService) TestGemini(ctx context.Context) *ProbeResult {
	if !s.ai.HasAPIKey() {
		return &ProbeResult{
			StatusCode: http.StatusBadRequest,
			Success:    false,
			Error:      "Gemini API key not configured",
			Details:    map[string]interface{}{"has_api_key": false},
		}
	}

	response, err := s.ai.GenerateContent(ctx, probePrompt, probeTemperature, probeMaxTokens)
	if err != nil {
		s.logger.Warn("Gemini connectivity probe failed", zap.Error(err))
		return &ProbeResult{
			StatusCode: http.StatusBadGateway,
			Success:    false,
			Error:      "Gemini API connection failed",
			Details:    map[string]interface{}{"error": err.Error()},
		}
	}

	return &ProbeResult{
		StatusCode:   http.StatusOK,
		Success:      true,
		Message:      "Gemini API connection successful",
		TestResponse: response,
		Details:      map[string]interface{}{"model": s.ai.Model()},
	}
}

// TestWhatsApp fetches the configured phone number record from the Cloud API
// and reports whether the credentials work.
func (s *ProbeService) TestWhatsApp(ctx context.Context) *ProbeResult {
	if !s.whatsapp.HasAPIKey() || !s.whatsapp.HasNumberID() {
		return &ProbeResult{
			StatusCode: http.StatusBadRequest,
			Success:    false,
			Error:      "WhatsApp API credentials not configured",
			Details: map[string]interface{}{
				"has_api_key":   s.whatsapp.HasAPIKey(),
				"has_number_id": s.whatsapp.HasNumberID(),
			},
		}
	}

	info, err := s.whatsapp.GetNumberInfo(ctx)
	if err != nil {
		s.logger.Warn("WhatsApp connectivity probe failed", zap.Error(err))
		return &ProbeResult{
			StatusCode: http.StatusBadGateway,
			Success:    false,
			Error:      "WhatsApp API connection failed",
			Details:    map[string]interface{}{"error": err.Error()},
		}
	}

	return &ProbeResult{
		StatusCode:      http.StatusOK,
		Success:         true,
		Message:         "WhatsApp API connection successful",
		PhoneNumberInfo: info,
	}
}
