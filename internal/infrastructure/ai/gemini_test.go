package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agendify/backend/internal/domain/shared"
	"github.com/agendify/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeminiClient(serverURL string) *GeminiClient {
	return NewGeminiClient(config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "gemini-pro",
		Timeout: 5 * time.Second,
	})
}

func TestGeminiClient_GenerateContent(t *testing.T) {
	t.Run("returns first candidate text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))

			var req generateContentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Contents, 1)
			assert.Equal(t, "classifique esta despesa", req.Contents[0].Parts[0].Text)
			assert.InDelta(t, 0.1, req.GenerationConfig.Temperature, 1e-9)
			assert.Equal(t, 500, req.GenerationConfig.MaxOutputTokens)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"is_expense\":true}"}]}}]}`))
		}))
		defer server.Close()

		client := newTestGeminiClient(server.URL)
		text, err := client.GenerateContent(context.Background(), "classifique esta despesa", 0.1, 500)

		assert.NoError(t, err)
		assert.Equal(t, `{"is_expense":true}`, text)
	})

	t.Run("returns configuration error without API key", func(t *testing.T) {
		client := NewGeminiClient(config.GeminiConfig{Model: "gemini-pro"})

		_, err := client.GenerateContent(context.Background(), "olá", 0.1, 10)

		assert.True(t, errors.Is(err, shared.ErrConfiguration))
	})

	t.Run("surfaces provider error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
		}))
		defer server.Close()

		client := newTestGeminiClient(server.URL)
		_, err := client.GenerateContent(context.Background(), "olá", 0.1, 10)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrUpstream))
		assert.Contains(t, err.Error(), "API key not valid")
	})

	t.Run("rejects response without candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		client := newTestGeminiClient(server.URL)
		_, err := client.GenerateContent(context.Background(), "olá", 0.1, 10)

		assert.True(t, errors.Is(err, shared.ErrUpstream))
	})
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json fence",
			input: "```json\n{\"amount\": 50}\n```",
			want:  `{"amount": 50}`,
		},
		{
			name:  "bare fence",
			input: "```\n[1,2]\n```",
			want:  "[1,2]",
		},
		{
			name:  "no fence",
			input: `{"amount": 50}`,
			want:  `{"amount": 50}`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```json\n{}\n```\n  ",
			want:  "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.input))
		})
	}
}
