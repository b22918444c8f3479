package whatsapp

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

func newTestClient(serverURL string) *Client {
	return NewClient(config.WhatsAppConfig{
		APIKey:   "test-token",
		NumberID: "123456789",
		BaseURL:  serverURL,
		Timeout:  5 * time.Second,
	})
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "international format", input: "+55 (11) 99999-8888", want: "5511999998888"},
		{name: "already bare digits", input: "5511999998888", want: "5511999998888"},
		{name: "letters stripped", input: "tel:5511999998888", want: "5511999998888"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestClient_SendText(t *testing.T) {
	t.Run("sends message and returns provider ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/123456789/messages", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var req sendMessageRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "whatsapp", req.MessagingProduct)
			assert.Equal(t, "5511999998888", req.To)
			assert.Equal(t, "text", req.Type)
			assert.Equal(t, "Despesa registrada!", req.Text.Body)

			_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.test123"}]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		messageID, err := client.SendText(context.Background(), "+55 (11) 99999-8888", "Despesa registrada!")

		assert.NoError(t, err)
		assert.Equal(t, "wamid.test123", messageID)
	})

	t.Run("returns configuration error without credentials", func(t *testing.T) {
		client := NewClient(config.WhatsAppConfig{})

		_, err := client.SendText(context.Background(), "5511999998888", "olá")

		assert.True(t, errors.Is(err, shared.ErrConfiguration))
	})

	t.Run("surfaces provider error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.SendText(context.Background(), "5511999998888", "olá")

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrUpstream))
		assert.Contains(t, err.Error(), "Invalid OAuth access token")
	})

	t.Run("rejects response without message ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"messages":[]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.SendText(context.Background(), "5511999998888", "olá")

		assert.True(t, errors.Is(err, shared.ErrUpstream))
	})
}

func TestClient_GetNumberInfo(t *testing.T) {
	t.Run("returns number metadata", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/123456789", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			_, _ = w.Write([]byte(`{"id":"123456789","display_phone_number":"+55 11 99999-8888","verified_name":"Agendify","quality_rating":"GREEN"}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		info, err := client.GetNumberInfo(context.Background())

		assert.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, "123456789", info.ID)
		assert.Equal(t, "Agendify", info.VerifiedName)
	})

	t.Run("returns configuration error without number ID", func(t *testing.T) {
		client := NewClient(config.WhatsAppConfig{APIKey: "token"})

		_, err := client.GetNumberInfo(context.Background())

		assert.True(t, errors.Is(err, shared.ErrConfiguration))
	})

	t.Run("surfaces provider error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"Unsupported get request","type":"GraphMethodException","code":100}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.GetNumberInfo(context.Background())

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrUpstream))
		assert.Contains(t, err.Error(), "Unsupported get request")
	})
}
