// Package whatsapp wraps the WhatsApp Business (Graph API) messaging
// endpoints used for outbound notifications and the connection probe.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/agendify/backend/internal/domain/shared"
	"github.com/agendify/backend/internal/infrastructure/config"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 1 * 1024 * 1024 // 1MB max response

// nonDigits matches everything that is not a digit; recipient numbers are
// normalized to bare digits before hitting the Graph API.
var nonDigits = regexp.MustCompile(`\D`)

// Client calls the WhatsApp Business messaging API
type Client struct {
	cfg        config.WhatsAppConfig
	httpClient *http.Client
}

// NewClient creates a new WhatsApp client. Missing credentials are not an
// error here; requests fail with a configuration error instead, and the
// connection probe reports which credential is absent.
func NewClient(cfg config.WhatsAppConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// HasAPIKey reports whether an access token is configured
func (c *Client) HasAPIKey() bool {
	return c.cfg.APIKey != ""
}

// HasNumberID reports whether a business phone number ID is configured
func (c *Client) HasNumberID() bool {
	return c.cfg.NumberID != ""
}

// NormalizePhone strips every non-digit character from a phone number
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// SendText sends a plain text message to the given phone number and returns
// the provider message ID. The recipient number is normalized to digits.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	if !c.HasAPIKey() || !c.HasNumberID() {
		return "", fmt.Errorf("%w: whatsapp credentials are not configured", shared.ErrConfiguration)
	}

	reqBody := sendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               NormalizePhone(to),
		Type:             "text",
		Text:             textBody{Body: body},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("whatsapp: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.cfg.BaseURL, c.cfg.NumberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("whatsapp: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("whatsapp: failed to read response: %w", err)
	}

	var parsed sendMessageResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("whatsapp: failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if parsed.Error != nil {
			return "", fmt.Errorf("%w: whatsapp: %d - %s", shared.ErrUpstream, resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("%w: whatsapp: HTTP %d", shared.ErrUpstream, resp.StatusCode)
	}

	if len(parsed.Messages) == 0 {
		return "", fmt.Errorf("%w: whatsapp: response contains no message ID", shared.ErrUpstream)
	}

	return parsed.Messages[0].ID, nil
}

// GetNumberInfo fetches metadata about the configured business phone number.
// Used by the connection probe to verify credentials.
func (c *Client) GetNumberInfo(ctx context.Context) (*NumberInfo, error) {
	if !c.HasAPIKey() || !c.HasNumberID() {
		return nil, fmt.Errorf("%w: whatsapp credentials are not configured", shared.ErrConfiguration)
	}

	url := fmt.Sprintf("%s/%s", c.cfg.BaseURL, c.cfg.NumberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("whatsapp: failed to read response: %w", err)
	}

	var parsed numberInfoResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, fmt.Errorf("whatsapp: failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if parsed.Error != nil {
			return nil, fmt.Errorf("%w: whatsapp: %d - %s", shared.ErrUpstream, resp.StatusCode, parsed.Error.Message)
		}
		return nil, fmt.Errorf("%w: whatsapp: HTTP %d", shared.ErrUpstream, resp.StatusCode)
	}

	return &parsed.NumberInfo, nil
}
