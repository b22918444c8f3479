package handler

import (
	"net/http"

	messagingapp "github.com/agendify/backend/internal/application/messaging"
	"github.com/gin-gonic/gin"
)

// WebhookHandler handles the WhatsApp Cloud API webhook endpoints
type WebhookHandler struct {
	BaseHandler
	service *messagingapp.InboundService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(service *messagingapp.InboundService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// Verify answers the provider's subscription handshake. The provider expects
// the raw challenge string back, not a JSON envelope.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	echo, err := h.service.VerifyWebhook(mode, token, challenge)
	if err != nil {
		c.String(http.StatusForbidden, "Verification failed")
		return
	}
	c.String(http.StatusOK, echo)
}

// Receive processes an inbound webhook delivery. The endpoint always
// acknowledges with 200 so the provider does not retry the delivery;
// per-message failures are handled inside the service.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload messagingapp.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.String(http.StatusOK, "OK")
		return
	}

	h.service.ProcessWebhook(c.Request.Context(), payload)
	c.String(http.StatusOK, "OK")
}
