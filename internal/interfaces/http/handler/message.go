package handler

import (
	messagingapp "github.com/agendify/backend/internal/application/messaging"
	"github.com/gin-gonic/gin"
)

// MessageHandler handles outbound WhatsApp message endpoints
type MessageHandler struct {
	BaseHandler
	service *messagingapp.NotificationService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service *messagingapp.NotificationService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send delivers a text message to a phone number
func (h *MessageHandler) Send(c *gin.Context) {
	var req messagingapp.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Send(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
