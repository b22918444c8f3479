package messaging

import (
	"context"

	"go.uber.org/zap"
)

// MessageSender delivers a text message and returns the provider message ID
type MessageSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// NotificationService sends outbound WhatsApp messages
type NotificationService struct {
	sender MessageSender
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(sender MessageSender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		sender: sender,
		logger: logger.Named("notifications"),
	}
}

// SendMessageRequest represents a request to send a text message
type SendMessageRequest struct {
	To      string `json:"to" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// SendMessageResponse represents the outcome of a send
type SendMessageResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// Send delivers a text message to a phone number
func (s *NotificationService) Send(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	messageID, err := s.sender.SendText(ctx, req.To, req.Message)
	if err != nil {
		s.logger.Error("Failed to send message", zap.String("to", req.To), zap.Error(err))
		return nil, err
	}

	return &SendMessageResponse{
		Success:   true,
		MessageID: messageID,
		Status:    "sent",
	}, nil
}
