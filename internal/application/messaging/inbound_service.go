// Package messaging contains the webhook inbound pipeline and the outbound
// notification operations.
package messaging

import (
	"context"
	"errors"

	appfinance "github.com/agendify/backend/internal/application/finance"
	"github.com/agendify/backend/internal/domain/identity"
	"github.com/agendify/backend/internal/domain/messaging"
	"github.com/agendify/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// extractionSource tags expenses and suggestions created from webhook traffic
const extractionSource = "whatsapp"

// WebhookPayload is the notification envelope the Cloud API delivers
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry is one account-level entry inside a webhook delivery
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange is one change notification inside an entry
type WebhookChange struct {
	Field string             `json:"field"`
	Value WebhookChangeValue `json:"value"`
}

// WebhookChangeValue carries the messages of a change. Status and contact
// notifications arrive in the same shape; only messages are processed.
type WebhookChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []WebhookMessage `json:"messages"`
}

// WebhookMessage is one inbound message as delivered by the Cloud API
type WebhookMessage struct {
	ID        string       `json:"id"`
	From      string       `json:"from"`
	Type      string       `json:"type"`
	Timestamp string       `json:"timestamp"`
	Text      *WebhookText `json:"text,omitempty"`
}

// WebhookText is the text body of a text message
type WebhookText struct {
	Body string `json:"body"`
}

// toInbound converts the wire message to the domain representation
func (m WebhookMessage) toInbound() messaging.InboundMessage {
	body := ""
	if m.Text != nil {
		body = m.Text.Body
	}
	return messaging.InboundMessage{
		ID:        m.ID,
		From:      m.From,
		Type:      messaging.MessageType(m.Type),
		Body:      body,
		Timestamp: m.Timestamp,
	}
}

// ProcessResult summarizes one webhook delivery. It is logged, not returned
// to the caller: the webhook endpoint always acknowledges with 200.
type ProcessResult struct {
	Received        int
	Matched         int
	Logged          int
	ExpensesCreated int
}

// ExpenseExtractor runs AI expense extraction over a message
type ExpenseExtractor interface {
	Extract(ctx context.Context, userID uuid.UUID, message, source string) (*appfinance.ExtractionResult, error)
}

// InboundService processes webhook verification and inbound messages.
// Per-message failures are logged and swallowed; a lost message must never
// make the provider retry the whole delivery.
type InboundService struct {
	profileRepo identity.ProfileRepository
	logRepo     messaging.WhatsAppLogRepository
	extractor   ExpenseExtractor
	verifyToken string
	logger      *zap.Logger
}

// NewInboundService creates a new InboundService
func NewInboundService(
	profileRepo identity.ProfileRepository,
	logRepo messaging.WhatsAppLogRepository,
	extractor ExpenseExtractor,
	verifyToken string,
	logger *zap.Logger,
) *InboundService {
	return &InboundService{
		profileRepo: profileRepo,
		logRepo:     logRepo,
		extractor:   extractor,
		verifyToken: verifyToken,
		logger:      logger.Named("webhook"),
	}
}

// VerifyWebhook answers the provider's subscription handshake. The challenge
// is echoed back only for a subscribe request with the matching token.
func (s *InboundService) VerifyWebhook(mode, token, challenge string) (string, error) {
	if mode == "subscribe" && token != "" && token == s.verifyToken {
		return challenge, nil
	}
	return "", shared.NewDomainError("VERIFICATION_FAILED", "Verification failed")
}

// ProcessWebhook walks every message in the delivery and runs the pipeline:
// resolve the sender to a profile, log the message, and extract an expense
// from text messages.
func (s *InboundService) ProcessWebhook(ctx context.Context, payload WebhookPayload) ProcessResult {
	var result ProcessResult
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, message := range change.Value.Messages {
				result.Received++
				s.processMessage(ctx, message.toInbound(), &result)
			}
		}
	}

	s.logger.Info("Processed webhook delivery",
		zap.Int("received", result.Received),
		zap.Int("matched", result.Matched),
		zap.Int("logged", result.Logged),
		zap.Int("expenses_created", result.ExpensesCreated),
	)
	return result
}

func (s *InboundService) processMessage(ctx context.Context, msg messaging.InboundMessage, result *ProcessResult) {
	profile, err := s.profileRepo.FindByPhone(ctx, msg.From)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("No profile for sender, skipping message", zap.String("from", msg.From))
		} else {
			s.logger.Error("Failed to resolve sender profile", zap.String("from", msg.From), zap.Error(err))
		}
		return
	}
	result.Matched++

	log := messaging.NewWhatsAppLog(profile.UserID, msg)
	if err := s.logRepo.Save(ctx, log); err != nil {
		s.logger.Error("Failed to log inbound message",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
	} else {
		result.Logged++
	}

	if !msg.HasBody() {
		return
	}

	extraction, err := s.extractor.Extract(ctx, profile.UserID, msg.Body, extractionSource)
	if err != nil {
		s.logger.Error("Expense extraction failed",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return
	}
	if extraction.ExpenseCreated {
		result.ExpensesCreated++
	}
}
