package messaging

import (
	"context"

	"github.com/agendify/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WhatsAppLog is the persisted record of one inbound exchange. Entries are
// written once and never mutated; Processed is stored false on insert and
// currently has no consumer that flips it.
type WhatsAppLog struct {
	shared.BaseEntity
	UserID      uuid.UUID
	MessageType MessageType
	Content     string
	HasFile     bool
	FileType    string
	FileURL     string
	Processed   bool
}

// NewWhatsAppLog creates a log entry for an inbound message. Content is the
// text body for text messages and empty otherwise; any non-text kind counts
// as carrying an attachment.
func NewWhatsAppLog(userID uuid.UUID, msg InboundMessage) *WhatsAppLog {
	content := ""
	if msg.Type.IsText() {
		content = msg.Body
	}
	return &WhatsAppLog{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		MessageType: msg.Type,
		Content:     content,
		HasFile:     !msg.Type.IsText(),
		Processed:   false,
	}
}

// WhatsAppLogRepository defines persistence for webhook message logs
type WhatsAppLogRepository interface {
	Save(ctx context.Context, log *WhatsAppLog) error
}
