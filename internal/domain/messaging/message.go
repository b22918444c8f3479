package messaging

// MessageType represents the WhatsApp message kind as reported by the
// Cloud API (text, image, document, audio, ...).
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeDocument MessageType = "document"
	MessageTypeAudio    MessageType = "audio"
)

// String returns the string representation of MessageType
func (t MessageType) String() string {
	return string(t)
}

// IsText reports whether the message carries a plain text body
func (t MessageType) IsText() bool {
	return t == MessageTypeText
}

// InboundMessage is one message delivered through the webhook. It is
// transient: the pipeline logs it and, for text, forwards it to expense
// extraction, but never stores the raw payload itself.
type InboundMessage struct {
	ID        string
	From      string
	Type      MessageType
	Body      string
	Timestamp string
}

// HasBody reports whether the message is a text message with content
func (m InboundMessage) HasBody() bool {
	return m.Type.IsText() && m.Body != ""
}
