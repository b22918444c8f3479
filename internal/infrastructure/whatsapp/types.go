package whatsapp

// sendMessageRequest is the request body for the messages endpoint
type sendMessageRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// sendMessageResponse is the response body for the messages endpoint
type sendMessageResponse struct {
	Messages []sentMessage  `json:"messages"`
	Error    *providerError `json:"error,omitempty"`
}

type sentMessage struct {
	ID string `json:"id"`
}

// NumberInfo describes the business phone number behind the configured
// number ID, as returned by the Graph API.
type NumberInfo struct {
	ID                 string `json:"id"`
	DisplayPhoneNumber string `json:"display_phone_number"`
	VerifiedName       string `json:"verified_name"`
	QualityRating      string `json:"quality_rating"`
}

// numberInfoResponse wraps NumberInfo with the Graph error envelope
type numberInfoResponse struct {
	NumberInfo
	Error *providerError `json:"error,omitempty"`
}

// providerError is the Graph API error envelope
type providerError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}
