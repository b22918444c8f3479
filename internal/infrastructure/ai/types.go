package ai

// generateContentRequest is the request body for the generateContent endpoint
type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateContentResponse is the response body for the generateContent endpoint
type generateContentResponse struct {
	Candidates []candidate    `json:"candidates"`
	Error      *providerError `json:"error,omitempty"`
}

type candidate struct {
	Content content `json:"content"`
}

// providerError is the error envelope returned on non-2xx responses
type providerError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
