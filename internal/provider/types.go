package provider

// Message is a single chat message in the completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the chat-completion request sent to the hosted provider.
// Sampling parameters are deliberately absent; the provider's defaults
// apply on every call.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// ChatResponse mirrors the subset of the completion response we consume.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

// Choice is one completion alternative; only the first is ever used.
type Choice struct {
	Message Message `json:"message"`
}
