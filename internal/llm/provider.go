package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for the generative content service.
// Consumers call Generate with a Request and receive structured JSON.
type Provider interface {
	// Generate sends a prompt to the model and returns a structured response.
	// When the request carries a Schema, the response Content is JSON that
	// has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Synthesizer is implemented by providers that can turn text into speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) (*Audio, error)
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation history. Lingua only issues single-turn
	// requests, so this normally holds one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When nil, the response Content is the raw text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string

	// Attachments carry binary inputs such as a recorded audio sample.
	// Providers that cannot accept a given MIME type return *ErrUnsupported.
	Attachments []Attachment
}

// Attachment is an inline binary part of a message.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema, kebab-case, e.g. "lesson-task".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// SpeechRequest asks for a spoken rendition of Text.
type SpeechRequest struct {
	Text  string
	Voice string
}

// Audio is a synthesized or recorded audio sample.
type Audio struct {
	MIMEType string
	Data     []byte
}

// hasAttachments reports whether any message in req carries binary parts.
func hasAttachments(req Request) bool {
	for _, m := range req.Messages {
		if len(m.Attachments) > 0 {
			return true
		}
	}
	return false
}
