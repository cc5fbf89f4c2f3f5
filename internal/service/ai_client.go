package service

import (
	"context"
)

// Chat roles understood by every completion provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SamplingParams tunes a single completion call. Zero values fall back to
// the provider configuration.
type SamplingParams struct {
	Temperature float64
	MaxTokens   int
}

// Completer is the interface for completion providers.
// Output is unstructured text and may be malformed or off-schema.
type Completer interface {
	Complete(ctx context.Context, messages []Message, params SamplingParams) (string, error)
}

// Sampling presets per pipeline stage
var (
	classifyParams   = SamplingParams{Temperature: 0.3, MaxTokens: 20}
	extractParams    = SamplingParams{Temperature: 0.2, MaxTokens: 200}
	synthesizeParams = SamplingParams{Temperature: 0.7, MaxTokens: 200}
	declineParams    = SamplingParams{Temperature: 0.7, MaxTokens: 100}
)

// Ensure the providers implement Completer
var (
	_ Completer = (*OpenAIClient)(nil)
	_ Completer = (*OpenAISDKClient)(nil)
	_ Completer = (*BreakerCompleter)(nil)
)
