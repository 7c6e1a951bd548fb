package llm

import "context"

// Request is a single-turn completion request. The concierge never sends
// conversation history; each inbound text is its own prompt.
type Request struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int32
	Temperature float32
}

// Response carries the first candidate's text, already trimmed.
type Response struct {
	Text       string
	StopReason string
}

// Client is a provider-agnostic text-generation backend. Provider response
// shapes stay inside the adapters; callers only see Request/Response.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
