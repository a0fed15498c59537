package domain

import "context"

// Completer is the chat completion contract used by the analyzer.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// CompletionRequest is a single-turn prompt sent to the language model.
type CompletionRequest struct {
	System string
	Prompt string
}

// CompletionResult carries the raw model text and token usage.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
