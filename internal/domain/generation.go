package domain

import "context"

// Generator produces a chat completion from a system prompt and a user prompt.
// Provider failures wrap ErrGenerationProviderError.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (GenerationResult, error)
}

// GenerationResult carries generated text and token usage.
type GenerationResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}
