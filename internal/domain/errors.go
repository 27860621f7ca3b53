package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals an empty or malformed query or upload.
	ErrValidation = errors.New("validation failed")
	// ErrParse signals a malformed knowledge CSV.
	ErrParse = errors.New("parse error")
	// ErrConfiguration signals missing or invalid startup configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNoKnowledge signals that the knowledge base is empty.
	ErrNoKnowledge = errors.New("knowledge base is empty")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a chat completion provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
)

// IsUpstream reports whether err came from an external embedding or generation call.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrEmbeddingProviderError) ||
		errors.Is(err, ErrGenerationProviderError) ||
		errors.Is(err, ErrRateLimited)
}
