package llm

import (
	"context"
)

// Backend provides a provider-neutral interface for making completion API calls.
// Implementations should handle provider-specific details internally.
type Backend interface {
	// Complete sends a request and returns a complete response.
	// This is for non-streaming use cases.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)

	// CompleteStream sends a request and returns a stream of text deltas.
	// The caller should read from the returned DeltaStream until it's done
	// or an error occurs, then Close it.
	CompleteStream(ctx context.Context, req *CompletionRequest) (DeltaStream, error)
}

// DeltaStream represents a streaming completion response. Streams are
// finite and single-pass: once Next returns false the stream cannot be
// restarted.
type DeltaStream interface {
	// Next advances to the next delta in the stream.
	// Returns false when the stream is complete or an error occurs.
	Next() bool

	// Delta returns the current text fragment.
	// Should only be called after Next() returns true.
	Delta() string

	// Err returns any error that occurred during streaming.
	Err() error

	// Close closes the stream and releases resources.
	Close() error
}
