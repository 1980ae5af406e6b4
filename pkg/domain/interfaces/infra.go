package interfaces

import "context"

// Fetcher retrieves remote content into a local file
type Fetcher interface {
	// FetchFile streams the body at url into path, following redirects, and
	// returns the number of bytes written.
	FetchFile(ctx context.Context, url, path string) (int64, error)
}

// LLMClient produces a completion for a prompt
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Speaker renders text as audible speech
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Recognizer produces one recognized utterance per call
type Recognizer interface {
	// Listen blocks until an utterance is available. It returns io.EOF when
	// no further input will arrive.
	Listen(ctx context.Context) (string, error)
}
