package ai

import (
	"context"
	"net/http"
)

// Provider is the interface every model endpoint implementation must
// satisfy for synchronous (non-streaming) calls.
type Provider interface {
	// SendMessage sends a chat request and returns the completed response.
	// Returns an error if the call fails, the context is cancelled, or the
	// response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHTTPClient sets the HTTP client used for outbound requests.
	WithHTTPClient(httpClient *http.Client) Provider
}

// StreamProvider is implemented by providers that support SSE streaming.
// Callers detect support via type assertion: provider.(StreamProvider).
type StreamProvider interface {
	Provider

	// StreamChunks sends a chat request with streaming enabled and returns
	// the raw chunk stream. Pre-stream errors (auth, bad request, network)
	// are returned directly; mid-stream errors are yielded through the
	// iterator.
	StreamChunks(ctx context.Context, request ChatRequest) (*ChunkStream, error)
}

// EmbeddingProvider is implemented by providers that expose an embeddings
// endpoint.
type EmbeddingProvider interface {
	// Embed returns embedding vectors for the request inputs, in input order.
	Embed(ctx context.Context, request EmbeddingRequest) (*EmbeddingResponse, error)
}
