package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aabbccddwasd/llm-client/config"
	"github.com/aabbccddwasd/llm-client/core/normalize"
	"github.com/aabbccddwasd/llm-client/providers/ai"
	"github.com/aabbccddwasd/llm-client/providers/ai/openai"
	"github.com/aabbccddwasd/llm-client/providers/observability"
)

// ErrModelNotFound is returned when a request names a call name absent from
// the registry.
var ErrModelNotFound = fmt.Errorf("model not found in registry")

// ProviderFactory builds the provider for one registry entry. The default
// factory constructs an OpenAI-compatible provider from the entry's
// endpoint and key; tests and custom gateways can substitute their own.
type ProviderFactory func(model config.ModelConfig) ai.Provider

// Option configures a Client.
type Option func(*Client)

// WithObserver injects the structured-logging sink used by the client and
// every normalizer it spawns.
func WithObserver(logger observability.Logger) Option {
	return func(c *Client) {
		c.log = observability.OrNoop(logger)
	}
}

// WithHTTPClient sets the HTTP client handed to default-constructed
// providers.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithProviderFactory replaces provider construction.
func WithProviderFactory(factory ProviderFactory) Option {
	return func(c *Client) {
		c.newProvider = factory
	}
}

// Client routes chat, batch and embedding requests to configured model
// endpoints and normalizes every response. Providers are built once per
// registry entry and reused; a Client is safe for concurrent use after
// construction.
type Client struct {
	cfg        *config.Config
	log        observability.Logger
	httpClient *http.Client

	newProvider ProviderFactory
	providers   map[string]ai.Provider
}

// New builds a Client over a validated registry.
func New(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		cfg:       cfg,
		log:       observability.Noop(),
		providers: make(map[string]ai.Provider, len(cfg.Models)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.newProvider == nil {
		c.newProvider = func(model config.ModelConfig) ai.Provider {
			provider := openai.NewProvider().WithObserver(c.log)
			provider.WithAPIKey(model.APIKey)
			if model.APIBase != "" {
				provider.WithBaseURL(model.APIBase)
			}
			if c.httpClient != nil {
				provider.WithHTTPClient(c.httpClient)
			}
			return provider
		}
	}

	for _, model := range cfg.Models {
		c.providers[model.CallName] = c.newProvider(model)
	}
	return c
}

// resolve maps a request's call name (or the registry default when empty)
// to its provider, its wire model name and the effective request settings.
func (c *Client) resolve(request ai.ChatRequest) (ai.Provider, config.ModelConfig, ai.ChatRequest, error) {
	model := c.cfg.Default()
	if request.Model != "" {
		found, ok := c.cfg.Lookup(request.Model)
		if !ok {
			return nil, config.ModelConfig{}, request, fmt.Errorf("%w: %q", ErrModelNotFound, request.Model)
		}
		model = found
	}

	request.Model = model.Name
	if request.MaxTokens == 0 {
		request.MaxTokens = model.MaxTokens
	}
	// Registry defaults turn thinking on; a request can only add to them,
	// since a false bool is indistinguishable from unset.
	request.EnableThinking = request.EnableThinking || model.EnableThinking
	request.KeepThinking = request.KeepThinking || model.KeepThinking

	return c.providers[model.CallName], model, request, nil
}

func (c *Client) normalizeOptions(ctx context.Context, request ai.ChatRequest) []normalize.Option {
	return []normalize.Option{
		normalize.WithKeepThinking(request.KeepThinking),
		normalize.WithObserver(c.log),
		normalize.WithContext(ctx),
	}
}

// Chat sends one request synchronously and returns the normalized terminal
// aggregate. The response runs through the same engine streaming responses
// do, so tool calls are validated and thinking is split identically.
func (c *Client) Chat(ctx context.Context, request ai.ChatRequest) (*normalize.Completion, error) {
	provider, _, resolved, err := c.resolve(request)
	if err != nil {
		return nil, err
	}

	response, err := provider.SendMessage(ctx, resolved)
	if err != nil {
		return nil, err
	}

	spec := ai.SpecForModel(resolved.Model)
	return normalize.ProcessResponse(spec, response, c.normalizeOptions(ctx, resolved)...).Collect()
}

// ChatStream sends one request with streaming enabled and returns the live
// normalized event stream.
func (c *Client) ChatStream(ctx context.Context, request ai.ChatRequest) (*normalize.EventStream, error) {
	provider, model, resolved, err := c.resolve(request)
	if err != nil {
		return nil, err
	}

	streamer, ok := provider.(ai.StreamProvider)
	if !ok {
		return nil, fmt.Errorf("model %q: provider does not support streaming", model.CallName)
	}

	chunks, err := streamer.StreamChunks(ctx, resolved)
	if err != nil {
		return nil, err
	}

	spec := ai.SpecForModel(resolved.Model)
	return normalize.Process(spec, chunks, c.normalizeOptions(ctx, resolved)...), nil
}

// Embed requests embedding vectors through the model's provider.
func (c *Client) Embed(ctx context.Context, request ai.EmbeddingRequest) (*ai.EmbeddingResponse, error) {
	model := c.cfg.Default()
	if request.Model != "" {
		found, ok := c.cfg.Lookup(request.Model)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrModelNotFound, request.Model)
		}
		model = found
	}

	embedder, ok := c.providers[model.CallName].(ai.EmbeddingProvider)
	if !ok {
		return nil, fmt.Errorf("model %q: provider does not support embeddings", model.CallName)
	}

	request.Model = model.Name
	return embedder.Embed(ctx, request)
}
