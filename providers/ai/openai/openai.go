package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/aabbccddwasd/llm-client/internal/utils"
	"github.com/aabbccddwasd/llm-client/providers/ai"
	"github.com/aabbccddwasd/llm-client/providers/observability"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"
	embeddingsEndpoint      = "/embeddings"
)

var (
	_ ai.StreamProvider    = (*Provider)(nil)
	_ ai.EmbeddingProvider = (*Provider)(nil)
)

// Provider implements ai.Provider, ai.StreamProvider and
// ai.EmbeddingProvider for OpenAI-compatible endpoints.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     observability.Logger
}

// NewProvider creates a provider with defaults taken from the environment:
// OPENAI_API_KEY for the key and OPENAI_API_BASE_URL for the endpoint.
func NewProvider() *Provider {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Provider{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
		log:     observability.Noop(),
	}
}

// WithAPIKey sets the API key for the provider.
func (provider *Provider) WithAPIKey(apiKey string) ai.Provider {
	provider.apiKey = apiKey
	return provider
}

// WithBaseURL sets the base URL for the API.
func (provider *Provider) WithBaseURL(baseURL string) ai.Provider {
	provider.baseURL = baseURL
	return provider
}

// WithHTTPClient sets a custom HTTP client.
func (provider *Provider) WithHTTPClient(httpClient *http.Client) ai.Provider {
	provider.client = httpClient
	return provider
}

// WithObserver injects a structured-logging sink.
func (provider *Provider) WithObserver(logger observability.Logger) *Provider {
	provider.log = observability.OrNoop(logger)
	return provider
}

// SendMessage implements ai.Provider with a synchronous call.
func (provider *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if provider.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	spec := ai.SpecForModel(request.Model)
	provider.log.Debug(ctx, "sending chat request",
		observability.String(observability.AttrModel, request.Model),
		observability.String(observability.AttrModelFamily, spec.Family),
		observability.String(observability.AttrEndpoint, provider.baseURL),
		observability.Int(observability.AttrRequestMessages, len(request.Messages)),
		observability.Int(observability.AttrRequestTools, len(request.Tools)),
		observability.Bool(observability.AttrRequestStream, false))

	httpResponse, resp, err := utils.DoPostSync[chatCompletionResponse](
		ctx, provider.client, provider.baseURL+chatCompletionsEndpoint, provider.apiKey,
		requestToChatCompletion(request, spec))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response: %s", httpResponse.Status)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return responseToGeneric(resp, spec), nil
}

// Embed implements ai.EmbeddingProvider.
func (provider *Provider) Embed(ctx context.Context, request ai.EmbeddingRequest) (*ai.EmbeddingResponse, error) {
	if provider.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}
	if len(request.Input) == 0 {
		return nil, fmt.Errorf("embedding request has no input")
	}

	_, resp, err := utils.DoPostSync[embeddingResponse](
		ctx, provider.client, provider.baseURL+embeddingsEndpoint, provider.apiKey,
		embeddingRequest{Model: request.Model, Input: request.Input})
	if err != nil {
		return nil, err
	}

	result := &ai.EmbeddingResponse{}
	for _, item := range resp.Data {
		result.Embeddings = append(result.Embeddings, ai.Embedding{
			Index:  item.Index,
			Vector: item.Embedding,
		})
	}
	if resp.Usage != nil {
		result.Usage = &ai.Usage{
			PromptTokens: resp.Usage.PromptTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}
	return result, nil
}
