package openai

import (
	"context"
	"fmt"
	"io"

	"github.com/aabbccddwasd/llm-client/internal/utils"
	"github.com/aabbccddwasd/llm-client/providers/ai"
	"github.com/aabbccddwasd/llm-client/providers/observability"
)

// StreamChunks implements ai.StreamProvider against the chat completions
// endpoint. It sends the request with stream=true and returns a ChunkStream
// that yields provider-neutral chunks as SSE events arrive.
func (provider *Provider) StreamChunks(ctx context.Context, request ai.ChatRequest) (*ai.ChunkStream, error) {
	if provider.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	spec := ai.SpecForModel(request.Model)
	provider.log.Debug(ctx, "opening chat stream",
		observability.String(observability.AttrModel, request.Model),
		observability.String(observability.AttrModelFamily, spec.Family),
		observability.String(observability.AttrEndpoint, provider.baseURL),
		observability.Int(observability.AttrRequestMessages, len(request.Messages)),
		observability.Int(observability.AttrRequestTools, len(request.Tools)),
		observability.Bool(observability.AttrRequestStream, true))

	chatRequest := requestToChatCompletion(request, spec)
	chatRequest.Stream = utils.Ptr(true)
	chatRequest.StreamOptions = &streamOptions{IncludeUsage: true}

	httpResponse, err := utils.DoPostStream(ctx, provider.client,
		provider.baseURL+chatCompletionsEndpoint, provider.apiKey, chatRequest)
	if err != nil {
		return nil, err
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.RawChunk, error) bool) {
		defer utils.CloseWithLog(ctx, httpResponse.Body)

		for {
			if ctx.Err() != nil {
				yield(ai.RawChunk{}, ctx.Err())
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				return
			}
			if sseErr != nil {
				yield(ai.RawChunk{}, fmt.Errorf("SSE read error: %w", sseErr))
				return
			}

			chunk, parseErr := unmarshalStreamChunk(payload)
			if parseErr != nil {
				yield(ai.RawChunk{}, fmt.Errorf("failed to parse streaming chunk: %w", parseErr))
				return
			}

			if !yield(chunkToRaw(chunk, spec), nil) {
				return
			}
		}
	}

	return ai.NewChunkStream(iteratorFunc), nil
}
