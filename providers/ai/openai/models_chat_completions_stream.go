package openai

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/aabbccddwasd/llm-client/providers/ai"
)

/*
	CHAT COMPLETIONS STREAMING API

	These types model the SSE chunks of /chat/completions with stream=true.
	The delta object is kept raw alongside the typed view: model families
	put their reasoning text under different keys ("reasoning",
	"reasoning_content", sometimes nested), so it is looked up through the
	adapter's configured path instead of a hardcoded struct field.
*/

type chatCompletionStreamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"` // "chat.completion.chunk"
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []streamChoice `json:"choices"`
	Usage   *chatUsage     `json:"usage,omitempty"` // Final chunk only, with stream_options.include_usage
}

type streamChoice struct {
	Index        int             `json:"index"`
	Delta        json.RawMessage `json:"delta"`
	FinishReason *string         `json:"finish_reason"` // Nil until the final chunk for this choice
}

// streamDelta is the typed view of the delta object. Content is a pointer
// to distinguish an empty string from an absent field.
type streamDelta struct {
	Role      string               `json:"role,omitempty"`
	Content   *string              `json:"content,omitempty"`
	ToolCalls []streamToolCallPart `json:"tool_calls,omitempty"`
}

// streamToolCallPart is one incremental tool-call delta. The first part for
// an index carries the ID and function name; later parts carry argument
// text fragments.
type streamToolCallPart struct {
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Function struct {
		Name      string `json:"name,omitempty"`
		Arguments string `json:"arguments,omitempty"`
	} `json:"function"`
}

// streamOptions configures streaming behavior in the request.
type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

func unmarshalStreamChunk(data string) (*chatCompletionStreamChunk, error) {
	var chunk chatCompletionStreamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}

// extractReasoning pulls the reasoning text out of a raw delta or message
// object via the adapter's configured field path.
func extractReasoning(raw json.RawMessage, spec ai.AdapterSpec) string {
	if spec.ReasoningField == "" || len(raw) == 0 {
		return ""
	}
	return gjson.GetBytes(raw, spec.ReasoningField).String()
}

// chunkToRaw converts one wire chunk into the provider-neutral ai.RawChunk.
func chunkToRaw(chunk *chatCompletionStreamChunk, spec ai.AdapterSpec) ai.RawChunk {
	raw := ai.RawChunk{ID: chunk.ID}

	if chunk.Usage != nil {
		raw.Usage = usageToGeneric(chunk.Usage)
	}

	for _, choice := range chunk.Choices {
		var delta streamDelta
		if len(choice.Delta) > 0 {
			// Decode errors leave the typed view empty; the chunk-level
			// unmarshal already proved the JSON well-formed.
			_ = json.Unmarshal(choice.Delta, &delta)
		}

		if delta.Content != nil {
			raw.Content += *delta.Content
		}
		raw.Reasoning += extractReasoning(choice.Delta, spec)

		for _, part := range delta.ToolCalls {
			raw.ToolCalls = append(raw.ToolCalls, ai.ToolCallChunk{
				Index:     part.Index,
				ID:        part.ID,
				Name:      part.Function.Name,
				Arguments: part.Function.Arguments,
			})
		}

		if choice.FinishReason != nil && *choice.FinishReason != "" {
			raw.FinishReason = *choice.FinishReason
		}
	}

	return raw
}
