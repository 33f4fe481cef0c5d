package openai

import (
	"encoding/json"

	"github.com/aabbccddwasd/llm-client/internal/utils"
	"github.com/aabbccddwasd/llm-client/providers/ai"
)

/*
	CHAT COMPLETIONS API - INPUT
*/

// chatCompletionRequest is the /chat/completions request wire format,
// including the vLLM extra_body extensions GLM-style deployments use for
// thinking control.
type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens *int          `json:"max_tokens,omitempty"`
	Stream    *bool         `json:"stream,omitempty"`

	Tools             []chatTool `json:"tools,omitempty"`
	ParallelToolCalls *bool      `json:"parallel_tool_calls,omitempty"`

	StreamOptions *streamOptions `json:"stream_options,omitempty"`

	// ExtraBody carries vendor extensions passed through verbatim by
	// OpenAI-compatible gateways.
	ExtraBody *extraBody `json:"extra_body,omitempty"`
}

type extraBody struct {
	ChatTemplateKwargs *chatTemplateKwargs `json:"chat_template_kwargs,omitempty"`
}

// chatTemplateKwargs toggles reasoning in the chat template of GLM-style
// vLLM deployments. ClearThinking strips prior reasoning from the history
// server-side so resent conversations do not grow unbounded.
type chatTemplateKwargs struct {
	EnableThinking bool `json:"enable_thinking"`
	ClearThinking  bool `json:"clear_thinking"`
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	Name       string         `json:"name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"` // "function"
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type chatToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // "function"
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"` // "chat.completion"
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int             `json:"index"`
	Message      json.RawMessage `json:"message"` // Raw so family-specific reasoning fields stay reachable
	FinishReason string          `json:"finish_reason"`
}

// chatResponseMessage is the portion of the choice message shared across
// all families. Reasoning is extracted separately from the raw message via
// the adapter's configured field path.
type chatResponseMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content,omitempty"`
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
}

type chatUsage struct {
	PromptTokens            int `json:"prompt_tokens"`
	CompletionTokens        int `json:"completion_tokens"`
	TotalTokens             int `json:"total_tokens"`
	CompletionTokensDetails *struct {
		ReasoningTokens int `json:"reasoning_tokens,omitempty"`
	} `json:"completion_tokens_details,omitempty"`
}

/*
	EMBEDDINGS API
*/

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Usage *struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

/*
	CONVERSION
*/

// requestToChatCompletion converts an ai.ChatRequest into the wire format,
// applying the family extras the adapter spec declares.
func requestToChatCompletion(request ai.ChatRequest, spec ai.AdapterSpec) chatCompletionRequest {
	req := chatCompletionRequest{Model: request.Model}

	if request.MaxTokens > 0 {
		req.MaxTokens = utils.Ptr(request.MaxTokens)
	}

	for _, msg := range request.Messages {
		chatMsg := chatMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			Name:       msg.Name,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			wireCall := chatToolCall{ID: tc.ID, Type: "function"}
			wireCall.Function.Name = tc.Function.Name
			wireCall.Function.Arguments = tc.Function.Arguments
			chatMsg.ToolCalls = append(chatMsg.ToolCalls, wireCall)
		}
		req.Messages = append(req.Messages, chatMsg)
	}

	for _, tool := range request.Tools {
		req.Tools = append(req.Tools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	if spec.ParallelToolCalls && len(req.Tools) > 0 {
		req.ParallelToolCalls = utils.Ptr(true)
	}

	if spec.ThinkingControl {
		req.ExtraBody = &extraBody{
			ChatTemplateKwargs: &chatTemplateKwargs{
				EnableThinking: request.EnableThinking,
				ClearThinking:  !request.KeepThinking,
			},
		}
	}

	return req
}

// responseToGeneric converts a wire response into ai.ChatResponse, pulling
// the reasoning text from wherever the family puts it.
func responseToGeneric(resp *chatCompletionResponse, spec ai.AdapterSpec) *ai.ChatResponse {
	choice := resp.Choices[0]

	var message chatResponseMessage
	// The message was already validated as JSON by the response decode.
	_ = json.Unmarshal(choice.Message, &message)

	response := &ai.ChatResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Created:      resp.Created,
		Content:      message.Content,
		Reasoning:    extractReasoning(choice.Message, spec),
		FinishReason: choice.FinishReason,
	}

	for _, tc := range message.ToolCalls {
		response.ToolCalls = append(response.ToolCalls, ai.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: ai.ToolCallFunction{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}

	if resp.Usage != nil {
		response.Usage = usageToGeneric(resp.Usage)
	}
	return response
}

func usageToGeneric(usage *chatUsage) *ai.Usage {
	generic := &ai.Usage{
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}
	if usage.CompletionTokensDetails != nil {
		generic.ReasoningTokens = usage.CompletionTokensDetails.ReasoningTokens
	}
	return generic
}
