package ai

import "encoding/json"

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message.
type ChatRequest struct {
	Model          string            `json:"model,omitempty"`    // Call name of the configured model; empty selects the default
	Messages       []Message         `json:"messages"`           // Conversation history, system prompt included as a message
	Tools          []ToolDescription `json:"tools,omitempty"`    // Tool definitions offered to the model
	MaxTokens      int               `json:"max_tokens,omitempty"`
	EnableThinking bool              `json:"enable_thinking,omitempty"` // Ask the model to produce reasoning output
	KeepThinking   bool              `json:"keep_thinking,omitempty"`   // Forward thinking deltas instead of suppressing them
}

// ToolDescription declares a tool the model may call. Parameters carries the
// JSON schema for the tool's arguments verbatim.
type ToolDescription struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Message represents a single message in a conversation.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	// Tool calling fields
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // For role=assistant requesting tools
	ToolCallID string     `json:"tool_call_id,omitempty"` // For role=tool, links to the call being answered
	Name       string     `json:"name,omitempty"`         // For role=tool, name of the tool that produced this message

	Reasoning string `json:"reasoning,omitempty"` // Chain-of-thought text, when retained
}

// MessageRole identifies the author of a message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

/*
	##### PROVIDER OUTPUT #####
*/

// Usage carries token accounting for one request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`

	ReasoningTokens int `json:"reasoning_tokens,omitempty"` // Tokens spent on thinking output
}

// ChatResponse represents a completed (non-streaming) chat completion.
type ChatResponse struct {
	ID           string     `json:"id"`
	Model        string     `json:"model"`
	Created      int64      `json:"created"`
	Content      string     `json:"content"`
	Reasoning    string     `json:"reasoning,omitempty"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
	Usage        *Usage     `json:"usage,omitempty"`
}

// ToolCall represents a function call requested by the model.
type ToolCall struct {
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction is the name/arguments pair of a tool call. Arguments is
// the raw JSON text exactly as accumulated from the provider.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

/*
	##### EMBEDDINGS #####
*/

// EmbeddingRequest asks for vector embeddings of one or more inputs.
type EmbeddingRequest struct {
	Model string   `json:"model,omitempty"`
	Input []string `json:"input"`
}

// Embedding is one embedding vector, Index matching the input position.
type Embedding struct {
	Index  int       `json:"index"`
	Vector []float64 `json:"vector"`
}

// EmbeddingResponse carries the vectors for one EmbeddingRequest.
type EmbeddingResponse struct {
	Embeddings []Embedding `json:"embeddings"`
	Usage      *Usage      `json:"usage,omitempty"`
}
