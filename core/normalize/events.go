package normalize

import "github.com/aabbccddwasd/llm-client/providers/ai"

// EventType identifies the kind of payload carried by an Event.
type EventType string

const (
	// EventContentDelta carries a fragment of the final answer text.
	EventContentDelta EventType = "content_delta"
	// EventThinkingDelta carries a fragment of reasoning text.
	EventThinkingDelta EventType = "thinking_delta"
	// EventThinkingStart marks the transition into thinking mode.
	EventThinkingStart EventType = "thinking_start"
	// EventThinkingEnd marks the transition from thinking to answering.
	EventThinkingEnd EventType = "thinking_end"
	// EventToolCallDelta carries the latest best-known partial argument
	// object for one tool call.
	EventToolCallDelta EventType = "tool_call_delta"
	// EventToolCallComplete carries the final, strictly parsed arguments of
	// one tool call. Emitted at most once per index, only at the terminal.
	EventToolCallComplete EventType = "tool_call_complete"
	// EventComplete is the terminal aggregate for a successful request.
	EventComplete EventType = "complete"
	// EventError reports a failure. Scoped errors (one field or tool call)
	// do not end the request; a fatal error is itself the terminal event.
	EventError EventType = "error"
)

// Event is one normalized increment of a request. Exactly one payload field
// is set, identified by Type.
type Event struct {
	Type EventType `json:"type"`

	// Text delta (EventContentDelta, EventThinkingDelta)
	Text string `json:"text,omitempty"`

	// Tool call payload (EventToolCallDelta, EventToolCallComplete)
	ToolCall *ToolCallEvent `json:"tool_call,omitempty"`

	// Terminal aggregate (EventComplete)
	Complete *Completion `json:"complete,omitempty"`

	// Failure report (EventError)
	Err *ErrorEvent `json:"error,omitempty"`
}

// ToolCallEvent is the payload of tool-call events. For deltas, Args holds
// the latest partial parse of the accumulated argument text; for completes,
// the final strictly parsed value.
type ToolCallEvent struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Args  any    `json:"args,omitempty"`
}

// Completion aggregates one finished request: the full answer text, the
// retained thinking text, every successfully completed tool call in order
// of first appearance, and usage when the provider reported it.
type Completion struct {
	FinishReason string        `json:"finish_reason,omitempty"`
	Content      string        `json:"content,omitempty"`
	Thinking     string        `json:"thinking,omitempty"`
	ToolCalls    []ai.ToolCall `json:"tool_calls,omitempty"`
	Usage        *ai.Usage     `json:"usage,omitempty"`
}

func contentEvent(text string) Event {
	return Event{Type: EventContentDelta, Text: text}
}

func thinkingEvent(text string) Event {
	return Event{Type: EventThinkingDelta, Text: text}
}

func errorEvent(err *ErrorEvent) Event {
	return Event{Type: EventError, Err: err}
}
