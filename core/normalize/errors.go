package normalize

import "fmt"

// ErrorKind classifies every failure the engine can surface. Nothing inside
// the engine raises past its boundary: each failure path maps to one kind.
type ErrorKind string

const (
	// KindMalformedJSON is a structural JSON error in tool-call argument
	// text that truncation cannot explain. Scoped to one tool call.
	KindMalformedJSON ErrorKind = "malformed_json"

	// KindIncompleteToolCallArguments means the argument text was still not
	// well-formed JSON at the terminal signal. Scoped to one tool call.
	KindIncompleteToolCallArguments ErrorKind = "incomplete_tool_call_arguments"

	// KindProtocolViolation is a broken stream invariant, such as a tool
	// call index reappearing with a different name. Fatal to the request.
	KindProtocolViolation ErrorKind = "protocol_violation"

	// KindAdapterMismatch means a chunk did not match the resolved adapter's
	// expected thinking signal. Scoped; the text is kept as plain content.
	KindAdapterMismatch ErrorKind = "adapter_mismatch"
)

// Fatal reports whether an error of this kind terminates the request.
// Scoped kinds are recovered locally and sibling processing continues.
func (k ErrorKind) Fatal() bool {
	return k == KindProtocolViolation
}

// ErrorEvent is the payload of EventError events. Index is the tool-call
// index for call-scoped errors and -1 otherwise.
type ErrorEvent struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Index   int       `json:"index"`
}

func (e *ErrorEvent) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s (tool call %d): %s", e.Kind, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func scopedError(kind ErrorKind, index int, format string, args ...any) *ErrorEvent {
	return &ErrorEvent{Kind: kind, Index: index, Message: fmt.Sprintf(format, args...)}
}

func requestError(kind ErrorKind, format string, args ...any) *ErrorEvent {
	return &ErrorEvent{Kind: kind, Index: -1, Message: fmt.Sprintf(format, args...)}
}
