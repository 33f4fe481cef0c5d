package normalize

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/aabbccddwasd/llm-client/core/partialjson"
	"github.com/aabbccddwasd/llm-client/providers/ai"
)

// toolCallState tracks one tool call for the lifetime of a request, keyed
// by the provider-assigned index.
type toolCallState struct {
	index int
	id    string
	name  string

	args strings.Builder // accumulated raw argument text, append-only

	lastEmitted any  // last partial parse forwarded as a delta
	hasEmitted  bool // distinguishes "nothing emitted" from an emitted nil
	malformed   bool // structural error already reported; index is muted
	completed   bool // ToolCallComplete already produced
}

// toolCallAccumulator owns all toolCallState for one request. It re-parses
// the accumulated argument text on every fragment and emits a delta only
// when the parse materially changes.
type toolCallAccumulator struct {
	calls          map[int]*toolCallState
	order          []int // indices in order of first appearance
	partialStrings bool
}

func newToolCallAccumulator(partialStrings bool) *toolCallAccumulator {
	return &toolCallAccumulator{
		calls:          make(map[int]*toolCallState),
		partialStrings: partialStrings,
	}
}

// feed applies one tool-call delta. It returns the events to forward and a
// fatal error for protocol violations; scoped failures are returned as
// error events.
func (a *toolCallAccumulator) feed(delta ai.ToolCallChunk) ([]Event, *ErrorEvent) {
	state, known := a.calls[delta.Index]
	if !known {
		state = &toolCallState{index: delta.Index}
		a.calls[delta.Index] = state
		a.order = append(a.order, delta.Index)
	}

	var events []Event

	if delta.ID != "" && state.id == "" {
		state.id = delta.ID
	}

	if delta.Name != "" {
		switch {
		case state.name == "":
			state.name = delta.Name
			// Announce the call as soon as it is identifiable, the way a
			// streaming UI wants it: name first, arguments to follow. The
			// empty object seeds change detection so the first empty parse
			// of the argument text is not re-emitted.
			state.lastEmitted = map[string]any{}
			state.hasEmitted = true
			events = append(events, Event{
				Type:     EventToolCallDelta,
				ToolCall: &ToolCallEvent{Index: state.index, ID: state.id, Name: state.name, Args: map[string]any{}},
			})
		case state.name != delta.Name:
			return events, requestError(KindProtocolViolation,
				"tool call %d renamed from %q to %q", state.index, state.name, delta.Name)
		}
	}

	if delta.Arguments == "" || state.malformed {
		return events, nil
	}

	state.args.WriteString(delta.Arguments)

	// Until a name is known there is nothing to address the parse to; the
	// raw text is buffered and parsing starts once the name arrives.
	if state.name == "" {
		return events, nil
	}

	value, _, err := partialjson.Parse(state.args.String(), partialjson.WithPartialStrings(a.partialStrings))
	if err != nil {
		var malformed *partialjson.MalformedError
		if errors.As(err, &malformed) {
			state.malformed = true
			events = append(events, errorEvent(scopedError(KindMalformedJSON, state.index, "%v", malformed)))
			return events, nil
		}
		return events, requestError(KindProtocolViolation, "argument parse failed: %v", err)
	}

	if state.hasEmitted && reflect.DeepEqual(value, state.lastEmitted) {
		return events, nil
	}
	state.lastEmitted = value
	state.hasEmitted = true
	events = append(events, Event{
		Type:     EventToolCallDelta,
		ToolCall: &ToolCallEvent{Index: state.index, ID: state.id, Name: state.name, Args: value},
	})
	return events, nil
}

// hasArguments reports whether the index already holds accumulated argument
// text. Used to drop the argument echo some providers attach to the chunk
// that carries the tool_calls finish reason.
func (a *toolCallAccumulator) hasArguments(index int) bool {
	state, known := a.calls[index]
	return known && state.args.Len() > 0
}

// finalize strictly re-parses every accumulated call. Calls whose text is
// well-formed JSON produce a ToolCallComplete event; the rest produce a
// scoped IncompleteToolCallArguments error, except calls already reported
// as malformed, which stay muted.
func (a *toolCallAccumulator) finalize() []Event {
	var events []Event
	for _, index := range a.order {
		state := a.calls[index]
		if state.malformed {
			continue
		}
		if state.name == "" {
			events = append(events, errorEvent(scopedError(
				KindIncompleteToolCallArguments, index,
				"tool call never received a function name")))
			continue
		}

		raw := state.args.String()
		if raw == "" {
			// A call streamed with no argument text at all is a call with
			// no arguments.
			raw = "{}"
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			events = append(events, errorEvent(scopedError(
				KindIncompleteToolCallArguments, index,
				"arguments are not well-formed JSON at end of stream: %v", err)))
			continue
		}

		state.completed = true
		events = append(events, Event{
			Type:     EventToolCallComplete,
			ToolCall: &ToolCallEvent{Index: index, ID: state.id, Name: state.name, Args: value},
		})
	}
	return events
}

// completedCalls returns the successfully finalized tool calls in order of
// first appearance, with their raw argument text, for the Complete
// aggregate.
func (a *toolCallAccumulator) completedCalls() []ai.ToolCall {
	var calls []ai.ToolCall
	for _, index := range a.order {
		state := a.calls[index]
		if !state.completed {
			continue
		}
		calls = append(calls, ai.ToolCall{
			ID:   state.id,
			Type: "function",
			Function: ai.ToolCallFunction{
				Name:      state.name,
				Arguments: state.args.String(),
			},
		})
	}
	return calls
}
