package normalize

import (
	"context"

	"github.com/aabbccddwasd/llm-client/providers/ai"
	"github.com/aabbccddwasd/llm-client/providers/observability"
)

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithKeepThinking forwards thinking deltas as they are produced instead of
// only retaining them for the terminal aggregate.
func WithKeepThinking(keep bool) Option {
	return func(n *Normalizer) {
		n.keepThinking = keep
	}
}

// WithPartialStringDeltas lets tool-call argument deltas carry the decoded
// prefix of a string value that is still streaming. Off by default: a string
// is only surfaced once its closing quote has arrived.
func WithPartialStringDeltas(allow bool) Option {
	return func(n *Normalizer) {
		n.partialStrings = allow
	}
}

// WithObserver injects a structured-logging sink. Absent one, the
// normalizer is silent.
func WithObserver(logger observability.Logger) Option {
	return func(n *Normalizer) {
		n.log = observability.OrNoop(logger)
	}
}

// WithContext sets the context attached to log records. The normalizer
// itself never blocks on it.
func WithContext(ctx context.Context) Option {
	return func(n *Normalizer) {
		if ctx != nil {
			n.ctx = ctx
		}
	}
}

// Normalizer drives one request end-to-end: it consumes provider chunks in
// arrival order, routes text to the thinking splitter and tool-call deltas
// to the accumulator, and terminates the event sequence with exactly one
// Complete or fatal Error event.
//
// A Normalizer is single-use and not safe for concurrent use; run one per
// in-flight request.
type Normalizer struct {
	spec ai.AdapterSpec

	keepThinking   bool
	partialStrings bool
	log            observability.Logger
	ctx            context.Context

	splitter *splitter
	tools    *toolCallAccumulator

	usage        *ai.Usage
	responseID   string
	fieldFlagged bool
	done         bool
}

// New creates a Normalizer for one request against the given adapter spec.
func New(spec ai.AdapterSpec, opts ...Option) *Normalizer {
	n := &Normalizer{
		spec: spec,
		log:  observability.Noop(),
		ctx:  context.Background(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.splitter = newSplitter(spec, n.keepThinking)
	n.tools = newToolCallAccumulator(n.partialStrings)
	return n
}

// Done reports whether the terminal event has been emitted.
func (n *Normalizer) Done() bool {
	return n.done
}

// Feed processes one provider chunk and returns the normalized events it
// produced, in order. Feed never fails with a Go error: every failure is
// reported as an error event, and a fatal one terminates the sequence.
// After the terminal event the normalizer is inert and Feed returns nil.
func (n *Normalizer) Feed(chunk ai.RawChunk) []Event {
	if n.done {
		return nil
	}

	var events []Event

	if n.responseID == "" && chunk.ID != "" {
		n.responseID = chunk.ID
	}
	if chunk.Usage != nil {
		n.usage = chunk.Usage
	}

	if chunk.Reasoning != "" {
		events = append(events, n.feedReasoning(chunk.Reasoning)...)
	}
	if chunk.Content != "" {
		events = append(events, n.splitter.feedContent(chunk.Content)...)
	}

	for _, delta := range chunk.ToolCalls {
		// The chunk that carries the tool_calls finish reason may echo the
		// complete argument text a second time; fragments for an index that
		// already holds text are dropped there.
		if chunk.FinishReason == "tool_calls" && delta.Arguments != "" && n.tools.hasArguments(delta.Index) {
			delta.Arguments = ""
		}

		toolEvents, fatal := n.tools.feed(delta)
		events = append(events, toolEvents...)
		if fatal != nil {
			return append(events, n.abort(fatal))
		}
	}

	if chunk.FinishReason != "" {
		events = append(events, n.finish(chunk.FinishReason)...)
	}
	return events
}

// Finish finalizes a stream that ended without a finish signal. It emits
// the same terminal sequence a finish-bearing chunk would, with an empty
// finish reason. Calling Finish after the terminal event returns nil.
func (n *Normalizer) Finish() []Event {
	if n.done {
		return nil
	}
	return n.finish("")
}

func (n *Normalizer) feedReasoning(text string) []Event {
	if n.spec.Thinking == ai.ThinkingByField {
		return n.splitter.feedReasoning(text)
	}

	// A reasoning field on a chunk when the adapter declared delimiter or
	// no thinking: report the mismatch once and keep the text as content.
	var events []Event
	if !n.fieldFlagged {
		n.fieldFlagged = true
		mismatch := scopedError(KindAdapterMismatch, -1,
			"reasoning field present but family %q signals thinking via %q", n.spec.Family, n.spec.Thinking)
		n.log.Warn(n.ctx, "adapter mismatch",
			observability.String(observability.AttrModelFamily, n.spec.Family),
			observability.Error(mismatch))
		events = append(events, errorEvent(mismatch))
	}
	return append(events, n.splitter.feedContent(text)...)
}

func (n *Normalizer) finish(reason string) []Event {
	events := n.splitter.flush()
	events = append(events, n.tools.finalize()...)

	completion := &Completion{
		FinishReason: reason,
		Content:      n.splitter.content.String(),
		Thinking:     n.splitter.thinking.String(),
		ToolCalls:    n.tools.completedCalls(),
		Usage:        n.usage,
	}
	events = append(events, Event{Type: EventComplete, Complete: completion})
	n.done = true

	n.log.Debug(n.ctx, "request normalized",
		observability.String(observability.AttrModelFamily, n.spec.Family),
		observability.String(observability.AttrFinishReason, reason),
		observability.Int("toolcalls.completed", len(completion.ToolCalls)),
		observability.Int("content.bytes", len(completion.Content)),
		observability.Int("thinking.bytes", len(completion.Thinking)))
	return events
}

// abort short-circuits the request with a terminal error event.
func (n *Normalizer) abort(fatal *ErrorEvent) Event {
	n.done = true
	n.log.Error(n.ctx, "request aborted",
		observability.String(observability.AttrModelFamily, n.spec.Family),
		observability.String(observability.AttrErrorKind, string(fatal.Kind)),
		observability.Error(fatal))
	return errorEvent(fatal)
}
