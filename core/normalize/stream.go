package normalize

import (
	"iter"

	"github.com/google/uuid"

	"github.com/aabbccddwasd/llm-client/providers/ai"
)

// EventStream is a lazy, finite, non-restartable sequence of normalized
// events for one request. It supports range-based iteration for real-time
// processing and a convenience Collect() for callers who only want the
// terminal aggregate.
//
// Callers must consume the stream, either fully or by breaking out of the
// loop, so the underlying provider can release its resources.
type EventStream struct {
	iterator iter.Seq2[Event, error]
}

// NewEventStream wraps a raw event iterator. The iterator yields events
// with a nil error; a non-nil error signals a transport failure from the
// underlying chunk source.
func NewEventStream(iterator iter.Seq2[Event, error]) *EventStream {
	return &EventStream{iterator: iterator}
}

// Iter returns the underlying iterator for use with range-over-func loops.
//
// Example:
//
//	for event, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    if event.Type == normalize.EventContentDelta {
//	        fmt.Print(event.Text)
//	    }
//	}
func (stream *EventStream) Iter() iter.Seq2[Event, error] {
	return stream.iterator
}

// Collect consumes the entire stream and returns the terminal Completion.
// A transport error or a fatal error event is returned as the error; scoped
// error events are skipped (streaming consumers see them as they happen).
func (stream *EventStream) Collect() (*Completion, error) {
	var completion *Completion
	for event, err := range stream.iterator {
		if err != nil {
			return completion, err
		}
		switch event.Type {
		case EventComplete:
			completion = event.Complete
		case EventError:
			if event.Err.Kind.Fatal() {
				return completion, event.Err
			}
		}
	}
	return completion, nil
}

// Process drives one request: it feeds every chunk of the stream through a
// fresh Normalizer and finalizes at end of input, guaranteeing exactly one
// terminal event. A transport error from the chunk stream ends the sequence
// through the iterator's error channel.
//
// Process is a pure function of its inputs and safe to call from any number
// of concurrent callers; each call owns its normalizer exclusively.
func Process(spec ai.AdapterSpec, chunks *ai.ChunkStream, opts ...Option) *EventStream {
	iterator := func(yield func(Event, error) bool) {
		normalizer := New(spec, opts...)

		for chunk, err := range chunks.Iter() {
			if err != nil {
				yield(Event{}, err)
				return
			}
			for _, event := range normalizer.Feed(chunk) {
				if !yield(event, nil) {
					return
				}
			}
			if normalizer.Done() {
				return
			}
		}

		// Stream ended without a finish signal; finalize anyway.
		for _, event := range normalizer.Finish() {
			if !yield(event, nil) {
				return
			}
		}
	}
	return NewEventStream(iterator)
}

// ProcessResponse normalizes a non-streaming response by treating it as
// a single terminal chunk and running it through the same engine, so the
// caller receives the complete event sequence a streaming request would
// have produced.
func ProcessResponse(spec ai.AdapterSpec, response *ai.ChatResponse, opts ...Option) *EventStream {
	chunk := responseToChunk(response)
	iterator := func(yield func(Event, error) bool) {
		normalizer := New(spec, opts...)
		for _, event := range normalizer.Feed(chunk) {
			if !yield(event, nil) {
				return
			}
		}
		if !normalizer.Done() {
			for _, event := range normalizer.Finish() {
				if !yield(event, nil) {
					return
				}
			}
		}
	}
	return NewEventStream(iterator)
}

func responseToChunk(response *ai.ChatResponse) ai.RawChunk {
	chunk := ai.RawChunk{
		ID:           response.ID,
		Content:      response.Content,
		Reasoning:    response.Reasoning,
		FinishReason: response.FinishReason,
		Usage:        response.Usage,
	}
	if chunk.ID == "" {
		chunk.ID = uuid.NewString()
	}
	if chunk.FinishReason == "" {
		chunk.FinishReason = "stop"
	}
	for index, call := range response.ToolCalls {
		chunk.ToolCalls = append(chunk.ToolCalls, ai.ToolCallChunk{
			Index:     index,
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return chunk
}
