package ai

import "iter"

// RawChunk is one provider-native increment of a streaming response, already
// lifted out of the wire format but not yet normalized. A non-streaming
// response is represented as a single RawChunk carrying everything at once
// together with its finish signal.
type RawChunk struct {
	ID           string          `json:"id,omitempty"`
	Content      string          `json:"content,omitempty"`
	Reasoning    string          `json:"reasoning,omitempty"` // Dedicated reasoning-field delta, when the adapter has one
	ToolCalls    []ToolCallChunk `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
	Usage        *Usage          `json:"usage,omitempty"`
}

// ToolCallChunk is an incremental tool-call delta. The first chunk for a
// given index carries the ID and function name; later chunks carry only
// argument-text fragments.
type ToolCallChunk struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ChunkStream wraps the raw chunk iterator produced by a streaming provider.
//
// Callers must consume the stream, either fully or by breaking out of the
// loop; the underlying provider may hold open resources (such as an HTTP
// response body) that are only released when the iterator completes or is
// abandoned via a loop break.
type ChunkStream struct {
	iterator iter.Seq2[RawChunk, error]
}

// NewChunkStream creates a ChunkStream from a raw iterator. The iterator
// yields RawChunk values with a nil error for normal chunks and may yield a
// non-nil error to signal a mid-stream transport failure.
func NewChunkStream(iterator iter.Seq2[RawChunk, error]) *ChunkStream {
	return &ChunkStream{iterator: iterator}
}

// Iter returns the underlying iterator for use with range-over-func loops.
func (stream *ChunkStream) Iter() iter.Seq2[RawChunk, error] {
	return stream.iterator
}
