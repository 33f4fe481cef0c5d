// Package normalize turns raw OpenAI-compatible stream chunks into a
// uniform sequence of typed events. It hides the three rough edges of the
// raw API: tool-call arguments that arrive as fragmented JSON text,
// thinking/reasoning output interleaved with the answer, and the split
// between streaming and non-streaming code paths.
//
// One [Normalizer] handles exactly one request. Feed it chunks in arrival
// order and it emits [Event] values: content and thinking deltas, partial
// tool-call argument objects that grow as fragments arrive, and exactly one
// terminal event (a Complete aggregate or a fatal Error) per request. The
// non-streaming path routes a full response through the same engine via
// [ProcessResponse], so callers can treat both modes identically.
//
// The package does no I/O and no scheduling. Normalizer instances are not
// safe for concurrent use, but independent instances may run concurrently:
// batch callers give each in-flight request its own Normalizer and share
// only the read-only adapter spec.
package normalize
