// Package client is the high-level entry point of the library. It binds a
// configured model registry to provider instances and runs every response,
// streaming or not, through the normalization engine, so callers always see
// the same event model.
//
// Construct a [Client] from a config.Config, then use [Client.Chat] for
// request/response calls, [Client.ChatStream] for live event streams,
// [Client.Batch] for bounded-concurrency fan-out, and [Client.Embed] for
// vectors.
package client
