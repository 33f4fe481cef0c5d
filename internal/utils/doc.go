// Package utils provides shared low-level helpers used throughout the
// llm-client internals: HTTP request helpers for synchronous and streaming
// (SSE) communication with OpenAI-compatible APIs, and small generic
// pointer and string utilities.
//
// Key entry points: [DoPostSync] for synchronous JSON round-trips,
// [DoPostStream] together with [SSEScanner] for Server-Sent Events
// streaming, and [Ptr] for converting values to pointers.
package utils
