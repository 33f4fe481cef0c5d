// Package ai defines the provider-independent chat model: requests,
// responses, messages, tool calls, the raw streaming chunk shape shared by
// all OpenAI-compatible endpoints, and the per-model-family adapter
// settings that tell the normalization engine how a model signals
// reasoning output.
package ai
