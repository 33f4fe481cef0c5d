// Package openai implements the ai.Provider interfaces against any
// OpenAI-compatible chat completions endpoint: OpenAI itself, vLLM,
// OpenRouter, or vendor gateways for GLM, DeepSeek and Qwen deployments.
//
// The provider speaks the /chat/completions wire format for both
// synchronous and SSE streaming calls, and the /embeddings format for
// vector requests. Family-specific request extras (thinking toggles,
// parallel tool calls) are driven by the resolved ai.AdapterSpec, as is the
// location of the reasoning delta field, which differs between families.
package openai
