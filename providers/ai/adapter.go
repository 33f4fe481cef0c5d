package ai

import "strings"

// ThinkingSignal describes how a model family marks reasoning output.
type ThinkingSignal string

const (
	// ThinkingNone means the model never produces reasoning output.
	ThinkingNone ThinkingSignal = "none"

	// ThinkingByField means reasoning arrives in a dedicated delta field
	// (for example "reasoning" or "reasoning_content") separate from content.
	ThinkingByField ThinkingSignal = "field"

	// ThinkingByDelimiter means reasoning is tagged inline in the content
	// stream with reserved open/close delimiter tokens.
	ThinkingByDelimiter ThinkingSignal = "delimiter"
)

// AdapterSpec describes, per model family, how thinking is signaled and
// which request extras the family needs. It is resolved once before the
// first chunk of a request is processed, is immutable afterwards, and is
// safe to share read-only across concurrent requests.
type AdapterSpec struct {
	Family string `json:"family" yaml:"family"`

	Thinking ThinkingSignal `json:"thinking" yaml:"thinking"`

	// ReasoningField is the JSON path of the reasoning delta inside the
	// provider's delta object, for ThinkingByField families. Providers
	// disagree on the name ("reasoning", "reasoning_content", ...), so it
	// is configuration rather than a wire struct field.
	ReasoningField string `json:"reasoning_field,omitempty" yaml:"reasoning_field,omitempty"`

	// Delimiters for ThinkingByDelimiter families.
	OpenDelimiter  string `json:"open_delimiter,omitempty" yaml:"open_delimiter,omitempty"`
	CloseDelimiter string `json:"close_delimiter,omitempty" yaml:"close_delimiter,omitempty"`

	// AllowReentry permits a second thinking segment after answering has
	// begun. Off by default: a re-entry attempt is reported as an adapter
	// mismatch and the text is kept as plain content.
	AllowReentry bool `json:"allow_reentry,omitempty" yaml:"allow_reentry,omitempty"`

	// ThinkingControl reports whether the family understands the
	// chat_template_kwargs extra body for toggling thinking (GLM-style
	// vLLM deployments).
	ThinkingControl bool `json:"thinking_control,omitempty" yaml:"thinking_control,omitempty"`

	// ParallelToolCalls asks the provider to stream multiple tool calls
	// concurrently when the family supports it.
	ParallelToolCalls bool `json:"parallel_tool_calls,omitempty" yaml:"parallel_tool_calls,omitempty"`
}

// adapter strategy table, keyed by family. Families are matched against the
// model name by substring, mirroring how deployments name their models.
var adapterSpecs = []AdapterSpec{
	{
		Family:            "glm",
		Thinking:          ThinkingByField,
		ReasoningField:    "reasoning",
		ThinkingControl:   true,
		ParallelToolCalls: true,
	},
	{
		Family:         "deepseek",
		Thinking:       ThinkingByField,
		ReasoningField: "reasoning_content",
	},
	{
		Family:         "qwen",
		Thinking:       ThinkingByDelimiter,
		OpenDelimiter:  "<think>",
		CloseDelimiter: "</think>",
	},
}

// baseSpec is the fallback for any OpenAI-compatible model with no special
// thinking behavior.
var baseSpec = AdapterSpec{
	Family:         "base",
	Thinking:       ThinkingByField,
	ReasoningField: "reasoning",
}

// SpecForModel resolves the adapter spec for a model name. Unknown models
// get the base spec: plain content plus the standard "reasoning" field if
// the deployment happens to emit one.
func SpecForModel(model string) AdapterSpec {
	lower := strings.ToLower(model)
	for _, spec := range adapterSpecs {
		if strings.Contains(lower, spec.Family) {
			return spec
		}
	}
	return baseSpec
}
