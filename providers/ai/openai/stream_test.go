package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aabbccddwasd/llm-client/providers/ai"
)

// writeSSE writes an SSE data line to the response writer and flushes.
func writeSSE(writer http.ResponseWriter, data string) {
	fmt.Fprintf(writer, "data: %s\n\n", data)
	if flusher, ok := writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

func writeSSEDone(writer http.ResponseWriter) {
	fmt.Fprint(writer, "data: [DONE]\n\n")
	if flusher, ok := writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

func collectChunks(t *testing.T, stream *ai.ChunkStream) []ai.RawChunk {
	t.Helper()
	var chunks []ai.RawChunk
	for chunk, err := range stream.Iter() {
		if err != nil {
			t.Fatalf("unexpected stream error: %v", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestStreamChunks_ContentDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/event-stream")
		writer.WriteHeader(http.StatusOK)

		writeSSE(writer, `{"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{"role":"assistant","content":"Hello"},"finish_reason":null}]}`)
		writeSSE(writer, `{"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{"content":" world"},"finish_reason":null}]}`)
		writeSSE(writer, `{"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4","choices":[],"usage":{"prompt_tokens":10,"completion_tokens":3,"total_tokens":13}}`)
		writeSSE(writer, `{"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`)
		writeSSEDone(writer)
	}))
	defer server.Close()

	provider := NewProvider()
	provider.WithBaseURL(server.URL)
	provider.WithAPIKey("test-key")

	stream, err := provider.StreamChunks(context.Background(), ai.ChatRequest{
		Model:    "gpt-4",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})
	if err != nil {
		t.Fatalf("StreamChunks returned error: %v", err)
	}

	chunks := collectChunks(t, stream)
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}

	content := ""
	var finish string
	var usage *ai.Usage
	for _, chunk := range chunks {
		content += chunk.Content
		if chunk.FinishReason != "" {
			finish = chunk.FinishReason
		}
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
	}
	if content != "Hello world" {
		t.Errorf("content = %q", content)
	}
	if finish != "stop" {
		t.Errorf("finish reason = %q", finish)
	}
	if usage == nil || usage.TotalTokens != 13 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestStreamChunks_ToolCallDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/event-stream")
		writer.WriteHeader(http.StatusOK)

		writeSSE(writer, `{"id":"chatcmpl-2","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{"role":"assistant","tool_calls":[{"index":0,"id":"call_abc","type":"function","function":{"name":"get_weather","arguments":""}}]},"finish_reason":null}]}`)
		writeSSE(writer, `{"id":"chatcmpl-2","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"city\":"}}]},"finish_reason":null}]}`)
		writeSSE(writer, `{"id":"chatcmpl-2","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"London\"}"}}]},"finish_reason":null}]}`)
		writeSSE(writer, `{"id":"chatcmpl-2","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{},"finish_reason":"tool_calls"}]}`)
		writeSSEDone(writer)
	}))
	defer server.Close()

	provider := NewProvider()
	provider.WithBaseURL(server.URL)
	provider.WithAPIKey("test-key")

	stream, err := provider.StreamChunks(context.Background(), ai.ChatRequest{
		Model:    "gpt-4",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Weather?"}},
	})
	if err != nil {
		t.Fatalf("StreamChunks returned error: %v", err)
	}

	chunks := collectChunks(t, stream)

	var deltas []ai.ToolCallChunk
	for _, chunk := range chunks {
		deltas = append(deltas, chunk.ToolCalls...)
	}
	if len(deltas) != 3 {
		t.Fatalf("got %d tool deltas, want 3", len(deltas))
	}
	if deltas[0].ID != "call_abc" || deltas[0].Name != "get_weather" {
		t.Errorf("first delta = %+v", deltas[0])
	}
	args := deltas[0].Arguments + deltas[1].Arguments + deltas[2].Arguments
	if args != `{"city":"London"}` {
		t.Errorf("accumulated arguments = %q", args)
	}
}

// TestStreamChunks_ReasoningFieldByFamily verifies that the reasoning delta
// is extracted from the field the model family actually uses.
func TestStreamChunks_ReasoningFieldByFamily(t *testing.T) {
	tests := []struct {
		name  string
		model string
		delta string
	}{
		{"glm uses reasoning", "glm-4.7", `{"reasoning":"thinking hard"}`},
		{"deepseek uses reasoning_content", "deepseek-r1", `{"reasoning_content":"thinking hard"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.Header().Set("Content-Type", "text/event-stream")
				writer.WriteHeader(http.StatusOK)
				writeSSE(writer, fmt.Sprintf(`{"id":"c","object":"chat.completion.chunk","model":%q,"choices":[{"index":0,"delta":%s,"finish_reason":null}]}`, test.model, test.delta))
				writeSSE(writer, fmt.Sprintf(`{"id":"c","object":"chat.completion.chunk","model":%q,"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`, test.model))
				writeSSEDone(writer)
			}))
			defer server.Close()

			provider := NewProvider()
			provider.WithBaseURL(server.URL)
			provider.WithAPIKey("test-key")

			stream, err := provider.StreamChunks(context.Background(), ai.ChatRequest{
				Model:    test.model,
				Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
			})
			if err != nil {
				t.Fatalf("StreamChunks returned error: %v", err)
			}

			reasoning := ""
			for _, chunk := range collectChunks(t, stream) {
				reasoning += chunk.Reasoning
			}
			if reasoning != "thinking hard" {
				t.Errorf("reasoning = %q, want %q", reasoning, "thinking hard")
			}
		})
	}
}

func TestStreamChunks_SendsStreamOptionsAndExtraBody(t *testing.T) {
	var captured chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if err := json.NewDecoder(request.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		writer.Header().Set("Content-Type", "text/event-stream")
		writer.WriteHeader(http.StatusOK)
		writeSSEDone(writer)
	}))
	defer server.Close()

	provider := NewProvider()
	provider.WithBaseURL(server.URL)
	provider.WithAPIKey("test-key")

	_, err := provider.StreamChunks(context.Background(), ai.ChatRequest{
		Model:          "glm-4.7",
		Messages:       []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
		Tools:          []ai.ToolDescription{{Name: "get_weather"}},
		EnableThinking: true,
	})
	if err != nil {
		t.Fatalf("StreamChunks returned error: %v", err)
	}

	if captured.Stream == nil || !*captured.Stream {
		t.Error("stream flag not set")
	}
	if captured.StreamOptions == nil || !captured.StreamOptions.IncludeUsage {
		t.Error("stream_options.include_usage not set")
	}
	if captured.ExtraBody == nil || captured.ExtraBody.ChatTemplateKwargs == nil {
		t.Fatal("extra_body.chat_template_kwargs missing for a thinking-control family")
	}
	kwargs := captured.ExtraBody.ChatTemplateKwargs
	if !kwargs.EnableThinking {
		t.Error("enable_thinking not propagated")
	}
	if !kwargs.ClearThinking {
		t.Error("clear_thinking should default on when thinking is not kept")
	}
	if captured.ParallelToolCalls == nil || !*captured.ParallelToolCalls {
		t.Error("parallel_tool_calls not set for a family that supports it")
	}
}

func TestStreamChunks_HTTPErrorBeforeStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, `{"error":"invalid model"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	provider := NewProvider()
	provider.WithBaseURL(server.URL)
	provider.WithAPIKey("test-key")

	_, err := provider.StreamChunks(context.Background(), ai.ChatRequest{Model: "gpt-4"})
	if err == nil {
		t.Fatal("expected pre-stream error, got nil")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error = %v, want status code included", err)
	}
}

func TestStreamChunks_MissingAPIKey(t *testing.T) {
	provider := NewProvider()
	provider.WithAPIKey("")
	provider.WithBaseURL("http://127.0.0.1:1")

	if _, err := provider.StreamChunks(context.Background(), ai.ChatRequest{Model: "gpt-4"}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
