package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aabbccddwasd/llm-client/config"
	"github.com/aabbccddwasd/llm-client/core/normalize"
	"github.com/aabbccddwasd/llm-client/providers/ai"
)

func registryFor(serverURL string) *config.Config {
	return &config.Config{Models: []config.ModelConfig{
		{CallName: "main", Name: "glm-4.7", APIBase: serverURL, APIKey: "test-key", KeepThinking: true},
		{CallName: "plain", Name: "gpt-4o-mini", APIBase: serverURL, APIKey: "test-key"},
	}}
}

func TestClient_Chat_NormalizesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{
			"id":"chatcmpl-1","object":"chat.completion","model":"glm-4.7",
			"choices":[{"index":0,"message":{
				"role":"assistant","content":"Sunny.","reasoning":"checking data",
				"tool_calls":[{"id":"call_1","type":"function","function":{"name":"get_weather","arguments":"{\"city\":\"London\"}"}}]
			},"finish_reason":"tool_calls"}]
		}`)
	}))
	defer server.Close()

	c := New(registryFor(server.URL))

	completion, err := c.Chat(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Weather?"}},
	})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	if completion.Content != "Sunny." {
		t.Errorf("Content = %q", completion.Content)
	}
	if completion.Thinking != "checking data" {
		t.Errorf("Thinking = %q", completion.Thinking)
	}
	if len(completion.ToolCalls) != 1 || completion.ToolCalls[0].Function.Name != "get_weather" {
		t.Errorf("ToolCalls = %+v", completion.ToolCalls)
	}
}

func TestClient_ChatStream_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/event-stream")
		writer.WriteHeader(http.StatusOK)
		for _, data := range []string{
			`{"id":"c1","object":"chat.completion.chunk","model":"glm-4.7","choices":[{"index":0,"delta":{"reasoning":"hmm"},"finish_reason":null}]}`,
			`{"id":"c1","object":"chat.completion.chunk","model":"glm-4.7","choices":[{"index":0,"delta":{"content":"Hello"},"finish_reason":null}]}`,
			`{"id":"c1","object":"chat.completion.chunk","model":"glm-4.7","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
			"[DONE]",
		} {
			fmt.Fprintf(writer, "data: %s\n\n", data)
		}
	}))
	defer server.Close()

	c := New(registryFor(server.URL))

	stream, err := c.ChatStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})
	if err != nil {
		t.Fatalf("ChatStream returned error: %v", err)
	}

	var sawThinking bool
	var completion *normalize.Completion
	for event, err := range stream.Iter() {
		if err != nil {
			t.Fatalf("stream error: %v", err)
		}
		switch event.Type {
		case normalize.EventThinkingDelta:
			sawThinking = true
		case normalize.EventComplete:
			completion = event.Complete
		}
	}

	if !sawThinking {
		t.Error("no thinking delta despite keep_thinking in the registry")
	}
	if completion == nil || completion.Content != "Hello" || completion.Thinking != "hmm" {
		t.Errorf("completion = %+v", completion)
	}
}

func TestClient_UnknownModel(t *testing.T) {
	c := New(registryFor("http://127.0.0.1:1"))

	_, err := c.Chat(context.Background(), ai.ChatRequest{Model: "missing"})
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("err = %v, want ErrModelNotFound", err)
	}
}

func TestClient_DefaultModelIsFirstEntry(t *testing.T) {
	var wireModel string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(request.Body).Decode(&body)
		wireModel = body.Model

		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"id":"x","object":"chat.completion","model":"glm-4.7","choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	c := New(registryFor(server.URL))

	if _, err := c.Chat(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	}); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if wireModel != "glm-4.7" {
		t.Errorf("wire model = %q, want the registry default's name", wireModel)
	}
}

func TestClient_Batch_PreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(request.Body).Decode(&body)

		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(writer, `{"id":"x","object":"chat.completion","model":"glm-4.7","choices":[{"index":0,"message":{"role":"assistant","content":"echo:%s"},"finish_reason":"stop"}]}`,
			body.Messages[0].Content)
	}))
	defer server.Close()

	c := New(registryFor(server.URL))

	requests := make([]ai.ChatRequest, 8)
	for i := range requests {
		requests[i] = ai.ChatRequest{
			Messages: []ai.Message{{Role: ai.RoleUser, Content: fmt.Sprintf("req-%d", i)}},
		}
	}
	// One request targets a missing model; its slot fails, the rest succeed.
	requests[3].Model = "missing"

	results := c.Batch(context.Background(), requests, 3)
	if len(results) != len(requests) {
		t.Fatalf("results = %d, want %d", len(results), len(requests))
	}

	for i, result := range results {
		if i == 3 {
			if !errors.Is(result.Err, ErrModelNotFound) {
				t.Errorf("slot 3 err = %v, want ErrModelNotFound", result.Err)
			}
			continue
		}
		if result.Err != nil {
			t.Errorf("slot %d err = %v", i, result.Err)
			continue
		}
		expected := fmt.Sprintf("echo:req-%d", i)
		if result.Completion.Content != expected {
			t.Errorf("slot %d content = %q, want %q", i, result.Completion.Content, expected)
		}
	}
}

func TestClient_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"data":[{"index":0,"embedding":[1,2,3]}]}`)
	}))
	defer server.Close()

	c := New(registryFor(server.URL))

	response, err := c.Embed(context.Background(), ai.EmbeddingRequest{Input: []string{"hello"}})
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(response.Embeddings) != 1 || len(response.Embeddings[0].Vector) != 3 {
		t.Errorf("response = %+v", response)
	}
}
