// llmchat is a small terminal client for trying out configured models. It
// sends one prompt and prints the normalized event stream: thinking in
// brackets when requested, answer text as it arrives, tool calls as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/aabbccddwasd/llm-client/config"
	"github.com/aabbccddwasd/llm-client/core/client"
	"github.com/aabbccddwasd/llm-client/core/normalize"
	"github.com/aabbccddwasd/llm-client/internal/utils"
	"github.com/aabbccddwasd/llm-client/providers/ai"
	"github.com/aabbccddwasd/llm-client/providers/observability/slogobs"
)

func main() {
	configPath := flag.String("config", "models.yaml", "path to the model registry")
	model := flag.String("model", "", "call name of the model to use (default: first in registry)")
	stream := flag.Bool("stream", true, "stream the response")
	thinking := flag.Bool("thinking", false, "request and print reasoning output")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	prompt := strings.Join(flag.Args(), " ")
	if prompt == "" {
		fmt.Fprintln(os.Stderr, "usage: llmchat [flags] <prompt>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slogobs.New(slogobs.WithLogger(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	c := client.New(cfg, client.WithObserver(logger))
	request := ai.ChatRequest{
		Model:          *model,
		Messages:       []ai.Message{{Role: ai.RoleUser, Content: prompt}},
		EnableThinking: *thinking,
		KeepThinking:   *thinking,
	}

	ctx := context.Background()
	if *stream {
		err = runStream(ctx, c, request)
	} else {
		err = runSync(ctx, c, request)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runStream(ctx context.Context, c *client.Client, request ai.ChatRequest) error {
	stream, err := c.ChatStream(ctx, request)
	if err != nil {
		return err
	}

	for event, err := range stream.Iter() {
		if err != nil {
			return err
		}
		switch event.Type {
		case normalize.EventThinkingStart:
			fmt.Print("[thinking] ")
		case normalize.EventThinkingDelta:
			fmt.Print(event.Text)
		case normalize.EventThinkingEnd:
			fmt.Println()
		case normalize.EventContentDelta:
			fmt.Print(event.Text)
		case normalize.EventToolCallComplete:
			fmt.Printf("\n[tool call] %s %s\n", event.ToolCall.Name, utils.JSONToString(event.ToolCall.Args))
		case normalize.EventError:
			fmt.Fprintf(os.Stderr, "\n[%s] %s\n", event.Err.Kind, event.Err.Message)
		case normalize.EventComplete:
			fmt.Println()
		}
	}
	return nil
}

func runSync(ctx context.Context, c *client.Client, request ai.ChatRequest) error {
	completion, err := c.Chat(ctx, request)
	if err != nil {
		return err
	}

	if completion.Thinking != "" && request.KeepThinking {
		fmt.Println("[thinking]", completion.Thinking)
	}
	fmt.Println(completion.Content)
	for _, call := range completion.ToolCalls {
		fmt.Printf("[tool call] %s %s\n", call.Function.Name, call.Function.Arguments)
	}
	return nil
}
