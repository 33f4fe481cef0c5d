package client

import (
	"context"
	"sync"

	"github.com/aabbccddwasd/llm-client/core/normalize"
	"github.com/aabbccddwasd/llm-client/providers/ai"
	"github.com/aabbccddwasd/llm-client/providers/observability"
)

// defaultBatchWorkers bounds batch concurrency when the caller passes no
// explicit limit.
const defaultBatchWorkers = 4

// BatchResult is the outcome of one request in a batch, at the same
// position as its request.
type BatchResult struct {
	Completion *normalize.Completion
	Err        error
}

// Batch sends every request concurrently, at most workers in flight, and
// returns results in request order. Individual failures land in their slot;
// Batch itself only fails on a cancelled context before completion.
func (c *Client) Batch(ctx context.Context, requests []ai.ChatRequest, workers int) []BatchResult {
	if workers <= 0 {
		workers = defaultBatchWorkers
	}
	if workers > len(requests) {
		workers = len(requests)
	}

	c.log.Info(ctx, "batch started",
		observability.Int(observability.AttrBatchSize, len(requests)),
		observability.Int(observability.AttrBatchWorkers, workers))

	results := make([]BatchResult, len(requests))
	semaphore := make(chan struct{}, workers)
	var waitGroup sync.WaitGroup

	for i := range requests {
		waitGroup.Add(1)

		go func(slot int) {
			defer waitGroup.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				results[slot] = BatchResult{Err: ctx.Err()}
				return
			}

			completion, err := c.Chat(ctx, requests[slot])
			results[slot] = BatchResult{Completion: completion, Err: err}
		}(i)
	}

	waitGroup.Wait()
	return results
}
