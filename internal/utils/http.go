package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aabbccddwasd/llm-client/providers/observability"
)

// maxResponseBodySize caps how much of a response body is read into memory
// (10 MB). Enforced via io.LimitReader on error paths so a rogue server
// cannot force an unbounded allocation.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// HeaderOption is an extra header applied to an outgoing request, set after
// the defaults so it can override them (including Authorization).
type HeaderOption struct {
	Key   string
	Value string
}

// DoPostSync performs a synchronous HTTP POST with a JSON body and decodes
// the JSON response into OutputStruct.
//
// Error handling:
//   - context errors (timeout, cancellation) propagate through the client
//   - non-2xx statuses return an error carrying the response body
//   - decode errors include a truncated response preview for debugging
//
// The response body is always closed before returning; close failures are
// logged and never override the primary error.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) (*http.Response, *OutputStruct, error) {
	log := observability.LoggerFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := newJSONRequest(ctx, url, jsonBody, apiKey, headers)
	if err != nil {
		return nil, nil, err
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	if err != nil {
		return res, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(ctx, res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}

	log.Debug(ctx, "http response received",
		observability.String(observability.AttrHTTPMethod, "POST"),
		observability.String(observability.AttrHTTPURL, url),
		observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
		observability.Duration("http.request.duration", time.Since(requestStart)))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, fmt.Errorf("non-2xx status %d: %s", res.StatusCode, string(respBody))
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s",
			res.StatusCode, err, TruncateString(string(respBody), 500))
	}

	return res, &resStruct, nil
}

func newJSONRequest(ctx context.Context, url string, jsonBody []byte, apiKey string, headers []HeaderOption) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}
	return req, nil
}

// CloseWithLog closes the closer and logs a failure instead of returning it,
// for defer sites where the primary error must not be overridden.
func CloseWithLog(ctx context.Context, closer io.Closer) {
	if err := closer.Close(); err != nil {
		observability.LoggerFromContext(ctx).Warn(ctx,
			"failed to close response body", observability.Error(err))
	}
}
