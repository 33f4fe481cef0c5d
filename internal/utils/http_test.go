package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDoPostSync_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"value":42}`)
	}))
	defer server.Close()

	type response struct {
		Value int `json:"value"`
	}

	_, result, err := DoPostSync[response](context.Background(), server.Client(), server.URL, "test-key", map[string]string{"q": "test"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result == nil || result.Value != 42 {
		t.Errorf("result = %+v, want Value=42", result)
	}
}

func TestDoPostSync_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "bad request")
	}))
	defer server.Close()

	type response struct{}

	_, _, err := DoPostSync[response](context.Background(), server.Client(), server.URL, "", map[string]string{})
	if err == nil {
		t.Fatal("expected error for 400 response, got nil")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("expected status code in error, got: %v", err)
	}
}

func TestDoPostSync_UnmarshalErrorIncludesPreview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `"not a struct"`)
	}))
	defer server.Close()

	type response struct {
		Value int `json:"value"`
	}

	_, _, err := DoPostSync[response](context.Background(), server.Client(), server.URL, "", map[string]string{})
	if err == nil {
		t.Fatal("expected unmarshal error, got nil")
	}
	if !strings.Contains(err.Error(), "not a struct") {
		t.Errorf("expected response preview in error, got: %v", err)
	}
}

func TestDoPostSync_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	type response struct{}
	if _, _, err := DoPostSync[response](ctx, server.Client(), server.URL, "", nil); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("close failed") }

func TestCloseWithLog_DoesNotPanic(t *testing.T) {
	CloseWithLog(context.Background(), failingCloser{})
}

func TestTruncateString(t *testing.T) {
	long := strings.Repeat("a", 600)

	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("short string modified: %q", got)
	}
	got := TruncateString(long, 100)
	if !strings.HasPrefix(got, strings.Repeat("a", 100)) || !strings.Contains(got, "600") {
		t.Errorf("truncated string = %q", got)
	}
	// Non-positive maxLen falls back to the default.
	if got := TruncateString(long, 0); !strings.Contains(got, "truncated") {
		t.Errorf("default truncation not applied: %q", got)
	}
}

func TestPtr(t *testing.T) {
	p := Ptr(42)
	if p == nil || *p != 42 {
		t.Fatalf("Ptr(42) = %v", p)
	}
}
