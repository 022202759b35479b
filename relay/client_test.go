package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func completionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestComplete(t *testing.T) {
	ts := completionServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "test-model",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "  hi there  "}, "finish_reason": "stop"}]
	}`)

	c := NewClient("test-key", ts.URL, "test-model", time.Second)
	got, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "hi there" {
		t.Errorf("Expected trimmed completion text, got %q", got)
	}
}

func TestComplete_APIError(t *testing.T) {
	ts := completionServer(t, http.StatusInternalServerError, `{"error": {"message": "boom"}}`)

	c := NewClient("test-key", ts.URL, "test-model", time.Second)
	if _, err := c.Complete(context.Background(), "hello"); err == nil {
		t.Error("Expected an error from a failing backend")
	}
}

func TestComplete_NoChoices(t *testing.T) {
	ts := completionServer(t, http.StatusOK, `{
		"id": "chatcmpl-2",
		"object": "chat.completion",
		"model": "test-model",
		"choices": []
	}`)

	c := NewClient("test-key", ts.URL, "test-model", time.Second)
	if _, err := c.Complete(context.Background(), "hello"); err == nil {
		t.Error("Expected an error when the backend returns no choices")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("test-key", "", "", 0)
	if c.Model() == "" {
		t.Error("Expected a default model")
	}
	if c.timeout != defaultTimeout {
		t.Errorf("Expected the default timeout, got %v", c.timeout)
	}
}
