package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient("test-key", "gpt-4o")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.apiURL = srv.URL
	return client, srv
}

func chatBody(content string) string {
	resp := map[string]any{
		"id":    "chatcmpl-1",
		"model": "gpt-4o",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestCompleteReturnsValidJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatBody(`{"score": 7}`)))
	})

	raw, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	var parsed struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Score != 7 {
		t.Fatalf("expected score 7, got %v", parsed.Score)
	}
}

func TestCompleteRepairsMalformedJSONOnce(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			_, _ = w.Write([]byte(chatBody(`{"score": 7`)))
			return
		}
		_, _ = w.Write([]byte(chatBody(`{"score": 7}`)))
	})

	raw, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected one repair attempt, got %d calls", calls)
	}
	if !json.Valid(raw) {
		t.Fatalf("expected valid JSON after repair")
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": {"message": "quota exhausted", "type": "insufficient_quota"}}`))
	})

	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected API error surfaced")
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	if _, err := NewClient("", "gpt-4o"); err == nil {
		t.Fatalf("expected missing key rejected")
	}
	if _, err := NewClient("key", " "); err == nil {
		t.Fatalf("expected missing model rejected")
	}
}
