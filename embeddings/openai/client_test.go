package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Errorf("expected 2 inputs, got %d", len(req.Input))
		}
		// served out of order to exercise index placement
		_, _ = w.Write([]byte(`{
			"data": [
				{"embedding": [0.4, 0.5], "index": 1},
				{"embedding": [0.1, 0.2], "index": 0}
			],
			"model": "text-embedding-3-small",
			"usage": {"prompt_tokens": 5, "total_tokens": 5}
		}`))
	}))
	defer server.Close()

	client := New("", WithAPIKey("test-key"), WithBaseURL(server.URL))
	vecs, tokens, err := client.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if tokens != 5 {
		t.Errorf("expected 5 tokens, got %d", tokens)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if vecs[0][0] != 0.1 || vecs[1][0] != 0.4 {
		t.Errorf("vectors not ordered by index: %v", vecs)
	}
}

func TestClient_EmbedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	client := New("", WithAPIKey("bad"), WithBaseURL(server.URL))
	if _, _, err := client.Embed(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected error for unauthorized response")
	}
}

func TestEmbedder_EmbedQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1,2,3],"index":0}],"usage":{"total_tokens":2}}`))
	}))
	defer server.Close()

	embedder := &Embedder{Client: New("", WithAPIKey("k"), WithBaseURL(server.URL))}
	vec, err := embedder.EmbedQuery(context.Background(), "hello")
	if err != nil {
		t.Fatalf("EmbedQuery: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 dims, got %d", len(vec))
	}
}
