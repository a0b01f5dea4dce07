package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ogurasousui/prospector/internal/platform/config"
)

func newTestEmbedder(baseURL, apiKey string) *Embedder {
	return NewEmbedder(config.OpenAIConfig{
		APIKey:         apiKey,
		BaseURL:        baseURL,
		EmbeddingModel: "text-embedding-3-small",
		Timeout:        5 * time.Second,
	})
}

func TestEmbedder_Embed_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header %q", got)
		}

		var req struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "text-embedding-3-small" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if req.Input != "Acme | Country: US" {
			t.Errorf("unexpected input %q", req.Input)
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	embedder := newTestEmbedder(server.URL, "sk-test")
	vector, err := embedder.Embed(context.Background(), "Acme | Country: US")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}

	if len(vector) != 3 || vector[0] != 0.1 {
		t.Fatalf("unexpected vector %v", vector)
	}
}

func TestEmbedder_Embed_UpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		if _, err := w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	embedder := newTestEmbedder(server.URL, "sk-test")
	if _, err := embedder.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestEmbedder_Embed_EmptyData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(`{"data":[]}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	embedder := newTestEmbedder(server.URL, "sk-test")
	if _, err := embedder.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestEmbedder_Configured(t *testing.T) {
	t.Parallel()

	if newTestEmbedder("http://localhost", "").Configured() {
		t.Error("expected unconfigured embedder without api key")
	}
	if !newTestEmbedder("http://localhost", "sk-test").Configured() {
		t.Error("expected configured embedder with api key")
	}
}
