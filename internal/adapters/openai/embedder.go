// Package openai は OpenAI 互換の埋め込み API クライアントです。
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ogurasousui/prospector/internal/platform/config"
)

// Embedder は embeddings エンドポイントを呼び出すクライアントです。
// search と ingest の Embedder インターフェースを実装します。
type Embedder struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewEmbedder は設定から Embedder を生成します。
func NewEmbedder(cfg config.OpenAIConfig) *Embedder {
	return &Embedder{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.EmbeddingModel,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured は API キーが設定されているかを返します。
func (e *Embedder) Configured() bool {
	return e.apiKey != ""
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Embed はテキストを埋め込みベクトルへ変換します。
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: request embeddings: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read response: %w", err)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("openai: parse response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return nil, fmt.Errorf("openai: embeddings returned status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return nil, fmt.Errorf("openai: embeddings returned status %d", resp.StatusCode)
	}

	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("openai: embeddings response contains no data")
	}
	return parsed.Data[0].Embedding, nil
}
