package ingest

import (
	"context"
	"time"
)

// Repository は取り込み用の書き込みを行うインターフェースです。すべての
// upsert は自然キー衝突時に非キー列を全て置き換えます(last-write-wins)。
type Repository interface {
	UpsertCompany(ctx context.Context, row *CompanyRow, at time.Time) error
	ListEmbeddingSources(ctx context.Context) ([]*EmbeddingSource, error)
	UpsertEmbedding(ctx context.Context, companyID int64, embedding []float32, sourceText string, at time.Time) error
	ResolveCompanyIDs(ctx context.Context, domains []string) (map[string]int64, error)
	UpsertMetrics(ctx context.Context, companyID int64, row *MetricsRow, at time.Time) error
}

// Embedder はテキストを固定長ベクトルへ変換します。
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Configured() bool
}
