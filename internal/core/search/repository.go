package search

import "context"

// Repository はベクトル近傍検索を行うインターフェースです。距離演算は
// データベースの vector 拡張に委譲されます。
type Repository interface {
	NearestCompanies(ctx context.Context, filter VectorFilter) ([]*Result, error)
}

// Embedder はテキストを固定長ベクトルへ変換します。実装は 1 リクエストに
// つき 1 回だけ呼び出されます(バッチ・リトライなし)。
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Configured() bool
}
