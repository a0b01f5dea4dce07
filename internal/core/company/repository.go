package company

import "context"

// Repository は会社ディレクトリの読み取りを行うインターフェースです。
type Repository interface {
	FindByDomain(ctx context.Context, domain string) (*Company, error)
	SearchDirectory(ctx context.Context, filter DirectoryFilter) ([]*DirectoryEntry, error)
	ListAll(ctx context.Context, limit, offset int) ([]*DirectoryEntry, int64, error)
	Stats(ctx context.Context) (*Stats, error)
}

// DirectoryFilter はキーワード検索の条件を表します。値は常にプレースホルダで
// バインドされ、SQL に直接埋め込まれることはありません。
type DirectoryFilter struct {
	Query     string
	MinVisits *int64
	Vertical  *string
	Location  *string
	Limit     int
}
