package ingest

import "time"

// CompanyRow は取り込み元 1 行分の会社属性です。Domain が upsert の
// 自然キーで、取り込み時に小文字へ正規化されます。
type CompanyRow struct {
	Domain        string
	Name          *string
	WebsiteURL    *string
	Country       *string
	Industry      *string
	EmployeeRange *string
	TechTags      []string
	Vertical      *string
	Subvertical   *string
	Description   *string
	Location      *string
}

// MetricsRow は月次トラフィック指標 1 行分です。(Domain, Month, Country) が
// 自然キーです。数値は取り込み元で欠損し得るためすべてポインタです。
type MetricsRow struct {
	Domain        string
	Month         time.Time
	Country       string
	Visits        *float64
	PagesPerVisit *float64
	AvgVisitSecs  *float64
	BounceRate    *float64
	PageViews     *float64
}

// EmbeddingSource は埋め込みテキストの射影に必要な会社属性です。
type EmbeddingSource struct {
	CompanyID     int64
	Domain        string
	Name          *string
	Industry      *string
	Country       *string
	EmployeeRange *string
	TechTags      []string
}

// RowError は取り込み中にスキップされた 1 行の記録です。Index は取り込み元
// での 1 始まりの行番号、Key は手作業での修正に使える識別子(ドメインなど)
// です。
type RowError struct {
	Index int
	Key   string
	Err   error
}

// LoadResult は 1 バッチの取り込み結果です。スキップ行があっても
// バッチ自体は成功します。
type LoadResult struct {
	Loaded  int
	Skipped []RowError
}

// Failed はスキップされた行があったかを返します。呼び出し側の終了コード
// 判定に使われます。
func (r *LoadResult) Failed() bool {
	return len(r.Skipped) > 0
}
