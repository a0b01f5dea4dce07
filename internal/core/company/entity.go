package company

import "time"

// Company は営業対象の会社エンティティです。domain は小文字に正規化された
// 一意キーで、取り込み処理の upsert キーになります。
type Company struct {
	ID            int64
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
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Metrics は直近のワールドワイド月次トラフィック指標のスナップショットです。
// 指標が未取得の会社ではすべて nil になります。
type Metrics struct {
	Visits        *float64
	PagesPerVisit *float64
	AvgVisitSecs  *float64
	BounceRate    *float64
}

// DirectoryEntry は会社と直近指標を合わせた検索結果の 1 行です。
type DirectoryEntry struct {
	Company Company
	Metrics Metrics
}

// VerticalCount は vertical ごとの会社数です。
type VerticalCount struct {
	Vertical string
	Count    int64
}

// Stats はディレクトリ全体の集計値です。
type Stats struct {
	TotalCompanies       int64
	ReachedOutCount      int64
	AverageMonthlyVisits float64
	VerticalDistribution []VerticalCount
}
