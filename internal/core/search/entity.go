package search

// Result はセマンティック検索の 1 件です。SimilarityScore は 1 - 距離で
// 計算される相対的なランキング指標であり、確率として解釈してはいけません
// (非正規化ベクトルでは距離が 1 を超え得ます)。
type Result struct {
	CompanyID       int64
	Domain          string
	Name            *string
	Country         *string
	Industry        *string
	EmployeeRange   *string
	TechTags        []string
	Visits          *float64
	PagesPerVisit   *float64
	AvgVisitSecs    *float64
	BounceRate      *float64
	SimilarityScore *float64
}

// VectorFilter は近傍検索の条件です。
type VectorFilter struct {
	Embedding         []float32
	MinVisits         *int64
	ExcludeReachedOut bool
	Limit             int
}
