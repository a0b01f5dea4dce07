package list

import "time"

// よく使うリストの slug。lists テーブルにはシードとして投入されます。
const (
	SlugInterested = "interested"
	SlugReachedOut = "reached_out"

	// StatusNone はどのリストにも属していない状態を表す履歴上の表現です。
	StatusNone = "none"

	// DefaultActor は操作者が指定されなかった場合に記録される名義です。
	DefaultActor = "system"
)

// List は slug で識別される名前付きリストです。
type List struct {
	ID        int64
	Slug      string
	Name      string
	CreatedAt time.Time
}

// Member はリスト所属中の会社のスナップショットです。直近のワールドワイド
// 月次指標を合わせて返します。
type Member struct {
	CompanyID     int64
	Domain        string
	Name          *string
	Country       *string
	Industry      *string
	EmployeeRange *string
	TechTags      []string
	Vertical      *string
	Subvertical   *string
	Description   *string
	Location      *string
	AddedAt       time.Time
	Visits        *float64
	PagesPerVisit *float64
	AvgVisitSecs  *float64
	BounceRate    *float64
}

// StatusChange は所属遷移の監査ログ 1 行です。追記のみで更新されません。
type StatusChange struct {
	CompanyID  int64
	FromStatus string
	ToStatus   string
	ChangedBy  string
	ChangedAt  time.Time
}
