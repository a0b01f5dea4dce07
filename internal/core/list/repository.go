package list

import (
	"context"
	"time"
)

// Repository はリスト所属の永続化を行うインターフェースです。
type Repository interface {
	FindListBySlug(ctx context.Context, slug string) (*List, error)
	FindCompanyIDByDomain(ctx context.Context, domain string) (int64, error)

	// OpenMembership は開いた所属行を条件付きで挿入します。既に開いた行が
	// 存在する場合は挿入せず false を返します。重複防止はスキーマ側の
	// 部分一意制約と ON CONFLICT で保証されます。
	OpenMembership(ctx context.Context, listID, companyID int64, actor string, at time.Time) (bool, error)

	// CloseMembership は開いた所属行を閉じます。閉じる行が無ければ false を
	// 返します。
	CloseMembership(ctx context.Context, listID, companyID int64, actor string, at time.Time) (bool, error)

	AppendHistory(ctx context.Context, change *StatusChange) error

	Members(ctx context.Context, listID int64, limit, offset int) ([]*Member, error)
	CountMembers(ctx context.Context, listID int64) (int64, error)

	// ReachedOutMembers は reached_out リストの現所属を vertical で絞り込んで
	// 返します。
	ReachedOutMembers(ctx context.Context, filter ReachedOutFilter) ([]*Member, error)
}

// ReachedOutFilter は reached_out 一覧の絞り込み条件です。
type ReachedOutFilter struct {
	Vertical *string
	Limit    int
}
