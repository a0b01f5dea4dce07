package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/prospector/internal/core/list"
	pgdb "github.com/ogurasousui/prospector/internal/platform/db/postgres"
)

const memberColumns = `
        c.id, c.domain, c.name, c.country, c.industry, c.employee_range,
        c.tech_tags, c.vertical, c.subvertical, c.description, c.location,
        lm.added_at,
        m.visits, m.pages_per_visit, m.avg_visit_secs, m.bounce_rate`

// ListRepository は PostgreSQL を利用したリスト所属の実装です。開いた所属の
// 一意性は (list_id, company_id) WHERE removed_at IS NULL の部分一意
// インデックスが保証します。
type ListRepository struct {
	pool pgdb.Queryer
}

// NewListRepository は ListRepository を生成します。
func NewListRepository(pool pgdb.Queryer) *ListRepository {
	return &ListRepository{pool: pool}
}

// FindListBySlug は slug でリストを取得します。
func (r *ListRepository) FindListBySlug(ctx context.Context, slug string) (*list.List, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, slug, name, created_at
          FROM lists
         WHERE slug = $1
         LIMIT 1
    `, slug)

	var found list.List
	if err := row.Scan(&found.ID, &found.Slug, &found.Name, &found.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, list.ErrListNotFound
		}
		return nil, err
	}
	return &found, nil
}

// FindCompanyIDByDomain はドメインから会社 ID を引きます。
func (r *ListRepository) FindCompanyIDByDomain(ctx context.Context, domain string) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT id FROM companies WHERE domain = $1 LIMIT 1`, domain)

	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, list.ErrCompanyNotFound
		}
		return 0, err
	}
	return id, nil
}

// OpenMembership は開いた所属行を条件付きで挿入します。同時実行で先に
// 開いた行が入った場合は部分一意インデックスが衝突し、ON CONFLICT で
// 挿入が抑止されて false が返ります。
func (r *ListRepository) OpenMembership(ctx context.Context, listID, companyID int64, actor string, at time.Time) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        INSERT INTO list_memberships (list_id, company_id, added_at, added_by)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (list_id, company_id) WHERE removed_at IS NULL DO NOTHING
    `, listID, companyID, at, actor)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CloseMembership は開いた所属行を閉じます。
func (r *ListRepository) CloseMembership(ctx context.Context, listID, companyID int64, actor string, at time.Time) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE list_memberships
           SET removed_at = $1,
               removed_by = $2
         WHERE list_id = $3
           AND company_id = $4
           AND removed_at IS NULL
    `, at, actor, listID, companyID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// AppendHistory は状態遷移の監査行を追記します。
func (r *ListRepository) AppendHistory(ctx context.Context, change *list.StatusChange) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO company_status_history (company_id, from_status, to_status, changed_by, changed_at)
        VALUES ($1, $2, $3, $4, $5)
    `, change.CompanyID, change.FromStatus, change.ToStatus, change.ChangedBy, change.ChangedAt)
	return err
}

// Members はリストの現所属を追加日時の新しい順で返します。
func (r *ListRepository) Members(ctx context.Context, listID int64, limit, offset int) ([]*list.Member, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+memberColumns+`
          FROM list_memberships lm
          JOIN companies c ON c.id = lm.company_id`+latestMetricsJoin+`
         WHERE lm.list_id = $1
           AND lm.removed_at IS NULL
         ORDER BY lm.added_at DESC, c.id ASC
         LIMIT $2
        OFFSET $3
    `, listID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMembers(rows)
}

// CountMembers はリストの現所属数を返します。
func (r *ListRepository) CountMembers(ctx context.Context, listID int64) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var count int64
	err := exec.QueryRow(ctx, `
        SELECT COUNT(*)
          FROM list_memberships
         WHERE list_id = $1
           AND removed_at IS NULL
    `, listID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ReachedOutMembers は reached_out リストの現所属を vertical で絞り込んで
// 返します。
func (r *ListRepository) ReachedOutMembers(ctx context.Context, filter list.ReachedOutFilter) ([]*list.Member, error) {
	args := []any{list.SlugReachedOut}
	verticalClause := ""
	if filter.Vertical != nil {
		args = append(args, *filter.Vertical)
		verticalClause = `
           AND c.vertical = $2`
	}
	args = append(args, filter.Limit)
	limitPlaceholder := "$2"
	if filter.Vertical != nil {
		limitPlaceholder = "$3"
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+memberColumns+`
          FROM list_memberships lm
          JOIN lists l ON l.id = lm.list_id
          JOIN companies c ON c.id = lm.company_id`+latestMetricsJoin+`
         WHERE l.slug = $1
           AND lm.removed_at IS NULL`+verticalClause+`
         ORDER BY lm.added_at DESC, c.id ASC
         LIMIT `+limitPlaceholder+`
    `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMembers(rows)
}

func collectMembers(rows pgx.Rows) ([]*list.Member, error) {
	var members []*list.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func scanMember(row pgx.Row) (*list.Member, error) {
	var m list.Member
	err := row.Scan(
		&m.CompanyID, &m.Domain, &m.Name, &m.Country, &m.Industry, &m.EmployeeRange,
		&m.TechTags, &m.Vertical, &m.Subvertical, &m.Description, &m.Location,
		&m.AddedAt,
		&m.Visits, &m.PagesPerVisit, &m.AvgVisitSecs, &m.BounceRate,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
