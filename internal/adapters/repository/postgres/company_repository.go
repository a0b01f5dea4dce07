package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/prospector/internal/core/company"
	pgdb "github.com/ogurasousui/prospector/internal/platform/db/postgres"
)

// ディレクトリ系クエリで共通の SELECT 列。latest_metrics は会社ごとの
// 直近ワールドワイド月次指標を LATERAL で 1 行だけ引きます。
const directoryColumns = `
        c.id, c.domain, c.name, c.website_url, c.country, c.industry,
        c.employee_range, c.tech_tags, c.vertical, c.subvertical,
        c.description, c.location, c.created_at, c.updated_at,
        m.visits, m.pages_per_visit, m.avg_visit_secs, m.bounce_rate`

const latestMetricsJoin = `
          LEFT JOIN LATERAL (
            SELECT cm.visits, cm.pages_per_visit, cm.avg_visit_secs, cm.bounce_rate
              FROM company_metrics_monthly cm
             WHERE cm.company_id = c.id
               AND cm.country = 'WW'
             ORDER BY cm.month DESC
             LIMIT 1
          ) m ON true`

// CompanyRepository は PostgreSQL を利用した会社ディレクトリの実装です。
type CompanyRepository struct {
	pool pgdb.Queryer
}

// NewCompanyRepository は CompanyRepository を生成します。
func NewCompanyRepository(pool pgdb.Queryer) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// FindByDomain はドメインで会社を取得します。
func (r *CompanyRepository) FindByDomain(ctx context.Context, domain string) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, domain, name, website_url, country, industry,
               employee_range, tech_tags, vertical, subvertical,
               description, location, created_at, updated_at
          FROM companies
         WHERE domain = $1
         LIMIT 1
    `, domain)

	found, err := scanCompany(row)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// SearchDirectory はキーワードと属性フィルタで会社を検索します。条件値は
// すべてプレースホルダでバインドされます。
func (r *CompanyRepository) SearchDirectory(ctx context.Context, filter company.DirectoryFilter) ([]*company.DirectoryEntry, error) {
	args := make([]any, 0, 5)
	conditions := make([]string, 0, 4)

	pattern := "%" + filter.Query + "%"
	placeholder := nextPlaceholder(&args, pattern)
	conditions = append(conditions, `(c.name ILIKE `+placeholder+
		` OR c.domain ILIKE `+placeholder+
		` OR c.description ILIKE `+placeholder+
		` OR c.vertical ILIKE `+placeholder+
		` OR c.subvertical ILIKE `+placeholder+`)`)

	if filter.MinVisits != nil {
		placeholder := nextPlaceholder(&args, *filter.MinVisits)
		conditions = append(conditions, "m.visits >= "+placeholder)
	}
	if filter.Vertical != nil {
		placeholder := nextPlaceholder(&args, *filter.Vertical)
		conditions = append(conditions, "c.vertical = "+placeholder)
	}
	if filter.Location != nil {
		placeholder := nextPlaceholder(&args, "%"+*filter.Location+"%")
		conditions = append(conditions, "c.location ILIKE "+placeholder)
	}

	limitPlaceholder := nextPlaceholder(&args, filter.Limit)

	query := `
        SELECT` + directoryColumns + `
          FROM companies c` + latestMetricsJoin + `
         WHERE ` + strings.Join(conditions, "\n           AND ") + `
         ORDER BY m.visits DESC NULLS LAST, c.id ASC
         LIMIT ` + limitPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDirectoryEntries(rows)
}

// ListAll は全会社をページングして返します。2 番目の戻り値は総件数です。
func (r *CompanyRepository) ListAll(ctx context.Context, limit, offset int) ([]*company.DirectoryEntry, int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var total int64
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := exec.Query(ctx, `
        SELECT`+directoryColumns+`
          FROM companies c`+latestMetricsJoin+`
         ORDER BY m.visits DESC NULLS LAST, c.id ASC
         LIMIT $1
        OFFSET $2
    `, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries, err := collectDirectoryEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Stats はディレクトリ全体の集計値を取得します。
func (r *CompanyRepository) Stats(ctx context.Context) (*company.Stats, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	stats := &company.Stats{}

	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&stats.TotalCompanies); err != nil {
		return nil, err
	}

	if err := exec.QueryRow(ctx, `
        SELECT COUNT(*)
          FROM list_memberships lm
          JOIN lists l ON l.id = lm.list_id
         WHERE l.slug = 'reached_out'
           AND lm.removed_at IS NULL
    `).Scan(&stats.ReachedOutCount); err != nil {
		return nil, err
	}

	if err := exec.QueryRow(ctx, `
        SELECT COALESCE(AVG(latest.visits), 0)
          FROM (
            SELECT DISTINCT ON (company_id) visits
              FROM company_metrics_monthly
             WHERE country = 'WW'
             ORDER BY company_id, month DESC
          ) latest
    `).Scan(&stats.AverageMonthlyVisits); err != nil {
		return nil, err
	}

	rows, err := exec.Query(ctx, `
        SELECT COALESCE(vertical, 'unknown') AS vertical, COUNT(*)
          FROM companies
         GROUP BY 1
         ORDER BY COUNT(*) DESC, 1 ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var vc company.VerticalCount
		if err := rows.Scan(&vc.Vertical, &vc.Count); err != nil {
			return nil, err
		}
		stats.VerticalDistribution = append(stats.VerticalDistribution, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func collectDirectoryEntries(rows pgx.Rows) ([]*company.DirectoryEntry, error) {
	var entries []*company.DirectoryEntry
	for rows.Next() {
		entry, err := scanDirectoryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func scanCompany(row pgx.Row) (*company.Company, error) {
	var c company.Company
	err := row.Scan(
		&c.ID, &c.Domain, &c.Name, &c.WebsiteURL, &c.Country, &c.Industry,
		&c.EmployeeRange, &c.TechTags, &c.Vertical, &c.Subvertical,
		&c.Description, &c.Location, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanDirectoryEntry(row pgx.Row) (*company.DirectoryEntry, error) {
	var entry company.DirectoryEntry
	c := &entry.Company
	m := &entry.Metrics
	err := row.Scan(
		&c.ID, &c.Domain, &c.Name, &c.WebsiteURL, &c.Country, &c.Industry,
		&c.EmployeeRange, &c.TechTags, &c.Vertical, &c.Subvertical,
		&c.Description, &c.Location, &c.CreatedAt, &c.UpdatedAt,
		&m.Visits, &m.PagesPerVisit, &m.AvgVisitSecs, &m.BounceRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// nextPlaceholder は引数を追加して対応するプレースホルダを返します。
func nextPlaceholder(args *[]any, value any) string {
	*args = append(*args, value)
	return "$" + strconv.Itoa(len(*args))
}
