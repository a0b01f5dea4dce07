package postgres

import (
	"context"
	"time"

	"github.com/ogurasousui/prospector/internal/core/ingest"
	pgdb "github.com/ogurasousui/prospector/internal/platform/db/postgres"
	"github.com/pgvector/pgvector-go"
)

// IngestRepository は PostgreSQL を利用した一括取り込みの実装です。すべて
// の upsert は自然キー衝突時に非キー列を置き換えます。
type IngestRepository struct {
	pool pgdb.Queryer
}

// NewIngestRepository は IngestRepository を生成します。
func NewIngestRepository(pool pgdb.Queryer) *IngestRepository {
	return &IngestRepository{pool: pool}
}

// UpsertCompany は会社を domain キーで upsert します。
func (r *IngestRepository) UpsertCompany(ctx context.Context, row *ingest.CompanyRow, at time.Time) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO companies (domain, name, website_url, country, industry,
                               employee_range, tech_tags, vertical, subvertical,
                               description, location, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
        ON CONFLICT (domain) DO UPDATE
           SET name = EXCLUDED.name,
               website_url = EXCLUDED.website_url,
               country = EXCLUDED.country,
               industry = EXCLUDED.industry,
               employee_range = EXCLUDED.employee_range,
               tech_tags = EXCLUDED.tech_tags,
               vertical = EXCLUDED.vertical,
               subvertical = EXCLUDED.subvertical,
               description = EXCLUDED.description,
               location = EXCLUDED.location,
               updated_at = EXCLUDED.updated_at
    `, row.Domain, row.Name, row.WebsiteURL, row.Country, row.Industry,
		row.EmployeeRange, row.TechTags, row.Vertical, row.Subvertical,
		row.Description, row.Location, at)
	return err
}

// ListEmbeddingSources は埋め込み対象の全会社を返します。
func (r *IngestRepository) ListEmbeddingSources(ctx context.Context) ([]*ingest.EmbeddingSource, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, domain, name, industry, country, employee_range, tech_tags
          FROM companies
         ORDER BY id ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*ingest.EmbeddingSource
	for rows.Next() {
		var src ingest.EmbeddingSource
		err := rows.Scan(&src.CompanyID, &src.Domain, &src.Name, &src.Industry,
			&src.Country, &src.EmployeeRange, &src.TechTags)
		if err != nil {
			return nil, err
		}
		sources = append(sources, &src)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}

// UpsertEmbedding は会社の埋め込みベクトルを upsert します。
func (r *IngestRepository) UpsertEmbedding(ctx context.Context, companyID int64, embedding []float32, sourceText string, at time.Time) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO company_embeddings (company_id, embedding, source_text, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (company_id) DO UPDATE
           SET embedding = EXCLUDED.embedding,
               source_text = EXCLUDED.source_text,
               updated_at = EXCLUDED.updated_at
    `, companyID, pgvector.NewVector(embedding), sourceText, at)
	return err
}

// ResolveCompanyIDs はドメインの集合を会社 ID へ解決します。存在しない
// ドメインは結果に含まれません。
func (r *IngestRepository) ResolveCompanyIDs(ctx context.Context, domains []string) (map[string]int64, error) {
	resolved := make(map[string]int64, len(domains))
	if len(domains) == 0 {
		return resolved, nil
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT domain, id FROM companies WHERE domain = ANY($1)`, domains)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			domain string
			id     int64
		)
		if err := rows.Scan(&domain, &id); err != nil {
			return nil, err
		}
		resolved[domain] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// UpsertMetrics は月次指標を (company_id, month, country) キーで upsert
// します。
func (r *IngestRepository) UpsertMetrics(ctx context.Context, companyID int64, row *ingest.MetricsRow, at time.Time) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO company_metrics_monthly (company_id, month, country, visits,
                                             pages_per_visit, avg_visit_secs,
                                             bounce_rate, page_views, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (company_id, month, country) DO UPDATE
           SET visits = EXCLUDED.visits,
               pages_per_visit = EXCLUDED.pages_per_visit,
               avg_visit_secs = EXCLUDED.avg_visit_secs,
               bounce_rate = EXCLUDED.bounce_rate,
               page_views = EXCLUDED.page_views,
               updated_at = EXCLUDED.updated_at
    `, companyID, row.Month, row.Country, row.Visits, row.PagesPerVisit,
		row.AvgVisitSecs, row.BounceRate, row.PageViews, at)
	return err
}
