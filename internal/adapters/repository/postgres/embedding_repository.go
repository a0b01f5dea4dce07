package postgres

import (
	"context"

	"github.com/ogurasousui/prospector/internal/core/search"
	pgdb "github.com/ogurasousui/prospector/internal/platform/db/postgres"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingRepository は pgvector を利用した近傍検索の実装です。
type EmbeddingRepository struct {
	pool pgdb.Queryer
}

// NewEmbeddingRepository は EmbeddingRepository を生成します。
func NewEmbeddingRepository(pool pgdb.Queryer) *EmbeddingRepository {
	return &EmbeddingRepository{pool: pool}
}

// NearestCompanies はクエリベクトルとの L2 距離昇順で会社を返します。
// 埋め込み未生成の会社も候補に残し、距離なし(スコア nil)として末尾に
// 並べます。距離の同値は company_id で安定化します。
func (r *EmbeddingRepository) NearestCompanies(ctx context.Context, filter search.VectorFilter) ([]*search.Result, error) {
	args := []any{pgvector.NewVector(filter.Embedding)}
	conditions := ""

	if filter.MinVisits != nil {
		placeholder := nextPlaceholder(&args, *filter.MinVisits)
		conditions += `
           AND m.visits >= ` + placeholder
	}
	if filter.ExcludeReachedOut {
		conditions += `
           AND NOT EXISTS (
                SELECT 1
                  FROM list_memberships lm
                  JOIN lists l ON l.id = lm.list_id
                 WHERE lm.company_id = c.id
                   AND l.slug = 'reached_out'
                   AND lm.removed_at IS NULL
           )`
	}

	limitPlaceholder := nextPlaceholder(&args, filter.Limit)

	query := `
        SELECT c.id, c.domain, c.name, c.country, c.industry, c.employee_range,
               c.tech_tags,
               m.visits, m.pages_per_visit, m.avg_visit_secs, m.bounce_rate,
               ce.embedding <-> $1 AS distance
          FROM companies c
          LEFT JOIN company_embeddings ce ON ce.company_id = c.id` + latestMetricsJoin + `
         WHERE true` + conditions + `
         ORDER BY ce.embedding <-> $1 ASC NULLS LAST, c.id ASC
         LIMIT ` + limitPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*search.Result
	for rows.Next() {
		var (
			result   search.Result
			distance *float64
		)
		err := rows.Scan(
			&result.CompanyID, &result.Domain, &result.Name, &result.Country,
			&result.Industry, &result.EmployeeRange, &result.TechTags,
			&result.Visits, &result.PagesPerVisit, &result.AvgVisitSecs,
			&result.BounceRate, &distance,
		)
		if err != nil {
			return nil, err
		}
		result.SimilarityScore = search.SimilarityFromDistance(distance)
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
