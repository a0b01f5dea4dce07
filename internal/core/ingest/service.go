package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻の取得を抽象化します。
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は会社・埋め込み・月次指標の一括取り込みユースケースです。
// 行単位の失敗はスキップして数え、バッチ全体は継続します。
type Service struct {
	repo     Repository
	embedder Embedder
	clock    Clock
	tx       TransactionManager
}

// UseCase は取り込みユースケースの公開インターフェースです。
type UseCase interface {
	LoadCompanies(ctx context.Context, rows []*CompanyRow) (*LoadResult, error)
	LoadEmbeddings(ctx context.Context) (*LoadResult, error)
	LoadMetrics(ctx context.Context, rows []*MetricsRow) (*LoadResult, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, embedder Embedder, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, embedder: embedder, clock: clock, tx: tx}
}

// LoadCompanies は会社行を単一トランザクションで upsert します。ドメインが
// 空の行はスキップとして記録されます。
func (s *Service) LoadCompanies(ctx context.Context, rows []*CompanyRow) (*LoadResult, error) {
	now := s.clock.Now()
	result := &LoadResult{}

	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		for i, row := range rows {
			domain := strings.ToLower(strings.TrimSpace(row.Domain))
			if domain == "" {
				result.Skipped = append(result.Skipped, RowError{Index: i + 1, Key: row.Domain, Err: ErrInvalidDomain})
				continue
			}
			normalized := *row
			normalized.Domain = domain
			if err := s.repo.UpsertCompany(txCtx, &normalized, now); err != nil {
				return fmt.Errorf("upsert company %q: %w", domain, err)
			}
			result.Loaded++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LoadEmbeddings は全会社の射影テキストを埋め込みベクトルへ変換して
// upsert します。プロバイダ呼び出しの失敗は会社単位でスキップされ、
// 後続の会社の処理は継続します。
func (s *Service) LoadEmbeddings(ctx context.Context) (*LoadResult, error) {
	if s.embedder == nil || !s.embedder.Configured() {
		return nil, ErrEmbedderNotConfigured
	}

	sources, err := s.repo.ListEmbeddingSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list embedding sources: %w", err)
	}

	now := s.clock.Now()
	result := &LoadResult{}
	for i, src := range sources {
		text := SourceText(src)
		if text == "" {
			result.Skipped = append(result.Skipped, RowError{Index: i + 1, Key: src.Domain, Err: ErrEmptySourceText})
			continue
		}

		embedding, err := s.embedder.Embed(ctx, text)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Index: i + 1, Key: src.Domain, Err: err})
			continue
		}

		if err := s.repo.UpsertEmbedding(ctx, src.CompanyID, embedding, text, now); err != nil {
			return nil, fmt.Errorf("upsert embedding for %q: %w", src.Domain, err)
		}
		result.Loaded++
	}
	return result, nil
}

// LoadMetrics は月次指標行を単一トランザクションで upsert します。
// companies に存在しないドメインの行はスキップとして記録されます。
func (s *Service) LoadMetrics(ctx context.Context, rows []*MetricsRow) (*LoadResult, error) {
	domains := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		domain := strings.ToLower(strings.TrimSpace(row.Domain))
		if domain == "" {
			continue
		}
		if _, ok := seen[domain]; ok {
			continue
		}
		seen[domain] = struct{}{}
		domains = append(domains, domain)
	}

	now := s.clock.Now()
	result := &LoadResult{}

	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		ids, err := s.repo.ResolveCompanyIDs(txCtx, domains)
		if err != nil {
			return fmt.Errorf("resolve company ids: %w", err)
		}

		for i, row := range rows {
			domain := strings.ToLower(strings.TrimSpace(row.Domain))
			companyID, ok := ids[domain]
			if !ok {
				result.Skipped = append(result.Skipped, RowError{Index: i + 1, Key: row.Domain, Err: ErrUnknownDomain})
				continue
			}
			if err := s.repo.UpsertMetrics(txCtx, companyID, row, now); err != nil {
				return fmt.Errorf("upsert metrics for %q: %w", domain, err)
			}
			result.Loaded++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SourceText は会社属性から埋め込み用テキストを射影します。欠損した属性は
// 省略され、すべて欠損している場合は空文字列を返します。
func SourceText(src *EmbeddingSource) string {
	var parts []string
	if src.Name != nil && strings.TrimSpace(*src.Name) != "" {
		parts = append(parts, strings.TrimSpace(*src.Name))
	}
	if src.Industry != nil && strings.TrimSpace(*src.Industry) != "" {
		parts = append(parts, "Industry: "+strings.TrimSpace(*src.Industry))
	}
	if src.Country != nil && strings.TrimSpace(*src.Country) != "" {
		parts = append(parts, "Country: "+strings.TrimSpace(*src.Country))
	}
	if src.EmployeeRange != nil && strings.TrimSpace(*src.EmployeeRange) != "" {
		parts = append(parts, "Employees: "+strings.TrimSpace(*src.EmployeeRange))
	}
	if len(src.TechTags) > 0 {
		parts = append(parts, "Tech: "+strings.Join(src.TechTags, ", "))
	}
	return strings.Join(parts, " | ")
}
