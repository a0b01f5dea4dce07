package company

import (
	"context"
	"fmt"
	"strings"
)

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

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 200
	defaultListLimit   = 50
	maxListLimit       = 500
)

// Service は会社ディレクトリに関するユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// UseCase は会社ディレクトリユースケースの公開インターフェースです。
type UseCase interface {
	SearchDirectory(ctx context.Context, in SearchDirectoryInput) ([]*DirectoryEntry, error)
	ListAll(ctx context.Context, in ListAllInput) (*ListAllResult, error)
	GetStats(ctx context.Context) (*Stats, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// SearchDirectoryInput はキーワード検索の入力です。
type SearchDirectoryInput struct {
	Query     string
	MinVisits *int64
	Vertical  *string
	Location  *string
	Limit     int
}

// ListAllInput は全件一覧取得の入力です。
type ListAllInput struct {
	Limit  int
	Offset int
}

// ListAllResult は全件一覧取得の結果を表します。
type ListAllResult struct {
	Companies []*DirectoryEntry
	Total     int64
	Limit     int
	Offset    int
}

// SearchDirectory は名前・ドメイン・説明文などに対するキーワード検索を行います。
// 条件に一致する会社が無い場合は空のスライスを返します。
func (s *Service) SearchDirectory(ctx context.Context, in SearchDirectoryInput) ([]*DirectoryEntry, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, fmt.Errorf("query: %w", ErrInvalidQuery)
	}

	limit, err := normalizeLimit(in.Limit, defaultSearchLimit, maxSearchLimit)
	if err != nil {
		return nil, err
	}

	if in.MinVisits != nil && *in.MinVisits < 0 {
		return nil, fmt.Errorf("min_visits: %w", ErrInvalidMinVisits)
	}

	filter := DirectoryFilter{
		Query:     query,
		MinVisits: in.MinVisits,
		Vertical:  normalizeOptional(in.Vertical),
		Location:  normalizeOptional(in.Location),
		Limit:     limit,
	}

	var entries []*DirectoryEntry
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.SearchDirectory(txCtx, filter)
		if err != nil {
			return err
		}
		entries = result
		return nil
	}); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*DirectoryEntry{}
	}
	return entries, nil
}

// ListAll はディレクトリ全体をページングして返します。
func (s *Service) ListAll(ctx context.Context, in ListAllInput) (*ListAllResult, error) {
	limit, err := normalizeLimit(in.Limit, defaultListLimit, maxListLimit)
	if err != nil {
		return nil, err
	}

	if in.Offset < 0 {
		return nil, fmt.Errorf("offset: %w", ErrInvalidOffset)
	}

	var (
		entries []*DirectoryEntry
		total   int64
	)
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, count, err := s.repo.ListAll(txCtx, limit, in.Offset)
		if err != nil {
			return err
		}
		entries = result
		total = count
		return nil
	}); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*DirectoryEntry{}
	}

	return &ListAllResult{
		Companies: entries,
		Total:     total,
		Limit:     limit,
		Offset:    in.Offset,
	}, nil
}

// GetStats はディレクトリ全体の集計値を返します。
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	var stats *Stats
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Stats(txCtx)
		if err != nil {
			return err
		}
		stats = result
		return nil
	}); err != nil {
		return nil, err
	}
	return stats, nil
}

// NormalizeDomain はドメインを比較可能な形に正規化します。
func NormalizeDomain(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" || strings.ContainsAny(trimmed, " \t") {
		return "", ErrInvalidDomain
	}
	return trimmed, nil
}

func normalizeLimit(limit, def, max int) (int, error) {
	if limit == 0 {
		return def, nil
	}
	if limit < 0 || limit > max {
		return 0, fmt.Errorf("limit: %w", ErrInvalidLimit)
	}
	return limit, nil
}

func normalizeOptional(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
