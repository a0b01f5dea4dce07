package search

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
	defaultSearchLimit = 100
	maxSearchLimit     = 500
)

// Service はプロンプトによるセマンティック検索ユースケースです。
type Service struct {
	repo     Repository
	embedder Embedder
	tx       TransactionManager
}

// UseCase はセマンティック検索ユースケースの公開インターフェースです。
type UseCase interface {
	Search(ctx context.Context, in SearchInput) ([]*Result, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, embedder Embedder, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, embedder: embedder, tx: tx}
}

// SearchInput はセマンティック検索の入力です。ExcludeReachedOut の既定値は
// true で、HTTP アダプタが設定します。
type SearchInput struct {
	Prompt            string
	MinVisits         *int64
	Limit             int
	ExcludeReachedOut bool
}

// Search はプロンプトを 1 回だけ埋め込みベクトルへ変換し、距離昇順で
// 会社を返します。認証情報の欠落はデータベースアクセスより先に
// ErrNotConfigured として検出されます。
func (s *Service) Search(ctx context.Context, in SearchInput) ([]*Result, error) {
	if s.embedder == nil || !s.embedder.Configured() {
		return nil, ErrNotConfigured
	}

	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	limit := in.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}
	if limit < 1 || limit > maxSearchLimit {
		return nil, fmt.Errorf("limit: %w", ErrInvalidLimit)
	}

	if in.MinVisits != nil && *in.MinVisits < 0 {
		return nil, fmt.Errorf("min_visits: %w", ErrInvalidMinVisits)
	}

	embedding, err := s.embedder.Embed(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("%w: provider returned empty vector", ErrEmbeddingFailed)
	}

	filter := VectorFilter{
		Embedding:         embedding,
		MinVisits:         in.MinVisits,
		ExcludeReachedOut: in.ExcludeReachedOut,
		Limit:             limit,
	}

	var results []*Result
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.NearestCompanies(txCtx, filter)
		if err != nil {
			return err
		}
		results = found
		return nil
	}); err != nil {
		return nil, err
	}

	if results == nil {
		results = []*Result{}
	}
	return results, nil
}

// SimilarityFromDistance は距離をランキング用スコアへ変換します。
func SimilarityFromDistance(distance *float64) *float64 {
	if distance == nil {
		return nil
	}
	score := 1.0 - *distance
	return &score
}
