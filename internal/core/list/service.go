package list

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
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

const (
	defaultPerPage        = 100
	maxPerPage            = 500
	defaultReachedOutRows = 20
	maxReachedOutRows     = 200
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Service はリスト所属の状態遷移ユースケースをまとめます。各 (company, list)
// は absent か member のどちらかで、Add / Remove / Promote がその間を遷移
// させます。すべての遷移は単一トランザクションで実行されます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase はリスト所属ユースケースの公開インターフェースです。
type UseCase interface {
	Add(ctx context.Context, in OperationInput) (*OperationResult, error)
	Remove(ctx context.Context, in OperationInput) (*OperationResult, error)
	Promote(ctx context.Context, in PromoteInput) (*OperationResult, error)
	Members(ctx context.Context, in MembersInput) (*MembersResult, error)
	ReachedOut(ctx context.Context, in ReachedOutInput) ([]*Member, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// OperationInput は Add / Remove の入力です。
type OperationInput struct {
	Slug   string
	Domain string
	Actor  string
}

// PromoteInput は Promote の入力です。
type PromoteInput struct {
	Domain string
	Actor  string
}

// OperationResult は遷移操作の結果です。NoOp は「既に所属している」
// 「所属していない」といった情報的な空振りを表し、エラーではありません。
type OperationResult struct {
	Message string
	NoOp    bool
}

// MembersInput はリスト所属一覧取得の入力です。
type MembersInput struct {
	Slug    string
	Page    int
	PerPage int
}

// MembersResult はリスト所属一覧取得の結果です。
type MembersResult struct {
	Members []*Member
	Total   int64
	Page    int
	PerPage int
}

// ReachedOutInput は reached_out 一覧取得の入力です。
type ReachedOutInput struct {
	Vertical *string
	Limit    int
}

// Add は会社をリストに追加します。既に所属していれば空振りとして成功を
// 返し、履歴行は追加しません。
func (s *Service) Add(ctx context.Context, in OperationInput) (*OperationResult, error) {
	slug, domain, actor, err := normalizeOperation(in.Slug, in.Domain, in.Actor)
	if err != nil {
		return nil, err
	}

	var result *OperationResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		target, companyID, err := s.resolve(txCtx, slug, domain)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		inserted, err := s.repo.OpenMembership(txCtx, target.ID, companyID, actor, now)
		if err != nil {
			return err
		}

		if !inserted {
			result = &OperationResult{
				Message: fmt.Sprintf("company already in list '%s'", slug),
				NoOp:    true,
			}
			return nil
		}

		if err := s.repo.AppendHistory(txCtx, &StatusChange{
			CompanyID:  companyID,
			FromStatus: StatusNone,
			ToStatus:   slug,
			ChangedBy:  actor,
			ChangedAt:  now,
		}); err != nil {
			return err
		}

		result = &OperationResult{Message: fmt.Sprintf("company added to list '%s'", slug)}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// Remove は会社をリストから外します。所属していなければ空振りとして成功を
// 返し、履歴行は追加しません。
func (s *Service) Remove(ctx context.Context, in OperationInput) (*OperationResult, error) {
	slug, domain, actor, err := normalizeOperation(in.Slug, in.Domain, in.Actor)
	if err != nil {
		return nil, err
	}

	var result *OperationResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		target, companyID, err := s.resolve(txCtx, slug, domain)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		closed, err := s.repo.CloseMembership(txCtx, target.ID, companyID, actor, now)
		if err != nil {
			return err
		}

		if !closed {
			result = &OperationResult{
				Message: fmt.Sprintf("company not found in list '%s'", slug),
				NoOp:    true,
			}
			return nil
		}

		if err := s.repo.AppendHistory(txCtx, &StatusChange{
			CompanyID:  companyID,
			FromStatus: slug,
			ToStatus:   StatusNone,
			ChangedBy:  actor,
			ChangedAt:  now,
		}); err != nil {
			return err
		}

		result = &OperationResult{Message: fmt.Sprintf("company removed from list '%s'", slug)}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// Promote は会社を interested から reached_out へ昇格させます。interested に
// 所属していない会社でも昇格自体は成功します。閉鎖・挿入・履歴追記は単一
// トランザクションで行われ、履歴行は常に (interested -> reached_out) の
// 1 行だけです。
func (s *Service) Promote(ctx context.Context, in PromoteInput) (*OperationResult, error) {
	domain, err := normalizeDomain(in.Domain)
	if err != nil {
		return nil, err
	}
	actor := normalizeActor(in.Actor)

	var result *OperationResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		companyID, err := s.repo.FindCompanyIDByDomain(txCtx, domain)
		if err != nil {
			return err
		}

		interested, err := s.repo.FindListBySlug(txCtx, SlugInterested)
		if err != nil {
			return promoteListError(err)
		}
		reachedOut, err := s.repo.FindListBySlug(txCtx, SlugReachedOut)
		if err != nil {
			return promoteListError(err)
		}

		now := s.clock.Now()
		if _, err := s.repo.CloseMembership(txCtx, interested.ID, companyID, actor, now); err != nil {
			return err
		}
		if _, err := s.repo.OpenMembership(txCtx, reachedOut.ID, companyID, actor, now); err != nil {
			return err
		}

		if err := s.repo.AppendHistory(txCtx, &StatusChange{
			CompanyID:  companyID,
			FromStatus: SlugInterested,
			ToStatus:   SlugReachedOut,
			ChangedBy:  actor,
			ChangedAt:  now,
		}); err != nil {
			return err
		}

		result = &OperationResult{Message: "company promoted from 'interested' to 'reached_out'"}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// Members はリストの現所属をページングして返します。
func (s *Service) Members(ctx context.Context, in MembersInput) (*MembersResult, error) {
	slug, err := normalizeSlug(in.Slug)
	if err != nil {
		return nil, err
	}

	page := in.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, fmt.Errorf("page: %w", ErrInvalidPage)
	}

	perPage := in.PerPage
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if perPage < 1 || perPage > maxPerPage {
		return nil, fmt.Errorf("per_page: %w", ErrInvalidPerPage)
	}

	var (
		members []*Member
		total   int64
	)
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		target, err := s.repo.FindListBySlug(txCtx, slug)
		if err != nil {
			return err
		}

		total, err = s.repo.CountMembers(txCtx, target.ID)
		if err != nil {
			return err
		}

		members, err = s.repo.Members(txCtx, target.ID, perPage, (page-1)*perPage)
		return err
	}); err != nil {
		return nil, err
	}

	if members == nil {
		members = []*Member{}
	}

	return &MembersResult{
		Members: members,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// ReachedOut は reached_out リストの現所属を返します。
func (s *Service) ReachedOut(ctx context.Context, in ReachedOutInput) ([]*Member, error) {
	limit := in.Limit
	if limit == 0 {
		limit = defaultReachedOutRows
	}
	if limit < 1 || limit > maxReachedOutRows {
		return nil, fmt.Errorf("limit: %w", ErrInvalidLimit)
	}

	var vertical *string
	if in.Vertical != nil {
		trimmed := strings.TrimSpace(*in.Vertical)
		if trimmed != "" {
			vertical = &trimmed
		}
	}

	var members []*Member
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ReachedOutMembers(txCtx, ReachedOutFilter{Vertical: vertical, Limit: limit})
		if err != nil {
			return err
		}
		members = result
		return nil
	}); err != nil {
		return nil, err
	}

	if members == nil {
		members = []*Member{}
	}
	return members, nil
}

func (s *Service) resolve(ctx context.Context, slug, domain string) (*List, int64, error) {
	target, err := s.repo.FindListBySlug(ctx, slug)
	if err != nil {
		return nil, 0, err
	}

	companyID, err := s.repo.FindCompanyIDByDomain(ctx, domain)
	if err != nil {
		return nil, 0, err
	}

	return target, companyID, nil
}

// promote に必要なリストの欠落は利用者の入力ミスではなくシード漏れなので、
// NotFound とは区別して返します。
func promoteListError(err error) error {
	if errors.Is(err, ErrListNotFound) {
		return ErrRequiredListMissing
	}
	return err
}

func normalizeOperation(rawSlug, rawDomain, rawActor string) (slug, domain, actor string, err error) {
	slug, err = normalizeSlug(rawSlug)
	if err != nil {
		return "", "", "", err
	}
	domain, err = normalizeDomain(rawDomain)
	if err != nil {
		return "", "", "", err
	}
	return slug, domain, normalizeActor(rawActor), nil
}

func normalizeSlug(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" || !slugPattern.MatchString(trimmed) {
		return "", ErrInvalidSlug
	}
	return trimmed, nil
}

func normalizeDomain(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" || strings.ContainsAny(trimmed, " \t") {
		return "", ErrInvalidDomain
	}
	return trimmed, nil
}

func normalizeActor(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultActor
	}
	return trimmed
}
