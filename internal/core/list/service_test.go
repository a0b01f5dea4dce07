package list

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeMembership struct {
	listID    int64
	companyID int64
	addedBy   string
	removedAt *time.Time
}

type fakeListRepo struct {
	lists       map[string]*List
	companies   map[string]int64
	memberships []*fakeMembership
	history     []*StatusChange
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{
		lists: map[string]*List{
			SlugInterested: {ID: 1, Slug: SlugInterested, Name: "Interested"},
			SlugReachedOut: {ID: 2, Slug: SlugReachedOut, Name: "Reached Out"},
		},
		companies: map[string]int64{"acme.com": 10, "globex.com": 11},
	}
}

func (r *fakeListRepo) FindListBySlug(_ context.Context, slug string) (*List, error) {
	l, ok := r.lists[slug]
	if !ok {
		return nil, ErrListNotFound
	}
	return l, nil
}

func (r *fakeListRepo) FindCompanyIDByDomain(_ context.Context, domain string) (int64, error) {
	id, ok := r.companies[domain]
	if !ok {
		return 0, ErrCompanyNotFound
	}
	return id, nil
}

func (r *fakeListRepo) OpenMembership(_ context.Context, listID, companyID int64, actor string, _ time.Time) (bool, error) {
	for _, m := range r.memberships {
		if m.listID == listID && m.companyID == companyID && m.removedAt == nil {
			return false, nil
		}
	}
	r.memberships = append(r.memberships, &fakeMembership{listID: listID, companyID: companyID, addedBy: actor})
	return true, nil
}

func (r *fakeListRepo) CloseMembership(_ context.Context, listID, companyID int64, _ string, at time.Time) (bool, error) {
	closed := false
	for _, m := range r.memberships {
		if m.listID == listID && m.companyID == companyID && m.removedAt == nil {
			removedAt := at
			m.removedAt = &removedAt
			closed = true
		}
	}
	return closed, nil
}

func (r *fakeListRepo) AppendHistory(_ context.Context, change *StatusChange) error {
	r.history = append(r.history, change)
	return nil
}

func (r *fakeListRepo) Members(_ context.Context, listID int64, limit, offset int) ([]*Member, error) {
	var members []*Member
	for _, m := range r.memberships {
		if m.listID == listID && m.removedAt == nil {
			members = append(members, &Member{CompanyID: m.companyID})
		}
	}
	if offset > len(members) {
		return nil, nil
	}
	end := offset + limit
	if end > len(members) {
		end = len(members)
	}
	return members[offset:end], nil
}

func (r *fakeListRepo) CountMembers(_ context.Context, listID int64) (int64, error) {
	var count int64
	for _, m := range r.memberships {
		if m.listID == listID && m.removedAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeListRepo) ReachedOutMembers(_ context.Context, filter ReachedOutFilter) ([]*Member, error) {
	return r.Members(context.Background(), r.lists[SlugReachedOut].ID, filter.Limit, 0)
}

func (r *fakeListRepo) openCount(listID, companyID int64) int {
	count := 0
	for _, m := range r.memberships {
		if m.listID == listID && m.companyID == companyID && m.removedAt == nil {
			count++
		}
	}
	return count
}

func newTestService(repo *fakeListRepo) *Service {
	return NewService(repo, &stubClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}, nil)
}

func TestAdd_FirstTimeInsertsMembershipAndHistory(t *testing.T) {
	t.Parallel()

	repo := newFakeListRepo()
	svc := newTestService(repo)

	result, err := svc.Add(context.Background(), OperationInput{Slug: SlugInterested, Domain: "acme.com", Actor: "alice"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if result.NoOp {
		t.Error("expected first add not to be a no-op")
	}

	if got := repo.openCount(1, 10); got != 1 {
		t.Errorf("expected 1 open membership, got %d", got)
	}

	if len(repo.history) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(repo.history))
	}

	change := repo.history[0]
	if change.FromStatus != StatusNone || change.ToStatus != SlugInterested || change.ChangedBy != "alice" {
		t.Errorf("unexpected history row: %+v", change)
	}
}

func TestAdd_AlreadyMemberIsNoOpWithoutHistory(t *testing.T) {
	t.Parallel()

	repo := newFakeListRepo()
	svc := newTestService(repo)

	if _, err := svc.Add(context.Background(), OperationInput{Slug: SlugInterested, Domain: "acme.com", Actor: "alice"}); err != nil {
		t.Fatalf("first Add returned error: %v", err)
	}

	result, err := svc.Add(context.Background(), OperationInput{Slug: SlugInterested, Domain: "acme.com", Actor: "bob"})
	if err != nil {
		t.Fatalf("second Add returned error: %v", err)
	}

	if !result.NoOp {
		t.Error("expected duplicate add to be a no-op")
	}

	if got := repo.openCount(1, 10); got != 1 {
		t.Errorf("expected exactly 1 open membership, got %d", got)
	}

	if len(repo.history) != 1 {
		t.Errorf("expected no additional history row, got %d rows", len(repo.history))
	}
}

func TestAdd_UnknownListOrCompany(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeListRepo())

	_, err := svc.Add(context.Background(), OperationInput{Slug: "no-such-list", Domain: "acme.com"})
	if !errors.Is(err, ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound, got %v", err)
	}

	_, err = svc.Add(context.Background(), OperationInput{Slug: SlugInterested, Domain: "missing.example"})
	if !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestAdd_DefaultsActorToSystem(t *testing.T) {
	t.Parallel()

	repo := newFakeListRepo()
	svc := newTestService(repo)

	if _, err := svc.Add(context.Background(), OperationInput{Slug: SlugInterested, Domain: "acme.com"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if repo.memberships[0].addedBy != DefaultActor {
		t.Errorf("expected actor %q, got %q", DefaultActor, repo.memberships[0].addedBy)
	}
}

func TestRemove_ClosesMembershipAndAppendsHistory(t *testing.T) {
	t.Parallel()

	repo := newFakeListRepo()
	svc := newTestService(repo)

	if _, err := svc.Add(context.Background(), OperationInput{Slug: SlugInterested, Domain: "acme.com"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	result, err := svc.Remove(context.Background(), OperationInput{Slug: SlugInterested, Domain: "acme.com", Actor: "carol"})
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}

	if result.NoOp {
		t.Error("expected remove of a member not to be a no-op")
	}

	if got := repo.openCount(1, 10); got != 0 {
		t.Errorf("expected no open memberships, got %d", got)
	}

	last := repo.history[len(repo.history)-1]
	if last.FromStatus != SlugInterested || last.ToStatus != StatusNone {
		t.Errorf("unexpected history row: %+v", last)
	}
}

func TestRemove_AbsentIsNoOpWithoutHistory(t *testing.T) {
	t.Parallel()

	repo := newFakeListRepo()
	svc := newTestService(repo)

	result, err := svc.Remove(context.Background(), OperationInput{Slug: SlugInterested, Domain: "acme.com"})
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}

	if !result.NoOp {
		t.Error("expected remove of a non-member to be a no-op")
	}

	if len(repo.history) != 0 {
		t.Errorf("expected no history rows, got %d", len(repo.history))
	}
}

func TestPromote_MovesMembershipWithSingleHistoryRow(t *testing.T) {
	t.Parallel()

	repo := newFakeListRepo()
	svc := newTestService(repo)

	if _, err := svc.Add(context.Background(), OperationInput{Slug: SlugInterested, Domain: "acme.com"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	historyBefore := len(repo.history)

	result, err := svc.Promote(context.Background(), PromoteInput{Domain: "acme.com", Actor: "dave"})
	if err != nil {
		t.Fatalf("Promote returned error: %v", err)
	}

	if result.NoOp {
		t.Error("expected promote not to be a no-op")
	}

	if got := repo.openCount(1, 10); got != 0 {
		t.Errorf("expected interested membership closed, got %d open", got)
	}

	if got := repo.openCount(2, 10); got != 1 {
		t.Errorf("expected 1 open reached_out membership, got %d", got)
	}

	if len(repo.history) != historyBefore+1 {
		t.Fatalf("expected exactly 1 new history row, got %d", len(repo.history)-historyBefore)
	}

	last := repo.history[len(repo.history)-1]
	if last.FromStatus != SlugInterested || last.ToStatus != SlugReachedOut || last.ChangedBy != "dave" {
		t.Errorf("unexpected history row: %+v", last)
	}
}

func TestPromote_WithoutInterestedMembershipStillSucceeds(t *testing.T) {
	t.Parallel()

	repo := newFakeListRepo()
	svc := newTestService(repo)

	result, err := svc.Promote(context.Background(), PromoteInput{Domain: "globex.com"})
	if err != nil {
		t.Fatalf("Promote returned error: %v", err)
	}

	if result.NoOp {
		t.Error("expected promote to report success")
	}

	if got := repo.openCount(2, 11); got != 1 {
		t.Errorf("expected 1 open reached_out membership, got %d", got)
	}
}

func TestPromote_MissingRequiredList(t *testing.T) {
	t.Parallel()

	repo := newFakeListRepo()
	delete(repo.lists, SlugReachedOut)
	svc := newTestService(repo)

	_, err := svc.Promote(context.Background(), PromoteInput{Domain: "acme.com"})
	if !errors.Is(err, ErrRequiredListMissing) {
		t.Fatalf("expected ErrRequiredListMissing, got %v", err)
	}
}

func TestOpenMembershipInvariant_SequentialTransitions(t *testing.T) {
	t.Parallel()

	repo := newFakeListRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	ops := []func() error{
		func() error { _, err := svc.Add(ctx, OperationInput{Slug: SlugInterested, Domain: "acme.com"}); return err },
		func() error { _, err := svc.Add(ctx, OperationInput{Slug: SlugInterested, Domain: "acme.com"}); return err },
		func() error { _, err := svc.Promote(ctx, PromoteInput{Domain: "acme.com"}); return err },
		func() error { _, err := svc.Promote(ctx, PromoteInput{Domain: "acme.com"}); return err },
		func() error {
			_, err := svc.Remove(ctx, OperationInput{Slug: SlugReachedOut, Domain: "acme.com"})
			return err
		},
		func() error { _, err := svc.Add(ctx, OperationInput{Slug: SlugInterested, Domain: "acme.com"}); return err },
	}

	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("operation %d returned error: %v", i, err)
		}

		for _, l := range repo.lists {
			for _, companyID := range repo.companies {
				if got := repo.openCount(l.ID, companyID); got > 1 {
					t.Fatalf("invariant violated after operation %d: %d open rows for list %d company %d", i, got, l.ID, companyID)
				}
			}
		}
	}
}

func TestMembers_PaginationDefaults(t *testing.T) {
	t.Parallel()

	repo := newFakeListRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	for _, domain := range []string{"acme.com", "globex.com"} {
		if _, err := svc.Add(ctx, OperationInput{Slug: SlugInterested, Domain: domain}); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}

	result, err := svc.Members(ctx, MembersInput{Slug: SlugInterested})
	if err != nil {
		t.Fatalf("Members returned error: %v", err)
	}

	if result.Page != 1 || result.PerPage != defaultPerPage {
		t.Errorf("unexpected pagination defaults: page=%d per_page=%d", result.Page, result.PerPage)
	}

	if result.Total != 2 {
		t.Errorf("expected total 2, got %d", result.Total)
	}

	if len(result.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(result.Members))
	}
}

func TestMembers_InvalidPagination(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeListRepo())

	if _, err := svc.Members(context.Background(), MembersInput{Slug: SlugInterested, Page: -1}); !errors.Is(err, ErrInvalidPage) {
		t.Errorf("expected ErrInvalidPage, got %v", err)
	}

	if _, err := svc.Members(context.Background(), MembersInput{Slug: SlugInterested, PerPage: maxPerPage + 1}); !errors.Is(err, ErrInvalidPerPage) {
		t.Errorf("expected ErrInvalidPerPage, got %v", err)
	}
}
