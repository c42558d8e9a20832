// internal/matching/service_test.go

package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/wanderlink/travelmatch-backend/internal/profile"
)

type fakeRepository struct {
	matches map[[2]int64]*Match
	nextID  int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{matches: make(map[[2]int64]*Match)}
}

func (r *fakeRepository) CreateIfAbsent(ctx context.Context, match *Match) (bool, error) {
	key := [2]int64{match.UserAID, match.UserBID}
	if _, exists := r.matches[key]; exists {
		return false, nil
	}
	r.nextID++
	match.ID = r.nextID
	copied := *match
	r.matches[key] = &copied
	return true, nil
}

func (r *fakeRepository) FindByPair(ctx context.Context, userAID, userBID int64) (*Match, error) {
	match, ok := r.matches[[2]int64{userAID, userBID}]
	if !ok {
		return nil, ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeRepository) UpdateStatusFrom(ctx context.Context, matchID int64, from, to string) (bool, error) {
	for _, match := range r.matches {
		if match.ID == matchID {
			if match.Status != from {
				return false, nil
			}
			match.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepository) ListForUser(ctx context.Context, userID int64, statuses []string) ([]*Match, error) {
	allowed := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}

	var out []*Match
	for _, match := range r.matches {
		if match.HasMember(userID) && allowed[match.Status] {
			copied := *match
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRepository) ResolvedCounterparts(ctx context.Context, userID int64) ([]int64, error) {
	return r.counterparts(userID, map[string]bool{StatusAccepted: true, StatusRejected: true}), nil
}

func (r *fakeRepository) AcceptedCounterparts(ctx context.Context, userID int64) ([]int64, error) {
	return r.counterparts(userID, map[string]bool{StatusAccepted: true}), nil
}

func (r *fakeRepository) counterparts(userID int64, statuses map[string]bool) []int64 {
	var ids []int64
	for _, match := range r.matches {
		if match.HasMember(userID) && statuses[match.Status] {
			ids = append(ids, match.CounterpartOf(userID))
		}
	}
	return ids
}

type fakeProfiles struct {
	profiles map[int64]*profile.TravelProfile
}

func (f *fakeProfiles) GetProfile(ctx context.Context, userID int64) (*profile.TravelProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) ListDiscoverable(ctx context.Context, excludingUserID int64) ([]*profile.TravelProfile, error) {
	var out []*profile.TravelProfile
	for _, p := range f.profiles {
		if p.UserID != excludingUserID && p.Discoverable {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	proposed []int64
	accepted []int64
}

func (f *fakeNotifier) MatchProposed(ctx context.Context, match *Match) {
	f.proposed = append(f.proposed, match.ID)
}

func (f *fakeNotifier) MatchAccepted(ctx context.Context, match *Match) {
	f.accepted = append(f.accepted, match.ID)
}

func newTestService(userIDs ...int64) (Service, *fakeRepository, *fakeNotifier) {
	profiles := &fakeProfiles{profiles: make(map[int64]*profile.TravelProfile)}
	for _, id := range userIDs {
		profiles.profiles[id] = testProfile(id)
	}

	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	svc := NewService(repo, profiles, NewEngine(DefaultWeights), notifier, nil, Config{
		DefaultLimit: 5,
		MinScore:     0,
	})
	return svc, repo, notifier
}

func TestProposeCreatesCanonicalMatch(t *testing.T) {
	svc, _, notifier := newTestService(1, 2)
	ctx := context.Background()

	match, err := svc.Propose(ctx, 2, 1)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}

	if match.UserAID != 1 || match.UserBID != 2 {
		t.Errorf("pair not canonical: (%d, %d)", match.UserAID, match.UserBID)
	}
	if match.Status != StatusProposed {
		t.Errorf("status = %q, want %q", match.Status, StatusProposed)
	}
	if match.ProposedBy != 2 {
		t.Errorf("proposedBy = %d, want 2", match.ProposedBy)
	}
	if match.CompatibilityScore != 100 {
		t.Errorf("score snapshot = %d, want 100", match.CompatibilityScore)
	}
	if len(notifier.proposed) != 1 {
		t.Errorf("notifier called %d times, want 1", len(notifier.proposed))
	}
}

func TestProposeIdempotent(t *testing.T) {
	svc, _, notifier := newTestService(1, 2)
	ctx := context.Background()

	first, err := svc.Propose(ctx, 1, 2)
	if err != nil {
		t.Fatalf("first Propose: %v", err)
	}

	// Same direction and reversed direction both return the existing row.
	second, err := svc.Propose(ctx, 1, 2)
	if err != nil {
		t.Fatalf("second Propose: %v", err)
	}
	reversed, err := svc.Propose(ctx, 2, 1)
	if err != nil {
		t.Fatalf("reversed Propose: %v", err)
	}

	if second.ID != first.ID || reversed.ID != first.ID {
		t.Errorf("ids differ: %d, %d, %d", first.ID, second.ID, reversed.ID)
	}
	if len(notifier.proposed) != 1 {
		t.Errorf("notifier called %d times, want 1", len(notifier.proposed))
	}
}

func TestProposeSelf(t *testing.T) {
	svc, _, _ := newTestService(1)

	if _, err := svc.Propose(context.Background(), 1, 1); !errors.Is(err, ErrCannotMatchSelf) {
		t.Errorf("err = %v, want ErrCannotMatchSelf", err)
	}
}

func TestAcceptByCounterpart(t *testing.T) {
	svc, _, notifier := newTestService(1, 2)
	ctx := context.Background()

	if _, err := svc.Propose(ctx, 1, 2); err != nil {
		t.Fatalf("Propose: %v", err)
	}

	match, err := svc.Accept(ctx, 2, 1)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if match.Status != StatusAccepted {
		t.Errorf("status = %q, want %q", match.Status, StatusAccepted)
	}
	if len(notifier.accepted) != 1 {
		t.Errorf("accept notifier called %d times, want 1", len(notifier.accepted))
	}
}

func TestAcceptByProposerIsNoOp(t *testing.T) {
	svc, _, notifier := newTestService(1, 2)
	ctx := context.Background()

	if _, err := svc.Propose(ctx, 1, 2); err != nil {
		t.Fatalf("Propose: %v", err)
	}

	// The proposer's acceptance is implicit; the match stays proposed
	// until the counterpart responds.
	match, err := svc.Accept(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if match.Status != StatusProposed {
		t.Errorf("status = %q, want %q", match.Status, StatusProposed)
	}
	if len(notifier.accepted) != 0 {
		t.Errorf("accept notifier called %d times, want 0", len(notifier.accepted))
	}
}

func TestAcceptAcceptedIsNoOp(t *testing.T) {
	svc, _, notifier := newTestService(1, 2)
	ctx := context.Background()

	svc.Propose(ctx, 1, 2)
	svc.Accept(ctx, 2, 1)

	match, err := svc.Accept(ctx, 2, 1)
	if err != nil {
		t.Fatalf("re-Accept: %v", err)
	}
	if match.Status != StatusAccepted {
		t.Errorf("status = %q, want %q", match.Status, StatusAccepted)
	}
	if len(notifier.accepted) != 1 {
		t.Errorf("accept notifier called %d times, want 1", len(notifier.accepted))
	}
}

func TestAcceptRejectedIsInvalid(t *testing.T) {
	svc, _, _ := newTestService(1, 2)
	ctx := context.Background()

	svc.Propose(ctx, 1, 2)
	svc.Reject(ctx, 2, 1)

	if _, err := svc.Accept(ctx, 2, 1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
}

func TestRejectFlows(t *testing.T) {
	svc, _, _ := newTestService(1, 2)
	ctx := context.Background()

	svc.Propose(ctx, 1, 2)

	match, err := svc.Reject(ctx, 2, 1)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if match.Status != StatusRejected {
		t.Errorf("status = %q, want %q", match.Status, StatusRejected)
	}

	// Re-reject is a no-op.
	if _, err := svc.Reject(ctx, 1, 2); err != nil {
		t.Errorf("re-Reject: %v", err)
	}
}

func TestRejectAcceptedIsInvalid(t *testing.T) {
	svc, _, _ := newTestService(1, 2)
	ctx := context.Background()

	svc.Propose(ctx, 1, 2)
	svc.Accept(ctx, 2, 1)

	if _, err := svc.Reject(ctx, 1, 2); !errors.Is(err, ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
}

func TestAcceptUnknownPair(t *testing.T) {
	svc, _, _ := newTestService(1, 2)

	if _, err := svc.Accept(context.Background(), 1, 2); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("err = %v, want ErrMatchNotFound", err)
	}
}

func TestRecommendExcludesResolvedPairs(t *testing.T) {
	svc, _, _ := newTestService(1, 2, 3)
	ctx := context.Background()

	svc.Propose(ctx, 1, 2)
	svc.Accept(ctx, 2, 1)

	results, err := svc.Recommend(ctx, 1, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(results) != 1 || results[0].CandidateID != 3 {
		t.Errorf("results = %v, want only candidate 3", rankedIDs(results))
	}
}

func TestRecommendStillProposedPairsRemain(t *testing.T) {
	svc, _, _ := newTestService(1, 2, 3)
	ctx := context.Background()

	// A pending proposal does not remove the candidate from the pool.
	svc.Propose(ctx, 1, 2)

	results, err := svc.Recommend(ctx, 1, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestRecommendDefaultLimit(t *testing.T) {
	svc, _, _ := newTestService(1, 2, 3, 4, 5, 6, 7, 8, 9)
	ctx := context.Background()

	// An omitted limit falls back to the configured default rather than
	// returning the full ranked pool.
	results, err := svc.Recommend(ctx, 1, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("got %d results, want configured default of 5", len(results))
	}

	results, err = svc.Recommend(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestCompatibilitySelf(t *testing.T) {
	svc, _, _ := newTestService(1)

	if _, err := svc.Compatibility(context.Background(), 1, 1); !errors.Is(err, ErrCannotMatchSelf) {
		t.Errorf("err = %v, want ErrCannotMatchSelf", err)
	}
}
