// internal/matching/service.go

package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/wanderlink/travelmatch-backend/internal/profile"
)

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrCannotMatchSelf = errors.New("cannot match with yourself")
	ErrInvalidState    = errors.New("invalid match state transition")
)

// ProfileSource is the narrow profile store contract the matching core
// depends on.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID int64) (*profile.TravelProfile, error)
	ListDiscoverable(ctx context.Context, excludingUserID int64) ([]*profile.TravelProfile, error)
}

// Notifier receives match lifecycle events. Implementations must not
// block; failures are the implementation's problem to log.
type Notifier interface {
	MatchProposed(ctx context.Context, match *Match)
	MatchAccepted(ctx context.Context, match *Match)
}

type Service interface {
	Recommend(ctx context.Context, userID int64, topN int) ([]*CompatibilityResult, error)
	Compatibility(ctx context.Context, userID, otherID int64) (*CompatibilityResult, error)

	Propose(ctx context.Context, userID, counterpartID int64) (*Match, error)
	Accept(ctx context.Context, userID, counterpartID int64) (*Match, error)
	Reject(ctx context.Context, userID, counterpartID int64) (*Match, error)
	GetMatches(ctx context.Context, userID int64, statuses []string) ([]*Match, error)
}

// Config carries the tunables for recommendations.
type Config struct {
	DefaultLimit int
	MinScore     int
	CacheTTL     time.Duration
}

type service struct {
	repo     Repository
	profiles ProfileSource
	engine   *Engine
	notifier Notifier
	cache    *redis.Client // optional
	config   Config
}

func NewService(repo Repository, profiles ProfileSource, engine *Engine, notifier Notifier, cache *redis.Client, config Config) Service {
	return &service{
		repo:     repo,
		profiles: profiles,
		engine:   engine,
		notifier: notifier,
		cache:    cache,
		config:   config,
	}
}

func (s *service) Recommend(ctx context.Context, userID int64, topN int) ([]*CompatibilityResult, error) {
	if topN <= 0 {
		topN = s.config.DefaultLimit
	}

	if cached, ok := s.cachedRecommendations(ctx, userID, topN); ok {
		return cached, nil
	}

	requester, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := s.profiles.ListDiscoverable(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Pairs already accepted or rejected with the requester are not
	// re-proposed, so they never show up as candidates again.
	resolved, err := s.repo.ResolvedCounterparts(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[int64]bool, len(resolved))
	for _, id := range resolved {
		excluded[id] = true
	}

	results := s.engine.Rank(requester, pool, excluded, topN, s.config.MinScore)

	s.storeRecommendations(ctx, userID, topN, results)
	RecordRecommendation(len(results))

	return results, nil
}

func (s *service) Compatibility(ctx context.Context, userID, otherID int64) (*CompatibilityResult, error) {
	if userID == otherID {
		return nil, ErrCannotMatchSelf
	}

	mine, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	theirs, err := s.profiles.GetProfile(ctx, otherID)
	if err != nil {
		return nil, err
	}

	score, sub := s.engine.Score(mine, theirs)
	return &CompatibilityResult{CandidateID: otherID, Score: score, SubScores: sub}, nil
}

// Propose creates the canonical-keyed match row at proposed, snapshotting
// the compatibility score at proposal time. If a row for the pair already
// exists it is returned unchanged, whatever its state.
func (s *service) Propose(ctx context.Context, userID, counterpartID int64) (*Match, error) {
	if userID == counterpartID {
		return nil, ErrCannotMatchSelf
	}

	mine, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	theirs, err := s.profiles.GetProfile(ctx, counterpartID)
	if err != nil {
		return nil, err
	}

	userAID, userBID := CanonicalPair(userID, counterpartID)
	if existing, err := s.repo.FindByPair(ctx, userAID, userBID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrMatchNotFound) {
		return nil, err
	}

	score, _ := s.engine.Score(mine, theirs)

	match := &Match{
		UserAID:            userAID,
		UserBID:            userBID,
		Status:             StatusProposed,
		CompatibilityScore: score,
		ProposedBy:         userID,
	}

	created, err := s.repo.CreateIfAbsent(ctx, match)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost the race to a concurrent proposal for the same pair.
		return s.repo.FindByPair(ctx, userAID, userBID)
	}

	RecordProposal()
	RecordCompatibilityScore(score)

	if s.notifier != nil {
		s.notifier.MatchProposed(ctx, match)
	}

	return match, nil
}

// Accept records the acting user's acceptance. The proposer's acceptance
// is implicit at proposal time, so the counterpart's accept completes the
// two-sided agreement and moves the match to accepted. Accepting an
// already-accepted match is an idempotent no-op; accepting a rejected
// match is invalid.
func (s *service) Accept(ctx context.Context, userID, counterpartID int64) (*Match, error) {
	match, err := s.findForMembers(ctx, userID, counterpartID)
	if err != nil {
		return nil, err
	}

	switch match.Status {
	case StatusAccepted:
		return match, nil
	case StatusRejected:
		return nil, fmt.Errorf("%w: match is already rejected", ErrInvalidState)
	}

	if match.ProposedBy == userID {
		// The proposer's acceptance is already on record; still waiting
		// for the counterpart.
		return match, nil
	}

	swapped, err := s.repo.UpdateStatusFrom(ctx, match.ID, StatusProposed, StatusAccepted)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// A concurrent transition won; re-read and apply the same rules.
		return s.Accept(ctx, userID, counterpartID)
	}

	match.Status = StatusAccepted
	RecordAccept()

	if s.notifier != nil {
		s.notifier.MatchAccepted(ctx, match)
	}

	return match, nil
}

// Reject declines a proposed match. Either member may reject, including
// the proposer withdrawing. Rejecting an already-rejected match is a
// no-op; rejecting an accepted match is invalid.
func (s *service) Reject(ctx context.Context, userID, counterpartID int64) (*Match, error) {
	match, err := s.findForMembers(ctx, userID, counterpartID)
	if err != nil {
		return nil, err
	}

	switch match.Status {
	case StatusRejected:
		return match, nil
	case StatusAccepted:
		return nil, fmt.Errorf("%w: match is already accepted", ErrInvalidState)
	}

	swapped, err := s.repo.UpdateStatusFrom(ctx, match.ID, StatusProposed, StatusRejected)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return s.Reject(ctx, userID, counterpartID)
	}

	match.Status = StatusRejected
	RecordReject()

	return match, nil
}

func (s *service) GetMatches(ctx context.Context, userID int64, statuses []string) ([]*Match, error) {
	if len(statuses) == 0 {
		statuses = []string{StatusProposed, StatusAccepted}
	}
	return s.repo.ListForUser(ctx, userID, statuses)
}

func (s *service) findForMembers(ctx context.Context, userID, counterpartID int64) (*Match, error) {
	if userID == counterpartID {
		return nil, ErrCannotMatchSelf
	}

	userAID, userBID := CanonicalPair(userID, counterpartID)
	return s.repo.FindByPair(ctx, userAID, userBID)
}

// Recommendation cache

func (s *service) cachedRecommendations(ctx context.Context, userID int64, topN int) ([]*CompatibilityResult, bool) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, recommendationKey(userID, topN)).Bytes()
	if err != nil {
		return nil, false
	}

	var results []*CompatibilityResult
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, false
	}
	return results, true
}

func (s *service) storeRecommendations(ctx context.Context, userID int64, topN int, results []*CompatibilityResult) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, recommendationKey(userID, topN), payload, s.config.CacheTTL).Err(); err != nil {
		log.Printf("failed to cache recommendations for user %d: %v", userID, err)
	}
}

func recommendationKey(userID int64, topN int) string {
	return fmt.Sprintf("recommendations:%d:%d", userID, topN)
}
