// internal/matching/ranker.go

package matching

import (
	"log"
	"sort"

	"github.com/wanderlink/travelmatch-backend/internal/profile"
)

// Rank scores every candidate against the requester profile and returns
// a ranked list. Candidates in the excluded set (pairs already resolved
// with the requester), the requester's own profile, and non-discoverable
// profiles are filtered out. Malformed candidates are skipped and logged
// rather than failing the whole ranking. Results are sorted by score
// descending with candidate id ascending as the tie-break, so repeated
// calls over an unchanged pool yield identical orderings. topN <= 0
// returns the full ranked list; results below minScore are dropped.
func (e *Engine) Rank(requester *profile.TravelProfile, candidates []*profile.TravelProfile, excluded map[int64]bool, topN, minScore int) []*CompatibilityResult {
	results := make([]*CompatibilityResult, 0, len(candidates))

	for _, candidate := range candidates {
		if candidate.UserID == requester.UserID || !candidate.Discoverable {
			continue
		}
		if excluded[candidate.UserID] {
			continue
		}
		if err := candidate.Validate(0); err != nil {
			log.Printf("skipping malformed candidate profile %d: %v", candidate.UserID, err)
			continue
		}

		score, sub := e.Score(requester, candidate)
		if score < minScore {
			continue
		}

		results = append(results, &CompatibilityResult{
			CandidateID: candidate.UserID,
			Score:       score,
			SubScores:   sub,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}

	return results
}
