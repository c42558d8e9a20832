// internal/matching/models.go

package matching

import (
	"time"
)

// Match statuses. A match starts proposed and ends accepted or
// rejected; both end states are terminal.
const (
	StatusProposed = "proposed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Match is the acceptance state for an unordered pair of users.
// UserAID < UserBID is enforced everywhere so each pair has exactly
// one canonical row.
type Match struct {
	ID                 int64     `json:"id" db:"id"`
	UserAID            int64     `json:"user_a_id" db:"user_a_id"`
	UserBID            int64     `json:"user_b_id" db:"user_b_id"`
	Status             string    `json:"status" db:"status"`
	CompatibilityScore int       `json:"compatibility_score" db:"compatibility_score"`
	ProposedBy         int64     `json:"proposed_by" db:"proposed_by"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`

	// Joined field
	Counterpart *UserInfo `json:"counterpart,omitempty"`
}

// IsTerminal reports whether no further transition is defined.
func (m *Match) IsTerminal() bool {
	return m.Status == StatusAccepted || m.Status == StatusRejected
}

// CounterpartOf returns the other member of the pair.
func (m *Match) CounterpartOf(userID int64) int64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// HasMember reports whether userID is one of the pair.
func (m *Match) HasMember(userID int64) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// CompatibilityResult is an ephemeral scoring result; computed on
// demand and never persisted.
type CompatibilityResult struct {
	CandidateID int64      `json:"candidate_id"`
	Score       int        `json:"score"`
	SubScores   *SubScores `json:"sub_scores,omitempty"`
}

// UserInfo is the minimal user record joined into match listings.
type UserInfo struct {
	ID          int64  `json:"id" db:"id"`
	Username    string `json:"username" db:"username"`
	DisplayName string `json:"display_name" db:"display_name"`
}

// CanonicalPair orders two user ids so the smaller comes first.
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
