// internal/notification/match_notifier.go

package notification

import (
	"context"

	"github.com/wanderlink/travelmatch-backend/internal/matching"
)

// MatchNotifier adapts the delivery service to the matching pipeline's
// Notifier interface. Proposals notify the counterpart; acceptances
// notify the proposer.
type MatchNotifier struct {
	service Service
}

func NewMatchNotifier(service Service) *MatchNotifier {
	return &MatchNotifier{service: service}
}

func (n *MatchNotifier) MatchProposed(ctx context.Context, match *matching.Match) {
	n.service.MatchProposed(ctx, match.CounterpartOf(match.ProposedBy), match.ProposedBy)
}

func (n *MatchNotifier) MatchAccepted(ctx context.Context, match *matching.Match) {
	n.service.MatchAccepted(ctx, match.ProposedBy, match.CounterpartOf(match.ProposedBy))
}
