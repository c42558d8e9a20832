// internal/matching/scoring.go

package matching

import (
	"math"

	"github.com/wanderlink/travelmatch-backend/internal/profile"
)

// Weights for combining the five attribute sub-scores. Passed into the
// engine at construction and never mutated afterwards, which keeps the
// scorer safe for concurrent use.
type Weights struct {
	Destination float64
	Dates       float64
	Budget      float64
	Interests   float64
	TravelStyle float64
}

// DefaultWeights sum to exactly 1.0.
var DefaultWeights = Weights{
	Destination: 0.25,
	Dates:       0.20,
	Budget:      0.20,
	Interests:   0.25,
	TravelStyle: 0.10,
}

// SubScores carries the per-attribute scores behind a compatibility
// percentage, for explainability.
type SubScores struct {
	Destination float64 `json:"destination"`
	Dates       float64 `json:"dates"`
	Budget      float64 `json:"budget"`
	Interests   float64 `json:"interests"`
	TravelStyle float64 `json:"travel_style"`
}

// Engine computes compatibility scores and rankings. Stateless apart
// from its immutable weights, so a single instance serves concurrent
// requests without locking.
type Engine struct {
	weights Weights
}

func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights}
}

// Score combines the five attribute similarities into an integer
// percentage in [0,100], rounding half up.
func (e *Engine) Score(a, b *profile.TravelProfile) (int, *SubScores) {
	sub := &SubScores{
		Destination: DestinationMatch(a.Destination, b.Destination),
		Dates:       DateOverlap(a.StartDate, a.EndDate, b.StartDate, b.EndDate),
		Budget:      BudgetSimilarity(a.BudgetMin, a.BudgetMax, b.BudgetMin, b.BudgetMax),
		Interests:   InterestSimilarity(a.Interests, b.Interests),
		TravelStyle: TravelStyleMatch(a.TravelStyle, b.TravelStyle),
	}

	total := sub.Destination*e.weights.Destination +
		sub.Dates*e.weights.Dates +
		sub.Budget*e.weights.Budget +
		sub.Interests*e.weights.Interests +
		sub.TravelStyle*e.weights.TravelStyle

	score := int(math.Floor(total*100 + 0.5))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score, sub
}
