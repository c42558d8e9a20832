// internal/profile/models.go

package profile

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Validation errors surfaced when a profile is malformed.
// These are rejected at the ingestion boundary so the scoring
// engine only ever sees well-formed profiles.
var (
	ErrProfileNotFound    = errors.New("travel profile not found")
	ErrDestinationMissing = errors.New("destination is required")
	ErrInvalidDate        = errors.New("dates must be in YYYY-MM-DD format")
	ErrDatesInverted      = errors.New("start date must not be after end date")
	ErrBudgetNegative     = errors.New("budget values must not be negative")
	ErrBudgetInverted     = errors.New("budget minimum must not exceed maximum")
	ErrUnknownTravelStyle = errors.New("unknown travel style")
	ErrTooManyInterests   = errors.New("too many interests")
)

// TravelStyles is the closed set of accepted travel style categories.
var TravelStyles = map[string]bool{
	"budget":     true,
	"backpacker": true,
	"comfort":    true,
	"luxury":     true,
	"adventure":  true,
}

// TravelProfile holds a user's travel preferences for matching.
type TravelProfile struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Destination  string    `json:"destination" db:"destination"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	BudgetMin    float64   `json:"budget_min" db:"budget_min"`
	BudgetMax    float64   `json:"budget_max" db:"budget_max"`
	Interests    []string  `json:"interests" db:"interests"`
	TravelStyle  string    `json:"travel_style" db:"travel_style"`
	Discoverable bool      `json:"discoverable" db:"discoverable"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks the profile invariants. maxInterests <= 0 disables
// the interest count limit.
func (p *TravelProfile) Validate(maxInterests int) error {
	if strings.TrimSpace(p.Destination) == "" {
		return ErrDestinationMissing
	}
	if p.StartDate.After(p.EndDate) {
		return ErrDatesInverted
	}
	if p.BudgetMin < 0 || p.BudgetMax < 0 {
		return ErrBudgetNegative
	}
	if p.BudgetMin > p.BudgetMax {
		return ErrBudgetInverted
	}
	if !TravelStyles[p.TravelStyle] {
		return ErrUnknownTravelStyle
	}
	if maxInterests > 0 && len(p.Interests) > maxInterests {
		return ErrTooManyInterests
	}
	return nil
}

// IsValidationError reports whether err is one of the profile
// validation errors.
func IsValidationError(err error) bool {
	for _, ve := range []error{
		ErrDestinationMissing, ErrInvalidDate, ErrDatesInverted, ErrBudgetNegative,
		ErrBudgetInverted, ErrUnknownTravelStyle, ErrTooManyInterests,
	} {
		if errors.Is(err, ve) {
			return true
		}
	}
	return false
}

// NormalizeInterests lower-cases and trims tags, drops empties and
// duplicates, and sorts for stable storage. Applied at ingestion so
// similarity scoring never does ad hoc string cleanup.
func NormalizeInterests(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		out = append(out, cleaned)
	}
	sort.Strings(out)
	return out
}
