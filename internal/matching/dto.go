// internal/matching/dto.go
package matching

// DTOs for API requests/responses

type ProposeMatchDTO struct {
	CounterpartID int64 `json:"counterpart_id" validate:"required"`
}

type RecommendationsResponse struct {
	Total   int                    `json:"total"`
	Results []*CompatibilityResult `json:"results"`
}

type MatchListResponse struct {
	Total   int      `json:"total"`
	Matches []*Match `json:"matches"`
}
