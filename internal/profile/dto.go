// internal/profile/dto.go
package profile

// DTOs for API requests/responses

type UpsertProfileDTO struct {
	Destination  string   `json:"destination" validate:"required,max=120"`
	StartDate    string   `json:"start_date" validate:"required"`
	EndDate      string   `json:"end_date" validate:"required"`
	BudgetMin    float64  `json:"budget_min" validate:"gte=0"`
	BudgetMax    float64  `json:"budget_max" validate:"gte=0"`
	Interests    []string `json:"interests"`
	TravelStyle  string   `json:"travel_style" validate:"required,oneof=budget backpacker comfort luxury adventure"`
	Discoverable bool     `json:"discoverable"`
}
