// internal/profile/models_test.go

package profile

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func validProfile() *TravelProfile {
	return &TravelProfile{
		UserID:      1,
		Destination: "Lisbon",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		BudgetMin:   300,
		BudgetMax:   800,
		Interests:   []string{"food", "surfing"},
		TravelStyle: "backpacker",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TravelProfile)
		wantErr error
	}{
		{"valid", func(p *TravelProfile) {}, nil},
		{"blank destination", func(p *TravelProfile) { p.Destination = "  " }, ErrDestinationMissing},
		{"inverted dates", func(p *TravelProfile) { p.StartDate, p.EndDate = p.EndDate, p.StartDate }, ErrDatesInverted},
		{"single day trip allowed", func(p *TravelProfile) { p.EndDate = p.StartDate }, nil},
		{"negative budget", func(p *TravelProfile) { p.BudgetMin = -1 }, ErrBudgetNegative},
		{"inverted budget", func(p *TravelProfile) { p.BudgetMin, p.BudgetMax = 900, 100 }, ErrBudgetInverted},
		{"zero-width budget allowed", func(p *TravelProfile) { p.BudgetMin, p.BudgetMax = 500, 500 }, nil},
		{"unknown style", func(p *TravelProfile) { p.TravelStyle = "yacht" }, ErrUnknownTravelStyle},
		{"no interests allowed", func(p *TravelProfile) { p.Interests = nil }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			if err := p.Validate(20); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateInterestLimit(t *testing.T) {
	p := validProfile()
	p.Interests = []string{"a", "b", "c"}

	if err := p.Validate(2); !errors.Is(err, ErrTooManyInterests) {
		t.Errorf("err = %v, want ErrTooManyInterests", err)
	}
	// maxInterests <= 0 disables the limit.
	if err := p.Validate(0); err != nil {
		t.Errorf("unlimited: err = %v", err)
	}
}

func TestNormalizeInterests(t *testing.T) {
	got := NormalizeInterests([]string{" Hiking ", "food", "HIKING", "", "  ", "Food", "art"})
	want := []string{"art", "food", "hiking"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeInterests = %v, want %v", got, want)
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(ErrBudgetInverted) {
		t.Error("ErrBudgetInverted should be a validation error")
	}
	if IsValidationError(errors.New("database down")) {
		t.Error("arbitrary errors are not validation errors")
	}
}
