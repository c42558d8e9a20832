// internal/profile/service_test.go

package profile

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeRepository struct {
	profiles map[int64]*TravelProfile
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{profiles: make(map[int64]*TravelProfile)}
}

func (r *fakeRepository) Upsert(ctx context.Context, p *TravelProfile) error {
	copied := *p
	r.profiles[p.UserID] = &copied
	return nil
}

func (r *fakeRepository) GetByUserID(ctx context.Context, userID int64) (*TravelProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeRepository) ListDiscoverable(ctx context.Context, excludingUserID int64) ([]*TravelProfile, error) {
	var out []*TravelProfile
	for _, p := range r.profiles {
		if p.UserID != excludingUserID && p.Discoverable {
			out = append(out, p)
		}
	}
	return out, nil
}

func validDTO() *UpsertProfileDTO {
	return &UpsertProfileDTO{
		Destination:  "Lisbon",
		StartDate:    "2025-06-01",
		EndDate:      "2025-06-10",
		BudgetMin:    300,
		BudgetMax:    800,
		Interests:    []string{" Surfing ", "food", "SURFING"},
		TravelStyle:  "backpacker",
		Discoverable: true,
	}
}

func TestUpsertProfileNormalizesInterests(t *testing.T) {
	svc := NewService(newFakeRepository(), 20)

	p, err := svc.UpsertProfile(context.Background(), 1, validDTO())
	if err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	want := []string{"food", "surfing"}
	if !reflect.DeepEqual(p.Interests, want) {
		t.Errorf("interests = %v, want %v", p.Interests, want)
	}
}

func TestUpsertProfileRejectsBadDates(t *testing.T) {
	svc := NewService(newFakeRepository(), 20)
	ctx := context.Background()

	dto := validDTO()
	dto.StartDate = "June 1st"
	if _, err := svc.UpsertProfile(ctx, 1, dto); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("unparseable: err = %v, want ErrInvalidDate", err)
	}

	dto = validDTO()
	dto.StartDate, dto.EndDate = dto.EndDate, dto.StartDate
	if _, err := svc.UpsertProfile(ctx, 1, dto); !errors.Is(err, ErrDatesInverted) {
		t.Errorf("inverted: err = %v, want ErrDatesInverted", err)
	}
}

func TestUpsertProfileReplacesExisting(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 20)
	ctx := context.Background()

	if _, err := svc.UpsertProfile(ctx, 1, validDTO()); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	dto := validDTO()
	dto.Destination = "Porto"
	if _, err := svc.UpsertProfile(ctx, 1, dto); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	stored, err := svc.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if stored.Destination != "Porto" {
		t.Errorf("destination = %q, want %q", stored.Destination, "Porto")
	}
}

func TestListDiscoverableExcludesRequester(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, 20)
	ctx := context.Background()

	svc.UpsertProfile(ctx, 1, validDTO())
	svc.UpsertProfile(ctx, 2, validDTO())

	hidden := validDTO()
	hidden.Discoverable = false
	svc.UpsertProfile(ctx, 3, hidden)

	pool, err := svc.ListDiscoverable(ctx, 1)
	if err != nil {
		t.Fatalf("ListDiscoverable: %v", err)
	}
	if len(pool) != 1 || pool[0].UserID != 2 {
		t.Errorf("pool = %v, want only user 2", pool)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc := NewService(newFakeRepository(), 20)

	if _, err := svc.GetProfile(context.Background(), 404); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}
