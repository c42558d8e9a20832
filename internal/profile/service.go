// internal/profile/service.go

package profile

import (
	"context"
	"time"
)

type Service interface {
	UpsertProfile(ctx context.Context, userID int64, dto *UpsertProfileDTO) (*TravelProfile, error)
	GetProfile(ctx context.Context, userID int64) (*TravelProfile, error)
	ListDiscoverable(ctx context.Context, excludingUserID int64) ([]*TravelProfile, error)
}

type service struct {
	repo         Repository
	maxInterests int
}

func NewService(repo Repository, maxInterests int) Service {
	return &service{repo: repo, maxInterests: maxInterests}
}

func (s *service) UpsertProfile(ctx context.Context, userID int64, dto *UpsertProfileDTO) (*TravelProfile, error) {
	startDate, err := time.Parse("2006-01-02", dto.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	endDate, err := time.Parse("2006-01-02", dto.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	p := &TravelProfile{
		UserID:       userID,
		Destination:  dto.Destination,
		StartDate:    startDate,
		EndDate:      endDate,
		BudgetMin:    dto.BudgetMin,
		BudgetMax:    dto.BudgetMax,
		Interests:    NormalizeInterests(dto.Interests),
		TravelStyle:  dto.TravelStyle,
		Discoverable: dto.Discoverable,
	}

	if err := p.Validate(s.maxInterests); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*TravelProfile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) ListDiscoverable(ctx context.Context, excludingUserID int64) ([]*TravelProfile, error) {
	return s.repo.ListDiscoverable(ctx, excludingUserID)
}
