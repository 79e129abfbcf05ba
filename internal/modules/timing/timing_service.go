package timing

import (
	"context"
	"errors"
	"fmt"

	"trip-planner/internal/models"
)

// ServiceInterface is the default-timing collaborator consumed by the
// timeline engine and the profile handler.
type ServiceInterface interface {
	GetDefaults(ctx context.Context, userID string) (*models.TimingProfile, error)
	Upsert(ctx context.Context, userID string, req models.UpsertTimingRequest) (*models.TimingProfile, error)
}

// Service implements ServiceInterface.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new timing service.
func NewService(repo RepositoryInterface) ServiceInterface {
	return &Service{repo: repo}
}

// GetDefaults returns a user's timing profile. A missing profile surfaces as
// ErrTimingNotConfigured; the engine never assumes zero defaults.
func (s *Service) GetDefaults(ctx context.Context, userID string) (*models.TimingProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", models.ErrTimingNotConfigured, userID)
		}
		return nil, fmt.Errorf("service.GetDefaults: %w", err)
	}
	return profile, nil
}

// Upsert creates or replaces a user's timing profile.
func (s *Service) Upsert(ctx context.Context, userID string, req models.UpsertTimingRequest) (*models.TimingProfile, error) {
	profile := &models.TimingProfile{
		UserID:             userID,
		DayStart:           req.DayStart,
		HotelDayDuration:   req.HotelDayDuration,
		HotelNightDuration: req.HotelNightDuration,
		RestaurantDuration: req.RestaurantDuration,
		PlaceDuration:      req.PlaceDuration,
		ActivityDuration:   req.ActivityDuration,
	}
	out, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("service.Upsert: %w", err)
	}
	return out, nil
}
