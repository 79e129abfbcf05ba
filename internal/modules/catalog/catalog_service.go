package catalog

import (
	"context"
	"errors"
	"fmt"

	"trip-planner/internal/models"
	"trip-planner/pkg/maps"
)

// PlacesClientInterface is the slice of the maps client the resolver needs.
type PlacesClientInterface interface {
	PlaceDetails(ctx context.Context, placeRef string) (*maps.PlaceDetails, error)
}

// ServiceInterface resolves external place references to catalog records,
// creating them on first use. Resolution is idempotent per reference.
type ServiceInterface interface {
	Resolve(ctx context.Context, userID string, typ models.ItemType, placeRef string) (*models.PlaceRecord, error)
	ResolveLocation(ctx context.Context, placeRef string) (*models.Location, error)
}

// Service implements ServiceInterface.
type Service struct {
	repo   RepositoryInterface
	places PlacesClientInterface
}

// NewService creates a new catalog service.
func NewService(repo RepositoryInterface, places PlacesClientInterface) ServiceInterface {
	return &Service{repo: repo, places: places}
}

// Resolve returns the catalog record for an external place reference, calling
// the places provider and persisting a new record when none exists yet.
func (s *Service) Resolve(ctx context.Context, userID string, typ models.ItemType, placeRef string) (*models.PlaceRecord, error) {
	if placeRef == "" {
		return nil, fmt.Errorf("%w: missing place reference", models.ErrInvalidInput)
	}

	rec, err := s.repo.FindRecord(ctx, typ, userID, placeRef)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Resolve: %w", err)
	}

	details, err := s.places.PlaceDetails(ctx, placeRef)
	if err != nil {
		return nil, fmt.Errorf("service.Resolve %s %q: %w", typ, placeRef, err)
	}

	rec, err = s.repo.UpsertRecord(ctx, typ, userID, &models.PlaceRecord{
		PlaceRef:  placeRef,
		Name:      details.Name,
		Address:   details.Address,
		Latitude:  details.Latitude,
		Longitude: details.Longitude,
		Rating:    details.Rating,
		PhotoURL:  details.PhotoURL,
	})
	if err != nil {
		return nil, fmt.Errorf("service.Resolve: %w", err)
	}
	return rec, nil
}

// ResolveLocation resolves the destination record an itinerary anchors at.
func (s *Service) ResolveLocation(ctx context.Context, placeRef string) (*models.Location, error) {
	if placeRef == "" {
		return nil, fmt.Errorf("%w: missing location reference", models.ErrInvalidInput)
	}

	loc, err := s.repo.FindLocation(ctx, placeRef)
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.ResolveLocation: %w", err)
	}

	details, err := s.places.PlaceDetails(ctx, placeRef)
	if err != nil {
		return nil, fmt.Errorf("service.ResolveLocation %q: %w", placeRef, err)
	}

	loc, err = s.repo.UpsertLocation(ctx, &models.Location{
		PlaceRef:  placeRef,
		Name:      details.Name,
		Address:   details.Address,
		Latitude:  details.Latitude,
		Longitude: details.Longitude,
	})
	if err != nil {
		return nil, fmt.Errorf("service.ResolveLocation: %w", err)
	}
	return loc, nil
}
