package timing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trip-planner/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines storage for default timing profiles.
type RepositoryInterface interface {
	FindByUserID(ctx context.Context, userID string) (*models.TimingProfile, error)
	Upsert(ctx context.Context, profile *models.TimingProfile) (*models.TimingProfile, error)
}

// Repository implements RepositoryInterface on PostgreSQL. Durations are
// stored as integer seconds.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new timing repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) FindByUserID(ctx context.Context, userID string) (*models.TimingProfile, error) {
	query := `
		SELECT user_id, day_start_seconds, hotel_day_seconds, hotel_night_seconds,
		       restaurant_seconds, place_seconds, activity_seconds, updated_at
		FROM default_timing_profiles
		WHERE user_id = $1`

	var dayStart, hotelDay, hotelNight, restaurant, place, activity int64
	profile := &models.TimingProfile{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID, &dayStart, &hotelDay, &hotelNight,
		&restaurant, &place, &activity, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByUserID: %w", err)
	}

	profile.DayStart = time.Duration(dayStart) * time.Second
	profile.HotelDayDuration = time.Duration(hotelDay) * time.Second
	profile.HotelNightDuration = time.Duration(hotelNight) * time.Second
	profile.RestaurantDuration = time.Duration(restaurant) * time.Second
	profile.PlaceDuration = time.Duration(place) * time.Second
	profile.ActivityDuration = time.Duration(activity) * time.Second
	return profile, nil
}

func (r *Repository) Upsert(ctx context.Context, profile *models.TimingProfile) (*models.TimingProfile, error) {
	query := `
		INSERT INTO default_timing_profiles
			(user_id, day_start_seconds, hotel_day_seconds, hotel_night_seconds,
			 restaurant_seconds, place_seconds, activity_seconds, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET day_start_seconds = EXCLUDED.day_start_seconds,
		    hotel_day_seconds = EXCLUDED.hotel_day_seconds,
		    hotel_night_seconds = EXCLUDED.hotel_night_seconds,
		    restaurant_seconds = EXCLUDED.restaurant_seconds,
		    place_seconds = EXCLUDED.place_seconds,
		    activity_seconds = EXCLUDED.activity_seconds,
		    updated_at = NOW()
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		profile.UserID,
		int64(profile.DayStart/time.Second),
		int64(profile.HotelDayDuration/time.Second),
		int64(profile.HotelNightDuration/time.Second),
		int64(profile.RestaurantDuration/time.Second),
		int64(profile.PlaceDuration/time.Second),
		int64(profile.ActivityDuration/time.Second),
	).Scan(&profile.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.Upsert: %w", err)
	}
	return profile, nil
}
