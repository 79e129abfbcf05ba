package catalog

import (
	"context"
	"errors"
	"fmt"

	"trip-planner/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the storage contract for catalog records.
// Hotels and restaurants are scoped per user; places and locations are
// shared across users.
type RepositoryInterface interface {
	FindLocation(ctx context.Context, placeRef string) (*models.Location, error)
	UpsertLocation(ctx context.Context, loc *models.Location) (*models.Location, error)

	FindRecord(ctx context.Context, typ models.ItemType, userID, placeRef string) (*models.PlaceRecord, error)
	UpsertRecord(ctx context.Context, typ models.ItemType, userID string, rec *models.PlaceRecord) (*models.PlaceRecord, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new catalog repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// tableFor maps an item type onto its catalog table. The starting point of a
// trip lives in the places table.
func tableFor(typ models.ItemType) (table string, userScoped bool, err error) {
	switch typ {
	case models.ItemTypeHotel:
		return "hotels", true, nil
	case models.ItemTypeRestaurant:
		return "restaurants", true, nil
	case models.ItemTypePlace, models.ItemTypeStartingPoint:
		return "places", false, nil
	default:
		return "", false, fmt.Errorf("%w: unknown item type %q", models.ErrInvalidInput, typ)
	}
}

func (r *Repository) FindLocation(ctx context.Context, placeRef string) (*models.Location, error) {
	query := `
		SELECT id, place_ref, name, address, latitude, longitude
		FROM locations
		WHERE place_ref = $1`

	loc := &models.Location{}
	err := r.db.QueryRow(ctx, query, placeRef).Scan(
		&loc.ID, &loc.PlaceRef, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindLocation: %w", err)
	}
	return loc, nil
}

// UpsertLocation inserts a location or refreshes an existing one. The
// ON CONFLICT clause makes concurrent resolution of the same reference safe.
func (r *Repository) UpsertLocation(ctx context.Context, loc *models.Location) (*models.Location, error) {
	query := `
		INSERT INTO locations (place_ref, name, address, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (place_ref) DO UPDATE
		SET name = EXCLUDED.name, address = EXCLUDED.address,
		    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude
		RETURNING id, place_ref, name, address, latitude, longitude`

	out := &models.Location{}
	err := r.db.QueryRow(ctx, query,
		loc.PlaceRef, loc.Name, loc.Address, loc.Latitude, loc.Longitude,
	).Scan(&out.ID, &out.PlaceRef, &out.Name, &out.Address, &out.Latitude, &out.Longitude)
	if err != nil {
		return nil, fmt.Errorf("repository.UpsertLocation: %w", err)
	}
	return out, nil
}

func (r *Repository) FindRecord(ctx context.Context, typ models.ItemType, userID, placeRef string) (*models.PlaceRecord, error) {
	table, userScoped, err := tableFor(typ)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, place_ref, name, address, latitude, longitude, rating, photo_url, created_at
		FROM %s
		WHERE place_ref = $1`, table)
	args := []interface{}{placeRef}
	if userScoped {
		query += ` AND user_id = $2`
		args = append(args, userID)
	}

	rec := &models.PlaceRecord{}
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&rec.ID, &rec.PlaceRef, &rec.Name, &rec.Address,
		&rec.Latitude, &rec.Longitude, &rec.Rating, &rec.PhotoURL, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindRecord(%s): %w", table, err)
	}
	return rec, nil
}

func (r *Repository) UpsertRecord(ctx context.Context, typ models.ItemType, userID string, rec *models.PlaceRecord) (*models.PlaceRecord, error) {
	table, userScoped, err := tableFor(typ)
	if err != nil {
		return nil, err
	}

	var query string
	var args []interface{}
	if userScoped {
		query = fmt.Sprintf(`
			INSERT INTO %s (user_id, place_ref, name, address, latitude, longitude, rating, photo_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (user_id, place_ref) DO UPDATE
			SET name = EXCLUDED.name, address = EXCLUDED.address,
			    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
			    rating = EXCLUDED.rating, photo_url = EXCLUDED.photo_url
			RETURNING id, place_ref, name, address, latitude, longitude, rating, photo_url, created_at`, table)
		args = []interface{}{userID, rec.PlaceRef, rec.Name, rec.Address, rec.Latitude, rec.Longitude, rec.Rating, rec.PhotoURL}
	} else {
		query = fmt.Sprintf(`
			INSERT INTO %s (place_ref, name, address, latitude, longitude, rating, photo_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (place_ref) DO UPDATE
			SET name = EXCLUDED.name, address = EXCLUDED.address,
			    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
			    rating = EXCLUDED.rating, photo_url = EXCLUDED.photo_url
			RETURNING id, place_ref, name, address, latitude, longitude, rating, photo_url, created_at`, table)
		args = []interface{}{rec.PlaceRef, rec.Name, rec.Address, rec.Latitude, rec.Longitude, rec.Rating, rec.PhotoURL}
	}

	out := &models.PlaceRecord{}
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&out.ID, &out.PlaceRef, &out.Name, &out.Address,
		&out.Latitude, &out.Longitude, &out.Rating, &out.PhotoURL, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("repository.UpsertRecord(%s): %w", table, err)
	}
	return out, nil
}
