package itinerary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trip-planner/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the storage contract for the timeline engine.
// Multi-row mutations (graph creation, chain retiming) run inside a single
// transaction so a day is never observable half-updated.
type RepositoryInterface interface {
	CreateItineraryGraph(ctx context.Context, itin *models.Itinerary, days []*models.ItineraryDay, itemsByDay [][]*models.ItineraryItem) (*models.Itinerary, error)
	FindItinerary(ctx context.Context, id int) (*models.Itinerary, error)
	ListByUser(ctx context.Context, userID string) ([]*models.ItinerarySummary, error)
	FindLocationByID(ctx context.Context, id int) (*models.Location, error)

	FindDay(ctx context.Context, dayID int) (*models.ItineraryDay, error)
	ListDays(ctx context.Context, itineraryID int) ([]*models.ItineraryDay, error)

	FindItem(ctx context.Context, itemID int) (*models.ItineraryItem, error)
	ListChainStops(ctx context.Context, dayID int) ([]*models.ChainStop, error)
	InsertItem(ctx context.Context, item *models.ItineraryItem) (*models.ItineraryItem, error)
	// ApplyChainUpdate deletes deleteItemID (when non-zero) and rewrites the
	// order/timing fields of every given item, all in one transaction.
	ApplyChainUpdate(ctx context.Context, deleteItemID int, items []*models.ItineraryItem) error
	UpdateItemCost(ctx context.Context, itemID int, cost *float64) error
	UpdateItemDescription(ctx context.Context, itemID int, description string) error

	CreateShareCode(ctx context.Context, itineraryID int, code string) (*models.ShareCode, error)
	LatestShareCode(ctx context.Context, itineraryID int) (*models.ShareCode, error)
	FindItineraryIDByCode(ctx context.Context, code string) (int, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new itinerary repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// refColumns maps an item's tagged reference onto the three reference
// columns of the items table.
func refColumns(item *models.ItineraryItem) (hotelID, restaurantID, placeID *int) {
	id := item.Ref.ID
	switch item.Type {
	case models.ItemTypeHotel:
		return &id, nil, nil
	case models.ItemTypeRestaurant:
		return nil, &id, nil
	default: // place and starting_point both live in the places table
		return nil, nil, &id
	}
}

func (r *Repository) CreateItineraryGraph(ctx context.Context, itin *models.Itinerary, days []*models.ItineraryDay, itemsByDay [][]*models.ItineraryItem) (*models.Itinerary, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateItineraryGraph begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO itineraries (user_id, title, location_id, start_date, end_date, starting_point_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		itin.UserID, itin.Title, itin.LocationID, itin.StartDate, itin.EndDate, itin.StartingPointID,
	).Scan(&itin.ID, &itin.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateItineraryGraph itinerary: %w", err)
	}

	for i, day := range days {
		day.ItineraryID = itin.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO itinerary_days (itinerary_id, day_number, date)
			VALUES ($1, $2, $3)
			RETURNING id`,
			day.ItineraryID, day.DayNumber, day.Date,
		).Scan(&day.ID)
		if err != nil {
			return nil, fmt.Errorf("repository.CreateItineraryGraph day %d: %w", day.DayNumber, err)
		}

		for _, item := range itemsByDay[i] {
			item.DayID = day.ID
			if err := insertItemTx(ctx, tx, item); err != nil {
				return nil, fmt.Errorf("repository.CreateItineraryGraph item: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.CreateItineraryGraph commit: %w", err)
	}
	return itin, nil
}

func insertItemTx(ctx context.Context, tx pgx.Tx, item *models.ItineraryItem) error {
	hotelID, restaurantID, placeID := refColumns(item)
	var travelSeconds *int64
	if item.TravelDuration != nil {
		s := int64(*item.TravelDuration / time.Second)
		travelSeconds = &s
	}

	return tx.QueryRow(ctx, `
		INSERT INTO itinerary_items
			(day_id, order_index, type, hotel_id, restaurant_id, place_id,
			 arrival_time, distance_meters, travel_seconds, stay_seconds, cost, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		item.DayID, item.OrderIndex, string(item.Type), hotelID, restaurantID, placeID,
		item.ArrivalTime, item.DistanceMeters, travelSeconds,
		int64(item.StayDuration/time.Second), item.Cost, item.Description,
	).Scan(&item.ID)
}

func (r *Repository) FindItinerary(ctx context.Context, id int) (*models.Itinerary, error) {
	itin := &models.Itinerary{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, title, location_id, start_date, end_date, starting_point_id, created_at
		FROM itineraries
		WHERE id = $1`, id,
	).Scan(&itin.ID, &itin.UserID, &itin.Title, &itin.LocationID,
		&itin.StartDate, &itin.EndDate, &itin.StartingPointID, &itin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindItinerary: %w", err)
	}
	return itin, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*models.ItinerarySummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.id, i.title, i.start_date, i.end_date, l.name, i.created_at
		FROM itineraries i
		JOIN locations l ON l.id = i.location_id
		WHERE i.user_id = $1
		ORDER BY i.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByUser: %w", err)
	}
	defer rows.Close()

	var summaries []*models.ItinerarySummary
	for rows.Next() {
		s := &models.ItinerarySummary{}
		if err := rows.Scan(&s.ID, &s.Title, &s.StartDate, &s.EndDate, &s.LocationName, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListByUser scan: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListByUser rows: %w", err)
	}
	return summaries, nil
}

func (r *Repository) FindLocationByID(ctx context.Context, id int) (*models.Location, error) {
	loc := &models.Location{}
	err := r.db.QueryRow(ctx, `
		SELECT id, place_ref, name, address, latitude, longitude
		FROM locations
		WHERE id = $1`, id,
	).Scan(&loc.ID, &loc.PlaceRef, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindLocationByID: %w", err)
	}
	return loc, nil
}

func (r *Repository) FindDay(ctx context.Context, dayID int) (*models.ItineraryDay, error) {
	day := &models.ItineraryDay{}
	err := r.db.QueryRow(ctx, `
		SELECT id, itinerary_id, day_number, date
		FROM itinerary_days
		WHERE id = $1`, dayID,
	).Scan(&day.ID, &day.ItineraryID, &day.DayNumber, &day.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindDay: %w", err)
	}
	return day, nil
}

func (r *Repository) ListDays(ctx context.Context, itineraryID int) ([]*models.ItineraryDay, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, itinerary_id, day_number, date
		FROM itinerary_days
		WHERE itinerary_id = $1
		ORDER BY day_number`, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListDays: %w", err)
	}
	defer rows.Close()

	var days []*models.ItineraryDay
	for rows.Next() {
		day := &models.ItineraryDay{}
		if err := rows.Scan(&day.ID, &day.ItineraryID, &day.DayNumber, &day.Date); err != nil {
			return nil, fmt.Errorf("repository.ListDays scan: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListDays rows: %w", err)
	}
	return days, nil
}

// scanItem reads one itinerary_items row. The reference columns are folded
// back into the tagged ItemReference.
func scanItem(row pgx.Row) (*models.ItineraryItem, error) {
	item := &models.ItineraryItem{}
	var (
		typ                           string
		hotelID, restaurantID, pID    *int
		travelSeconds, staySeconds    *int64
	)
	err := row.Scan(
		&item.ID, &item.DayID, &item.OrderIndex, &typ,
		&hotelID, &restaurantID, &pID,
		&item.ArrivalTime, &item.DistanceMeters, &travelSeconds, &staySeconds,
		&item.Cost, &item.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("scan itinerary item: %w", err)
	}

	item.Type = models.ItemType(typ)
	switch {
	case hotelID != nil:
		item.Ref = models.ItemReference{Type: item.Type, ID: *hotelID}
	case restaurantID != nil:
		item.Ref = models.ItemReference{Type: item.Type, ID: *restaurantID}
	case pID != nil:
		item.Ref = models.ItemReference{Type: item.Type, ID: *pID}
	}
	if travelSeconds != nil {
		d := time.Duration(*travelSeconds) * time.Second
		item.TravelDuration = &d
	}
	if staySeconds != nil {
		item.StayDuration = time.Duration(*staySeconds) * time.Second
	}
	return item, nil
}

const itemColumns = `i.id, i.day_id, i.order_index, i.type,
	i.hotel_id, i.restaurant_id, i.place_id,
	i.arrival_time, i.distance_meters, i.travel_seconds, i.stay_seconds,
	i.cost, COALESCE(i.description, '')`

func (r *Repository) FindItem(ctx context.Context, itemID int) (*models.ItineraryItem, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM itinerary_items i WHERE i.id = $1`, itemColumns), itemID)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindItem: %w", err)
	}
	return item, nil
}

// ListChainStops returns a day's items in chain order, each joined with its
// catalog record. An item whose reference no longer resolves surfaces as
// ErrInconsistentChain rather than being skipped.
func (r *Repository) ListChainStops(ctx context.Context, dayID int) ([]*models.ChainStop, error) {
	query := fmt.Sprintf(`
		SELECT %s,
		       COALESCE(h.place_ref, rr.place_ref, p.place_ref),
		       COALESCE(h.name, rr.name, p.name),
		       COALESCE(h.address, rr.address, p.address),
		       COALESCE(h.latitude, rr.latitude, p.latitude),
		       COALESCE(h.longitude, rr.longitude, p.longitude)
		FROM itinerary_items i
		LEFT JOIN hotels h       ON i.type = 'hotel' AND h.id = i.hotel_id
		LEFT JOIN restaurants rr ON i.type = 'restaurant' AND rr.id = i.restaurant_id
		LEFT JOIN places p       ON i.type IN ('place', 'starting_point') AND p.id = i.place_id
		WHERE i.day_id = $1
		ORDER BY i.order_index`, itemColumns)

	rows, err := r.db.Query(ctx, query, dayID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListChainStops: %w", err)
	}
	defer rows.Close()

	var stops []*models.ChainStop
	for rows.Next() {
		item := &models.ItineraryItem{}
		var (
			typ                            string
			hotelID, restaurantID, pID     *int
			travelSeconds, staySeconds     *int64
			placeRef, name, address        *string
			latitude, longitude            *float64
		)
		err := rows.Scan(
			&item.ID, &item.DayID, &item.OrderIndex, &typ,
			&hotelID, &restaurantID, &pID,
			&item.ArrivalTime, &item.DistanceMeters, &travelSeconds, &staySeconds,
			&item.Cost, &item.Description,
			&placeRef, &name, &address, &latitude, &longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("repository.ListChainStops scan: %w", err)
		}

		item.Type = models.ItemType(typ)
		switch {
		case hotelID != nil:
			item.Ref = models.ItemReference{Type: item.Type, ID: *hotelID}
		case restaurantID != nil:
			item.Ref = models.ItemReference{Type: item.Type, ID: *restaurantID}
		case pID != nil:
			item.Ref = models.ItemReference{Type: item.Type, ID: *pID}
		}
		if travelSeconds != nil {
			d := time.Duration(*travelSeconds) * time.Second
			item.TravelDuration = &d
		}
		if staySeconds != nil {
			item.StayDuration = time.Duration(*staySeconds) * time.Second
		}

		if placeRef == nil {
			return nil, fmt.Errorf("%w: item %d references a missing %s record",
				models.ErrInconsistentChain, item.ID, item.Type)
		}

		stop := &models.ChainStop{
			Item:     item,
			PlaceRef: *placeRef,
		}
		if name != nil {
			stop.Name = *name
		}
		if address != nil {
			stop.Address = *address
		}
		if latitude != nil {
			stop.Latitude = *latitude
		}
		if longitude != nil {
			stop.Longitude = *longitude
		}
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListChainStops rows: %w", err)
	}
	return stops, nil
}

func (r *Repository) InsertItem(ctx context.Context, item *models.ItineraryItem) (*models.ItineraryItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.InsertItem begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertItemTx(ctx, tx, item); err != nil {
		return nil, fmt.Errorf("repository.InsertItem: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.InsertItem commit: %w", err)
	}
	return item, nil
}

func (r *Repository) ApplyChainUpdate(ctx context.Context, deleteItemID int, items []*models.ItineraryItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository.ApplyChainUpdate begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if deleteItemID != 0 {
		cmd, err := tx.Exec(ctx, `DELETE FROM itinerary_items WHERE id = $1`, deleteItemID)
		if err != nil {
			return fmt.Errorf("repository.ApplyChainUpdate delete: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return models.ErrNotFound
		}
	}

	for _, item := range items {
		var travelSeconds *int64
		if item.TravelDuration != nil {
			s := int64(*item.TravelDuration / time.Second)
			travelSeconds = &s
		}

		cmd, err := tx.Exec(ctx, `
			UPDATE itinerary_items
			SET order_index = $2,
			    arrival_time = $3,
			    distance_meters = $4,
			    travel_seconds = $5,
			    stay_seconds = $6
			WHERE id = $1`,
			item.ID, item.OrderIndex, item.ArrivalTime,
			item.DistanceMeters, travelSeconds, int64(item.StayDuration/time.Second))
		if err != nil {
			return fmt.Errorf("repository.ApplyChainUpdate item %d: %w", item.ID, err)
		}
		if cmd.RowsAffected() == 0 {
			return models.ErrNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository.ApplyChainUpdate commit: %w", err)
	}
	return nil
}

func (r *Repository) UpdateItemCost(ctx context.Context, itemID int, cost *float64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE itinerary_items SET cost = $2 WHERE id = $1`, itemID, cost)
	if err != nil {
		return fmt.Errorf("repository.UpdateItemCost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateItemDescription(ctx context.Context, itemID int, description string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE itinerary_items SET description = $2 WHERE id = $1`, itemID, description)
	if err != nil {
		return fmt.Errorf("repository.UpdateItemDescription: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) CreateShareCode(ctx context.Context, itineraryID int, code string) (*models.ShareCode, error) {
	share := &models.ShareCode{ItineraryID: itineraryID, Code: code}
	err := r.db.QueryRow(ctx, `
		INSERT INTO itinerary_share_codes (itinerary_id, code)
		VALUES ($1, $2)
		RETURNING id, created_at`, itineraryID, code,
	).Scan(&share.ID, &share.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateShareCode: %w", err)
	}
	return share, nil
}

func (r *Repository) LatestShareCode(ctx context.Context, itineraryID int) (*models.ShareCode, error) {
	share := &models.ShareCode{}
	err := r.db.QueryRow(ctx, `
		SELECT id, itinerary_id, code, created_at
		FROM itinerary_share_codes
		WHERE itinerary_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, itineraryID,
	).Scan(&share.ID, &share.ItineraryID, &share.Code, &share.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.LatestShareCode: %w", err)
	}
	return share, nil
}

func (r *Repository) FindItineraryIDByCode(ctx context.Context, code string) (int, error) {
	var itineraryID int
	err := r.db.QueryRow(ctx, `
		SELECT itinerary_id FROM itinerary_share_codes WHERE code = $1`, code,
	).Scan(&itineraryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("repository.FindItineraryIDByCode: %w", err)
	}
	return itineraryID, nil
}
