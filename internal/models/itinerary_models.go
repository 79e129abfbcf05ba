package models

import (
	"time"
)

// ItemType identifies what kind of stop an itinerary item points at.
// It is immutable after the item is created.
type ItemType string

const (
	ItemTypeStartingPoint ItemType = "starting_point"
	ItemTypeHotel         ItemType = "hotel"
	ItemTypeRestaurant    ItemType = "restaurant"
	ItemTypePlace         ItemType = "place"
)

// ParseItemType validates a client-supplied item type string.
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case ItemTypeStartingPoint, ItemTypeHotel, ItemTypeRestaurant, ItemTypePlace:
		return ItemType(s), nil
	}
	return "", ErrInvalidInput
}

// ItemReference points at exactly one catalog record, consistent with its
// type. It replaces the three nullable foreign keys of the storage layout so
// invalid combinations cannot be constructed.
type ItemReference struct {
	Type ItemType `json:"type"`
	ID   int      `json:"id"`
}

// Itinerary is a named trip owned by a user. The starting point and the
// overnight accommodation are anchored at creation time and never change.
type Itinerary struct {
	ID              int       `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	LocationID      int       `json:"location_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	StartingPointID int       `json:"starting_point_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// ItineraryDay is one calendar date within an itinerary. DayNumber is the
// 1-based offset from the itinerary start date. Days are created atomically
// with the itinerary and are immutable afterward.
type ItineraryDay struct {
	ID          int       `json:"id"`
	ItineraryID int       `json:"itinerary_id"`
	DayNumber   int       `json:"day_number"`
	Date        time.Time `json:"date"`
}

// ItineraryItem is one stop within a day's chain.
//
// ArrivalTime carries the full timestamp (day date + wall clock) so that
// forward propagation is plain time arithmetic. DistanceMeters and
// TravelDuration are derived from the distance provider against the previous
// stop and are nil for the head of a chain.
type ItineraryItem struct {
	ID             int            `json:"id"`
	DayID          int            `json:"day_id"`
	OrderIndex     int            `json:"order_index"`
	Type           ItemType       `json:"type"`
	Ref            ItemReference  `json:"ref"`
	ArrivalTime    time.Time      `json:"arrival_time"`
	DistanceMeters *float64       `json:"distance_meters,omitempty"`
	TravelDuration *time.Duration `json:"travel_duration,omitempty"` // in nanoseconds
	StayDuration   time.Duration  `json:"stay_duration"`             // in nanoseconds
	Cost           *float64       `json:"cost,omitempty"`
	Description    string         `json:"description,omitempty"`
}

// ChainStop is an itinerary item joined with its resolved catalog record.
// The recomputation pass and the route/summary read models operate on these.
type ChainStop struct {
	Item      *ItineraryItem `json:"item"`
	PlaceRef  string         `json:"place_ref"`
	Name      string         `json:"name"`
	Address   string         `json:"address"`
	Latitude  float64        `json:"lat"`
	Longitude float64        `json:"lng"`
}

// CreateItineraryRequest is the input for creating a trip. Place references
// are external provider identifiers.
type CreateItineraryRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=255"`
	LocationRef   string `json:"location_ref" validate:"required"`
	StartingPoint string `json:"starting_point" validate:"required"`
	Accommodation string `json:"accommodation" validate:"required"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// AddItemRequest appends a stop to the end of a day's chain.
type AddItemRequest struct {
	Type     string `json:"type" validate:"required,oneof=hotel restaurant place"`
	PlaceRef string `json:"place_ref" validate:"required"`
}

// StopOrder assigns a new position to one item during a reorder.
type StopOrder struct {
	ItemID     int `json:"item_id" validate:"required"`
	OrderIndex int `json:"order_index" validate:"gte=0"`
}

// ReorderItemsRequest reorders the items of one day.
type ReorderItemsRequest struct {
	Stops []StopOrder `json:"stops" validate:"required,min=1,dive"`
}

type UpdateItemDurationRequest struct {
	StayDuration time.Duration `json:"stay_duration" validate:"gte=0"` // in nanoseconds
}

type UpdateItemCostRequest struct {
	Cost *float64 `json:"cost" validate:"omitempty,gte=0"`
}

type UpdateItemDescriptionRequest struct {
	Description string `json:"description"`
}

// ItinerarySummary is one row of a user's itinerary list.
type ItinerarySummary struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	LocationName string    `json:"location_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// MenuDetails is the compact itinerary header used by trip menus.
type MenuDetails struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// TimelineDay summarizes the stop types planned for one day.
type TimelineDay struct {
	DayID     int        `json:"day_id"`
	DayNumber int        `json:"day_number"`
	Date      time.Time  `json:"date"`
	Address   string     `json:"address"`
	Types     []ItemType `json:"types"`
}

// Timeline is the per-day type summary for a whole itinerary.
type Timeline struct {
	ItineraryID int           `json:"itinerary_id"`
	Days        []TimelineDay `json:"days"`
}

// RouteStop is one stop on the map view of a day.
type RouteStop struct {
	OrderIndex int      `json:"order_index"`
	PlaceRef   string   `json:"place_ref"`
	Type       ItemType `json:"type"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Latitude   float64  `json:"lat"`
	Longitude  float64  `json:"lng"`
}

// RouteDay groups the route stops of one day.
type RouteDay struct {
	DayID     int         `json:"day_id"`
	DayNumber int         `json:"day_number"`
	Date      time.Time   `json:"date"`
	Stops     []RouteStop `json:"stops"`
}

// StopSummary is the full per-stop listing used by the day summary view.
type StopSummary struct {
	ItemID         int            `json:"item_id"`
	OrderIndex     int            `json:"order_index"`
	Type           ItemType       `json:"type"`
	Name           string         `json:"name"`
	Address        string         `json:"address"`
	ArrivalTime    time.Time      `json:"arrival_time"`
	StayDuration   time.Duration  `json:"stay_duration"`              // in nanoseconds
	TravelDuration *time.Duration `json:"travel_duration,omitempty"`  // in nanoseconds
	DistanceMeters *float64       `json:"distance_meters,omitempty"`
	Cost           *float64       `json:"cost,omitempty"`
	Latitude       float64        `json:"lat"`
	Longitude      float64        `json:"lng"`
	Description    string         `json:"description,omitempty"`
}

// DaySummary aggregates one day's stops.
type DaySummary struct {
	ItineraryID         int           `json:"itinerary_id"`
	DayID               int           `json:"day_id"`
	DayTitle            string        `json:"day_title"`
	Date                time.Time     `json:"date"`
	DepartureTime       *time.Time    `json:"departure_time,omitempty"`
	TotalCost           float64       `json:"total_cost"`
	TotalDistanceMeters float64       `json:"total_distance_meters"`
	TotalTravelDuration time.Duration `json:"total_travel_duration"` // in nanoseconds
	TotalStayDuration   time.Duration `json:"total_stay_duration"`   // in nanoseconds
	Stops               []StopSummary `json:"stops"`
}
