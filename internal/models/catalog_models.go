package models

import "time"

// PlaceRecord is a resolved catalog entry (place, hotel, or restaurant).
// Records are owned by the catalog; the timeline engine only reads them.
type PlaceRecord struct {
	ID        int       `json:"id"`
	PlaceRef  string    `json:"place_ref"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Rating    float64   `json:"rating,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Location is the destination record an itinerary is anchored at.
type Location struct {
	ID        int     `json:"id"`
	PlaceRef  string  `json:"place_ref"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}
