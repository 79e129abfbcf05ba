package models

import "time"

// TimingProfile holds a user's default dwell durations per stop category and
// the default day-start time. The timeline engine consumes it through an
// injected collaborator so tests can supply fixed timing.
type TimingProfile struct {
	UserID             string        `json:"user_id"`
	DayStart           time.Duration `json:"day_start"`            // offset from midnight, in nanoseconds
	HotelDayDuration   time.Duration `json:"hotel_day_duration"`   // in nanoseconds
	HotelNightDuration time.Duration `json:"hotel_night_duration"` // in nanoseconds
	RestaurantDuration time.Duration `json:"restaurant_duration"`  // in nanoseconds
	PlaceDuration      time.Duration `json:"place_duration"`       // in nanoseconds
	ActivityDuration   time.Duration `json:"activity_duration"`    // in nanoseconds
	UpdatedAt          time.Time     `json:"updated_at"`
}

// StayDurationFor returns the default dwell time for a stop category.
func (p *TimingProfile) StayDurationFor(t ItemType) time.Duration {
	switch t {
	case ItemTypeHotel:
		return p.HotelDayDuration
	case ItemTypeRestaurant:
		return p.RestaurantDuration
	case ItemTypePlace:
		return p.PlaceDuration
	default:
		return 0
	}
}

// UpsertTimingRequest creates or replaces a user's timing profile.
type UpsertTimingRequest struct {
	DayStart           time.Duration `json:"day_start" validate:"gte=0"`
	HotelDayDuration   time.Duration `json:"hotel_day_duration" validate:"gte=0"`
	HotelNightDuration time.Duration `json:"hotel_night_duration" validate:"gte=0"`
	RestaurantDuration time.Duration `json:"restaurant_duration" validate:"gte=0"`
	PlaceDuration      time.Duration `json:"place_duration" validate:"gte=0"`
	ActivityDuration   time.Duration `json:"activity_duration" validate:"gte=0"`
}
