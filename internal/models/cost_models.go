package models

// CostBucket aggregates the costs of one stop category within a day.
// AverageRate is subtotal over priced items, rounded to two decimals, and nil
// when no item of the category carries a cost. IsComplete is false as soon as
// any item of the category lacks a cost.
type CostBucket struct {
	Type          ItemType `json:"type"`
	TotalQuantity int      `json:"total_quantity"`
	ValidQuantity int      `json:"valid_quantity"`
	Subtotal      float64  `json:"subtotal"`
	AverageRate   *float64 `json:"average_rate,omitempty"`
	IsComplete    bool     `json:"is_complete"`
}

// DayCostBreakup is the per-category cost summary of one day. The chain head
// (the anchor stop) is never priced and is excluded from every bucket.
type DayCostBreakup struct {
	DayID   int          `json:"day_id"`
	Buckets []CostBucket `json:"cost_breakup"`
}

// ItineraryCostBreakup is the day-by-day cost summary of a whole trip.
type ItineraryCostBreakup struct {
	ItineraryID int              `json:"itinerary_id"`
	Days        []DayCostBreakup `json:"cost_breakup_by_day"`
}
