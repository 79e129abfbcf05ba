package itinerary

import (
	"context"
	"fmt"
	"math"

	"trip-planner/internal/models"
)

// round2 rounds to two decimal places, the precision costs are reported in.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// buildDayCostBreakup buckets a day's stops by type. The chain head is the
// day's departure anchor and is never counted. A stop with a nil cost still
// counts toward its bucket's quantity but marks the bucket incomplete; a zero
// cost is a real price.
func buildDayCostBreakup(dayID int, stops []*models.ChainStop) *models.DayCostBreakup {
	breakup := &models.DayCostBreakup{DayID: dayID}
	index := make(map[models.ItemType]int)

	for i, stop := range stops {
		if i == 0 {
			continue
		}
		item := stop.Item

		pos, ok := index[item.Type]
		if !ok {
			pos = len(breakup.Buckets)
			index[item.Type] = pos
			breakup.Buckets = append(breakup.Buckets, models.CostBucket{Type: item.Type})
		}

		bucket := &breakup.Buckets[pos]
		bucket.TotalQuantity++
		if item.Cost != nil {
			bucket.ValidQuantity++
			bucket.Subtotal += *item.Cost
		}
	}

	for i := range breakup.Buckets {
		bucket := &breakup.Buckets[i]
		if bucket.ValidQuantity > 0 {
			avg := round2(bucket.Subtotal / float64(bucket.ValidQuantity))
			bucket.AverageRate = &avg
		}
		bucket.IsComplete = bucket.ValidQuantity == bucket.TotalQuantity
	}
	return breakup
}

func (s *Service) GetDayCostBreakup(ctx context.Context, userID string, dayID int) (*models.DayCostBreakup, error) {
	if _, _, err := s.authorizeDay(ctx, userID, dayID); err != nil {
		return nil, err
	}
	stops, err := s.repo.ListChainStops(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.GetDayCostBreakup: %w", err)
	}
	return buildDayCostBreakup(dayID, stops), nil
}

func (s *Service) GetItineraryCostBreakup(ctx context.Context, userID string, itineraryID int) (*models.ItineraryCostBreakup, error) {
	if _, err := s.authorizeItinerary(ctx, userID, itineraryID); err != nil {
		return nil, err
	}
	days, err := s.repo.ListDays(ctx, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("service.GetItineraryCostBreakup: %w", err)
	}

	out := &models.ItineraryCostBreakup{ItineraryID: itineraryID}
	for _, day := range days {
		stops, err := s.repo.ListChainStops(ctx, day.ID)
		if err != nil {
			return nil, fmt.Errorf("service.GetItineraryCostBreakup day %d: %w", day.ID, err)
		}
		out.Days = append(out.Days, *buildDayCostBreakup(day.ID, stops))
	}
	return out, nil
}
