package itinerary

import (
	"context"
	"fmt"

	"trip-planner/internal/models"
	"trip-planner/pkg/maps"
)

// DistanceProviderInterface is the travel-leg lookup the engine depends on.
// Implemented by pkg/maps; tests supply fixed legs.
type DistanceProviderInterface interface {
	DistanceDuration(ctx context.Context, originRef, destRef string) (*maps.Leg, error)
}

// recomputeTimings restores the chain invariant over the given stops: for
// every i >= 1, arrival[i] = arrival[i-1] + stay[i-1] + travel(i-1, i).
//
// stops[0] is the anchor; its fields are never touched. The pass mutates the
// remaining stops in memory only. Persisting (or discarding, on error) the
// result is the caller's job, which is what makes a failed lookup free of
// side effects. Lookups run strictly in ascending order because each step
// depends on the previous step's freshly computed arrival.
func recomputeTimings(ctx context.Context, stops []*models.ChainStop, distance DistanceProviderInterface) error {
	for i := 1; i < len(stops); i++ {
		prev, cur := stops[i-1], stops[i]
		if prev.PlaceRef == "" || cur.PlaceRef == "" {
			return fmt.Errorf("%w: item %d has no resolvable location",
				models.ErrInconsistentChain, cur.Item.ID)
		}

		leg, err := distance.DistanceDuration(ctx, prev.PlaceRef, cur.PlaceRef)
		if err != nil {
			return fmt.Errorf("recompute leg %d -> %d: %w", prev.Item.ID, cur.Item.ID, err)
		}

		dist, dur := leg.DistanceMeters, leg.Duration
		cur.Item.DistanceMeters = &dist
		cur.Item.TravelDuration = &dur
		cur.Item.ArrivalTime = prev.Item.ArrivalTime.Add(prev.Item.StayDuration + leg.Duration)
	}
	return nil
}

// clearHeadTravel marks a stop as the head of its chain: heads carry no
// distance or travel duration from a previous stop.
func clearHeadTravel(stop *models.ChainStop) {
	stop.Item.DistanceMeters = nil
	stop.Item.TravelDuration = nil
}
