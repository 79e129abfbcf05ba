package itinerary

import (
	"context"
	"testing"
	"time"

	"trip-planner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainOf(arrivals []time.Time, stays []time.Duration, refs []string) []*models.ChainStop {
	stops := make([]*models.ChainStop, len(arrivals))
	for i := range arrivals {
		stops[i] = &models.ChainStop{
			Item: &models.ItineraryItem{
				ID:           i + 1,
				OrderIndex:   i,
				ArrivalTime:  arrivals[i],
				StayDuration: stays[i],
			},
			PlaceRef: refs[i],
		}
	}
	return stops
}

func TestRecomputeTimingsPropagatesForward(t *testing.T) {
	anchor := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	stops := chainOf(
		[]time.Time{anchor, {}, {}},
		[]time.Duration{time.Hour, 30 * time.Minute, 0},
		[]string{"a", "b", "c"},
	)

	dist := newFakeDistance()
	dist.set("a", "b", 1000, 10*time.Minute)
	dist.set("b", "c", 2000, 20*time.Minute)

	require.NoError(t, recomputeTimings(context.Background(), stops, dist))

	// a 09:00 + 1h stay + 10m travel.
	assert.Equal(t, anchor.Add(time.Hour+10*time.Minute), stops[1].Item.ArrivalTime)
	// b arrival + 30m stay + 20m travel.
	assert.Equal(t, stops[1].Item.ArrivalTime.Add(30*time.Minute+20*time.Minute), stops[2].Item.ArrivalTime)

	require.NotNil(t, stops[1].Item.DistanceMeters)
	assert.Equal(t, 1000.0, *stops[1].Item.DistanceMeters)
	require.NotNil(t, stops[2].Item.TravelDuration)
	assert.Equal(t, 20*time.Minute, *stops[2].Item.TravelDuration)

	// The anchor is never touched.
	assert.Equal(t, anchor, stops[0].Item.ArrivalTime)
	assert.Nil(t, stops[0].Item.DistanceMeters)

	// Lookups run in chain order.
	assert.Equal(t, []string{"a->b", "b->c"}, dist.calls)
}

func TestRecomputeTimingsSingleStopIsNoop(t *testing.T) {
	anchor := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	stops := chainOf([]time.Time{anchor}, []time.Duration{time.Hour}, []string{"a"})

	dist := newFakeDistance()
	require.NoError(t, recomputeTimings(context.Background(), stops, dist))
	assert.Empty(t, dist.calls)
}

func TestRecomputeTimingsUnresolvableStop(t *testing.T) {
	anchor := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	stops := chainOf(
		[]time.Time{anchor, {}},
		[]time.Duration{0, 0},
		[]string{"a", ""},
	)

	err := recomputeTimings(context.Background(), stops, newFakeDistance())
	assert.ErrorIs(t, err, models.ErrInconsistentChain)
}

func TestRecomputeTimingsStopsOnLookupFailure(t *testing.T) {
	anchor := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	stops := chainOf(
		[]time.Time{anchor, {}, {}},
		[]time.Duration{0, 0, 0},
		[]string{"a", "b", "c"},
	)

	dist := newFakeDistance()
	dist.fail[legKey("a", "b")] = models.ErrDistanceLookupFailed

	err := recomputeTimings(context.Background(), stops, dist)
	assert.ErrorIs(t, err, models.ErrDistanceLookupFailed)
	// Nothing past the failed leg was looked up.
	assert.Equal(t, []string{"a->b"}, dist.calls)
}
