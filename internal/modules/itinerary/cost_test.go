package itinerary

import (
	"context"
	"testing"

	"trip-planner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priced(typ models.ItemType, cost float64) *models.ChainStop {
	return &models.ChainStop{Item: &models.ItineraryItem{Type: typ, Cost: &cost}}
}

func unpriced(typ models.ItemType) *models.ChainStop {
	return &models.ChainStop{Item: &models.ItineraryItem{Type: typ}}
}

func TestBuildDayCostBreakup(t *testing.T) {
	stops := []*models.ChainStop{
		unpriced(models.ItemTypeStartingPoint), // anchor, excluded
		priced(models.ItemTypeHotel, 100),
		unpriced(models.ItemTypeHotel),
		priced(models.ItemTypeRestaurant, 50),
	}

	breakup := buildDayCostBreakup(7, stops)
	assert.Equal(t, 7, breakup.DayID)
	require.Len(t, breakup.Buckets, 2)

	hotel := breakup.Buckets[0]
	assert.Equal(t, models.ItemTypeHotel, hotel.Type)
	assert.Equal(t, 2, hotel.TotalQuantity)
	assert.Equal(t, 1, hotel.ValidQuantity)
	assert.Equal(t, 100.0, hotel.Subtotal)
	require.NotNil(t, hotel.AverageRate)
	assert.Equal(t, 100.0, *hotel.AverageRate)
	assert.False(t, hotel.IsComplete)

	restaurant := breakup.Buckets[1]
	assert.Equal(t, models.ItemTypeRestaurant, restaurant.Type)
	assert.Equal(t, 1, restaurant.TotalQuantity)
	assert.Equal(t, 1, restaurant.ValidQuantity)
	assert.Equal(t, 50.0, restaurant.Subtotal)
	require.NotNil(t, restaurant.AverageRate)
	assert.Equal(t, 50.0, *restaurant.AverageRate)
	assert.True(t, restaurant.IsComplete)
}

func TestBuildDayCostBreakupZeroCostIsPriced(t *testing.T) {
	stops := []*models.ChainStop{
		unpriced(models.ItemTypeStartingPoint),
		priced(models.ItemTypePlace, 0),
	}

	breakup := buildDayCostBreakup(1, stops)
	require.Len(t, breakup.Buckets, 1)
	assert.Equal(t, 1, breakup.Buckets[0].ValidQuantity)
	assert.True(t, breakup.Buckets[0].IsComplete)
	require.NotNil(t, breakup.Buckets[0].AverageRate)
	assert.Equal(t, 0.0, *breakup.Buckets[0].AverageRate)
}

func TestBuildDayCostBreakupRoundsAverage(t *testing.T) {
	stops := []*models.ChainStop{
		unpriced(models.ItemTypeStartingPoint),
		priced(models.ItemTypeRestaurant, 10),
		priced(models.ItemTypeRestaurant, 10),
		priced(models.ItemTypeRestaurant, 11),
	}

	breakup := buildDayCostBreakup(1, stops)
	require.Len(t, breakup.Buckets, 1)
	require.NotNil(t, breakup.Buckets[0].AverageRate)
	assert.Equal(t, 10.33, *breakup.Buckets[0].AverageRate)
}

func TestBuildDayCostBreakupEmptyBucketsForAnchorOnlyDay(t *testing.T) {
	stops := []*models.ChainStop{unpriced(models.ItemTypeStartingPoint)}
	breakup := buildDayCostBreakup(1, stops)
	assert.Empty(t, breakup.Buckets)
}

func TestGetItineraryCostBreakup(t *testing.T) {
	f := newFixture(t, defaultConfig())
	dayID, ids := seedThreeStopDay(f)

	cost := 25.0
	require.NoError(t, f.svc.UpdateItemCost(context.Background(), testUser, ids[2], &cost))

	day, err := f.repo.FindDay(context.Background(), dayID)
	require.NoError(t, err)

	out, err := f.svc.GetItineraryCostBreakup(context.Background(), testUser, day.ItineraryID)
	require.NoError(t, err)
	require.Len(t, out.Days, 1)
	assert.Equal(t, dayID, out.Days[0].DayID)
	require.Len(t, out.Days[0].Buckets, 2)
}
