package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trip-planner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/place/details/json", r.URL.Path)
		assert.Equal(t, "ref-1", r.URL.Query().Get("place_id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"result": {
				"name": "Fushimi Inari",
				"formatted_address": "68 Fukakusa Yabunouchicho",
				"geometry": {"location": {"lat": 34.9671, "lng": 135.7727}},
				"rating": 4.6,
				"photos": [{"photo_reference": "photo-abc"}]
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	details, err := client.PlaceDetails(context.Background(), "ref-1")
	require.NoError(t, err)

	assert.Equal(t, "Fushimi Inari", details.Name)
	assert.Equal(t, "68 Fukakusa Yabunouchicho", details.Address)
	assert.Equal(t, 34.9671, details.Latitude)
	assert.Equal(t, 135.7727, details.Longitude)
	assert.Equal(t, 4.6, details.Rating)
	assert.Contains(t, details.PhotoURL, "photoreference=photo-abc")
}

func TestPlaceDetailsNotOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.PlaceDetails(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrResolutionFailed)
}

func TestPlaceDetailsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.PlaceDetails(context.Background(), "ref-1")
	assert.ErrorIs(t, err, models.ErrResolutionFailed)
}

func TestDistanceDuration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		assert.Equal(t, "place_id:a", r.URL.Query().Get("origins"))
		assert.Equal(t, "place_id:b", r.URL.Query().Get("destinations"))

		w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [{
				"status": "OK",
				"distance": {"value": 4200},
				"duration": {"value": 900}
			}]}]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	leg, err := client.DistanceDuration(context.Background(), "a", "b")
	require.NoError(t, err)

	assert.Equal(t, 4200.0, leg.DistanceMeters)
	assert.Equal(t, 15*time.Minute, leg.Duration)
}

func TestDistanceDurationElementNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "rows": [{"elements": [{"status": "NOT_FOUND"}]}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.DistanceDuration(context.Background(), "a", "b")
	assert.ErrorIs(t, err, models.ErrDistanceLookupFailed)
}

func TestDistanceDurationEmptyRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "rows": []}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.DistanceDuration(context.Background(), "a", "b")
	assert.ErrorIs(t, err, models.ErrDistanceLookupFailed)
}
