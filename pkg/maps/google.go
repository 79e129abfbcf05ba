// Package maps wraps the Google Places and Distance Matrix APIs. It is
// stateless: every call is a single HTTP request scoped to the caller's
// context.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"trip-planner/internal/models"
)

const defaultBaseURL = "https://maps.googleapis.com"

// PlaceDetails is the resolved information for one external place reference.
type PlaceDetails struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Rating    float64
	PhotoURL  string
}

// Leg is the travel distance and duration between two places.
type Leg struct {
	DistanceMeters float64
	Duration       time.Duration
}

// Client calls the Google Maps web services.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a maps client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// placeDetailsResponse is the minimal slice of the Place Details payload we
// care about.
type placeDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Rating float64 `json:"rating"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"result"`
}

// distanceMatrixResponse is the minimal slice of the Distance Matrix payload.
type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"` // meters
			} `json:"distance"`
			Duration struct {
				Value int64 `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// PlaceDetails resolves an external place reference to its display name,
// address and coordinates.
func (c *Client) PlaceDetails(ctx context.Context, placeRef string) (*PlaceDetails, error) {
	u := fmt.Sprintf("%s/maps/api/place/details/json?place_id=%s&key=%s",
		c.baseURL, url.QueryEscape(placeRef), url.QueryEscape(c.apiKey))

	var payload placeDetailsResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrResolutionFailed, err)
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("%w: place details status %q for %s",
			models.ErrResolutionFailed, payload.Status, placeRef)
	}

	result := payload.Result
	details := &PlaceDetails{
		Name:      result.Name,
		Address:   result.FormattedAddress,
		Latitude:  result.Geometry.Location.Lat,
		Longitude: result.Geometry.Location.Lng,
		Rating:    result.Rating,
	}
	if len(result.Photos) > 0 && result.Photos[0].PhotoReference != "" {
		details.PhotoURL = fmt.Sprintf(
			"%s/maps/api/place/photo?maxwidth=400&photoreference=%s&key=%s",
			c.baseURL, url.QueryEscape(result.Photos[0].PhotoReference), url.QueryEscape(c.apiKey))
	}
	return details, nil
}

// DistanceDuration returns the driving distance and duration between two
// place references.
func (c *Client) DistanceDuration(ctx context.Context, originRef, destRef string) (*Leg, error) {
	u := fmt.Sprintf("%s/maps/api/distancematrix/json?origins=place_id:%s&destinations=place_id:%s&mode=driving&key=%s",
		c.baseURL, url.QueryEscape(originRef), url.QueryEscape(destRef), url.QueryEscape(c.apiKey))

	var payload distanceMatrixResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDistanceLookupFailed, err)
	}
	if payload.Status != "OK" || len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return nil, fmt.Errorf("%w: distance matrix status %q",
			models.ErrDistanceLookupFailed, payload.Status)
	}
	element := payload.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, fmt.Errorf("%w: element status %q for %s -> %s",
			models.ErrDistanceLookupFailed, element.Status, originRef, destRef)
	}

	return &Leg{
		DistanceMeters: element.Distance.Value,
		Duration:       time.Duration(element.Duration.Value) * time.Second,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call maps api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps api returned %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}
