// Package mapbox is a thin client for the Mapbox Search Box API:
// suggest (city autocomplete) and retrieve (place id -> coordinates).
// Both calls carry the caller's session token so Mapbox can group the
// keystrokes-then-select sequence for attribution.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/mfstratton/concertfindr/internal/app/models"
)

type Config struct {
	BaseURL     string
	AccessToken string
	Country     string
	PlaceTypes  string
	Limit       int
	Timeout     time.Duration
}

type Client struct {
	baseURL     string
	accessToken string
	country     string
	placeTypes  string
	limit       int
	httpClient  *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("mapbox access token is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.mapbox.com/search/searchbox/v1"
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 10
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:     baseURL,
		accessToken: cfg.AccessToken,
		country:     cfg.Country,
		placeTypes:  cfg.PlaceTypes,
		limit:       limit,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

type suggestResponse struct {
	Suggestions []suggestion `json:"suggestions"`
	Attribution string       `json:"attribution"`
}

type suggestion struct {
	Name           string            `json:"name"`
	MapboxID       string            `json:"mapbox_id"`
	FeatureType    string            `json:"feature_type"`
	PlaceFormatted string            `json:"place_formatted"`
	Context        suggestionContext `json:"context"`
}

type suggestionContext struct {
	Region  suggestionRegion `json:"region"`
	Country suggestionPlace  `json:"country"`
}

type suggestionRegion struct {
	Name       string `json:"name"`
	RegionCode string `json:"region_code"`
}

type suggestionPlace struct {
	Name string `json:"name"`
}

type retrieveResponse struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type     string   `json:"type"`
	Geometry geometry `json:"geometry"`
}

type geometry struct {
	Type string `json:"type"`
	// Coordinates is GeoJSON order: [longitude, latitude].
	Coordinates []float64 `json:"coordinates"`
}

// SuggestCities queries the autocomplete endpoint. Ranking comes from
// upstream; the returned order is preserved as-is.
func (c *Client) SuggestCities(ctx context.Context, query, sessionToken string) ([]models.PlaceSuggestion, error) {
	suggestURL := fmt.Sprintf("%s/suggest", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, suggestURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create suggest request")
	}

	q := req.URL.Query()
	q.Set("q", query)
	q.Set("access_token", c.accessToken)
	q.Set("session_token", sessionToken)
	q.Set("limit", strconv.Itoa(c.limit))
	if c.placeTypes != "" {
		q.Set("types", c.placeTypes)
	}
	if c.country != "" {
		q.Set("country", c.country)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "mapbox suggest request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(models.ErrUpstream, "mapbox suggest: status %d", resp.StatusCode)
	}

	var body suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode suggest response")
	}

	out := make([]models.PlaceSuggestion, 0, len(body.Suggestions))
	for _, s := range body.Suggestions {
		out = append(out, models.PlaceSuggestion{
			ID:          s.MapboxID,
			PrimaryName: s.Name,
			RegionCode:  s.Context.Region.RegionCode,
		})
	}
	return out, nil
}

// RetrievePlace fetches the point geometry for a place id. The response
// is a GeoJSON FeatureCollection whose first feature carries [lon, lat];
// the pair is flipped into the {lat, lng} convention the rest of the
// system uses.
func (c *Client) RetrievePlace(ctx context.Context, placeID, sessionToken string) (models.ResolvedPlace, error) {
	retrieveURL := fmt.Sprintf("%s/retrieve/%s", c.baseURL, url.PathEscape(placeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, retrieveURL, nil)
	if err != nil {
		return models.ResolvedPlace{}, errors.Wrap(err, "failed to create retrieve request")
	}

	q := req.URL.Query()
	q.Set("access_token", c.accessToken)
	q.Set("session_token", sessionToken)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.ResolvedPlace{}, errors.Wrap(err, "mapbox retrieve request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ResolvedPlace{}, errors.Wrapf(models.ErrUpstream, "mapbox retrieve: status %d", resp.StatusCode)
	}

	var body retrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.ResolvedPlace{}, errors.Wrap(err, "failed to decode retrieve response")
	}

	if len(body.Features) == 0 {
		return models.ResolvedPlace{}, errors.Wrapf(models.ErrUpstream, "mapbox retrieve: no features for place %s", placeID)
	}
	coords := body.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return models.ResolvedPlace{}, errors.Wrapf(models.ErrUpstream, "mapbox retrieve: missing coordinates for place %s", placeID)
	}

	return models.ResolvedPlace{
		PlaceID:   placeID,
		Longitude: coords[0],
		Latitude:  coords[1],
	}, nil
}
