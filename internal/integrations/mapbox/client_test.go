package mapbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfstratton/concertfindr/internal/app/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:     srv.URL,
		AccessToken: "test-token",
		Country:     "US",
		PlaceTypes:  "city",
		Limit:       10,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAccessToken(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestSuggestCities(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/suggest", r.URL.Path)
		gotQuery = map[string]string{
			"q":             r.URL.Query().Get("q"),
			"access_token":  r.URL.Query().Get("access_token"),
			"session_token": r.URL.Query().Get("session_token"),
			"limit":         r.URL.Query().Get("limit"),
			"types":         r.URL.Query().Get("types"),
			"country":       r.URL.Query().Get("country"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"suggestions": [
				{"name": "Chicago", "mapbox_id": "place.chi", "feature_type": "city",
				 "context": {"region": {"name": "Illinois", "region_code": "IL"}, "country": {"name": "United States"}}},
				{"name": "Chico", "mapbox_id": "place.chico", "feature_type": "city",
				 "context": {"region": {"name": "California", "region_code": "CA"}, "country": {"name": "United States"}}}
			],
			"attribution": "mapbox"
		}`))
	})

	got, err := client.SuggestCities(context.Background(), "Chi", "session-1")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"q":             "Chi",
		"access_token":  "test-token",
		"session_token": "session-1",
		"limit":         "10",
		"types":         "city",
		"country":       "US",
	}, gotQuery)

	require.Len(t, got, 2)
	assert.Equal(t, "place.chi", got[0].ID)
	assert.Equal(t, "Chicago, IL", got[0].DisplayName())
	assert.Equal(t, "Chico, CA", got[1].DisplayName())
}

func TestSuggestCitiesUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.SuggestCities(context.Background(), "Chi", "session-1")
	assert.ErrorIs(t, err, models.ErrUpstream)
}

func TestRetrievePlaceFlipsGeoJSONCoordinates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/retrieve/place.chi", r.URL.Path)
		assert.Equal(t, "session-1", r.URL.Query().Get("session_token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"type": "FeatureCollection",
			"features": [
				{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-87.6, 41.8]}}
			]
		}`))
	})

	got, err := client.RetrievePlace(context.Background(), "place.chi", "session-1")
	require.NoError(t, err)

	// GeoJSON order is [longitude, latitude].
	assert.Equal(t, models.ResolvedPlace{
		PlaceID:   "place.chi",
		Latitude:  41.8,
		Longitude: -87.6,
	}, got)
}

func TestRetrievePlaceEmptyFeatureCollection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type": "FeatureCollection", "features": []}`))
	})

	_, err := client.RetrievePlace(context.Background(), "place.nowhere", "session-1")
	assert.ErrorIs(t, err, models.ErrUpstream)
}

func TestRetrievePlaceUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.RetrievePlace(context.Background(), "place.chi", "session-1")
	assert.ErrorIs(t, err, models.ErrUpstream)
}
