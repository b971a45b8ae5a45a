package ticketmaster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
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
		BaseURL:  srv.URL,
		APIKey:   "test-key",
		PageSize: 200,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestNewClientCapsPageSize(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k", PageSize: 5000})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, client.pageSize)
}

func TestSearchEventsQueryParameters(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events.json", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": {"size": 200, "totalElements": 0}}`))
	})

	_, err := client.SearchEvents(context.Background(), SearchQuery{
		Latitude:      41.8,
		Longitude:     -87.6,
		RadiusMiles:   30,
		StartDateTime: "2025-06-01T00:00:00",
		EndDateTime:   "2025-06-03T23:59:59",
		GenreIDs:      []string{"KnvZfZ7vAeA", "KnvZfZ7vAev"},
	})
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotQuery.Get("apikey"))
	assert.Equal(t, "41.8,-87.6", gotQuery.Get("latlong"))
	assert.Equal(t, "30", gotQuery.Get("radius"))
	assert.Equal(t, "miles", gotQuery.Get("unit"))
	assert.Equal(t, "2025-06-01T00:00:00", gotQuery.Get("startDateTime"))
	assert.Equal(t, "2025-06-03T23:59:59", gotQuery.Get("endDateTime"))
	assert.Equal(t, "date,asc", gotQuery.Get("sort"))
	assert.Equal(t, "Music", gotQuery.Get("classificationName"))
	assert.Equal(t, "200", gotQuery.Get("size"))
	assert.Equal(t, "KnvZfZ7vAeA,KnvZfZ7vAev", gotQuery.Get("genreId"))
}

func TestSearchEventsOmitsGenreIDWhenUnfiltered(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": {"size": 200, "totalElements": 0}}`))
	})

	_, err := client.SearchEvents(context.Background(), SearchQuery{
		Latitude:      41.8,
		Longitude:     -87.6,
		RadiusMiles:   30,
		StartDateTime: "2025-06-01T00:00:00",
		EndDateTime:   "2025-06-03T23:59:59",
	})
	require.NoError(t, err)

	assert.False(t, gotQuery.Has("genreId"), "empty genre filter must not send a genreId parameter")
}

func TestSearchEventsDecodesEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"_embedded": {
				"events": [
					{
						"id": "ev1",
						"name": "The Headliners",
						"url": "https://tickets.example/ev1",
						"dates": {
							"start": {"localDate": "2025-06-01", "localTime": "19:30:00"},
							"status": {"code": "onsale"}
						},
						"_embedded": {
							"venues": [{"name": "United Center", "city": {"name": "Chicago"}}]
						}
					},
					{
						"id": "ev2",
						"name": "No Venue Listed",
						"dates": {
							"start": {"localDate": "2025-06-02"},
							"status": {"code": "cancelled"}
						}
					}
				]
			},
			"page": {"size": 200, "totalElements": 2}
		}`))
	})

	got, err := client.SearchEvents(context.Background(), SearchQuery{
		Latitude:      41.8,
		Longitude:     -87.6,
		RadiusMiles:   30,
		StartDateTime: "2025-06-01T00:00:00",
		EndDateTime:   "2025-06-03T23:59:59",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.EventRecord{
		ID:             "ev1",
		Name:           "The Headliners",
		StartLocalDate: "2025-06-01",
		StartLocalTime: "19:30:00",
		VenueName:      "United Center",
		VenueCity:      "Chicago",
		Status:         "onsale",
		DetailURL:      "https://tickets.example/ev1",
	}, got[0])

	assert.Equal(t, "ev2", got[1].ID)
	assert.Empty(t, got[1].VenueName)
	assert.True(t, got[1].Cancelled())
}

func TestSearchEventsEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": {"size": 200, "totalElements": 0}}`))
	})

	got, err := client.SearchEvents(context.Background(), SearchQuery{
		Latitude: 41.8, Longitude: -87.6, RadiusMiles: 30,
		StartDateTime: "2025-06-01T00:00:00", EndDateTime: "2025-06-03T23:59:59",
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchEventsUpstreamErrorDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"fault": {"faultstring": "Invalid ApiKey"}}`))
	})

	_, err := client.SearchEvents(context.Background(), SearchQuery{
		Latitude: 41.8, Longitude: -87.6, RadiusMiles: 30,
		StartDateTime: "2025-06-01T00:00:00", EndDateTime: "2025-06-03T23:59:59",
	})
	require.ErrorIs(t, err, models.ErrUpstream)
	assert.Contains(t, err.Error(), "Invalid ApiKey")
}
