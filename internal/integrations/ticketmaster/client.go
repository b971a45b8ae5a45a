// Package ticketmaster is a client for the Discovery v2 events search.
package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mfstratton/concertfindr/internal/app/models"
)

const maxPageSize = 200

type Config struct {
	BaseURL  string
	APIKey   string
	PageSize int
	Timeout  time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ticketmaster API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://app.ticketmaster.com/discovery/v2"
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// SearchQuery is one Discovery events request. StartDateTime and
// EndDateTime are venue-local timestamps without a trailing Z; the
// upstream service then filters on local dates the same way the user
// picked them.
type SearchQuery struct {
	Latitude      float64
	Longitude     float64
	RadiusMiles   int
	StartDateTime string
	EndDateTime   string
	// GenreIDs limits the classification filter. Empty means all music
	// genres, in which case no genreId parameter is sent.
	GenreIDs []string
}

type eventsResponse struct {
	Embedded struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
	Page tmPage `json:"page"`
}

type tmPage struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type tmEvent struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Dates    tmDates `json:"dates"`
	Embedded struct {
		Venues []tmVenue `json:"venues"`
	} `json:"_embedded"`
}

type tmDates struct {
	Start  tmEventDate `json:"start"`
	Status tmStatus    `json:"status"`
}

type tmEventDate struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
	DateTime  string `json:"dateTime"`
}

type tmStatus struct {
	Code string `json:"code"`
}

type tmVenue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

type errorResponse struct {
	Fault struct {
		FaultString string `json:"faultstring"`
	} `json:"fault"`
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

// SearchEvents runs one first-page music-events query. Results come back
// in upstream order (date ascending per the sort parameter) and are not
// re-sorted or filtered here; that is the orchestrator's job.
func (c *Client) SearchEvents(ctx context.Context, query SearchQuery) ([]models.EventRecord, error) {
	eventsURL := fmt.Sprintf("%s/events.json", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eventsURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create events request")
	}

	q := req.URL.Query()
	q.Set("apikey", c.apiKey)
	q.Set("latlong", fmt.Sprintf("%g,%g", query.Latitude, query.Longitude))
	q.Set("radius", strconv.Itoa(query.RadiusMiles))
	q.Set("unit", "miles")
	q.Set("startDateTime", query.StartDateTime)
	q.Set("endDateTime", query.EndDateTime)
	q.Set("sort", "date,asc")
	q.Set("classificationName", "Music")
	q.Set("size", strconv.Itoa(c.pageSize))
	if len(query.GenreIDs) > 0 {
		q.Set("genreId", strings.Join(query.GenreIDs, ","))
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "ticketmaster events request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(models.ErrUpstream, "ticketmaster events: status %d%s",
			resp.StatusCode, decodeErrorDetail(resp))
	}

	var body eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode events response")
	}

	events := make([]models.EventRecord, 0, len(body.Embedded.Events))
	for _, e := range body.Embedded.Events {
		events = append(events, convertEvent(e))
	}
	return events, nil
}

// decodeErrorDetail pulls the human-readable detail out of a Discovery
// error body, which shows up either as fault.faultstring or
// errors[0].detail depending on which layer rejected the call.
func decodeErrorDetail(resp *http.Response) string {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if body.Fault.FaultString != "" {
		return ": " + body.Fault.FaultString
	}
	if len(body.Errors) > 0 && body.Errors[0].Detail != "" {
		return ": " + body.Errors[0].Detail
	}
	return ""
}

func convertEvent(e tmEvent) models.EventRecord {
	record := models.EventRecord{
		ID:             e.ID,
		Name:           e.Name,
		StartLocalDate: models.LocalDate(e.Dates.Start.LocalDate),
		StartLocalTime: e.Dates.Start.LocalTime,
		Status:         e.Dates.Status.Code,
		DetailURL:      e.URL,
	}
	if len(e.Embedded.Venues) > 0 {
		record.VenueName = e.Embedded.Venues[0].Name
		record.VenueCity = e.Embedded.Venues[0].City.Name
	}
	return record
}
