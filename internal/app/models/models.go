package models

import (
	"fmt"
	"time"
)

// PlaceSuggestion is one autocomplete candidate returned by the place
// suggestion API. Suggestions are transient: each new query replaces the
// previous list, and the list is discarded once the user picks one.
type PlaceSuggestion struct {
	ID          string `json:"id"`
	PrimaryName string `json:"primary_name"`
	RegionCode  string `json:"region_code,omitempty"`
}

// DisplayName renders the suggestion the way the client shows it,
// e.g. "Chicago, IL".
func (p PlaceSuggestion) DisplayName() string {
	if p.RegionCode == "" {
		return p.PrimaryName
	}
	return fmt.Sprintf("%s, %s", p.PrimaryName, p.RegionCode)
}

// ResolvedPlace is the coordinate pair for a place id. Immutable once
// resolved; coordinates for a given place never change within a run.
type ResolvedPlace struct {
	PlaceID   string  `json:"place_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocalDate is a calendar date in YYYY-MM-DD form, without time-of-day or
// timezone. The events API assigns it in the venue's locale, which is why
// date comparisons are done as strings rather than timestamps.
type LocalDate string

const localDateLayout = "2006-01-02"

// Validate reports whether the value parses as a calendar date.
func (d LocalDate) Validate() error {
	if _, err := time.Parse(localDateLayout, string(d)); err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", string(d), ErrValidation)
	}
	return nil
}

// Before reports d < other. Lexicographic compare is correct for
// zero-padded YYYY-MM-DD values.
func (d LocalDate) Before(other LocalDate) bool {
	return string(d) < string(other)
}

// InRange reports start <= d <= end, inclusive on both ends.
func (d LocalDate) InRange(start, end LocalDate) bool {
	return string(d) >= string(start) && string(d) <= string(end)
}

// SearchCriteria is everything the user confirmed before submitting a
// concert search. Constructed at the boundary, passed whole to the
// orchestrator, never mutated.
type SearchCriteria struct {
	PlaceID         string    `json:"place_id"`
	CityDisplayName string    `json:"city_display_name"`
	StartDate       LocalDate `json:"start_date"`
	EndDate         LocalDate `json:"end_date"`
	RadiusMiles     int       `json:"radius_miles"`
	// Genres is the selected genre filter. Empty means all genres and the
	// upstream request must carry no classification filter at all.
	Genres []string `json:"genres,omitempty"`
}

// Validate enforces the boundary invariants: a selected place, parseable
// dates, end >= start and a positive radius. The orchestrator relies on
// these holding and never re-checks them.
func (c SearchCriteria) Validate() error {
	if c.PlaceID == "" {
		return fmt.Errorf("no place selected: %w", ErrValidation)
	}
	if err := c.StartDate.Validate(); err != nil {
		return err
	}
	if err := c.EndDate.Validate(); err != nil {
		return err
	}
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("end date %s is before start date %s: %w", c.EndDate, c.StartDate, ErrValidation)
	}
	if c.RadiusMiles <= 0 {
		return fmt.Errorf("radius must be positive: %w", ErrValidation)
	}
	return nil
}

// EventStatusCancelled is the upstream status code for cancelled events.
const EventStatusCancelled = "cancelled"

// EventRecord is one event from the events API, filtered but never
// transformed.
type EventRecord struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	StartLocalDate LocalDate `json:"start_local_date"`
	StartLocalTime string    `json:"start_local_time,omitempty"`
	VenueName      string    `json:"venue_name"`
	VenueCity      string    `json:"venue_city"`
	Status         string    `json:"status"`
	DetailURL      string    `json:"detail_url"`
}

// Cancelled reports whether the event's status indicates cancellation.
func (e EventRecord) Cancelled() bool {
	return e.Status == EventStatusCancelled
}
