// Package search orchestrates a concert search: resolve coordinates,
// query the events API over the exact local-date window, then re-filter
// the results client-side.
package search

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/domain/geocode"
	"github.com/mfstratton/concertfindr/internal/app/domain/session"
	"github.com/mfstratton/concertfindr/internal/app/models"
	"github.com/mfstratton/concertfindr/internal/app/observability/metrics"
	"github.com/mfstratton/concertfindr/internal/integrations/ticketmaster"
)

// EventsAPI is the upstream events-search call the orchestrator depends on.
type EventsAPI interface {
	SearchEvents(ctx context.Context, query ticketmaster.SearchQuery) ([]models.EventRecord, error)
}

type Service interface {
	Search(ctx context.Context, criteria models.SearchCriteria, token session.Token) ([]models.EventRecord, error)
}

type ServiceImpl struct {
	logger   *zap.Logger
	resolver geocode.Resolver
	events   EventsAPI
}

func NewService(resolver geocode.Resolver, events EventsAPI, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		resolver: resolver,
		events:   events,
	}
}

// Search runs the whole pipeline for validated criteria. The upstream
// window is the exact user range as venue-local timestamps (no Z
// suffix); the cancelled-status and date-window filters still run
// unconditionally afterwards because upstream filtering at day
// boundaries is not fully trusted. Any upstream failure aborts the whole
// operation; partial results are never returned.
func (s *ServiceImpl) Search(ctx context.Context, criteria models.SearchCriteria, token session.Token) ([]models.EventRecord, error) {
	ctx, span := otel.Tracer("SearchService").Start(ctx, "Search")
	defer span.End()

	l := s.logger.With(
		zap.String("method", "Search"),
		zap.String("place_id", criteria.PlaceID),
		zap.String("start_date", string(criteria.StartDate)),
		zap.String("end_date", string(criteria.EndDate)),
	)

	metrics.Get().SearchRequestsTotal.Add(ctx, 1)

	place, err := s.resolver.Resolve(ctx, criteria.PlaceID, token)
	if err != nil {
		l.Error("Search aborted, coordinate resolution failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Coordinate resolution failed")
		return nil, err
	}

	query := ticketmaster.SearchQuery{
		Latitude:      place.Latitude,
		Longitude:     place.Longitude,
		RadiusMiles:   criteria.RadiusMiles,
		StartDateTime: fmt.Sprintf("%sT00:00:00", criteria.StartDate),
		EndDateTime:   fmt.Sprintf("%sT23:59:59", criteria.EndDate),
		GenreIDs:      ticketmaster.GenreIDs(criteria.Genres),
	}

	start := time.Now()
	fetched, err := s.events.SearchEvents(ctx, query)
	metrics.Get().UpstreamRequestDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("upstream.call", "ticketmaster.events")))
	if err != nil {
		l.Error("Event search failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream event search failed")
		return nil, fmt.Errorf("failed to search events: %w", err)
	}

	results := filterEvents(fetched, criteria.StartDate, criteria.EndDate)

	l.Info("Search completed",
		zap.Int("fetched", len(fetched)),
		zap.Int("returned", len(results)),
	)
	span.SetAttributes(
		attribute.Int("search.fetched", len(fetched)),
		attribute.Int("search.returned", len(results)),
	)
	return results, nil
}

// filterEvents drops cancelled events and events outside the inclusive
// date window, preserving the incoming order of the survivors. Both
// filters run regardless of what upstream already filtered.
func filterEvents(events []models.EventRecord, start, end models.LocalDate) []models.EventRecord {
	filtered := make([]models.EventRecord, 0, len(events))
	for _, event := range events {
		if event.Cancelled() {
			continue
		}
		if !event.StartLocalDate.InRange(start, end) {
			continue
		}
		filtered = append(filtered, event)
	}
	return filtered
}
