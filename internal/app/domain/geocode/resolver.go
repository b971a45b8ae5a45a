// Package geocode resolves a selected place id into coordinates, caching
// results for the lifetime of the process.
package geocode

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mfstratton/concertfindr/internal/app/domain/session"
	"github.com/mfstratton/concertfindr/internal/app/models"
	"github.com/mfstratton/concertfindr/internal/app/observability/metrics"
)

// RetrieveAPI is the upstream place-retrieve call the resolver depends on.
type RetrieveAPI interface {
	RetrievePlace(ctx context.Context, placeID, sessionToken string) (models.ResolvedPlace, error)
}

type Resolver interface {
	Resolve(ctx context.Context, placeID string, token session.Token) (models.ResolvedPlace, error)
}

// ResolverImpl caches resolutions keyed by place id. Coordinates for a
// place never change within a run, so entries never expire and are never
// evicted; the handful of places one user resolves per session keeps the
// cache tiny. Failures are never cached.
type ResolverImpl struct {
	logger   *zap.Logger
	client   RetrieveAPI
	sessions *session.Manager
	cache    *gocache.Cache
	group    singleflight.Group
}

func NewResolver(client RetrieveAPI, sessions *session.Manager, logger *zap.Logger) *ResolverImpl {
	return &ResolverImpl{
		logger:   logger,
		client:   client,
		sessions: sessions,
		cache:    gocache.New(gocache.NoExpiration, 0),
	}
}

// Resolve returns coordinates for the place id, from cache when possible.
// A cache hit makes no network call and needs no session token. On a
// miss, concurrent calls for the same place collapse into one upstream
// retrieve, and the successful result is cached before returning.
// Resolution spends the session token.
func (r *ResolverImpl) Resolve(ctx context.Context, placeID string, token session.Token) (models.ResolvedPlace, error) {
	ctx, span := otel.Tracer("GeocodeResolver").Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Resolve"), zap.String("place_id", placeID))

	if placeID == "" {
		span.SetStatus(codes.Error, "empty place id")
		return models.ResolvedPlace{}, fmt.Errorf("place id is empty: %w", models.ErrBadRequest)
	}

	if cached, found := r.cache.Get(placeID); found {
		metrics.Get().RecordCoordCacheHit(ctx)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		l.Debug("Coordinate cache hit")
		return cached.(models.ResolvedPlace), nil
	}
	metrics.Get().RecordCoordCacheMiss(ctx)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	if !r.sessions.IsActive(token) {
		span.SetStatus(codes.Error, "no active session token")
		return models.ResolvedPlace{}, fmt.Errorf("resolve called without a session: %w", models.ErrNoSession)
	}

	resolved, err, _ := r.group.Do(placeID, func() (interface{}, error) {
		start := time.Now()
		place, err := r.client.RetrievePlace(ctx, placeID, string(token))
		metrics.Get().UpstreamRequestDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("upstream.call", "mapbox.retrieve")))
		if err != nil {
			return nil, err
		}
		r.cache.Set(placeID, place, gocache.NoExpiration)
		return place, nil
	})
	if err != nil {
		l.Error("Coordinate resolution failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream retrieve call failed")
		return models.ResolvedPlace{}, fmt.Errorf("failed to resolve coordinates: %w", err)
	}

	// The retrieve spends the session; the next interaction begins fresh.
	r.sessions.End(token)

	place := resolved.(models.ResolvedPlace)
	l.Debug("Coordinates resolved",
		zap.Float64("lat", place.Latitude),
		zap.Float64("lng", place.Longitude),
	)
	return place, nil
}
