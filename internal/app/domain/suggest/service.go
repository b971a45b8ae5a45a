// Package suggest produces ranked city candidates for partial input.
package suggest

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/domain/session"
	"github.com/mfstratton/concertfindr/internal/app/models"
	"github.com/mfstratton/concertfindr/internal/app/observability/metrics"
)

// minQueryLen is the shortest input that triggers a network call. Anything
// shorter is defined as "no suggestions", not an error.
const minQueryLen = 3

// SuggestAPI is the upstream autocomplete call the service depends on.
type SuggestAPI interface {
	SuggestCities(ctx context.Context, query, sessionToken string) ([]models.PlaceSuggestion, error)
}

type Service interface {
	Suggest(ctx context.Context, query string, token session.Token) ([]models.PlaceSuggestion, error)
}

type ServiceImpl struct {
	logger   *zap.Logger
	client   SuggestAPI
	sessions *session.Manager
}

func NewService(client SuggestAPI, sessions *session.Manager, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		client:   client,
		sessions: sessions,
	}
}

// Suggest returns upstream candidates for the query, in upstream order.
// Queries shorter than three characters return an empty list without
// touching the network. A missing or spent session token is a
// precondition failure: the caller should have begun a session first.
func (s *ServiceImpl) Suggest(ctx context.Context, query string, token session.Token) ([]models.PlaceSuggestion, error) {
	ctx, span := otel.Tracer("SuggestService").Start(ctx, "Suggest")
	defer span.End()

	l := s.logger.With(zap.String("method", "Suggest"), zap.Int("query_len", len(query)))

	if len(query) < minQueryLen {
		span.SetAttributes(attribute.Bool("suggest.short_circuit", true))
		return []models.PlaceSuggestion{}, nil
	}

	if !s.sessions.IsActive(token) {
		span.SetStatus(codes.Error, "no active session token")
		return nil, fmt.Errorf("suggest called without a session: %w", models.ErrNoSession)
	}

	metrics.Get().SuggestRequestsTotal.Add(ctx, 1)

	start := time.Now()
	suggestions, err := s.client.SuggestCities(ctx, query, string(token))
	metrics.Get().UpstreamRequestDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("upstream.call", "mapbox.suggest")))
	if err != nil {
		l.Error("Suggestion lookup failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream suggest call failed")
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}

	l.Debug("Suggestions fetched", zap.Int("count", len(suggestions)))
	span.SetAttributes(attribute.Int("suggest.count", len(suggestions)))
	return suggestions, nil
}
