package preferences

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/models"
	"github.com/mfstratton/concertfindr/internal/integrations/ticketmaster"
)

type Service interface {
	GetGenres(ctx context.Context, deviceID string) ([]string, error)
	SetGenres(ctx context.Context, deviceID string, genres []string) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetGenres loads the device's saved filter. A device with nothing saved
// gets the empty set, which the search layer reads as "all genres".
func (s *ServiceImpl) GetGenres(ctx context.Context, deviceID string) ([]string, error) {
	ctx, span := otel.Tracer("PreferencesService").Start(ctx, "GetGenres")
	defer span.End()

	genres, err := s.repo.GetGenres(ctx, deviceID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return []string{}, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository lookup failed")
		return nil, fmt.Errorf("failed to retrieve genre preference: %w", err)
	}

	span.SetAttributes(attribute.Int("genres.count", len(genres)))
	return genres, nil
}

// SetGenres validates every name against the supported genre table
// before persisting. An empty set is valid and clears the filter.
func (s *ServiceImpl) SetGenres(ctx context.Context, deviceID string, genres []string) error {
	ctx, span := otel.Tracer("PreferencesService").Start(ctx, "SetGenres")
	defer span.End()

	l := s.logger.With(zap.String("method", "SetGenres"), zap.String("device_id", deviceID))

	for _, name := range genres {
		if !ticketmaster.KnownGenre(name) {
			span.SetStatus(codes.Error, "unknown genre")
			return fmt.Errorf("unknown genre %q: %w", name, models.ErrValidation)
		}
	}

	if err := s.repo.SetGenres(ctx, deviceID, genres); err != nil {
		l.Error("Failed to persist genre preference", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository save failed")
		return fmt.Errorf("failed to save genre preference: %w", err)
	}

	l.Info("Genre preference updated", zap.Int("count", len(genres)))
	return nil
}
