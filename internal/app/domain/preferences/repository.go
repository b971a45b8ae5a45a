// Package preferences persists the genre filter a device last chose, so
// it survives app restarts.
package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/models"
	"github.com/mfstratton/concertfindr/internal/app/observability/metrics"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the contract for genre preference persistence.
type Repository interface {
	GetGenres(ctx context.Context, deviceID string) ([]string, error)
	SetGenres(ctx context.Context, deviceID string, genres []string) error
}

// DB is the subset of pgxpool.Pool the repository uses; pgxmock's pool
// satisfies it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool DB
}

func NewRepositoryImpl(pgpool DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

// GetGenres returns the stored genre set for a device. A device that
// never saved one gets models.ErrNotFound.
func (r *RepositoryImpl) GetGenres(ctx context.Context, deviceID string) ([]string, error) {
	ctx, span := otel.Tracer("PreferencesRepo").Start(ctx, "GetGenres", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "device_genre_preferences"),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "GetGenres"), zap.String("device_id", deviceID))

	var genres []string
	query := `SELECT genres FROM device_genre_preferences WHERE device_id = $1`
	err := r.pgpool.QueryRow(ctx, query, deviceID).Scan(&genres)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "No stored preference")
			return nil, fmt.Errorf("no genre preference for device: %w", models.ErrNotFound)
		}
		metrics.Get().DBQueryErrorsTotal.Add(ctx, 1)
		l.Error("Failed to load genre preference", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to load genre preference: %w", err)
	}

	return genres, nil
}

// SetGenres upserts the device's genre set.
func (r *RepositoryImpl) SetGenres(ctx context.Context, deviceID string, genres []string) error {
	ctx, span := otel.Tracer("PreferencesRepo").Start(ctx, "SetGenres", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "device_genre_preferences"),
		attribute.Int("genres.count", len(genres)),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "SetGenres"), zap.String("device_id", deviceID))

	query := `
        INSERT INTO device_genre_preferences (device_id, genres, updated_at)
        VALUES ($1, $2, Now())
        ON CONFLICT (device_id)
        DO UPDATE SET genres = EXCLUDED.genres, updated_at = Now()`

	if _, err := r.pgpool.Exec(ctx, query, deviceID, genres); err != nil {
		metrics.Get().DBQueryErrorsTotal.Add(ctx, 1)
		l.Error("Failed to save genre preference", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upsert failed")
		return fmt.Errorf("failed to save genre preference: %w", err)
	}

	l.Debug("Genre preference saved", zap.Int("count", len(genres)))
	return nil
}
