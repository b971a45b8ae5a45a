package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/domain/geocode"
	"github.com/mfstratton/concertfindr/internal/app/domain/preferences"
	"github.com/mfstratton/concertfindr/internal/app/domain/search"
	"github.com/mfstratton/concertfindr/internal/app/domain/session"
	"github.com/mfstratton/concertfindr/internal/app/domain/suggest"
	"github.com/mfstratton/concertfindr/internal/integrations/mapbox"
	"github.com/mfstratton/concertfindr/internal/integrations/ticketmaster"
	"github.com/mfstratton/concertfindr/internal/pkg/config"
)

type AppHandlers struct {
	Session     *session.Handler
	Suggest     *suggest.Handler
	Search      *search.Handler
	Preferences *preferences.Handler
}

// Setup wires dependencies and registers all API routes.
func Setup(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, log *zap.Logger) error {
	h, err := setupDependencies(cfg, dbPool, log)
	if err != nil {
		return err
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/session", h.Session.Begin)
		api.DELETE("/session/:token", h.Session.End)

		api.GET("/places/suggest", h.Suggest.Suggest)

		api.POST("/concerts/search", h.Search.Search)

		api.GET("/genres", h.Preferences.ListGenres)
		api.GET("/preferences/genres", h.Preferences.GetGenres)
		api.PUT("/preferences/genres", h.Preferences.SetGenres)
	}

	return nil
}

func setupDependencies(cfg *config.Config, dbPool *pgxpool.Pool, log *zap.Logger) (*AppHandlers, error) {
	mapboxClient, err := mapbox.NewClient(mapbox.Config{
		BaseURL:     cfg.Mapbox.BaseURL,
		AccessToken: cfg.Mapbox.AccessToken,
		Country:     cfg.Mapbox.Country,
		PlaceTypes:  cfg.Mapbox.PlaceTypes,
		Limit:       cfg.Mapbox.Limit,
		Timeout:     cfg.UpstreamTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapbox client: %w", err)
	}

	tmClient, err := ticketmaster.NewClient(ticketmaster.Config{
		BaseURL:  cfg.Ticketmaster.BaseURL,
		APIKey:   cfg.Ticketmaster.APIKey,
		PageSize: cfg.Ticketmaster.PageSize,
		Timeout:  cfg.UpstreamTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ticketmaster client: %w", err)
	}

	sessions := session.NewManager(log)
	suggestService := suggest.NewService(mapboxClient, sessions, log)
	resolver := geocode.NewResolver(mapboxClient, sessions, log)
	searchService := search.NewService(resolver, tmClient, log)

	prefsRepo := preferences.NewRepositoryImpl(dbPool, log)
	prefsService := preferences.NewService(prefsRepo, log)

	return &AppHandlers{
		Session:     session.NewHandler(sessions, log),
		Suggest:     suggest.NewHandler(suggestService, cfg.SuggestDebounce, log),
		Search:      search.NewHandler(searchService, sessions, log),
		Preferences: preferences.NewHandler(prefsService, log),
	}, nil
}
