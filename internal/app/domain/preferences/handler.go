package preferences

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/middleware"
	"github.com/mfstratton/concertfindr/internal/app/models"
	"github.com/mfstratton/concertfindr/internal/integrations/ticketmaster"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListGenres returns the fixed set of genre names the filter supports.
func (h *Handler) ListGenres(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"genres": ticketmaster.GenreNames()})
}

// GetGenres returns the device's saved genre filter.
func (h *Handler) GetGenres(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Device-ID header is required"})
		return
	}

	genres, err := h.service.GetGenres(c.Request.Context(), deviceID)
	if err != nil {
		h.logger.Error("Failed to load genre preference", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

type setGenresRequest struct {
	Genres []string `json:"genres"`
}

// SetGenres replaces the device's saved genre filter.
func (h *Handler) SetGenres(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Device-ID header is required"})
		return
	}

	var req setGenresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Genres == nil {
		req.Genres = []string{}
	}

	if err := h.service.SetGenres(c.Request.Context(), deviceID, req.Genres); err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to save genre preference", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": req.Genres})
}
