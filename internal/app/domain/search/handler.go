package search

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/domain/session"
	"github.com/mfstratton/concertfindr/internal/app/models"
)

type searchRequest struct {
	SessionToken string                `json:"session_token"`
	Criteria     models.SearchCriteria `json:"criteria"`
}

type Handler struct {
	service  Service
	sessions *session.Manager
	logger   *zap.Logger
}

func NewHandler(service Service, sessions *session.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

// Search serves POST /concerts/search. Criteria are validated here at
// the boundary; the orchestrator assumes they hold. Submitting a search
// closes the session whether it succeeds or fails.
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := req.Criteria.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := session.Token(req.SessionToken)
	// The session is spent by submitting, success or not.
	defer h.sessions.End(token)

	events, err := h.service.Search(c.Request.Context(), req.Criteria, token)
	if err != nil {
		h.renderError(c, err)
		return
	}

	// An empty result is a valid terminal state, not a failure.
	c.JSON(http.StatusOK, gin.H{
		"city":   req.Criteria.CityDisplayName,
		"events": events,
		"count":  len(events),
	})
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNoSession):
		h.logger.Error("Search precondition failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search session missing, restart the search"})
	default:
		h.logger.Error("Search failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "concert search failed, please try again"})
	}
}
