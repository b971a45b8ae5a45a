package suggest

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/domain/session"
	"github.com/mfstratton/concertfindr/internal/app/models"
)

type suggestionView struct {
	ID          string `json:"id"`
	PrimaryName string `json:"primary_name"`
	RegionCode  string `json:"region_code,omitempty"`
	DisplayName string `json:"display_name"`
}

type waiter struct {
	id     uint64
	cancel context.CancelFunc
}

type Handler struct {
	service Service
	wait    time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	nextWaiter uint64
	debouncers map[session.Token]*Debouncer
	waiters    map[session.Token]waiter
}

func NewHandler(service Service, wait time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		service:    service,
		wait:       wait,
		logger:     logger,
		debouncers: make(map[session.Token]*Debouncer),
		waiters:    make(map[session.Token]waiter),
	}
}

// Suggest serves GET /places/suggest. Requests for the same session token
// are debounced server-side: a keystroke that arrives inside the quiet
// window supersedes the previous one, which is answered as superseded
// with no suggestions. Only the newest query reaches the network.
func (h *Handler) Suggest(c *gin.Context) {
	query := c.Query("q")
	token := session.Token(c.Query("session_token"))
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_token is required"})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	h.mu.Lock()
	if prior, ok := h.waiters[token]; ok {
		prior.cancel()
	}
	h.nextWaiter++
	waiterID := h.nextWaiter
	h.waiters[token] = waiter{id: waiterID, cancel: cancel}
	debouncer, ok := h.debouncers[token]
	if !ok {
		debouncer = NewDebouncer(h.service, h.wait, h.logger)
		h.debouncers[token] = debouncer
	}
	h.mu.Unlock()

	type result struct {
		suggestions []models.PlaceSuggestion
		err         error
	}
	resultCh := make(chan result, 1)

	debouncer.Suggest(ctx, query, token, func(suggestions []models.PlaceSuggestion, err error) {
		resultCh <- result{suggestions: suggestions, err: err}
	})

	select {
	case <-ctx.Done():
		// Superseded by a newer keystroke, or the client went away.
		h.release(token, waiterID)
		c.JSON(http.StatusOK, gin.H{"suggestions": []suggestionView{}, "superseded": true})
	case res := <-resultCh:
		h.release(token, waiterID)
		if res.err != nil {
			h.renderError(c, res.err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestions": toViews(res.suggestions)})
	}
}

// release removes this request's waiter entry; a newer request may
// already own the slot. The last in-flight request for a token also
// drops the token's debouncer, so client-chosen token strings never
// accumulate. The next keystroke starts a fresh debouncer.
func (h *Handler) release(token session.Token, waiterID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.waiters[token]; ok && current.id == waiterID {
		delete(h.waiters, token)
	}
	if _, ok := h.waiters[token]; ok {
		return
	}
	if d, ok := h.debouncers[token]; ok {
		d.Cancel()
		delete(h.debouncers, token)
	}
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNoSession):
		h.logger.Error("Suggest precondition failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search session missing, restart the search"})
	default:
		h.logger.Error("Suggest failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"suggestions": []suggestionView{}, "error": "could not load city suggestions"})
	}
}

func toViews(suggestions []models.PlaceSuggestion) []suggestionView {
	views := make([]suggestionView, 0, len(suggestions))
	for _, s := range suggestions {
		views = append(views, suggestionView{
			ID:          s.ID,
			PrimaryName: s.PrimaryName,
			RegionCode:  s.RegionCode,
			DisplayName: s.DisplayName(),
		})
	}
	return views
}
