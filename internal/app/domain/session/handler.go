package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	manager *Manager
	logger  *zap.Logger
}

func NewHandler(manager *Manager, logger *zap.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// Begin opens a new search session and returns its token.
func (h *Handler) Begin(c *gin.Context) {
	token := h.manager.Begin()
	c.JSON(http.StatusCreated, gin.H{"session_token": token})
}

// End closes a session early, e.g. when the user clears the city field or
// navigates away without searching.
func (h *Handler) End(c *gin.Context) {
	h.manager.End(Token(c.Param("token")))
	c.Status(http.StatusNoContent)
}
