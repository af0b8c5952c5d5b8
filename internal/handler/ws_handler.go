package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/middleware"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/response"
)

type sessionServer interface {
	Serve(userID string, conn *websocket.Conn)
}

// WSHandler upgrades authenticated requests to the notification WebSocket.
type WSHandler struct {
	resolver middleware.TokenResolver
	hub      sessionServer
	upgrader *websocket.Upgrader
	logger   *zap.Logger
}

// NewWSHandler constructs the handler.
func NewWSHandler(resolver middleware.TokenResolver, hub sessionServer, upgrader *websocket.Upgrader, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{resolver: resolver, hub: hub, upgrader: upgrader, logger: logger}
}

// Connect godoc
// @Summary Real-time notifications
// @Description Upgrades to a WebSocket delivering message.new and message.read events
// @Tags Realtime
// @Param token query string false "Access token, alternatively sent as a bearer header"
// @Success 101
// @Failure 401 {object} response.Envelope
// @Router /ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		var err error
		if token, err = middleware.BearerToken(c.GetHeader("Authorization")); err != nil {
			response.Error(c, err)
			return
		}
	}
	user, _, err := h.resolver.Resolve(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	if user == nil {
		response.Error(c, appErrors.ErrInvalidToken)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	h.hub.Serve(user.ID, conn)
}
