// internal/handlers/websocket/websocket_handler.go
package websocket

import (
	"net/http"

	"propman-service/internal/pkg/response"
	"propman-service/internal/service/auth"
	"propman-service/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer in front of this service.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub         *ws.Hub
	authService *auth.AuthService
	logger      *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, authService *auth.AuthService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		logger:      logger,
	}
}

// HandleConnection upgrades an authenticated request to a notification
// websocket. Browsers cannot set headers on upgrade, so the token comes in
// the query string.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Unauthorized(c, "missing token")
		return
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, claims.IdentityID)
	client.Start()
}

// GetStats reports connection counts for operators
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	response.Success(c, http.StatusOK, "websocket stats", gin.H{
		"connected_clients": h.hub.ClientCount(),
	})
}
