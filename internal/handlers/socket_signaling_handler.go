package handlers

import (
	"net/http"
	"slices"

	"github.com/GabrielGomez33/mirror-server-sub002/configs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/msgs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/services"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/signaling"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type SocketSignalingHandler struct {
	manager     *signaling.Manager
	authService *services.AuthenticationService
	upgrader    websocket.Upgrader
	socket      configs.SocketConfig
}

func NewSocketSignalingHandler(
	manager *signaling.Manager,
	authService *services.AuthenticationService,
	socket configs.SocketConfig,
) *SocketSignalingHandler {
	return &SocketSignalingHandler{
		manager:     manager,
		authService: authService,
		socket:      socket,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(socket.AllowedOrigins),
		},
	}
}

// originChecker allows every origin when none are configured. Requests
// without an Origin header come from non-browser clients and are allowed.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// HandleSocketRoute authenticates the handshake, upgrades it and runs the
// connection's read loop until the socket closes.
func (ssh *SocketSignalingHandler) HandleSocketRoute(ctx *gin.Context) {
	token := ctx.GetHeader("Authorization")
	if token == "" {
		token = ctx.Query("token")
	}

	claims, err := ssh.authService.Authenticate(token)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(msgs.MsgYouMustLoginFirst, err))
		return
	}

	ws, err := ssh.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Str("module", "handlers.socket").Str("user_id", claims.UserID).Err(err).Msg("websocket upgrade failed")
		return
	}
	if ssh.socket.ReadLimit > 0 {
		ws.SetReadLimit(ssh.socket.ReadLimit)
	}

	transport := NewWSTransport(ws, ssh.socket.SendBuffer, ssh.socket.WriteTimeout)
	conn, err := ssh.manager.Register(claims.UserID, claims.Username, transport)
	if err != nil {
		log.Warn().Str("module", "handlers.socket").Str("user_id", claims.UserID).Err(err).Msg("connection rejected")
		return
	}
	defer func() {
		ssh.manager.UnregisterConnection(conn)
		transport.Terminate()
	}()

	ssh.readLoop(ws, conn)
}

// readLoop dispatches frames one at a time, so a connection's messages are
// handled in arrival order.
func (ssh *SocketSignalingHandler) readLoop(ws *websocket.Conn, conn *signaling.Connection) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Debug().Str("module", "handlers.socket").Str("user_id", conn.UserId).Err(err).Msg("connection closed unexpectedly")
			}
			return
		}
		ssh.manager.Dispatch(conn, data)
	}
}
