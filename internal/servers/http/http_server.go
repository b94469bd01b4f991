package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GabrielGomez33/mirror-server-sub002/configs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/handlers"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/metrics"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

const defaultShutdownTimeout = 10 * time.Second

type HttpServer struct {
	config        *configs.Config
	router        *gin.Engine
	authService   *services.AuthenticationService
	restHandler   *handlers.RestHandler
	socketHandler *handlers.SocketSignalingHandler
	registry      *prometheus.Registry
}

func NewHttpServer(
	config *configs.Config,
	authService *services.AuthenticationService,
	restHandler *handlers.RestHandler,
	socketHandler *handlers.SocketSignalingHandler,
	registry *prometheus.Registry,
) *HttpServer {
	hs := &HttpServer{
		config:        config,
		authService:   authService,
		restHandler:   restHandler,
		socketHandler: socketHandler,
		registry:      registry,
	}
	hs.initializeGin()
	hs.setupRestfulRoutes()
	hs.setupWebSocketRoutes()
	return hs
}

// Handler exposes the configured router.
func (hs *HttpServer) Handler() http.Handler {
	return hs.router
}

// Run serves until ctx is cancelled and then shuts the listener down
// gracefully. Hijacked websocket connections are not waited for.
func (hs *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", hs.config.Server.Port),
		Handler: hs.router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("module", "servers.http").Str("addr", server.Addr).Msg("http server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := hs.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info().Str("module", "servers.http").Msg("shutting down http server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server forced to shutdown: %w", err)
	}
	return nil
}

func (hs *HttpServer) initializeGin() {
	if hs.config.Server.Mode == gin.ReleaseMode || hs.config.Server.Mode == gin.DebugMode || hs.config.Server.Mode == gin.TestMode {
		gin.SetMode(hs.config.Server.Mode)
	}

	hs.router = gin.New()
	if gin.Mode() == gin.DebugMode {
		hs.router.Use(gin.Logger())
	}
	hs.router.Use(gin.Recovery())
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.GET("/health", hs.restHandler.Health)
	hs.router.GET("/metrics", gin.WrapH(metrics.Handler(hs.registry)))

	api := hs.router.Group("/api",
		handlers.MustAuthenticateMiddleware(hs.authService),
		handlers.RequireServiceScopeMiddleware(),
	)
	{
		api.POST("/groups/:groupId/vote-events", hs.restHandler.BroadcastVoteEvent)
		api.POST("/groups/:groupId/insight-events", hs.restHandler.BroadcastInsightEvent)
		api.GET("/groups/:groupId/online", hs.restHandler.GetGroupPresence)
		api.GET("/users/:userId/online", hs.restHandler.GetUserPresence)
		api.POST("/users/:userId/frames", hs.restHandler.SendToUser)
	}
}

func (hs *HttpServer) setupWebSocketRoutes() {
	hs.router.GET("/ws", hs.socketHandler.HandleSocketRoute)
}
