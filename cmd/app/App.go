package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/GabrielGomez33/mirror-server-sub002/configs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/handlers"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/metrics"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/pubsub"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/repositories"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/servers/database"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/servers/http"
	redisServer "github.com/GabrielGomez33/mirror-server-sub002/internal/servers/redis"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/services"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/signaling"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	ctx     context.Context
	configs *configs.Config
	redis   *redis.Client
	manager *signaling.Manager
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

// LetsGo wires every component and serves until ctx is cancelled.
func (app *App) LetsGo(ctx context.Context, config *configs.Config) error {
	app.ctx = ctx
	app.configs = config

	db, err := database.GetDB(app.configs)
	if err != nil {
		return err
	}
	groupRepo := repositories.NewGroupRepository(db)
	participantRepo := repositories.NewParticipantRepository(db)
	insightRepo := repositories.NewInsightRepository(db)

	authService := services.NewAuthenticationService(app.configs)
	membershipService := services.NewMembershipService(groupRepo)
	participantService := services.NewParticipantService(participantRepo)
	insightService := services.NewInsightService(insightRepo)

	registry := metrics.NewRegistry()
	app.manager = signaling.NewManager(signaling.Stores{
		Authorization: membershipService,
		Participants:  participantService,
		Insights:      insightService,
	}, signaling.Options{
		Metrics:          metrics.NewSignalingMetrics(registry),
		StoreTimeout:     app.configs.Socket.StoreTimeout,
		LivenessInterval: app.configs.Socket.LivenessInterval,
		RateLimit:        rate.Limit(app.configs.Socket.RateLimit),
		RateBurst:        app.configs.Socket.RateBurst,
	})
	app.manager.Start()
	defer app.manager.Shutdown()

	if app.configs.Redis.Enabled {
		if err := app.initializeRedis(); err != nil {
			return err
		}
		defer func() {
			_ = app.redis.Close()
		}()
		app.startEventRelay()
	}

	restHandler := handlers.NewRestHandler(app.manager)
	socketHandler := handlers.NewSocketSignalingHandler(app.manager, authService, app.configs.Socket)

	return http.NewHttpServer(
		app.configs,
		authService,
		restHandler,
		socketHandler,
		registry,
	).Run(app.ctx)
}

func (app *App) initializeRedis() error {
	client, err := redisServer.NewClient(app.ctx, app.configs.Redis)
	if err != nil {
		return fmt.Errorf("redis ingress enabled but unavailable: %w", err)
	}
	app.redis = client
	return nil
}

func (app *App) startEventRelay() {
	relay := pubsub.NewEventRelay(app.redis, app.manager, app.configs.Redis)
	go func() {
		if err := relay.Run(app.ctx); err != nil {
			log.Error().Str("module", "app").Err(err).Msg("event relay stopped")
		}
	}()
}
