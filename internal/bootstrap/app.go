package bootstrap

import (
	"context"
	"time"

	"quiz-service/config"
	"quiz-service/internal/api/game"
	"quiz-service/internal/initializer"
	"quiz-service/internal/server"
	"quiz-service/pkg/graceful"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type App struct {
	config       config.Config
	ctx          context.Context
	cancel       context.CancelFunc
	roomRedis    RoomRedisManager
	hub          Hub
	store        *game.RoomStore
	fiberApp     *fiber.App
	httpHandlers map[string]interface{}
	wsHandlers   map[string]interface{}
}

func NewApp(config config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
	app.initDependencies()
	return app
}

func (a *App) initDependencies() {
	a.roomRedis = InitRoomRedis(a.ctx, a.config)
	a.hub = InitWebsocket(a.ctx, a.config, a.roomRedis)
	a.store = initializer.InitRoomStore(a.config, a.hub)
	a.wsHandlers = SetupWSHandlers(a.store, a.hub)
	a.httpHandlers = SetupHTTPHandlers(a.store, a.hub)
	a.fiberApp = SetupServer(a.config, a.httpHandlers, a.wsHandlers)
}

func (a *App) Start() {
	go func() {
		if err := server.Start(a.fiberApp, a.config.Server.Host, a.config.Server.Port); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			a.cancel()
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", a.config.Server.Port))

	defer a.shutdown()

	graceful.WaitForShutdown(a.fiberApp, 5*time.Second, a.ctx)
}

func (a *App) shutdown() {
	a.cancel()
	a.store.Close()
	if a.roomRedis != nil {
		if err := a.roomRedis.Close(); err != nil {
			zap.L().Error("Failed to close redis", zap.Error(err))
		}
	}
}
