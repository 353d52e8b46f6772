package bootstrap

import (
	"quiz-service/config"
	httpGameHandler "quiz-service/internal/api/http/handler"
	wsHandler "quiz-service/internal/api/ws/handler"
	"quiz-service/internal/handler"
	"quiz-service/internal/middleware"
	"quiz-service/internal/server"

	"github.com/gofiber/fiber/v2"
)

func SetupServer(config config.Config, httpHandlers map[string]interface{}, wsHandlers map[string]interface{}) *fiber.App {
	serverConfig := server.Config{
		Port:         config.Server.Port,
		AllowOrigins: config.Server.AllowOrigins,
		IdleTimeout:  config.Server.IdleTimeout,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	app := server.NewFiberApp(serverConfig)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: config.RateLimit.HTTPRequestsPerMinute,
		Burst:             config.RateLimit.HTTPBurst,
	})

	getRoomHandler := httpHandlers["get-room"].(*httpGameHandler.GetRoomHandler)
	getStatsHandler := httpHandlers["get-stats"].(*httpGameHandler.GetStatsHandler)

	app.Use(rateLimiter.Middleware())

	app.Get("/rooms/:code", handler.HandleWithFiber[httpGameHandler.GetRoomRequest, httpGameHandler.GetRoomResponse](getRoomHandler))
	app.Get("/stats", handler.HandleWithFiber[httpGameHandler.GetStatsRequest, httpGameHandler.GetStatsResponse](getStatsHandler))

	roomConnectHandler := wsHandlers["room-connect"].(*wsHandler.WebSocketRoomHandler)
	app.Get("/ws", handler.HandleWithFiberWS[wsHandler.WebSocketRoomRequest](roomConnectHandler))

	return app
}
