package initializer

import (
	"context"

	"quiz-service/config"
	gameHub "quiz-service/internal/api/ws/hub"
)

// InitWebsocket starts the hub. mirror may be nil.
func InitWebsocket(ctx context.Context, appConfig config.Config, mirror gameHub.Mirror) *gameHub.Hub {
	hub := gameHub.NewHub(gameHub.Options{
		SendBuffer:        appConfig.Rooms.SendBuffer,
		MessagesPerSecond: appConfig.RateLimit.WSMessagesPerSecond,
		Burst:             appConfig.RateLimit.WSBurst,
		Mirror:            mirror,
	})
	go hub.Run(ctx)
	return hub
}
