package bootstrap

import (
	"context"

	"quiz-service/config"
	"quiz-service/domain"
	gameHub "quiz-service/internal/api/ws/hub"
	"quiz-service/internal/initializer"
)

type Hub interface {
	Join(code, connID string)
	Leave(code, connID string)
	Broadcast(code, event string, payload any)
	BroadcastExcept(code, exceptConnID, event string, payload any)
	Unicast(connID, event string, payload any)
	Reply(connID, requestType, requestID string, payload any, err error)
	NewClient(id string, conn domain.Conn) *domain.Client
	Serve(client *domain.Client)
	Bind(router gameHub.Router, onDisconnect func(connID string))
	ClientCount() int
}

func InitWebsocket(ctx context.Context, config config.Config, mirror RoomRedisManager) Hub {
	var m gameHub.Mirror
	if mirror != nil {
		m = mirror
	}
	return initializer.InitWebsocket(ctx, config, m)
}
