package wsUsecase

import (
	"quiz-service/domain"

	"go.uber.org/zap"
)

type ConnectionHub interface {
	NewClient(id string, conn domain.Conn) *domain.Client
	Serve(client *domain.Client)
}

// RoomConnectUseCase serves one websocket connection for its whole life.
type RoomConnectUseCase interface {
	Execute(conn domain.Conn, connID string)
}

type roomConnectUseCase struct {
	hub ConnectionHub
}

func NewRoomConnectUseCase(hub ConnectionHub) RoomConnectUseCase {
	return &roomConnectUseCase{hub: hub}
}

func (u *roomConnectUseCase) Execute(conn domain.Conn, connID string) {
	client := u.hub.NewClient(connID, conn)

	zap.L().Info("websocket connected", zap.String("connection_id", connID))
	u.hub.Serve(client)
	zap.L().Info("websocket closed", zap.String("connection_id", connID))
}
