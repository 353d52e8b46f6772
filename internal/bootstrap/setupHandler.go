package bootstrap

import (
	"quiz-service/internal/api/game"
	httpHandler "quiz-service/internal/api/http/handler"
	httpUsecase "quiz-service/internal/api/http/usecase"
	wsHandler "quiz-service/internal/api/ws/handler"
	wsUsecase "quiz-service/internal/api/ws/usecase"
)

func SetupHTTPHandlers(store *game.RoomStore, hub Hub) map[string]interface{} {
	getRoomUseCase := httpUsecase.NewGetRoomUseCase(store)
	getRoomHandler := httpHandler.NewGetRoomHandler(getRoomUseCase)

	getStatsUseCase := httpUsecase.NewGetStatsUseCase(store, hub)
	getStatsHandler := httpHandler.NewGetStatsHandler(getStatsUseCase)

	return map[string]interface{}{
		"get-room":  getRoomHandler,
		"get-stats": getStatsHandler,
	}
}

// SetupWSHandlers wires the request router into the hub and returns the
// upgrade handler.
func SetupWSHandlers(store *game.RoomStore, hub Hub) map[string]interface{} {
	router := wsUsecase.NewMessageRouter(hub, wsUsecase.NewRoomUseCases(store))
	hub.Bind(router, store.RemovePlayer)

	roomConnect := wsUsecase.NewRoomConnectUseCase(hub)
	roomConnectHandler := wsHandler.NewWebSocketRoomHandler(roomConnect)

	return map[string]interface{}{
		"room-connect": roomConnectHandler,
	}
}
