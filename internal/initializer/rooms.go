package initializer

import (
	"quiz-service/config"
	"quiz-service/internal/api/game"
)

func InitRoomStore(appConfig config.Config, dispatcher game.Dispatcher) *game.RoomStore {
	return game.NewRoomStore(dispatcher, game.Options{
		MaxPlayersCap: appConfig.Rooms.MaxPlayersCap,
		DeletionGrace: appConfig.Rooms.DeletionGrace,
		CodeAttempts:  appConfig.Rooms.CodeAttempts,
	})
}
