package bootstrap

import (
	"context"

	"quiz-service/config"
	"quiz-service/internal/initializer"
)

type RoomRedisManager interface {
	Mirror(code string, frame []byte)
	Close() error
}

// InitRoomRedis returns a nil interface when the mirror is off.
func InitRoomRedis(ctx context.Context, config config.Config) RoomRedisManager {
	manager := initializer.InitRoomRedis(ctx, config)
	if manager == nil {
		return nil
	}
	return manager
}
