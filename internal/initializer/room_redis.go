package initializer

import (
	"context"
	"fmt"

	"quiz-service/config"
	"quiz-service/infra/redis"

	"go.uber.org/zap"
)

// InitRoomRedis starts the room event mirror. It returns nil when the mirror
// is disabled or Redis is unreachable; rooms work without it.
func InitRoomRedis(ctx context.Context, appConfig config.Config) *redis.RedisManager {
	if !appConfig.Redis.Enabled {
		return nil
	}

	address := fmt.Sprintf("%s:%s", appConfig.Redis.Host, appConfig.Redis.Port)
	redisManager, err := redis.Dial(ctx, address, appConfig.Redis.Password, appConfig.Redis.DB)
	if err != nil {
		zap.L().Warn("Room event mirror disabled", zap.String("address", address), zap.Error(err))
		return nil
	}

	redisManager.Start(ctx)
	zap.L().Info("Room event mirror started", zap.String("address", address))
	return redisManager
}
