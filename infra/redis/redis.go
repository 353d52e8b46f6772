package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

type roomFrame struct {
	code  string
	frame []byte
}

// RedisManager mirrors room broadcasts to the Redis channel room:<code> for
// external observers. Publishing happens on its own goroutine so a slow Redis
// never holds up a room.
type RedisManager struct {
	client *redis.Client
	frames chan roomFrame
	wg     sync.WaitGroup
}

// Dial connects to Redis and checks the connection.
func Dial(ctx context.Context, addr, password string, db int) (*RedisManager, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return NewRedisManager(rdb, 1024), nil
}

func NewRedisManager(client *redis.Client, buffer int) *RedisManager {
	if buffer <= 0 {
		buffer = 1024
	}
	return &RedisManager{
		client: client,
		frames: make(chan roomFrame, buffer),
	}
}

func Channel(code string) string {
	return fmt.Sprintf("room:%s", code)
}

// Start runs the publish loop until ctx is cancelled.
func (rm *RedisManager) Start(ctx context.Context) {
	rm.wg.Add(1)
	go func() {
		defer rm.wg.Done()
		for {
			select {
			case f := <-rm.frames:
				if err := rm.PublishMessage(ctx, f.code, f.frame); err != nil {
					zap.L().Warn("failed to mirror room event", zap.String("code", f.code), zap.Error(err))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Mirror queues frame for publishing. It drops the frame when the queue is full.
func (rm *RedisManager) Mirror(code string, frame []byte) {
	select {
	case rm.frames <- roomFrame{code: code, frame: frame}:
	default:
		zap.L().Warn("redis mirror queue full, dropping event", zap.String("code", code))
	}
}

func (rm *RedisManager) PublishMessage(ctx context.Context, code string, frame []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return rm.client.Publish(ctx, Channel(code), frame).Err()
}

// Close waits for the publish loop, which must have been stopped through its
// context, and closes the client.
func (rm *RedisManager) Close() error {
	rm.wg.Wait()
	return rm.client.Close()
}
