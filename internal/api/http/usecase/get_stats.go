package httpUsecase

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type Stats struct {
	Rooms       int `json:"rooms"`
	Players     int `json:"players"`
	Connections int `json:"connections"`
}

type GetStatsUseCase interface {
	Execute(ctx context.Context) (int, Stats, error)
}

type getStatsUseCase struct {
	rooms RoomReader
	hub   ConnectionCounter
}

func NewGetStatsUseCase(rooms RoomReader, hub ConnectionCounter) GetStatsUseCase {
	return &getStatsUseCase{rooms: rooms, hub: hub}
}

func (u *getStatsUseCase) Execute(ctx context.Context) (int, Stats, error) {
	return fiber.StatusOK, Stats{
		Rooms:       u.rooms.RoomCount(),
		Players:     u.rooms.ConnectionCount(),
		Connections: u.hub.ClientCount(),
	}, nil
}
