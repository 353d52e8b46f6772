package httpUsecase

import (
	"context"
	"errors"
	"net/http"

	"quiz-service/domain"

	"github.com/gofiber/fiber/v2"
)

type GetRoomUseCase interface {
	Execute(ctx context.Context, code string) (int, *domain.RoomSnapshot, error)
}

type getRoomUseCase struct {
	rooms RoomReader
}

func NewGetRoomUseCase(rooms RoomReader) GetRoomUseCase {
	return &getRoomUseCase{rooms: rooms}
}

func (u *getRoomUseCase) Execute(ctx context.Context, code string) (int, *domain.RoomSnapshot, error) {
	snapshot, err := u.rooms.Snapshot(code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			return http.StatusNotFound, nil, err
		default:
			return http.StatusInternalServerError, nil, err
		}
	}
	return fiber.StatusOK, &snapshot, nil
}
