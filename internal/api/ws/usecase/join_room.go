package wsUsecase

import (
	"context"
	"encoding/json"
)

type JoinRoomRequest struct {
	Code        string `json:"code" validate:"required"`
	DisplayName string `json:"displayName" validate:"required,max=64"`
}

type joinRoomUseCase struct {
	store RoomStore
}

func NewJoinRoomUseCase(store RoomStore) UseCase {
	return &joinRoomUseCase{store: store}
}

func (u *joinRoomUseCase) Execute(ctx context.Context, connID string, data json.RawMessage) (any, error) {
	req, err := decode[JoinRoomRequest](data)
	if err != nil {
		return nil, err
	}

	snapshot, err := u.store.JoinRoom(req.Code, connID, req.DisplayName)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
