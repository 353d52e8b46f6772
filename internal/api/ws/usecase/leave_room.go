package wsUsecase

import (
	"context"
	"encoding/json"
)

type LeaveRoomRequest struct {
	Code string `json:"code" validate:"required"`
}

type LeaveRoomResponse struct {
	Code string `json:"code"`
}

type leaveRoomUseCase struct {
	store RoomStore
}

func NewLeaveRoomUseCase(store RoomStore) UseCase {
	return &leaveRoomUseCase{store: store}
}

func (u *leaveRoomUseCase) Execute(ctx context.Context, connID string, data json.RawMessage) (any, error) {
	req, err := decode[LeaveRoomRequest](data)
	if err != nil {
		return nil, err
	}

	if err := u.store.LeaveRoom(req.Code, connID); err != nil {
		return nil, err
	}
	return LeaveRoomResponse{Code: req.Code}, nil
}
