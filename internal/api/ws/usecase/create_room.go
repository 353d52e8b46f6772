package wsUsecase

import (
	"context"
	"encoding/json"
)

type CreateRoomRequest struct {
	DisplayName        string `json:"displayName" validate:"required,max=64"`
	MaxPlayers         int    `json:"maxPlayers" validate:"required,min=1"`
	QuestionsPerPlayer int    `json:"questionsPerPlayer" validate:"min=0"`
}

type createRoomUseCase struct {
	store RoomStore
}

func NewCreateRoomUseCase(store RoomStore) UseCase {
	return &createRoomUseCase{store: store}
}

func (u *createRoomUseCase) Execute(ctx context.Context, connID string, data json.RawMessage) (any, error) {
	req, err := decode[CreateRoomRequest](data)
	if err != nil {
		return nil, err
	}

	snapshot, err := u.store.CreateRoom(connID, req.DisplayName, req.MaxPlayers, req.QuestionsPerPlayer)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
