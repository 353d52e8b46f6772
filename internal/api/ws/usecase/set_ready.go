package wsUsecase

import (
	"context"
	"encoding/json"
)

type SetReadyRequest struct {
	Code string `json:"code" validate:"required"`
}

type setReadyUseCase struct {
	store RoomStore
}

func NewSetReadyUseCase(store RoomStore) UseCase {
	return &setReadyUseCase{store: store}
}

func (u *setReadyUseCase) Execute(ctx context.Context, connID string, data json.RawMessage) (any, error) {
	req, err := decode[SetReadyRequest](data)
	if err != nil {
		return nil, err
	}

	status, err := u.store.SetReady(req.Code, connID)
	if err != nil {
		return nil, err
	}
	return status, nil
}
