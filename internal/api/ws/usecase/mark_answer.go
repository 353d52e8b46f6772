package wsUsecase

import (
	"context"
	"encoding/json"
)

type MarkAnswerRequest struct {
	Code          string `json:"code" validate:"required"`
	QuestionIndex *int   `json:"questionIndex" validate:"required,min=0"`
	IsCorrect     *bool  `json:"isCorrect" validate:"required"`
}

type MarkAnswerResponse struct {
	QuestionIndex int  `json:"questionIndex"`
	IsCorrect     bool `json:"isCorrect"`
}

type markAnswerUseCase struct {
	store RoomStore
}

func NewMarkAnswerUseCase(store RoomStore) UseCase {
	return &markAnswerUseCase{store: store}
}

func (u *markAnswerUseCase) Execute(ctx context.Context, connID string, data json.RawMessage) (any, error) {
	req, err := decode[MarkAnswerRequest](data)
	if err != nil {
		return nil, err
	}

	if err := u.store.MarkAnswer(req.Code, connID, *req.QuestionIndex, *req.IsCorrect); err != nil {
		return nil, err
	}
	return MarkAnswerResponse{QuestionIndex: *req.QuestionIndex, IsCorrect: *req.IsCorrect}, nil
}
