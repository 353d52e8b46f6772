package wsUsecase

import (
	"context"
	"encoding/json"
)

type SubmitQuestionRequest struct {
	Code string `json:"code" validate:"required"`
	Text string `json:"text" validate:"required,max=500"`
	// Target is a connection id in the room or "random"; empty means random.
	Target string `json:"target"`
}

type SubmitQuestionResponse struct {
	QuestionsCount int `json:"questionsCount"`
}

type submitQuestionUseCase struct {
	store RoomStore
}

func NewSubmitQuestionUseCase(store RoomStore) UseCase {
	return &submitQuestionUseCase{store: store}
}

func (u *submitQuestionUseCase) Execute(ctx context.Context, connID string, data json.RawMessage) (any, error) {
	req, err := decode[SubmitQuestionRequest](data)
	if err != nil {
		return nil, err
	}

	count, err := u.store.SubmitQuestion(req.Code, connID, req.Text, req.Target)
	if err != nil {
		return nil, err
	}
	return SubmitQuestionResponse{QuestionsCount: count}, nil
}
