package handler

import (
	"context"

	"quiz-service/domain"
	httpUsecase "quiz-service/internal/api/http/usecase"

	"github.com/gofiber/fiber/v2"
)

type GetRoomRequest struct {
	Code string `params:"code" validate:"required,numeric"`
}

type GetRoomResponse struct {
	Room domain.RoomSnapshot `json:"room"`
}

type GetRoomHandler struct {
	usecase httpUsecase.GetRoomUseCase
}

func NewGetRoomHandler(usecase httpUsecase.GetRoomUseCase) *GetRoomHandler {
	return &GetRoomHandler{usecase: usecase}
}

func (h *GetRoomHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *GetRoomRequest) (*GetRoomResponse, int, error) {
	status, snapshot, err := h.usecase.Execute(ctx, req.Code)
	if err != nil {
		return nil, status, err
	}
	return &GetRoomResponse{Room: *snapshot}, status, nil
}
