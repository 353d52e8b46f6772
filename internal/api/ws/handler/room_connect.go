package wsHandler

import (
	"context"

	wsUsecase "quiz-service/internal/api/ws/usecase"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type WebSocketRoomRequest struct{}

// WebSocketRoomHandler assigns each upgraded connection its id and hands it
// to the hub.
type WebSocketRoomHandler struct {
	usecase wsUsecase.RoomConnectUseCase
}

func NewWebSocketRoomHandler(usecase wsUsecase.RoomConnectUseCase) *WebSocketRoomHandler {
	return &WebSocketRoomHandler{usecase: usecase}
}

func (h *WebSocketRoomHandler) HandleWS(c *websocket.Conn, ctx context.Context, req *WebSocketRoomRequest) {
	h.usecase.Execute(c, uuid.NewString())
}
