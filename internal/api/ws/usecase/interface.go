package wsUsecase

import (
	"context"
	"encoding/json"

	"quiz-service/domain"
)

type RoomStore interface {
	CreateRoom(hostID, displayName string, maxPlayers, questionsPerPlayer int) (domain.RoomSnapshot, error)
	JoinRoom(code, connID, displayName string) (domain.RoomSnapshot, error)
	LeaveRoom(code, connID string) error
	SubmitQuestion(code, authorID, text, target string) (int, error)
	SetReady(code, connID string) (domain.ReadyStatus, error)
	AdvancePhase(code, requesterID string, target domain.Phase, report json.RawMessage) (domain.RoomSnapshot, error)
	MarkAnswer(code, connID string, questionIndex int, isCorrect bool) error
}

type Replier interface {
	Reply(connID, requestType, requestID string, payload any, err error)
}

// UseCase handles one request type on behalf of connID. The returned value is
// the reply payload.
type UseCase interface {
	Execute(ctx context.Context, connID string, data json.RawMessage) (any, error)
}
