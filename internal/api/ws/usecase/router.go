package wsUsecase

import (
	"context"
	"fmt"
	"time"

	"quiz-service/domain"

	"go.uber.org/zap"
)

// MessageRouter dispatches request frames to the use case registered for
// their type and replies to the sender.
type MessageRouter struct {
	replier  Replier
	usecases map[string]UseCase
}

func NewMessageRouter(replier Replier, usecases map[string]UseCase) *MessageRouter {
	return &MessageRouter{
		replier:  replier,
		usecases: usecases,
	}
}

// NewRoomUseCases registers a use case for every request type.
func NewRoomUseCases(store RoomStore) map[string]UseCase {
	return map[string]UseCase{
		domain.RequestCreateRoom:      NewCreateRoomUseCase(store),
		domain.RequestJoinRoom:        NewJoinRoomUseCase(store),
		domain.RequestLeaveRoom:       NewLeaveRoomUseCase(store),
		domain.RequestSubmitQuestion:  NewSubmitQuestionUseCase(store),
		domain.RequestSetReady:        NewSetReadyUseCase(store),
		domain.RequestStartCollection: NewAdvancePhaseUseCase(store, domain.PhaseCollectingQuestions),
		domain.RequestStartGame:       NewAdvancePhaseUseCase(store, domain.PhasePlaying),
		domain.RequestEndGame:         NewAdvancePhaseUseCase(store, domain.PhaseEnded),
		domain.RequestMarkAnswer:      NewMarkAnswerUseCase(store),
	}
}

func (r *MessageRouter) Route(client *domain.Client, msg domain.ClientMessage) {
	usecase, ok := r.usecases[msg.Type]
	if !ok {
		r.replier.Reply(client.ID, msg.Type, msg.RequestID, nil, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, msg.Type))
		return
	}

	start := time.Now()
	payload, err := usecase.Execute(context.Background(), client.ID, msg.Data)

	fields := []zap.Field{
		zap.String("type", msg.Type),
		zap.String("connection_id", client.ID),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		zap.L().Debug("request rejected", append(fields, zap.Error(err))...)
	} else {
		zap.L().Debug("request handled", fields...)
	}

	r.replier.Reply(client.ID, msg.Type, msg.RequestID, payload, err)
}
