package wsUsecase

import (
	"context"
	"encoding/json"

	"quiz-service/domain"
)

type AdvancePhaseRequest struct {
	Code string `json:"code" validate:"required"`
	// Report is the host's end-of-game summary, relayed verbatim on endGame.
	Report json.RawMessage `json:"report,omitempty"`
}

// advancePhaseUseCase serves startCollection, startGame and endGame; each
// instance moves the room to one fixed phase.
type advancePhaseUseCase struct {
	store  RoomStore
	target domain.Phase
}

func NewAdvancePhaseUseCase(store RoomStore, target domain.Phase) UseCase {
	return &advancePhaseUseCase{store: store, target: target}
}

func (u *advancePhaseUseCase) Execute(ctx context.Context, connID string, data json.RawMessage) (any, error) {
	req, err := decode[AdvancePhaseRequest](data)
	if err != nil {
		return nil, err
	}

	var report json.RawMessage
	if u.target == domain.PhaseEnded {
		report = req.Report
	}

	snapshot, err := u.store.AdvancePhase(req.Code, connID, u.target, report)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
