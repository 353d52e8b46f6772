package domain

import (
	"encoding/json"
	"time"
)

type Phase string

const (
	PhaseWaiting             Phase = "waiting"
	PhaseCollectingQuestions Phase = "collecting_questions"
	PhasePlaying             Phase = "playing"
	PhaseEnded               Phase = "ended"
)

// Next returns the phase that follows p. Ended has no successor.
func (p Phase) Next() (Phase, bool) {
	switch p {
	case PhaseWaiting:
		return PhaseCollectingQuestions, true
	case PhaseCollectingQuestions:
		return PhasePlaying, true
	case PhasePlaying:
		return PhaseEnded, true
	default:
		return "", false
	}
}

// TargetRandom is the question target meaning "assign at random".
const TargetRandom = "random"

type Player struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
	IsReady      bool   `json:"isReady"`
}

type Question struct {
	AuthorConnectionID string `json:"author"`
	Text               string `json:"text"`
	Target             string `json:"target"`
}

type RoomSnapshot struct {
	Code               string    `json:"code"`
	HostConnectionID   string    `json:"hostConnectionId"`
	MaxPlayers         int       `json:"maxPlayers"`
	QuestionsPerPlayer int       `json:"questionsPerPlayer"`
	Phase              Phase     `json:"phase"`
	Players            []Player  `json:"players"`
	ReadyCount         int       `json:"readyCount"`
	QuestionsCount     int       `json:"questionsCount"`
	CreatedAt          time.Time `json:"createdAt"`
}

type ReadyStatus struct {
	ConnectionID string `json:"connectionId,omitempty"`
	ReadyCount   int    `json:"readyCount"`
	Total        int    `json:"total"`
}

// PhaseChange is the payload of the phase_changed broadcast. Questions and
// Players are set when entering playing (empty, not null, when nobody
// submitted), Report when entering ended.
type PhaseChange struct {
	Phase     Phase           `json:"phase"`
	Questions []Question      `json:"questions"`
	Players   []Player        `json:"players"`
	Report    json.RawMessage `json:"report,omitempty"`
}

type HostChange struct {
	PreviousHostID string `json:"previousHostId"`
	HostID         string `json:"hostConnectionId"`
}

type PlayerLeft struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
}

type AnswerResult struct {
	QuestionIndex int    `json:"questionIndex"`
	IsCorrect     bool   `json:"isCorrect"`
	MarkedBy      string `json:"markedBy"`
}
