package domain

import (
	"encoding/json"
	"time"
)

// Server -> client event names.
const (
	EventConnected       = "connected"
	EventPlayerList      = "player_list"
	EventReadyUpdate     = "ready_update"
	EventAllReady        = "all_ready"
	EventPhaseChanged    = "phase_changed"
	EventHostChanged     = "host_changed"
	EventPlayerLeft      = "player_left"
	EventSubmitQuestions = "submit_questions"
	EventAnswerResult    = "answer_result"
	EventError           = "error"
)

// Client -> server request types.
const (
	RequestCreateRoom      = "createRoom"
	RequestJoinRoom        = "joinRoom"
	RequestLeaveRoom       = "leaveRoom"
	RequestSubmitQuestion  = "submitQuestion"
	RequestSetReady        = "setReady"
	RequestStartCollection = "startCollection"
	RequestStartGame       = "startGame"
	RequestEndGame         = "endGame"
	RequestMarkAnswer      = "markAnswer"
)

// ClientMessage is a request frame read from a connection.
type ClientMessage struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ServerEvent is the envelope for every frame written to a connection.
type ServerEvent struct {
	Type      string    `json:"type"`
	RoomCode  string    `json:"roomCode,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Success   *bool     `json:"success,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
	Error     *WSError  `json:"error,omitempty"`
}

type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Conn is the subset of a websocket connection the hub drives.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

type Client struct {
	ID   string
	Conn Conn
	Send chan []byte
	Done chan struct{}
}
