package wsUsecase

import (
	"encoding/json"
	"sync"

	"quiz-service/domain"

	"github.com/stretchr/testify/mock"
)

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) CreateRoom(hostID, displayName string, maxPlayers, questionsPerPlayer int) (domain.RoomSnapshot, error) {
	args := m.Called(hostID, displayName, maxPlayers, questionsPerPlayer)
	return args.Get(0).(domain.RoomSnapshot), args.Error(1)
}

func (m *MockRoomStore) JoinRoom(code, connID, displayName string) (domain.RoomSnapshot, error) {
	args := m.Called(code, connID, displayName)
	return args.Get(0).(domain.RoomSnapshot), args.Error(1)
}

func (m *MockRoomStore) LeaveRoom(code, connID string) error {
	args := m.Called(code, connID)
	return args.Error(0)
}

func (m *MockRoomStore) SubmitQuestion(code, authorID, text, target string) (int, error) {
	args := m.Called(code, authorID, text, target)
	return args.Int(0), args.Error(1)
}

func (m *MockRoomStore) SetReady(code, connID string) (domain.ReadyStatus, error) {
	args := m.Called(code, connID)
	return args.Get(0).(domain.ReadyStatus), args.Error(1)
}

func (m *MockRoomStore) AdvancePhase(code, requesterID string, target domain.Phase, report json.RawMessage) (domain.RoomSnapshot, error) {
	args := m.Called(code, requesterID, target, report)
	return args.Get(0).(domain.RoomSnapshot), args.Error(1)
}

func (m *MockRoomStore) MarkAnswer(code, connID string, questionIndex int, isCorrect bool) error {
	args := m.Called(code, connID, questionIndex, isCorrect)
	return args.Error(0)
}

type reply struct {
	connID      string
	requestType string
	requestID   string
	payload     any
	err         error
}

type recordingReplier struct {
	mu      sync.Mutex
	replies []reply
}

func (r *recordingReplier) Reply(connID, requestType, requestID string, payload any, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, reply{connID, requestType, requestID, payload, err})
}

func (r *recordingReplier) last() reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replies[len(r.replies)-1]
}
