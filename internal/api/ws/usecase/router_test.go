package wsUsecase

import (
	"encoding/json"
	"testing"

	"quiz-service/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func route(t *testing.T, store *MockRoomStore, msgType, data string) reply {
	t.Helper()
	replier := &recordingReplier{}
	router := NewMessageRouter(replier, NewRoomUseCases(store))

	router.Route(&domain.Client{ID: "conn-1"}, domain.ClientMessage{
		Type:      msgType,
		RequestID: "req-1",
		Data:      json.RawMessage(data),
	})

	require.Len(t, replier.replies, 1)
	r := replier.last()
	assert.Equal(t, "conn-1", r.connID)
	assert.Equal(t, msgType, r.requestType)
	assert.Equal(t, "req-1", r.requestID)
	return r
}

func TestRouteCreateRoom(t *testing.T) {
	store := &MockRoomStore{}
	snapshot := domain.RoomSnapshot{Code: "482913", HostConnectionID: "conn-1"}
	store.On("CreateRoom", "conn-1", "Alice", 4, 2).Return(snapshot, nil)

	r := route(t, store, domain.RequestCreateRoom, `{"displayName":"Alice","maxPlayers":4,"questionsPerPlayer":2}`)

	require.NoError(t, r.err)
	assert.Equal(t, snapshot, r.payload)
	store.AssertExpectations(t)
}

func TestRouteValidation(t *testing.T) {
	tests := []struct {
		name    string
		msgType string
		data    string
	}{
		{"create without name", domain.RequestCreateRoom, `{"maxPlayers":4}`},
		{"create without players", domain.RequestCreateRoom, `{"displayName":"Alice"}`},
		{"create negative questions", domain.RequestCreateRoom, `{"displayName":"Alice","maxPlayers":4,"questionsPerPlayer":-1}`},
		{"join without code", domain.RequestJoinRoom, `{"displayName":"Bob"}`},
		{"join with bad json", domain.RequestJoinRoom, `{"code":`},
		{"question without text", domain.RequestSubmitQuestion, `{"code":"111111"}`},
		{"ready without data", domain.RequestSetReady, ``},
		{"answer without index", domain.RequestMarkAnswer, `{"code":"111111","isCorrect":true}`},
		{"answer without verdict", domain.RequestMarkAnswer, `{"code":"111111","questionIndex":0}`},
		{"answer negative index", domain.RequestMarkAnswer, `{"code":"111111","questionIndex":-1,"isCorrect":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockRoomStore{}
			r := route(t, store, tt.msgType, tt.data)

			assert.ErrorIs(t, r.err, domain.ErrInvalidInput)
			assert.Nil(t, r.payload)
			store.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "JoinRoom", mock.Anything, mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "MarkAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRouteUnknownType(t *testing.T) {
	r := route(t, &MockRoomStore{}, "kickPlayer", `{}`)
	assert.ErrorIs(t, r.err, domain.ErrUnknownEvent)
}

func TestRouteStoreErrorIsReplied(t *testing.T) {
	store := &MockRoomStore{}
	store.On("JoinRoom", "111111", "conn-1", "Bob").Return(domain.RoomSnapshot{}, domain.ErrRoomFull)

	r := route(t, store, domain.RequestJoinRoom, `{"code":"111111","displayName":"Bob"}`)
	assert.ErrorIs(t, r.err, domain.ErrRoomFull)
	assert.Nil(t, r.payload)
}

func TestRoutePhaseRequests(t *testing.T) {
	tests := []struct {
		msgType string
		data    string
		target  domain.Phase
		report  json.RawMessage
	}{
		{domain.RequestStartCollection, `{"code":"111111"}`, domain.PhaseCollectingQuestions, nil},
		{domain.RequestStartGame, `{"code":"111111","report":{"ignored":true}}`, domain.PhasePlaying, nil},
		{domain.RequestEndGame, `{"code":"111111","report":{"scores":{"a":1}}}`, domain.PhaseEnded, json.RawMessage(`{"scores":{"a":1}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.msgType, func(t *testing.T) {
			store := &MockRoomStore{}
			store.On("AdvancePhase", "111111", "conn-1", tt.target, tt.report).
				Return(domain.RoomSnapshot{Code: "111111", Phase: tt.target}, nil)

			r := route(t, store, tt.msgType, tt.data)
			require.NoError(t, r.err)
			assert.Equal(t, tt.target, r.payload.(domain.RoomSnapshot).Phase)
			store.AssertExpectations(t)
		})
	}
}

func TestRouteRemainingRequests(t *testing.T) {
	t.Run("leave", func(t *testing.T) {
		store := &MockRoomStore{}
		store.On("LeaveRoom", "111111", "conn-1").Return(nil)

		r := route(t, store, domain.RequestLeaveRoom, `{"code":"111111"}`)
		require.NoError(t, r.err)
		assert.Equal(t, LeaveRoomResponse{Code: "111111"}, r.payload)
	})

	t.Run("submit question", func(t *testing.T) {
		store := &MockRoomStore{}
		store.On("SubmitQuestion", "111111", "conn-1", "Who?", "random").Return(3, nil)

		r := route(t, store, domain.RequestSubmitQuestion, `{"code":"111111","text":"Who?","target":"random"}`)
		require.NoError(t, r.err)
		assert.Equal(t, SubmitQuestionResponse{QuestionsCount: 3}, r.payload)
	})

	t.Run("set ready", func(t *testing.T) {
		store := &MockRoomStore{}
		status := domain.ReadyStatus{ConnectionID: "conn-1", ReadyCount: 1, Total: 2}
		store.On("SetReady", "111111", "conn-1").Return(status, nil)

		r := route(t, store, domain.RequestSetReady, `{"code":"111111"}`)
		require.NoError(t, r.err)
		assert.Equal(t, status, r.payload)
	})

	t.Run("mark answer", func(t *testing.T) {
		store := &MockRoomStore{}
		store.On("MarkAnswer", "111111", "conn-1", 0, false).Return(nil)

		r := route(t, store, domain.RequestMarkAnswer, `{"code":"111111","questionIndex":0,"isCorrect":false}`)
		require.NoError(t, r.err)
		assert.Equal(t, MarkAnswerResponse{QuestionIndex: 0, IsCorrect: false}, r.payload)
	})
}
