package game

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"quiz-service/domain"

	"go.uber.org/zap"
)

// Dispatcher delivers room events to connections.
type Dispatcher interface {
	Join(code, connID string)
	Leave(code, connID string)
	Broadcast(code, event string, payload any)
	BroadcastExcept(code, exceptConnID, event string, payload any)
	Unicast(connID, event string, payload any)
}

type Options struct {
	// MaxPlayersCap bounds the maxPlayers a host may request; 0 means no cap.
	MaxPlayersCap int
	// DeletionGrace is how long an empty room survives; 0 deletes it at once.
	DeletionGrace time.Duration
	CodeAttempts  int
	Codes         CodeGenerator
	Timers        TimerFactory
}

// RoomStore owns every live room. Requests against one room are serialized by
// that room's lock; different rooms proceed in parallel.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	registry   *ConnectionRegistry
	scheduler  *DeletionScheduler
	dispatcher Dispatcher
	codes      CodeGenerator

	maxPlayersCap int
	grace         time.Duration
	codeAttempts  int
}

func NewRoomStore(dispatcher Dispatcher, opts Options) *RoomStore {
	if opts.Codes == nil {
		opts.Codes = NewDigitCodeGenerator(6)
	}
	if opts.CodeAttempts <= 0 {
		opts.CodeAttempts = 64
	}

	return &RoomStore{
		rooms:         make(map[string]*Room),
		registry:      NewConnectionRegistry(),
		scheduler:     NewDeletionScheduler(opts.Timers),
		dispatcher:    dispatcher,
		codes:         opts.Codes,
		maxPlayersCap: opts.MaxPlayersCap,
		grace:         opts.DeletionGrace,
		codeAttempts:  opts.CodeAttempts,
	}
}

func (s *RoomStore) get(code string) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[code]
}

// lock returns the live room for code with its lock held.
func (s *RoomStore) lock(code string) (*Room, error) {
	room := s.get(code)
	if room == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, code)
	}
	room.mu.Lock()
	if room.deleted {
		room.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, code)
	}
	return room, nil
}

func (s *RoomStore) allocateCodeLocked() (string, error) {
	for range s.codeAttempts {
		code := s.codes.Generate()
		if _, taken := s.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", domain.ErrCodeSpaceExhausted, s.codeAttempts)
}

func (s *RoomStore) CreateRoom(hostID, displayName string, maxPlayers, questionsPerPlayer int) (domain.RoomSnapshot, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return domain.RoomSnapshot{}, fmt.Errorf("%w: display name is empty", domain.ErrInvalidInput)
	}
	if maxPlayers <= 0 {
		return domain.RoomSnapshot{}, fmt.Errorf("%w: maxPlayers must be positive", domain.ErrInvalidInput)
	}
	if s.maxPlayersCap > 0 && maxPlayers > s.maxPlayersCap {
		return domain.RoomSnapshot{}, fmt.Errorf("%w: maxPlayers is capped at %d", domain.ErrInvalidInput, s.maxPlayersCap)
	}
	if questionsPerPlayer < 0 {
		return domain.RoomSnapshot{}, fmt.Errorf("%w: questionsPerPlayer is negative", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	code, err := s.allocateCodeLocked()
	if err != nil {
		s.mu.Unlock()
		return domain.RoomSnapshot{}, err
	}
	if !s.registry.Claim(hostID, code) {
		s.mu.Unlock()
		return domain.RoomSnapshot{}, domain.ErrAlreadyInRoom
	}

	room := NewRoom(code, domain.Player{ConnectionID: hostID, DisplayName: displayName}, maxPlayers, questionsPerPlayer)
	// nobody else can reach the room before it is inserted, so taking its
	// lock under s.mu cannot deadlock
	room.mu.Lock()
	defer room.mu.Unlock()
	s.rooms[code] = room
	s.mu.Unlock()

	s.dispatcher.Join(code, hostID)
	zap.L().Info("room created",
		zap.String("code", code),
		zap.String("host", hostID),
		zap.Int("max_players", maxPlayers))

	return room.snapshot(), nil
}

func (s *RoomStore) JoinRoom(code, connID, displayName string) (domain.RoomSnapshot, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return domain.RoomSnapshot{}, fmt.Errorf("%w: display name is empty", domain.ErrInvalidInput)
	}

	room, err := s.lock(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	defer room.mu.Unlock()

	if !s.registry.Claim(connID, code) {
		return domain.RoomSnapshot{}, domain.ErrAlreadyInRoom
	}
	if err := room.addPlayer(domain.Player{ConnectionID: connID, DisplayName: displayName}); err != nil {
		s.registry.Release(connID, code)
		return domain.RoomSnapshot{}, err
	}

	if s.scheduler.Cancel(code) {
		zap.L().Info("room deletion cancelled by rejoin", zap.String("code", code))
	}
	s.dispatcher.Join(code, connID)
	s.dispatcher.Broadcast(code, domain.EventPlayerList, room.roster())

	zap.L().Info("player joined room",
		zap.String("code", code),
		zap.String("connection_id", connID),
		zap.Int("players", len(room.players)))

	return room.snapshot(), nil
}

func (s *RoomStore) SubmitQuestion(code, authorID, text, target string) (int, error) {
	room, err := s.lock(code)
	if err != nil {
		return 0, err
	}
	defer room.mu.Unlock()

	if err := room.addQuestion(authorID, text, target); err != nil {
		return 0, err
	}
	return len(room.questions), nil
}

func (s *RoomStore) SetReady(code, connID string) (domain.ReadyStatus, error) {
	room, err := s.lock(code)
	if err != nil {
		return domain.ReadyStatus{}, err
	}
	defer room.mu.Unlock()

	status, changed, quorum, err := room.markReady(connID)
	if err != nil {
		return domain.ReadyStatus{}, err
	}
	if !changed {
		return status, nil
	}

	s.dispatcher.Broadcast(code, domain.EventReadyUpdate, status)
	if quorum {
		s.announceQuorum(room)
	}
	return status, nil
}

func (s *RoomStore) announceQuorum(room *Room) {
	s.dispatcher.Broadcast(room.code, domain.EventAllReady, domain.ReadyStatus{
		ReadyCount: len(room.ready),
		Total:      len(room.players),
	})
	zap.L().Info("all players ready",
		zap.String("code", room.code),
		zap.String("phase", string(room.phase)),
		zap.Int("players", len(room.players)))
}

// AdvancePhase moves the room to target on behalf of requester. report is
// only used when entering ended and is broadcast verbatim.
func (s *RoomStore) AdvancePhase(code, requesterID string, target domain.Phase, report json.RawMessage) (domain.RoomSnapshot, error) {
	room, err := s.lock(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	defer room.mu.Unlock()

	change, err := room.advance(requesterID, target, report)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}

	s.dispatcher.Broadcast(code, domain.EventPhaseChanged, change)
	if target == domain.PhaseCollectingQuestions {
		s.dispatcher.BroadcastExcept(code, room.hostID, domain.EventSubmitQuestions, map[string]int{
			"questionsPerPlayer": room.questionsPerPlayer,
		})
	}

	zap.L().Info("room phase changed",
		zap.String("code", code),
		zap.String("phase", string(target)),
		zap.Int("questions", len(room.questions)))

	return room.snapshot(), nil
}

func (s *RoomStore) MarkAnswer(code, connID string, questionIndex int, isCorrect bool) error {
	room, err := s.lock(code)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	if err := room.checkAnswer(connID, questionIndex); err != nil {
		return err
	}

	s.dispatcher.Broadcast(code, domain.EventAnswerResult, domain.AnswerResult{
		QuestionIndex: questionIndex,
		IsCorrect:     isCorrect,
		MarkedBy:      connID,
	})
	return nil
}

// LeaveRoom removes connID from code while the connection stays open.
func (s *RoomStore) LeaveRoom(code, connID string) error {
	room, err := s.lock(code)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	if !s.removeLocked(room, connID) {
		return fmt.Errorf("%w: %s", domain.ErrNotInRoom, code)
	}
	return nil
}

// RemovePlayer handles a closed connection. Connections that occupy no room
// are ignored.
func (s *RoomStore) RemovePlayer(connID string) {
	code, ok := s.registry.Lookup(connID)
	if !ok {
		return
	}

	room, err := s.lock(code)
	if err != nil {
		s.registry.Release(connID, code)
		return
	}
	defer room.mu.Unlock()

	s.removeLocked(room, connID)
}

func (s *RoomStore) removeLocked(room *Room, connID string) bool {
	removed, newHost, ok := room.removePlayer(connID)
	if !ok {
		return false
	}
	code := room.code

	s.registry.Release(connID, code)
	s.dispatcher.Leave(code, connID)

	zap.L().Info("player left room",
		zap.String("code", code),
		zap.String("connection_id", connID),
		zap.Int("players", len(room.players)))

	if room.isEmpty() {
		s.retireLocked(room)
		return true
	}

	if newHost != "" {
		s.dispatcher.Broadcast(code, domain.EventHostChanged, domain.HostChange{
			PreviousHostID: connID,
			HostID:         newHost,
		})
		zap.L().Info("host migrated", zap.String("code", code), zap.String("host", newHost))
	}
	s.dispatcher.Broadcast(code, domain.EventPlayerLeft, domain.PlayerLeft{
		ConnectionID: removed.ConnectionID,
		DisplayName:  removed.DisplayName,
	})
	s.dispatcher.Broadcast(code, domain.EventPlayerList, room.roster())

	// the leaver may have been the last one not ready
	if room.checkQuorum() {
		s.announceQuorum(room)
	}
	return true
}

func (s *RoomStore) retireLocked(room *Room) {
	if s.grace <= 0 {
		s.deleteLocked(room)
		return
	}
	gen := room.retireGen + 1
	armed := s.scheduler.Schedule(room.code, s.grace, func(string) {
		s.deleteIfEmpty(room, gen)
	})
	if armed {
		room.retireGen = gen
	}
}

// deleteIfEmpty runs when a grace period ends. A rejoin that won the race
// leaves the room alive, and so does a later emptying that armed a newer
// timer while this one was waiting for the lock.
func (s *RoomStore) deleteIfEmpty(room *Room, gen uint64) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.deleted || !room.isEmpty() || room.retireGen != gen {
		return
	}
	s.deleteLocked(room)
}

func (s *RoomStore) deleteLocked(room *Room) {
	room.deleted = true
	s.scheduler.Cancel(room.code)

	s.mu.Lock()
	if s.rooms[room.code] == room {
		delete(s.rooms, room.code)
	}
	s.mu.Unlock()

	zap.L().Info("room deleted", zap.String("code", room.code))
}

func (s *RoomStore) Snapshot(code string) (domain.RoomSnapshot, error) {
	room, err := s.lock(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	defer room.mu.Unlock()
	return room.snapshot(), nil
}

func (s *RoomStore) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// ConnectionCount is the number of connections currently occupying a room.
func (s *RoomStore) ConnectionCount() int {
	return s.registry.Len()
}

// Close disarms pending deletions.
func (s *RoomStore) Close() {
	s.scheduler.Stop()
}
