package game

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"quiz-service/domain"
)

// Room is the state of one quiz room. Every method expects
// the caller to hold mu; RoomStore takes it for the whole read-modify-write
// of a request, including the broadcasts that request triggers.
type Room struct {
	mu sync.Mutex

	code               string
	hostID             string
	players            []*domain.Player
	maxPlayers         int
	questionsPerPlayer int
	phase              domain.Phase
	questions          []domain.Question
	ready              map[string]struct{}
	quorumReached      bool
	createdAt          time.Time

	// bumped each time the room empties; a deletion timer only acts for the
	// generation it was armed in
	retireGen uint64

	// set once the room is removed from the store; later requests that
	// still hold a pointer to it must see RoomNotFound
	deleted bool
}

func NewRoom(code string, host domain.Player, maxPlayers, questionsPerPlayer int) *Room {
	host.IsReady = false
	players := make([]*domain.Player, 0, maxPlayers)
	players = append(players, &host)

	return &Room{
		code:               code,
		hostID:             host.ConnectionID,
		players:            players,
		maxPlayers:         maxPlayers,
		questionsPerPlayer: questionsPerPlayer,
		phase:              domain.PhaseWaiting,
		ready:              make(map[string]struct{}),
		createdAt:          time.Now().UTC(),
	}
}

func (r *Room) snapshot() domain.RoomSnapshot {
	return domain.RoomSnapshot{
		Code:               r.code,
		HostConnectionID:   r.hostID,
		MaxPlayers:         r.maxPlayers,
		QuestionsPerPlayer: r.questionsPerPlayer,
		Phase:              r.phase,
		Players:            r.roster(),
		ReadyCount:         len(r.ready),
		QuestionsCount:     len(r.questions),
		CreatedAt:          r.createdAt,
	}
}

func (r *Room) roster() []domain.Player {
	out := make([]domain.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	return out
}

func (r *Room) indexOf(connID string) int {
	return slices.IndexFunc(r.players, func(p *domain.Player) bool {
		return p.ConnectionID == connID
	})
}

func (r *Room) isMember(connID string) bool {
	return r.indexOf(connID) >= 0
}

func (r *Room) isEmpty() bool {
	return len(r.players) == 0
}

func (r *Room) addPlayer(p domain.Player) error {
	if r.deleted {
		return fmt.Errorf("%w: %s", domain.ErrRoomNotFound, r.code)
	}
	if r.isMember(p.ConnectionID) {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyInRoom, r.code)
	}
	if len(r.players) >= r.maxPlayers {
		return fmt.Errorf("%w: %d/%d players", domain.ErrRoomFull, len(r.players), r.maxPlayers)
	}

	p.IsReady = false
	r.players = append(r.players, &p)
	// the newcomer is not ready, so the room has to reach quorum again
	r.quorumReached = false
	// a rejoin during the grace period finds the room without a host
	if r.hostID == "" {
		r.hostID = p.ConnectionID
	}
	return nil
}

// removePlayer drops connID and its readiness. When the host leaves and
// players remain, the earliest-joined remaining player becomes host and
// newHost is set.
func (r *Room) removePlayer(connID string) (removed domain.Player, newHost string, ok bool) {
	i := r.indexOf(connID)
	if i < 0 {
		return domain.Player{}, "", false
	}

	removed = *r.players[i]
	r.players = slices.Delete(r.players, i, i+1)
	delete(r.ready, connID)

	if r.hostID == connID {
		if len(r.players) > 0 {
			r.hostID = r.players[0].ConnectionID
			newHost = r.hostID
		} else {
			r.hostID = ""
		}
	}
	return removed, newHost, true
}

// markReady records connID as ready for the current phase. changed is false
// for a redundant call. quorum is true only on the call that first makes
// every player ready in this phase.
func (r *Room) markReady(connID string) (status domain.ReadyStatus, changed, quorum bool, err error) {
	i := r.indexOf(connID)
	if i < 0 {
		return status, false, false, fmt.Errorf("%w: %s", domain.ErrNotInRoom, r.code)
	}

	if _, already := r.ready[connID]; !already {
		r.ready[connID] = struct{}{}
		r.players[i].IsReady = true
		changed = true
		quorum = r.checkQuorum()
	}

	return r.readyStatus(connID), changed, quorum, nil
}

// checkQuorum latches the quorum flag the first time every current player is
// ready in this phase.
func (r *Room) checkQuorum() bool {
	if r.quorumReached || len(r.players) == 0 || len(r.ready) != len(r.players) {
		return false
	}
	r.quorumReached = true
	return true
}

func (r *Room) readyStatus(connID string) domain.ReadyStatus {
	return domain.ReadyStatus{
		ConnectionID: connID,
		ReadyCount:   len(r.ready),
		Total:        len(r.players),
	}
}

func (r *Room) addQuestion(author, text, target string) error {
	if !r.isMember(author) {
		return fmt.Errorf("%w: %s", domain.ErrNotInRoom, r.code)
	}
	if r.phase != domain.PhaseWaiting && r.phase != domain.PhaseCollectingQuestions {
		return fmt.Errorf("%w: room is %s", domain.ErrSubmissionClosed, r.phase)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: question text is empty", domain.ErrInvalidInput)
	}

	target = strings.TrimSpace(target)
	if target == "" {
		target = domain.TargetRandom
	}
	if target != domain.TargetRandom && !r.isMember(target) {
		return fmt.Errorf("%w: unknown target %q", domain.ErrInvalidInput, target)
	}

	if r.questionsPerPlayer > 0 && r.questionsBy(author) >= r.questionsPerPlayer {
		return fmt.Errorf("%w: limit of %d questions reached", domain.ErrInvalidInput, r.questionsPerPlayer)
	}

	r.questions = append(r.questions, domain.Question{
		AuthorConnectionID: author,
		Text:               text,
		Target:             target,
	})
	return nil
}

func (r *Room) questionsBy(author string) int {
	n := 0
	for _, q := range r.questions {
		if q.AuthorConnectionID == author {
			n++
		}
	}
	return n
}

// advance moves the room to target and resets phase-scoped readiness. The
// returned change carries the data for the new phase's entry broadcast.
func (r *Room) advance(requester string, target domain.Phase, report json.RawMessage) (domain.PhaseChange, error) {
	if requester != r.hostID {
		return domain.PhaseChange{}, fmt.Errorf("%w: %s", domain.ErrNotHost, r.code)
	}

	next, ok := r.phase.Next()
	if !ok || next != target {
		return domain.PhaseChange{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, r.phase, target)
	}

	r.phase = target
	r.resetReadiness()

	change := domain.PhaseChange{Phase: target}
	switch target {
	case domain.PhasePlaying:
		change.Questions = append(make([]domain.Question, 0, len(r.questions)), r.questions...)
		change.Players = r.roster()
	case domain.PhaseEnded:
		change.Report = report
	}
	return change, nil
}

func (r *Room) resetReadiness() {
	clear(r.ready)
	for _, p := range r.players {
		p.IsReady = false
	}
	r.quorumReached = false
}

func (r *Room) checkAnswer(connID string, index int) error {
	if !r.isMember(connID) {
		return fmt.Errorf("%w: %s", domain.ErrNotInRoom, r.code)
	}
	if r.phase != domain.PhasePlaying {
		return fmt.Errorf("%w: answers are only marked while playing", domain.ErrInvalidTransition)
	}
	if index < 0 || index >= len(r.questions) {
		return fmt.Errorf("%w: question index %d out of range", domain.ErrInvalidInput, index)
	}
	return nil
}
