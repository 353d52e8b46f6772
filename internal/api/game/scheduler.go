package game

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Timer is a cancellable pending call.
type Timer interface {
	Stop() bool
}

// TimerFactory arms timers. The default uses time.AfterFunc.
type TimerFactory interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realTimers struct{}

func (realTimers) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type pendingDeletion struct {
	timer Timer
}

// DeletionScheduler holds at most one deletion timer per room code.
type DeletionScheduler struct {
	mu      sync.Mutex
	timers  TimerFactory
	pending map[string]*pendingDeletion
}

func NewDeletionScheduler(timers TimerFactory) *DeletionScheduler {
	if timers == nil {
		timers = realTimers{}
	}
	return &DeletionScheduler{
		timers:  timers,
		pending: make(map[string]*pendingDeletion),
	}
}

// Schedule arms a timer that calls onExpire(code) after grace. It returns
// false without arming anything when a timer is already pending for code.
func (s *DeletionScheduler) Schedule(code string, grace time.Duration, onExpire func(code string)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, armed := s.pending[code]; armed {
		return false
	}

	entry := &pendingDeletion{}
	entry.timer = s.timers.AfterFunc(grace, func() {
		// a cancel or re-arm between firing and here leaves a different entry
		s.mu.Lock()
		current, ok := s.pending[code]
		if !ok || current != entry {
			s.mu.Unlock()
			return
		}
		delete(s.pending, code)
		s.mu.Unlock()

		onExpire(code)
	})
	s.pending[code] = entry

	zap.L().Debug("room deletion scheduled", zap.String("code", code), zap.Duration("grace", grace))
	return true
}

// Cancel disarms the pending timer for code, if any.
func (s *DeletionScheduler) Cancel(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[code]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(s.pending, code)

	zap.L().Debug("room deletion cancelled", zap.String("code", code))
	return true
}

func (s *DeletionScheduler) Pending(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[code]
	return ok
}

// Stop disarms every pending timer.
func (s *DeletionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, entry := range s.pending {
		entry.timer.Stop()
		delete(s.pending, code)
	}
}
