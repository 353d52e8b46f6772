package game

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- CodeGenerator ---

type MockCodeGenerator struct {
	mock.Mock
}

func (m *MockCodeGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

// --- TimerFactory ---

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

// Fire runs the callback even when stopped, like a timer that fired just
// before Stop was called.
func (t *fakeTimer) Fire() {
	t.f()
}

type fakeTimers struct {
	mu    sync.Mutex
	armed []*fakeTimer
}

func (f *fakeTimers) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{d: d, f: fn}
	f.armed = append(f.armed, t)
	return t
}

func (f *fakeTimers) last() *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.armed) == 0 {
		return nil
	}
	return f.armed[len(f.armed)-1]
}

func (f *fakeTimers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.armed)
}

// --- Dispatcher ---

type sentEvent struct {
	code    string
	conn    string
	except  string
	event   string
	payload any
}

type recordingDispatcher struct {
	mu     sync.Mutex
	groups map[string]map[string]bool
	sent   []sentEvent
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{groups: make(map[string]map[string]bool)}
}

func (d *recordingDispatcher) Join(code, connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.groups[code] == nil {
		d.groups[code] = make(map[string]bool)
	}
	d.groups[code][connID] = true
}

func (d *recordingDispatcher) Leave(code, connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.groups[code], connID)
}

func (d *recordingDispatcher) Broadcast(code, event string, payload any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentEvent{code: code, event: event, payload: payload})
}

func (d *recordingDispatcher) BroadcastExcept(code, exceptConnID, event string, payload any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentEvent{code: code, except: exceptConnID, event: event, payload: payload})
}

func (d *recordingDispatcher) Unicast(connID, event string, payload any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentEvent{conn: connID, event: event, payload: payload})
}

func (d *recordingDispatcher) events(event string) []sentEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []sentEvent
	for _, e := range d.sent {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (d *recordingDispatcher) member(code, connID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.groups[code][connID]
}

func (d *recordingDispatcher) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = nil
}
