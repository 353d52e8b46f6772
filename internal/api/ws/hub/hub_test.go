package hub

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"quiz-service/domain"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	in     chan []byte
	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 16),
		out:    make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case p, ok := <-c.in:
		if !ok {
			return 0, nil, io.EOF
		}
		return websocket.TextMessage, p, nil
	case <-c.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) WriteMessage(mt int, data []byte) error {
	select {
	case <-c.closed:
		return errors.New("use of closed connection")
	default:
	}
	if mt == websocket.TextMessage {
		c.out <- data
	}
	return nil
}

func (c *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetReadLimit(int64)                {}
func (c *fakeConn) SetPongHandler(func(string) error) {}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

type recordingMirror struct {
	mu     sync.Mutex
	frames map[string][][]byte
}

func (m *recordingMirror) Mirror(code string, frame []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frames == nil {
		m.frames = make(map[string][][]byte)
	}
	m.frames[code] = append(m.frames[code], frame)
}

func startHub(t *testing.T, opts Options) *Hub {
	t.Helper()
	h := NewHub(opts)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func readEvent(t *testing.T, ch <-chan []byte) domain.ServerEvent {
	t.Helper()
	select {
	case frame, ok := <-ch:
		require.True(t, ok, "channel closed")
		var ev domain.ServerEvent
		require.NoError(t, json.Unmarshal(frame, &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return domain.ServerEvent{}
	}
}

func TestServe(t *testing.T) {
	h := startHub(t, Options{})

	disconnected := make(chan string, 1)
	h.Bind(RouterFunc(func(client *domain.Client, msg domain.ClientMessage) {
		h.Reply(client.ID, msg.Type, msg.RequestID, map[string]string{"echo": string(msg.Data)}, nil)
	}), func(connID string) { disconnected <- connID })

	conn := newFakeConn()
	client := h.NewClient("conn-1", conn)
	served := make(chan struct{})
	go func() {
		h.Serve(client)
		close(served)
	}()

	ev := readEvent(t, conn.out)
	assert.Equal(t, domain.EventConnected, ev.Type)
	assert.Equal(t, map[string]any{"connectionId": "conn-1"}, ev.Payload)

	conn.in <- []byte(`{"type":"setReady","requestId":"r1","data":"x"}`)
	ev = readEvent(t, conn.out)
	assert.Equal(t, "setReady_result", ev.Type)
	assert.Equal(t, "r1", ev.RequestID)
	require.NotNil(t, ev.Success)
	assert.True(t, *ev.Success)

	conn.in <- []byte(`not json`)
	ev = readEvent(t, conn.out)
	assert.Equal(t, domain.EventError, ev.Type)
	require.NotNil(t, ev.Error)
	assert.Equal(t, domain.ReasonInvalidInput, ev.Error.Code)

	close(conn.in)

	select {
	case id := <-disconnected:
		assert.Equal(t, "conn-1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect hook not called")
	}
	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestRouterPanicBecomesInternalError(t *testing.T) {
	h := startHub(t, Options{})
	h.Bind(RouterFunc(func(*domain.Client, domain.ClientMessage) {
		panic("boom")
	}), nil)

	conn := newFakeConn()
	client := h.NewClient("conn-1", conn)
	go h.Serve(client)
	readEvent(t, conn.out)

	conn.in <- []byte(`{"type":"createRoom","requestId":"r1"}`)
	ev := readEvent(t, conn.out)
	assert.Equal(t, "createRoom_result", ev.Type)
	require.NotNil(t, ev.Error)
	assert.Equal(t, domain.ReasonInternal, ev.Error.Code)
	assert.Equal(t, "internal error", ev.Error.Message)
	close(conn.in)
}

func TestRateLimit(t *testing.T) {
	h := startHub(t, Options{MessagesPerSecond: 0.001, Burst: 1})
	h.Bind(RouterFunc(func(client *domain.Client, msg domain.ClientMessage) {
		h.Reply(client.ID, msg.Type, msg.RequestID, nil, nil)
	}), nil)

	conn := newFakeConn()
	go h.Serve(h.NewClient("conn-1", conn))
	readEvent(t, conn.out)

	conn.in <- []byte(`{"type":"setReady","requestId":"r1"}`)
	conn.in <- []byte(`{"type":"setReady","requestId":"r2"}`)

	first := readEvent(t, conn.out)
	assert.True(t, *first.Success)

	second := readEvent(t, conn.out)
	assert.Equal(t, "r2", second.RequestID)
	assert.False(t, *second.Success)
	assert.Equal(t, domain.ReasonRateLimited, second.Error.Code)
	close(conn.in)
}

func TestBroadcast(t *testing.T) {
	mirror := &recordingMirror{}
	h := startHub(t, Options{Mirror: mirror})

	a := h.NewClient("a", newFakeConn())
	b := h.NewClient("b", newFakeConn())
	other := h.NewClient("c", newFakeConn())
	for _, c := range []*domain.Client{a, b, other} {
		require.True(t, h.RegisterClient(c))
	}
	h.Join("111111", "a")
	h.Join("111111", "b")
	h.Join("222222", "c")
	assert.Equal(t, 2, h.RoomMemberCount("111111"))

	h.Broadcast("111111", domain.EventPlayerList, []string{"a", "b"})
	h.BroadcastExcept("111111", "a", domain.EventSubmitQuestions, map[string]int{"questionsPerPlayer": 2})

	ev := readEvent(t, a.Send)
	assert.Equal(t, domain.EventPlayerList, ev.Type)
	assert.Equal(t, "111111", ev.RoomCode)
	assert.Empty(t, a.Send, "excluded connection must not receive the prompt")

	assert.Equal(t, domain.EventPlayerList, readEvent(t, b.Send).Type)
	assert.Equal(t, domain.EventSubmitQuestions, readEvent(t, b.Send).Type)
	assert.Empty(t, other.Send)

	mirror.mu.Lock()
	assert.Len(t, mirror.frames["111111"], 2)
	mirror.mu.Unlock()

	h.Leave("111111", "b")
	h.Broadcast("111111", domain.EventPlayerList, []string{"a"})
	readEvent(t, a.Send)
	assert.Empty(t, b.Send)
}

func TestFullBufferDrops(t *testing.T) {
	h := startHub(t, Options{SendBuffer: 1})

	slow := h.NewClient("slow", newFakeConn())
	require.True(t, h.RegisterClient(slow))
	h.Join("111111", "slow")

	done := make(chan struct{})
	go func() {
		h.Broadcast("111111", domain.EventReadyUpdate, 1)
		h.Broadcast("111111", domain.EventReadyUpdate, 2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a full client")
	}
	assert.Len(t, slow.Send, 1)
}

func TestUnregisterLeavesGroups(t *testing.T) {
	h := startHub(t, Options{})

	a := h.NewClient("a", newFakeConn())
	require.True(t, h.RegisterClient(a))
	h.Join("111111", "a")

	h.UnregisterClient(a)

	_, open := <-a.Send
	assert.False(t, open)
	assert.Equal(t, 0, h.RoomMemberCount("111111"))
	assert.Equal(t, 0, h.ClientCount())

	// late events for a gone connection are ignored
	h.Unicast("a", domain.EventConnected, nil)
	h.Broadcast("111111", domain.EventPlayerList, nil)
}

func TestStoppedHubRejectsClients(t *testing.T) {
	h := NewHub(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	a := h.NewClient("a", newFakeConn())
	require.True(t, h.RegisterClient(a))

	cancel()
	<-stopped

	_, open := <-a.Send
	assert.False(t, open, "shutdown closes every client")
	assert.False(t, h.RegisterClient(h.NewClient("b", newFakeConn())))
}
