package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"quiz-service/domain"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Router handles one decoded request frame. It runs on the client's read
// goroutine, so requests from one connection are handled in order.
type Router interface {
	Route(client *domain.Client, msg domain.ClientMessage)
}

type RouterFunc func(client *domain.Client, msg domain.ClientMessage)

func (f RouterFunc) Route(client *domain.Client, msg domain.ClientMessage) {
	f(client, msg)
}

// Mirror receives a copy of every frame broadcast to a room.
type Mirror interface {
	Mirror(code string, frame []byte)
}

type Options struct {
	SendBuffer        int
	MessagesPerSecond float64
	Burst             int
	Mirror            Mirror
}

type registration struct {
	client *domain.Client
	done   chan struct{}
}

// Hub owns the live connections and the room groups they are joined to. It
// implements game.Dispatcher.
type Hub struct {
	mutex   sync.RWMutex
	clients map[string]*domain.Client
	rooms   map[string]map[string]*domain.Client
	joined  map[string]string

	register   chan registration
	unregister chan *domain.Client
	quit       chan struct{}

	router       Router
	onDisconnect func(connID string)
	mirror       Mirror

	sendBuffer int
	msgRate    rate.Limit
	msgBurst   int
	now        func() time.Time
}

func NewHub(opts Options) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 256
	}
	msgRate := rate.Inf
	if opts.MessagesPerSecond > 0 {
		msgRate = rate.Limit(opts.MessagesPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	return &Hub{
		clients:    make(map[string]*domain.Client),
		rooms:      make(map[string]map[string]*domain.Client),
		joined:     make(map[string]string),
		register:   make(chan registration),
		unregister: make(chan *domain.Client),
		quit:       make(chan struct{}),
		mirror:     opts.Mirror,
		sendBuffer: opts.SendBuffer,
		msgRate:    msgRate,
		msgBurst:   opts.Burst,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Bind sets the request router and the hook called after a connection is
// gone. It must be called before the first Serve.
func (h *Hub) Bind(router Router, onDisconnect func(connID string)) {
	h.router = router
	h.onDisconnect = onDisconnect
}

func (h *Hub) NewClient(id string, conn domain.Conn) *domain.Client {
	return &domain.Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, h.sendBuffer),
		Done: make(chan struct{}),
	}
}

// Run processes registrations until ctx is cancelled, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.quit)

	for {
		select {
		case r := <-h.register:
			h.registerClient(r.client)
			close(r.done)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case <-ctx.Done():
			h.closeAll()
			zap.L().Info("websocket hub stopped")
			return
		}
	}
}

// RegisterClient returns once the client can receive events. It returns false
// when the hub has stopped.
func (h *Hub) RegisterClient(client *domain.Client) bool {
	r := registration{client: client, done: make(chan struct{})}
	select {
	case h.register <- r:
	case <-h.quit:
		return false
	}
	<-r.done
	return true
}

func (h *Hub) UnregisterClient(client *domain.Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
		h.unregisterClient(client)
	}
}

func (h *Hub) registerClient(client *domain.Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if existing, ok := h.clients[client.ID]; ok && existing != client {
		zap.L().Warn("connection id reused, closing previous client", zap.String("connection_id", client.ID))
		h.dropLocked(existing)
	}
	h.clients[client.ID] = client

	zap.L().Debug("client registered",
		zap.String("connection_id", client.ID),
		zap.Int("clients", len(h.clients)))
}

func (h *Hub) unregisterClient(client *domain.Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.clients[client.ID] != client {
		return
	}
	h.dropLocked(client)

	zap.L().Debug("client unregistered",
		zap.String("connection_id", client.ID),
		zap.Int("clients", len(h.clients)))
}

// dropLocked forgets client and closes its send channel. Senders only reach a
// client through the maps, so nothing sends on the closed channel.
func (h *Hub) dropLocked(client *domain.Client) {
	delete(h.clients, client.ID)
	if code, ok := h.joined[client.ID]; ok {
		h.leaveLocked(code, client.ID)
	}
	close(client.Send)
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, client := range h.clients {
		h.dropLocked(client)
	}
}

// Serve runs the client's pumps and returns when the connection is closed.
func (h *Hub) Serve(client *domain.Client) {
	if !h.RegisterClient(client) {
		client.Conn.Close()
		return
	}

	h.Unicast(client.ID, domain.EventConnected, map[string]string{"connectionId": client.ID})

	go h.writePump(client)
	h.readPump(client)
	<-client.Done
}

func (h *Hub) readPump(client *domain.Client) {
	defer func() {
		h.UnregisterClient(client)
		if h.onDisconnect != nil {
			h.onDisconnect(client.ID)
		}
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	limiter := rate.NewLimiter(h.msgRate, h.msgBurst)

	for {
		_, payload, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Warn("websocket read error", zap.String("connection_id", client.ID), zap.Error(err))
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil || msg.Type == "" {
			h.SendError(client.ID, fmt.Errorf("%w: malformed frame", domain.ErrInvalidInput))
			continue
		}

		if !limiter.Allow() {
			h.Reply(client.ID, msg.Type, msg.RequestID, nil, domain.ErrRateLimited)
			continue
		}

		h.route(client, msg)
	}
}

func (h *Hub) route(client *domain.Client, msg domain.ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("panic while handling message",
				zap.Any("panic", r),
				zap.String("type", msg.Type),
				zap.String("connection_id", client.ID),
				zap.ByteString("stack", debug.Stack()))
			h.Reply(client.ID, msg.Type, msg.RequestID, nil, fmt.Errorf("panic: %v", r))
		}
	}()

	if h.router == nil {
		h.Reply(client.ID, msg.Type, msg.RequestID, nil, domain.ErrUnknownEvent)
		return
	}
	h.router.Route(client, msg)
}

func (h *Hub) writePump(client *domain.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
		close(client.Done)
	}()

	for {
		select {
		case frame, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				zap.L().Warn("websocket write error", zap.String("connection_id", client.ID), zap.Error(err))
				h.drain(client)
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drain(client)
				return
			}
		}
	}
}

// drain discards frames until the hub closes the send channel. Closing the
// connection makes the read pump exit and unregister the client.
func (h *Hub) drain(client *domain.Client) {
	client.Conn.Close()
	for range client.Send {
	}
}

// Join adds a registered connection to a room group.
func (h *Hub) Join(code, connID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		zap.L().Debug("join for unknown connection", zap.String("code", code), zap.String("connection_id", connID))
		return
	}
	if prev, ok := h.joined[connID]; ok && prev != code {
		h.leaveLocked(prev, connID)
	}

	group, ok := h.rooms[code]
	if !ok {
		group = make(map[string]*domain.Client)
		h.rooms[code] = group
	}
	group[connID] = client
	h.joined[connID] = code
}

func (h *Hub) Leave(code, connID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.leaveLocked(code, connID)
}

func (h *Hub) leaveLocked(code, connID string) {
	group, ok := h.rooms[code]
	if !ok {
		return
	}
	delete(group, connID)
	if len(group) == 0 {
		delete(h.rooms, code)
	}
	if h.joined[connID] == code {
		delete(h.joined, connID)
	}
}

func (h *Hub) Broadcast(code, event string, payload any) {
	h.BroadcastExcept(code, "", event, payload)
}

func (h *Hub) BroadcastExcept(code, exceptConnID, event string, payload any) {
	frame, err := h.marshal(domain.ServerEvent{
		Type:      event,
		RoomCode:  code,
		Timestamp: h.now(),
		Payload:   payload,
	})
	if err != nil {
		zap.L().Error("failed to marshal broadcast", zap.String("event", event), zap.Error(err))
		return
	}

	h.mutex.RLock()
	for connID, client := range h.rooms[code] {
		if connID == exceptConnID {
			continue
		}
		h.enqueue(client, frame)
	}
	h.mutex.RUnlock()

	if h.mirror != nil {
		h.mirror.Mirror(code, frame)
	}
}

func (h *Hub) Unicast(connID, event string, payload any) {
	h.send(connID, domain.ServerEvent{
		Type:      event,
		Timestamp: h.now(),
		Payload:   payload,
	})
}

// Reply answers a request with a "<type>_result" frame. A nil err marks it
// successful; otherwise payload is dropped and the error is mapped to its
// reason code.
func (h *Hub) Reply(connID, requestType, requestID string, payload any, err error) {
	success := err == nil
	ev := domain.ServerEvent{
		Type:      requestType + "_result",
		RequestID: requestID,
		Success:   &success,
		Timestamp: h.now(),
	}
	if success {
		ev.Payload = payload
	} else {
		ev.Error = toWSError(connID, err)
	}
	h.send(connID, ev)
}

// SendError reports a frame that could not be attributed to a request.
func (h *Hub) SendError(connID string, err error) {
	h.send(connID, domain.ServerEvent{
		Type:      domain.EventError,
		Timestamp: h.now(),
		Error:     toWSError(connID, err),
	})
}

func toWSError(connID string, err error) *domain.WSError {
	reason, known := domain.Reason(err)
	if !known {
		zap.L().Error("request failed", zap.String("connection_id", connID), zap.Error(err))
		return &domain.WSError{Code: reason, Message: "internal error"}
	}
	return &domain.WSError{Code: reason, Message: err.Error()}
}

func (h *Hub) send(connID string, ev domain.ServerEvent) {
	frame, err := h.marshal(ev)
	if err != nil {
		zap.L().Error("failed to marshal event", zap.String("event", ev.Type), zap.Error(err))
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	h.enqueue(client, frame)
}

func (h *Hub) marshal(ev domain.ServerEvent) ([]byte, error) {
	return json.Marshal(ev)
}

// enqueue never blocks; a client that cannot keep up loses the frame.
func (h *Hub) enqueue(client *domain.Client, frame []byte) {
	select {
	case client.Send <- frame:
	default:
		zap.L().Warn("client send buffer full, dropping message", zap.String("connection_id", client.ID))
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomMemberCount(code string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[code])
}
