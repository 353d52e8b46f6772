package game

import "sync"

// ConnectionRegistry maps a connection to the code of the room it occupies.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	rooms map[string]string
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{rooms: make(map[string]string)}
}

func (r *ConnectionRegistry) Lookup(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.rooms[connID]
	return code, ok
}

// Claim records connID as occupying code. It fails if the connection already
// occupies a room.
func (r *ConnectionRegistry) Claim(connID, code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.rooms[connID]; taken {
		return false
	}
	r.rooms[connID] = code
	return true
}

// Release forgets connID if it is still recorded against code.
func (r *ConnectionRegistry) Release(connID, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[connID] == code {
		delete(r.rooms, connID)
	}
}

func (r *ConnectionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
