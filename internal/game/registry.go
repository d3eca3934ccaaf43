// internal/game/registry.go
package game

import "sync"

// Registry is the process-wide map of active lobbies, keyed by short code.
// It is constructed once at startup and passed into every handler; there is
// no package-level instance. The registry lock only covers the map itself.
// A lobby obtained from Get carries its own internal locks, and is what
// must be synchronized against before use.
type Registry struct {
	mu      sync.RWMutex
	lobbies map[string]*Lobby
}

// NewRegistry returns an empty lobby registry.
func NewRegistry() *Registry {
	return &Registry{lobbies: make(map[string]*Lobby)}
}

// Create builds a new waiting lobby from template segments under a fresh
// random code and inserts it. An existing code is never overwritten; on the
// (unlikely) collision a new code is generated.
func (r *Registry) Create(segments []string) (*Lobby, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		code, err := GenerateCode(codeLength)
		if err != nil {
			return nil, err
		}
		if _, exists := r.lobbies[code]; exists {
			continue
		}
		l := newLobby(code, segments)
		r.lobbies[code] = l
		return l, nil
	}
}

// Get looks up a lobby by code.
func (r *Registry) Get(code string) (*Lobby, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lobbies[code]
	return l, ok
}

// Codes returns a snapshot of the active lobby codes.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.lobbies))
	for code := range r.lobbies {
		codes = append(codes, code)
	}
	return codes
}

// Remove deletes a lobby and closes its broadcast channel, disconnecting
// any remaining subscribers. It reports whether the code existed.
func (r *Registry) Remove(code string) bool {
	r.mu.Lock()
	l, ok := r.lobbies[code]
	if ok {
		delete(r.lobbies, code)
	}
	r.mu.Unlock()

	if ok {
		l.Notify().Close()
	}
	return ok
}
