package match

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dawgdevv/4-rows-game/internal/domain"
)

// Registry is the process-wide table of live matches keyed by room code.
// It is the only component that creates or destroys matches. Registry
// operations serialize on the registry mutex; per-match operations take the
// match's own mutex, so independent matches never block each other.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Match
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Match),
	}
}

// CreateRoom allocates a fresh room code and a waiting match with the caller
// bound as player 1. Code generation retries on collision up to a bound and
// fails with ErrInternalFault if exhausted.
func (r *Registry) CreateRoom(clientID, name string) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var code string
	for attempt := 0; ; attempt++ {
		if attempt >= maxCodeAttempts {
			return nil, domain.ErrInternalFault
		}
		candidate, err := randomCode()
		if err != nil {
			return nil, err
		}
		if _, taken := r.rooms[candidate]; !taken {
			code = candidate
			break
		}
	}

	m := NewPvPMatch(code, clientID, name)
	r.rooms[code] = m

	log.Printf("[REGISTRY] Created room %s for client %s (%d live)", code, clientID, len(r.rooms))
	return m, nil
}

// CreateBotMatch creates a match already in play with the bot in slot 2,
// keyed by an internal id rather than a shareable room code.
func (r *Registry) CreateBotMatch(clientID, name string) *Match {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := "bot-" + uuid.NewString()
	m := NewBotMatch(id, clientID, name)
	r.rooms[id] = m

	log.Printf("[REGISTRY] Created bot match %s for client %s (%d live)", id, clientID, len(r.rooms))
	return m
}

// JoinRoom resolves the code and fills slot 2. The match's own Join guards
// against double-joining, so the registry only needs a read lock here.
func (r *Registry) JoinRoom(code, clientID, name string) (*Match, int, error) {
	r.mu.RLock()
	m, exists := r.rooms[code]
	r.mu.RUnlock()

	if !exists {
		return nil, 0, domain.ErrRoomNotFound
	}

	playerNum, err := m.Join(clientID, name)
	if err != nil {
		return nil, 0, err
	}
	return m, playerNum, nil
}

func (r *Registry) Find(code string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, exists := r.rooms[code]
	return m, exists
}

// Remove deletes the entry, freeing the room code for reuse.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[code]; exists {
		delete(r.rooms, code)
		log.Printf("[REGISTRY] Removed room %s (%d live)", code, len(r.rooms))
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// RemoveIdle destroys matches that are abandoned or have seen no activity
// for longer than maxIdle. Returns the number removed.
func (r *Registry) RemoveIdle(maxIdle time.Duration) int {
	now := time.Now()

	r.mu.RLock()
	var stale []string
	for code, m := range r.rooms {
		if m.Status() == StatusAbandoned || m.IdleFor(now) > maxIdle {
			stale = append(stale, code)
		}
	}
	r.mu.RUnlock()

	if len(stale) == 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for _, code := range stale {
		if _, exists := r.rooms[code]; exists {
			delete(r.rooms, code)
			removed++
		}
	}
	return removed
}
