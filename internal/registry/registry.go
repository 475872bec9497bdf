package registry

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/akhirox/chbk/core/internal/model"
)

var ErrCodeConflict = errors.New("code conflict")

type entry struct {
	room         *model.Room
	lastActivity time.Time
}

// Registry is the process-wide room index. Rooms live in memory for the
// session lifetime only; idle ones are reclaimed by Sweep.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*entry
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{
		rooms:  make(map[string]*entry),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Create(room *model.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.Code]; exists {
		return ErrCodeConflict
	}
	r.rooms[room.Code] = &entry{
		room:         room,
		lastActivity: r.now(),
	}
	return nil
}

func (r *Registry) Get(code string) (*model.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rooms[code]
	if !ok {
		return nil, false
	}
	return e.room, true
}

func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, code)
}

// Touch marks the room active. Called on every accepted action so Sweep
// only reclaims rooms nobody plays in anymore.
func (r *Registry) Touch(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.rooms[code]; ok {
		e.lastActivity = r.now()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

// Sweep removes every room idle for longer than ttl and reports how many
// were reclaimed.
func (r *Registry) Sweep(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	deadline := r.now().Add(-ttl)
	evicted := 0
	for code, e := range r.rooms {
		if e.lastActivity.Before(deadline) {
			delete(r.rooms, code)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Info("idle rooms reclaimed", "count", evicted, "ttl", ttl)
	}
	return evicted
}
