package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"deskcalc/internal/engine"
)

type memoryEntry struct {
	sess      Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in an in-process map. Expired entries are
// dropped lazily on access and by a background janitor.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	ttl      time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a memory-backed store and starts its janitor.
func NewMemoryStore(cfg Config) *MemoryStore {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}

	s := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      cfg.TTL,
		stop:     make(chan struct{}),
	}
	go s.janitor()

	return s
}

func (s *MemoryStore) Create(ctx context.Context) (Session, error) {
	now := time.Now()
	sess := Session{
		ID:        uuid.New().String(),
		State:     engine.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = &memoryEntry{sess: sess, expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()

	return sess, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	return e.sess, nil
}

func (s *MemoryStore) Apply(ctx context.Context, id string, evs ...engine.Event) (engine.State, Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(id)
	if !ok {
		return engine.State{}, Session{}, ErrNotFound
	}

	before := e.sess.State
	st := before
	for _, ev := range evs {
		st = st.Apply(ev)
	}

	now := time.Now()
	e.sess.State = st
	e.sess.UpdatedAt = now
	e.expiresAt = now.Add(s.ttl)

	return before, e.sess, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(id); !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Close stops the janitor. Stored sessions are not dropped, but the
// store is not meant to be used after Close.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// live returns the entry for id if it exists and has not expired.
// Expired entries are removed on the spot. Callers must hold mu.
func (s *MemoryStore) live(id string) (*memoryEntry, bool) {
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	return e, true
}

func (s *MemoryStore) janitor() {
	interval := s.ttl / 10
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
