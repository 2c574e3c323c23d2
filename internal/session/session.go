// Package session keeps calculator sessions keyed by ID. Two backends
// are provided: an in-process map for single-instance deployments and
// Redis for state shared across instances.
package session

import (
	"context"
	"errors"
	"time"

	"deskcalc/internal/engine"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Session is one calculator instance together with its machine state.
type Session struct {
	ID        string       `json:"id"`
	State     engine.State `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Store persists sessions until their TTL runs out. Apply folds events
// into the stored state as one read-modify-write and returns the state
// the events were applied to alongside the updated session, so callers
// can observe the whole transition rather than just its result.
type Store interface {
	Create(ctx context.Context) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Apply(ctx context.Context, id string, evs ...engine.Event) (engine.State, Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Config holds session store configuration.
type Config struct {
	TTL       time.Duration
	RedisAddr string
	Prefix    string
}

// DefaultConfig returns the default session store configuration.
func DefaultConfig() Config {
	return Config{
		TTL:    30 * time.Minute,
		Prefix: "calc:session:",
	}
}
