package holdings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrUnknownSession = errors.New("unknown session")

type session struct {
	store    *Store
	lastSeen time.Time
}

// Registry owns one Store per session id. Nothing is persisted; a session's
// holdings disappear when it is swept or the process exits.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	log      *logrus.Logger
}

func NewRegistry(ttl time.Duration, log *logrus.Logger) *Registry {
	return &Registry{
		sessions: map[string]*session{},
		ttl:      ttl,
		now:      time.Now,
		log:      log,
	}
}

// Create starts an empty session and returns its id.
func (r *Registry) Create() (string, *Store) {
	id := uuid.New().String()
	st := NewStore()

	r.mu.Lock()
	r.sessions[id] = &session{store: st, lastSeen: r.now()}
	r.mu.Unlock()

	r.log.Debugf("session %s created", id)
	return id, st
}

// Get returns the store for id and marks the session as active.
func (r *Registry) Get(id string) (*Store, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUnknownSession
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	s.lastSeen = r.now()
	return s.store, nil
}

// Sweep drops sessions idle for longer than the ttl and returns how many went.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Start sweeps idle sessions every interval until ctx is done.
func (r *Registry) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				r.log.Info("session sweeper stopping")
				return
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					r.log.Infof("evicted %d idle sessions", n)
				}
			}
		}
	}()
}
