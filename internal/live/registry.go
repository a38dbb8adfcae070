package live

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/3-lines-studio/starter/internal/component"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClaimed  = errors.New("session already claimed")
)

const DefaultTTL = time.Minute

// Factory builds a fresh root component for every page load.
type Factory func() component.Component

type Options struct {
	// Strict wraps every root in component.Strict.
	Strict bool
	// TTL bounds how long a rendered page may take to claim its session.
	TTL time.Duration
}

type entry struct {
	session *Session
	claimed bool
}

// Registry owns the mounted sessions of a server.
type Registry struct {
	factory Factory
	opts    Options
	log     *logrus.Entry
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewRegistry(factory Factory, opts Options) *Registry {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Registry{
		factory:  factory,
		opts:     opts,
		log:      logrus.WithField("component", "live"),
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Mount instantiates a root component under a new session id.
func (r *Registry) Mount() *Session {
	root := r.factory()
	if r.opts.Strict {
		root = component.Strict(root)
	}

	s := &Session{
		id:      xid.New().String(),
		created: r.now(),
		root:    root,
	}
	if a, ok := root.(component.Attachable); ok {
		a.SetRenderer(s)
	}

	r.mu.Lock()
	r.sessions[s.id] = &entry{session: s}
	r.mu.Unlock()

	r.log.WithField("session", s.id).Debug("mounted")
	return s
}

// Claim hands the session to a socket. A session can be claimed once.
func (r *Registry) Claim(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if e.claimed {
		return nil, ErrSessionClaimed
	}
	e.claimed = true
	return e.session, nil
}

// Unmount drops the session and its state.
func (r *Registry) Unmount(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	r.log.WithField("session", id).Debug("unmounted")
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep unmounts sessions that were never claimed within the TTL and reports
// how many were dropped.
func (r *Registry) Sweep() int {
	deadline := r.now().Add(-r.opts.TTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, e := range r.sessions {
		if !e.claimed && e.session.created.Before(deadline) {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps expired sessions until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.opts.TTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.WithFields(logrus.Fields{
					"expired": n,
					"open":    r.Len(),
				}).Debug("expired unclaimed sessions")
			}
		}
	}
}
