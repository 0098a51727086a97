package editor

import (
	"context"
	"sync"

	"backend-racepath/internal/route"

	"github.com/google/uuid"
)

// Manager owns the in-memory editing sessions. Sessions are single-author,
// single-session state; persistence only happens on Commit.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	routes   *route.Service
	opts     Options
}

func NewManager(routes *route.Service, opts Options) *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		routes:   routes,
		opts:     opts,
	}
}

// Open starts a session, seeding the draft from an existing route when
// routeID is given.
func (m *Manager) Open(ctx context.Context, routeID string) (*Session, error) {
	draft := &route.Route{}
	if routeID != "" {
		rt, err := m.routes.GetRoute(ctx, routeID)
		if err != nil {
			return nil, err
		}
		draft = &rt
	}

	s := &Session{
		ID:     uuid.NewString(),
		draft:  draft,
		mode:   ModeFreeDraw,
		routes: m.routes,
		opts:   m.opts,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close drops the session and cancels any pending snap.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.mu.Lock()
		if s.snapTimer != nil {
			s.snapTimer.Stop()
			s.snapTimer = nil
		}
		s.mu.Unlock()
	}
}
