// Package sessions binds browser sessions to delivery controllers.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KaranKool/mishtee-mitra/internal/delivery"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

// Session is one browser tab's dashboard. Its Controller is the only owner
// of the delivery state.
type Session struct {
	ID         string
	Controller *delivery.Controller
	CreatedAt  time.Time

	lastSeen time.Time
}

// Registry keeps sessions in memory. Nothing survives a restart; every new
// session starts at LOGIN.
type Registry struct {
	mu            sync.Mutex
	sessions      map[string]*Session
	limit         int
	newController func() *delivery.Controller
	now           func() time.Time
}

// NewRegistry returns an empty registry holding at most limit sessions.
// A limit of zero or less means unbounded.
func NewRegistry(newController func() *delivery.Controller, limit int) *Registry {
	return &Registry{
		sessions:      make(map[string]*Session),
		limit:         limit,
		newController: newController,
		now:           time.Now,
	}
}

// Create registers a fresh session, or fails with ErrTooManySessions when
// the registry is full.
func (r *Registry) Create() (*Session, error) {
	now := r.now()
	s := &Session{
		ID:         uuid.NewString(),
		Controller: r.newController(),
		CreatedAt:  now,
		lastSeen:   now,
	}

	r.mu.Lock()
	if r.limit > 0 && len(r.sessions) >= r.limit {
		r.mu.Unlock()
		return nil, utils.ErrTooManySessions
	}
	r.sessions[s.ID] = s
	r.mu.Unlock()

	utils.Logger.WithField("session", s.ID).Debug("Session created")
	return s, nil
}

// Detached returns a session at LOGIN that is not registered. It has no ID
// and is forgotten after the request.
func (r *Registry) Detached() *Session {
	return &Session{Controller: r.newController(), CreatedAt: r.now()}
}

// Get returns the session and marks it as active.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	s.lastSeen = r.now()
	return s, nil
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions not seen for longer than idle and reports how many
// were removed. A session in the middle of a call is kept.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.After(cutoff) || s.Controller.State().Loading {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	if removed > 0 {
		utils.Logger.Infof("Swept %d idle sessions, %d remain", removed, len(r.sessions))
	}
	return removed
}
