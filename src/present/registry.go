package present

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stake-plus/capapp/src/factcheck"
)

var (
	ErrSessionGone = errors.New("present: session expired or unknown")
	ErrNotOwner    = errors.New("present: only the requester can navigate these results")
)

// DefaultPageTimeout is how long pagination controls stay live.
const DefaultPageTimeout = 120 * time.Second

type registered struct {
	session *Session
	timer   *time.Timer
}

// Registry tracks live pagination sessions until they expire.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*registered
	ttl      time.Duration
	newID    func() string
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultPageTimeout
	}
	return &Registry{
		sessions: make(map[string]*registered),
		ttl:      ttl,
		newID:    uuid.NewString,
	}
}

// Open registers a session over records. onExpire, when set, receives the frozen view
// once the timeout elapses so the caller can disable the controls on the message.
func (r *Registry) Open(ownerID, statement string, records []factcheck.ClaimRecord, onExpire func(View)) *Session {
	s := NewSession(r.newID(), ownerID, statement, records)

	r.mu.Lock()
	defer r.mu.Unlock()
	reg := &registered{session: s}
	reg.timer = time.AfterFunc(r.ttl, func() {
		if !r.remove(s.ID) {
			return
		}
		s.Expire()
		if onExpire != nil {
			onExpire(s.View())
		}
	})
	r.sessions[s.ID] = reg
	return s
}

// Navigate steps session id on behalf of userID.
func (r *Registry) Navigate(id, userID string, dir Direction) (View, error) {
	s, ok := r.Get(id)
	if !ok {
		return View{}, ErrSessionGone
	}
	if s.OwnerID != userID {
		return View{}, ErrNotOwner
	}
	if s.Expired() {
		return View{}, ErrSessionGone
	}
	return s.Step(dir), nil
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return reg.session, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops every pending expiry and expires all sessions without callbacks.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, reg := range r.sessions {
		reg.timer.Stop()
		reg.session.Expire()
		delete(r.sessions, id)
	}
}

func (r *Registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}
