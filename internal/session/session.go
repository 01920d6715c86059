package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/vbonduro/urbanhomes/internal/domain"
)

// State is the client-owned session: the logged-in user and bearer token.
type State struct {
	User  *domain.User `json:"user,omitempty"`
	Token string       `json:"token,omitempty"`
}

func (s State) IsAuthenticated() bool { return s.Token != "" }

// Backend persists session state between requests or process runs.
type Backend interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// InvalidateFunc runs after Logout with the state that was cleared.
type InvalidateFunc func(prev State)

// Session owns one session's state. It is never shared globally: the web
// front creates one per request, the CLI one per process.
type Session struct {
	mu           sync.RWMutex
	state        State
	backend      Backend
	onInvalidate []InvalidateFunc
}

func New(backend Backend) *Session {
	return &Session{backend: backend}
}

// Rehydrate replaces the in-memory state with what the backend holds.
func (s *Session) Rehydrate() error {
	st, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

func (s *Session) Login(user domain.User, token string) error {
	st := State{User: &user, Token: token}
	if err := s.backend.Save(st); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// Logout clears the state and the persisted copy, then runs every
// invalidation callback with the previous state. State is cleared even when
// the backend fails.
func (s *Session) Logout() error {
	s.mu.Lock()
	prev := s.state
	s.state = State{}
	callbacks := append([]InvalidateFunc(nil), s.onInvalidate...)
	s.mu.Unlock()

	err := s.backend.Clear()
	for _, fn := range callbacks {
		fn(prev)
	}
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// OnInvalidate registers fn to run on every Logout.
func (s *Session) OnInvalidate(fn InvalidateFunc) {
	s.mu.Lock()
	s.onInvalidate = append(s.onInvalidate, fn)
	s.mu.Unlock()
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) User() *domain.User {
	return s.State().User
}

func (s *Session) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

// Token makes Session an apiclient.TokenSource.
func (s *Session) Token(context.Context) string {
	return s.State().Token
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// Anonymous hides any session stored in ctx, so calls made with the result
// carry no bearer token.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, (*Session)(nil))
}

// FromContext returns the request's session, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// ContextTokens reads the bearer token from the session stored in the request
// context. It lets one shared API client serve every request.
type ContextTokens struct{}

func (ContextTokens) Token(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.Token(ctx)
	}
	return ""
}

// MemoryBackend keeps state in memory only.
type MemoryBackend struct {
	mu    sync.Mutex
	state State
}

func (m *MemoryBackend) Load() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *MemoryBackend) Save(st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
	return nil
}

func (m *MemoryBackend) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
	return nil
}
