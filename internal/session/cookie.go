package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// CookieName is the signed cookie holding the browser's session.
const CookieName = "urbanhomes_session"

const (
	stateKey     = "state"
	cookieMaxAge = 30 * 24 * 60 * 60
)

// NewCookieStore returns the signed cookie store shared by every request.
func NewCookieStore(key []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CookieBackend persists one request's session in a signed cookie. Save and
// Clear write Set-Cookie headers, so they must run before the response body.
type CookieBackend struct {
	store sessions.Store
	r     *http.Request
	w     http.ResponseWriter
}

func NewCookieBackend(store sessions.Store, w http.ResponseWriter, r *http.Request) *CookieBackend {
	return &CookieBackend{store: store, r: r, w: w}
}

func (b *CookieBackend) Load() (State, error) {
	sess, err := b.store.Get(b.r, CookieName)
	if err != nil {
		// A cookie signed with an old key decodes as an empty session.
		return State{}, nil
	}
	raw, ok := sess.Values[stateKey].(string)
	if !ok || raw == "" {
		return State{}, nil
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, nil
	}
	return st, nil
}

func (b *CookieBackend) Save(st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	sess, _ := b.store.Get(b.r, CookieName)
	sess.Values[stateKey] = string(raw)
	sess.Options.MaxAge = cookieMaxAge
	return sess.Save(b.r, b.w)
}

func (b *CookieBackend) Clear() error {
	sess, _ := b.store.Get(b.r, CookieName)
	delete(sess.Values, stateKey)
	sess.Options.MaxAge = -1
	return sess.Save(b.r, b.w)
}
