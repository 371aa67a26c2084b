package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Flash kinds rendered as toasts.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// ReturnToKey remembers the page a signed-out user asked for.
const ReturnToKey = "return_to"

// FlashMessage represents a one-time toast stored in session.
type FlashMessage struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Identity describes the signed-in back-office user.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// SessionManager orchestrates cookie based sessions backed by Redis.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// Session holds per-request session data. The upstream bearer token lives here
// and nowhere else. Credentials may be read and cleared from concurrent
// upstream calls; everything else belongs to the request goroutine.
type Session struct {
	ID        string
	values    map[string]string
	flashes   []FlashMessage
	isNew     bool
	dirty     bool
	destroyed bool

	mu       sync.RWMutex
	identity Identity
	token    string
}

type sessionPayload struct {
	Values   map[string]string `json:"values"`
	Identity Identity          `json:"identity"`
	Token    string            `json:"token"`
	Flashes  []FlashMessage    `json:"flashes"`
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		client:     client,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Load loads or creates a new session for request.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return newSession(), nil
		}
		return nil, err
	}

	raw, err := sm.client.Get(ctx, sm.redisKey(cookie.Value)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return newSession(), nil
		}
		return nil, err
	}

	var stored sessionPayload
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}

	sess := newSession()
	sess.ID = cookie.Value
	if stored.Values != nil {
		sess.values = stored.Values
	}
	sess.identity = stored.Identity
	sess.token = stored.Token
	sess.flashes = stored.Flashes
	sess.isNew = false
	sess.dirty = false
	return sess, nil
}

// Commit persists the session and writes cookie headers as needed.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}

	if sess.destroyed {
		if err := sm.client.Del(ctx, sm.redisKey(sess.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sm.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   sm.secure,
			SameSite: http.SameSiteLaxMode,
		})
		return nil
	}

	if sess.dirty || sess.isNew {
		data, err := json.Marshal(sess.payload())
		if err != nil {
			return err
		}
		if err := sm.client.Set(ctx, sm.redisKey(sess.ID), data, sm.ttl).Err(); err != nil {
			return err
		}
		sess.dirty = false
		sess.isNew = false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sm.ttl),
	})
	return nil
}

// Destroy marks the session for deletion.
func (sm *SessionManager) Destroy(sess *Session) {
	if sess == nil {
		return
	}
	sess.destroyed = true
}

// TTL exposes the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// CookieName returns the cookie identifier used for sessions.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// Set stores a key-value pair.
func (s *Session) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.dirty = true
}

// Get retrieves a value.
func (s *Session) Get(key string) string {
	if s.values == nil {
		return ""
	}
	return s.values[key]
}

// Delete removes a value.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// SetJSON stores v encoded as JSON under key.
func (s *Session) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.Set(key, string(data))
	return nil
}

// GetJSON decodes the value under key into dest. It reports false when the key is absent.
func (s *Session) GetJSON(key string, dest any) (bool, error) {
	raw := s.Get(key)
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SignIn records the identity and upstream token after a successful login.
func (s *Session) SignIn(identity Identity, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.token = token
	s.dirty = true
}

// Logout drops the upstream credentials. Flashes and the session id survive so
// the login page can still explain why the user landed there.
func (s *Session) Logout() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = Identity{}
	s.token = ""
	s.dirty = true
}

// AccessToken returns the upstream bearer token, empty when signed out.
func (s *Session) AccessToken() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the signed-in user.
func (s *Session) Identity() Identity {
	if s == nil {
		return Identity{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// User returns the current user ID.
func (s *Session) User() string {
	return s.Identity().UserID
}

// SignedIn reports whether an upstream token is present.
func (s *Session) SignedIn() bool {
	return s.AccessToken() != ""
}

// AddFlash queues a flash message.
func (s *Session) AddFlash(msg FlashMessage) {
	s.flashes = append(s.flashes, msg)
	s.dirty = true
}

// PopFlash retrieves and clears the oldest flash message.
func (s *Session) PopFlash() *FlashMessage {
	if s == nil || len(s.flashes) == 0 {
		return nil
	}
	msg := s.flashes[0]
	s.flashes = s.flashes[1:]
	s.dirty = true
	return &msg
}

func (s *Session) payload() sessionPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sessionPayload{Values: s.values, Identity: s.identity, Token: s.token, Flashes: s.flashes}
}

func newSession() *Session {
	return &Session{
		ID:     uuid.NewString(),
		values: make(map[string]string),
		isNew:  true,
		dirty:  true,
	}
}

func (sm *SessionManager) redisKey(id string) string {
	return "backoffice:session:" + id
}
