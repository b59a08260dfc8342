package auth

import (
	"fmt"
	"net/http"
	"time"
)

const (
	// SessionCookieName is the name of the sign-in session cookie.
	SessionCookieName = "stackex_session"
)

// SessionManager handles encrypted sign-in cookies.
type SessionManager struct {
	sealer   *sealer
	duration time.Duration
	secure   bool // Use Secure flag on cookies (for HTTPS)
}

// Session is the data stored in the encrypted cookie. Subject is the user id
// that owns saved stacks.
type Session struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSessionManager creates a new session manager with the given encryption key.
// The key must be exactly 32 bytes for AES-256.
func NewSessionManager(key []byte, duration time.Duration, secure bool) (*SessionManager, error) {
	s, err := newSealer(key)
	if err != nil {
		return nil, fmt.Errorf("session %w", err)
	}
	return &SessionManager{sealer: s, duration: duration, secure: secure}, nil
}

// Create writes an encrypted session cookie.
func (sm *SessionManager) Create(w http.ResponseWriter, session *Session) error {
	session.CreatedAt = time.Now()
	session.ExpiresAt = session.CreatedAt.Add(sm.duration)

	encoded, err := sm.sealer.seal(session)
	if err != nil {
		return fmt.Errorf("failed to seal session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(sm.duration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   sm.secure,
	})
	return nil
}

// Get retrieves and validates the session from the cookie.
func (sm *SessionManager) Get(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, fmt.Errorf("session cookie not found: %w", err)
	}

	var session Session
	if err := sm.sealer.open(cookie.Value, &session); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("session expired")
	}
	return &session, nil
}

// Clear clears the session cookie.
func (sm *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   sm.secure,
	})
}

// ResolveUser implements UserResolver.
func (sm *SessionManager) ResolveUser(r *http.Request) (*User, bool) {
	session, err := sm.Get(r)
	if err != nil {
		return nil, false
	}
	return &User{ID: session.Subject, Email: session.Email, Name: session.Name}, true
}
