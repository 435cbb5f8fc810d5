// internal/session/session.go
//
// Signed-cookie session manager.
//
// Context
//   The admin console needs a "signed-in" flag that survives between
//   requests.  Manager sets or clears a cookie named "trix_session" whose
//   value is an HMAC-SHA256-signed payload:
//
//      base64url( uid | email | unixMicro | HMAC(secret, uid+email+ts) )
//
//   The signature prevents tampering; the timestamp bounds the lifetime to
//   MaxAge.  No server-side session table is required, keeping the system
//   multi-instance safe.
//
//   The Manager is an injected value (constructed in main from config),
//   not a package singleton, so tests can run several side by side with
//   different keys.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/trixgeo/trix-site/internal/auth"
)

const (
	cookieName = "trix_session"
	maxAge     = 14 * 24 * time.Hour
)

// Manager signs and verifies session cookies with one process-wide key.
type Manager struct {
	key []byte
}

// NewManager derives the signing key from the configured secret.  The
// secret is hashed so short keys still yield a full-width HMAC key.
func NewManager(secret string) *Manager {
	sum := sha256.Sum256([]byte(secret))
	return &Manager{key: sum[:]}
}

// Issue sets a session cookie for id.  Callers invoke this after
// credential verification succeeds.
func (m *Manager) Issue(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	now := time.Now()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    m.encode(id, now),
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS(r), // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(maxAge),
	})
}

// isHTTPS reports whether the request arrived over TLS, directly or via a
// TLS-terminating proxy.  Behind the proxy r.TLS is nil, so like the
// ForceHTTPS middleware we trust X-Forwarded-Proto; without this the
// long-lived admin cookie would be issued without the Secure attribute.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

// Clear removes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Identity returns the identity stored in the request's session cookie.
// ok == false when the cookie is missing, expired, or fails verification.
func (m *Manager) Identity(r *http.Request) (auth.Identity, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return auth.Identity{}, false
	}
	return m.decode(c.Value)
}

// Middleware attaches the session identity, when present, to the request
// context.  Requests without a valid session pass through unchanged; the
// access gate downstream treats the missing identity as Denied.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := m.Identity(r); ok {
			r = r.WithContext(auth.WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

/*──────────────────────── payload encoding ────────────────────────────────*/

func (m *Manager) encode(id auth.Identity, now time.Time) string {
	ts := strconv.FormatInt(now.UnixMicro(), 10)
	payload := id.UID + "|" + id.Email + "|" + ts
	return base64.RawURLEncoding.EncodeToString(
		append([]byte(payload+"|"), m.sign(payload)...))
}

func (m *Manager) decode(value string) (auth.Identity, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return auth.Identity{}, false
	}

	// payload = uid | email | ts; the signature follows the final "|".
	parts := strings.SplitN(string(raw), "|", 4)
	if len(parts) != 4 {
		return auth.Identity{}, false
	}
	payload := parts[0] + "|" + parts[1] + "|" + parts[2]
	if !hmac.Equal([]byte(parts[3]), m.sign(payload)) {
		return auth.Identity{}, false
	}

	micro, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return auth.Identity{}, false
	}
	issued := time.UnixMicro(micro)
	if time.Since(issued) > maxAge || time.Until(issued) > time.Minute {
		// Expired, or a future timestamp beyond clock skew.
		return auth.Identity{}, false
	}

	return auth.Identity{UID: parts[0], Email: parts[1]}, true
}

func (m *Manager) sign(payload string) []byte {
	mac := hmac.New(sha256.New, m.key)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
