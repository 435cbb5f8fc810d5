// internal/session/session_test.go
//
// Round-trip and tamper tests for the signed-cookie session.

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trixgeo/trix-site/internal/auth"
)

func issueAndRead(t *testing.T, issuer, reader *Manager) (auth.Identity, bool) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	issuer.Issue(rec, req, auth.Identity{UID: "uid-123", Email: "luis@trixgeo.com"})

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	next := httptest.NewRequest(http.MethodGet, "/admin", nil)
	next.AddCookie(cookies[0])
	return reader.Identity(next)
}

func TestSessionRoundTrip(t *testing.T) {
	m := NewManager("unit-test-secret")

	id, ok := issueAndRead(t, m, m)
	if !ok {
		t.Fatal("expected valid session")
	}
	if id.UID != "uid-123" || id.Email != "luis@trixgeo.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestSessionRejectsForeignKey(t *testing.T) {
	if _, ok := issueAndRead(t, NewManager("key-a"), NewManager("key-b")); ok {
		t.Fatal("cookie signed with another key must not verify")
	}
}

func TestSessionRejectsTampering(t *testing.T) {
	m := NewManager("unit-test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	m.Issue(rec, req, auth.Identity{UID: "uid-123", Email: "luis@trixgeo.com"})
	c := rec.Result().Cookies()[0]

	// Flip one character of the payload.
	mutated := []byte(c.Value)
	mutated[0] ^= 0x01
	c.Value = string(mutated)

	next := httptest.NewRequest(http.MethodGet, "/admin", nil)
	next.AddCookie(c)
	if _, ok := m.Identity(next); ok {
		t.Fatal("tampered cookie must not verify")
	}
}

func TestSessionCookieSecureBehindProxy(t *testing.T) {
	m := NewManager("unit-test-secret")

	// Plain HTTP, no proxy header: the cookie may stay non-Secure (dev).
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	m.Issue(rec, req, auth.Identity{UID: "u", Email: "luis@trixgeo.com"})
	if rec.Result().Cookies()[0].Secure {
		t.Fatal("plain-HTTP dev request should not mark the cookie Secure")
	}

	// Behind a TLS-terminating proxy r.TLS is nil; the forwarded proto
	// must still yield a Secure cookie.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	m.Issue(rec, req, auth.Identity{UID: "u", Email: "luis@trixgeo.com"})
	if !rec.Result().Cookies()[0].Secure {
		t.Fatal("proxied HTTPS request must mark the cookie Secure")
	}
}

func TestSessionMissingCookie(t *testing.T) {
	m := NewManager("unit-test-secret")
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if _, ok := m.Identity(req); ok {
		t.Fatal("request without cookie must report no identity")
	}
}
