// internal/mirror/mirror_test.go
//
// httptest-backed tests for the mirror client's wire contract.

package mirror

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trixgeo/trix-site/internal/metadata"
	"github.com/trixgeo/trix-site/internal/submission"
)

func sample(kind submission.Kind) *submission.Submission {
	return &submission.Submission{
		Kind:        kind,
		Name:        "Ana",
		Email:       "ana@x.com",
		Message:     "Hola",
		Phone:       "8095551234",
		CountryCode: "+1",
		HasWhatsApp: true,
		Company:     "Geomatrix",
		Meta: metadata.Record{
			UserAgent: "test-agent",
			Browser:   "Chrome",
			OS:        "macOS",
			Device:    "Escritorio",
			Language:  "es-DO",
		},
	}
}

func TestSendContact(t *testing.T) {
	var (
		gotPath string
		gotKey  string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "k-123")
	if err := c.SendContact(context.Background(), sample(submission.KindContact)); err != nil {
		t.Fatalf("SendContact: %v", err)
	}

	if gotPath != "/send-email" {
		t.Errorf("path = %q, want /send-email", gotPath)
	}
	if gotKey != "k-123" {
		t.Errorf("X-API-Key = %q, want k-123", gotKey)
	}
	if gotBody["email_type"] != "contact" {
		t.Errorf("email_type = %v, want contact", gotBody["email_type"])
	}
	if gotBody["phone"] != "+18095551234" {
		t.Errorf("phone = %v, want +18095551234", gotBody["phone"])
	}

	meta, _ := gotBody["meta"].(map[string]any)
	if meta["utm_campaign"] != "trix_website_2025" || meta["page"] != "contact" {
		t.Errorf("contact meta tags wrong: %v", meta)
	}
	if meta["browser"] != "Chrome" || meta["source"] != "website" {
		t.Errorf("meta = %v", meta)
	}
}

func TestSendDemo(t *testing.T) {
	var (
		gotPath string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, "k-123")
	if err := c.SendDemo(context.Background(), sample(submission.KindDemo)); err != nil {
		t.Fatalf("SendDemo: %v", err)
	}

	if gotPath != "/request-demo" {
		t.Errorf("path = %q, want /request-demo", gotPath)
	}
	if gotBody["company"] != "Geomatrix" {
		t.Errorf("company = %v", gotBody["company"])
	}

	meta, _ := gotBody["meta"].(map[string]any)
	if meta["utm_campaign"] != "demo_request_2024" || meta["priority"] != "high" {
		t.Errorf("demo meta tags wrong: %v", meta)
	}
}

// A non-2xx answer surfaces as an error for the worker to log.
func TestNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "k-123")
	if err := c.SendContact(context.Background(), sample(submission.KindContact)); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}
