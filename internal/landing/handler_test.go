// internal/landing/handler_test.go

package landing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/trixgeo/trix-site/internal/countries"
	"github.com/trixgeo/trix-site/internal/message"
	"github.com/trixgeo/trix-site/internal/pipeline"
	"github.com/trixgeo/trix-site/internal/requestinfo"
	"github.com/trixgeo/trix-site/internal/submission"
)

func newTestRouter(t *testing.T) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := submission.NewStore(sqlx.NewDb(db, "mysql"))
	pipe := pipeline.New(store, message.New(4), nil, nil)

	r := chi.NewRouter()
	NewHandler(pipe, countries.New()).Routes(r)
	return r, mock
}

func TestPostContact(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectExec("INSERT INTO contactos").
		WillReturnResult(sqlmock.NewResult(11, 1))

	body := `{
	  "nombre": "Ana", "email": "ana@example.com", "mensaje": "Hola",
	  "cliente": {"resolucion": "1920x1080", "zona_horaria": "America/Santo_Domingo"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("User-Agent", "Mozilla/5.0 Chrome/120.0")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		OK bool  `json:"ok"`
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.ID != 11 {
		t.Fatalf("resp = %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostContactMissingFields(t *testing.T) {
	r, mock := newTestRouter(t)
	// No insert expectation: invalid input must not reach the store.

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"nombre": "Ana"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostContactStoreFailureIsVisible(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectExec("INSERT INTO contactos").
		WillReturnError(context.DeadlineExceeded)

	body := `{"nombre": "Ana", "email": "ana@example.com", "mensaje": "Hola"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestPostDemoRequiresCompany(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"nombre": "Luis", "email": "luis@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/demo", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPostDemo(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectExec("INSERT INTO demo_requests").
		WillReturnResult(sqlmock.NewResult(5, 1))

	body := `{"nombre": "Luis", "email": "luis@example.com", "empresa": "Geomatrix"}`
	req := httptest.NewRequest(http.MethodPost, "/api/demo", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestCollectMetaSupplements(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 Chrome/120.0 Safari/537.36")
	req = req.WithContext(requestinfo.WithInfo(req.Context(), &requestinfo.RequestInfo{
		UA:  requestinfo.UA{IsBot: true, Version: "120.0"},
		Geo: requestinfo.Geo{CountryISO: "DO", City: "Santo Domingo"},
	}))

	rec := collectMeta(req, clientHints{Resolution: "1920x1080"})

	if !rec.IsBot || rec.BrowserVersion != "120.0" {
		t.Fatalf("UA supplements not applied: %+v", rec)
	}
	if rec.CountryISO != "DO" || rec.City != "Santo Domingo" {
		t.Fatalf("geo supplements not applied: %+v", rec)
	}
	// The ordered probes still own the classification fields.
	if rec.Browser != "Chrome" || rec.Resolution != "1920x1080" {
		t.Fatalf("classification fields disturbed: %+v", rec)
	}
}

func TestCollectMetaWithoutEnrichment(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)

	rec := collectMeta(req, clientHints{})

	// No middleware ran: supplements stay zero, defaults still apply.
	if rec.IsBot || rec.CountryISO != "" || rec.City != "" {
		t.Fatalf("supplements set without enrichment: %+v", rec)
	}
	if rec.Browser != "Desconocido" {
		t.Fatalf("browser = %q, want Desconocido", rec.Browser)
	}
}

func TestPostContactBadJSON(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
