// internal/admin/handler.go
//
// Admin console API: sign-in, the merged submissions feed, deletion, and
// the CSV export.
//
// Context
// -------
// Every data route sits behind the access gate; the session middleware
// only attaches the identity, it never authorizes.  Sign-in renders one
// generic error for every failure cause so the form cannot be used to
// probe which emails exist.  Deletion is two-step: the request must carry
// an explicit confirmation or nothing happens.

package admin

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/trixgeo/trix-site/internal/authgate"
	"github.com/trixgeo/trix-site/internal/form"
	"github.com/trixgeo/trix-site/internal/metrics"
	"github.com/trixgeo/trix-site/internal/session"
	"github.com/trixgeo/trix-site/internal/submission"
)

// loginErrMsg is the single user-facing sign-in failure message.
const loginErrMsg = "Credenciales inválidas."

// Handler serves the admin API.
type Handler struct {
	db       *sql.DB
	store    *submission.Store
	sessions *session.Manager
	gate     *authgate.Gate
}

// NewHandler wires the admin dependencies.
func NewHandler(db *sql.DB, store *submission.Store, sessions *session.Manager, gate *authgate.Gate) *Handler {
	return &Handler{db: db, store: store, sessions: sessions, gate: gate}
}

// Routes mounts the admin API under /admin/api.  The session middleware
// and gate enforcement are applied here, not by the caller.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(h.sessions.Middleware)

		r.Get("/csrf", h.getCSRF)
		r.Post("/login", h.postLogin)
		r.Post("/logout", h.postLogout)

		r.Group(func(r chi.Router) {
			r.Use(authgate.Require(h.gate))
			r.Get("/submissions", h.getFeed)
			r.Delete("/submissions/{kind}/{id}", h.deleteSubmission)
			r.Get("/export", h.getExport)
		})
	})
}

func (h *Handler) getCSRF(w http.ResponseWriter, _ *http.Request) {
	tok, err := form.GenerateToken()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	CSRF     string `json:"csrf_token"`
}

func (h *Handler) postLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, loginErrMsg)
		return
	}
	if !form.VerifyToken(req.CSRF) {
		writeError(w, http.StatusForbidden, loginErrMsg)
		return
	}

	id, err := authgate.Authenticate(r.Context(), h.db, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, authgate.ErrInvalidCredentials) {
			zap.S().Errorw("sign-in store error", "err", err)
		}
		// Same message for bad password, unknown user, and outage.
		writeError(w, http.StatusUnauthorized, loginErrMsg)
		return
	}

	h.sessions.Issue(w, r, id)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "email": id.Email})
}

func (h *Handler) postLogout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.store.Feed(r.Context())
	if err != nil {
		zap.S().Errorw("feed query failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if feed == nil {
		feed = []submission.Submission{}
	}
	writeJSON(w, http.StatusOK, feed)
}

// deleteSubmission removes one entry.  The confirm=yes query parameter is
// mandatory; without it the request is rejected and nothing is touched.
func (h *Handler) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	kind := submission.Kind(chi.URLParam(r, "kind"))
	if kind.Table() == "" {
		http.Error(w, "unknown submission kind", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("confirm") != "yes" {
		writeError(w, http.StatusConflict, "La eliminación requiere confirmación.")
		return
	}

	switch err := h.store.Delete(r.Context(), kind, id); {
	case errors.Is(err, submission.ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case err != nil:
		zap.S().Errorw("delete failed", "kind", kind, "id", id, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	default:
		metrics.SubmissionsDeleted.WithLabelValues(string(kind)).Inc()
		zap.S().Infow("submission deleted", "kind", kind, "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) getExport(w http.ResponseWriter, r *http.Request) {
	feed, err := h.store.Feed(r.Context())
	if err != nil {
		zap.S().Errorw("export query failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+submission.ExportFilename(time.Now())+`"`)
	if err := submission.ExportCSV(w, feed); err != nil {
		zap.S().Errorw("export write failed", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
