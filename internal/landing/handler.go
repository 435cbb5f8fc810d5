// internal/landing/handler.go
//
// Public site endpoints: the contact and demo-request submissions, and
// the country catalog for the phone-prefix picker.
//
// Context
// -------
// The browser posts JSON: the visitor's fields plus a `cliente` block of
// environment hints (screen, locale, timings).  The server is the
// authority on everything it can observe itself — user agent, language,
// and referrer come from the request headers, never from the body — and
// the hints fill in what only the browser can see.  Collection never
// fails; a hostile or empty `cliente` block degrades to the documented
// defaults.  Only a failure to persist is surfaced to the visitor.

package landing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/trixgeo/trix-site/internal/countries"
	"github.com/trixgeo/trix-site/internal/metadata"
	"github.com/trixgeo/trix-site/internal/pipeline"
	"github.com/trixgeo/trix-site/internal/requestinfo"
)

// maxBodyBytes bounds submission payloads; the forms are small.
const maxBodyBytes = 64 << 10

var validate = validator.New(validator.WithRequiredStructEnabled())

// clientHints is the browser-reported half of the metadata environment.
// Field names match what the page script ships.
type clientHints struct {
	PageURL     string  `json:"url"`
	Resolution  string  `json:"resolucion"`
	PixelRatio  float64 `json:"pixelRatio"`
	ColorDepth  int     `json:"colorDepth"`
	Orientation string  `json:"orientacion"`
	Timezone    string  `json:"zona_horaria"`
	Network     string  `json:"velocidadInternet"`

	CookiesEnabled bool `json:"cookies"`
	TouchSupport   bool `json:"touchSupport"`
	Online         bool `json:"onLine"`

	ExposureMS int64 `json:"tiempoExposicion"`
	LoadMS     int64 `json:"tiempoCarga"`
	DNSMS      int64 `json:"tiempoDNS"`

	ClientTime string `json:"fechaCliente"`
}

type contactRequest struct {
	pipeline.ContactInput
	Client clientHints `json:"cliente"`
}

type demoRequest struct {
	pipeline.DemoInput
	Client clientHints `json:"cliente"`
}

// Handler serves the public endpoints.
type Handler struct {
	pipe      *pipeline.Pipeline
	countries *countries.Client
}

// NewHandler wires the submission pipeline and country client.
func NewHandler(pipe *pipeline.Pipeline, countries *countries.Client) *Handler {
	return &Handler{pipe: pipe, countries: countries}
}

// Routes mounts the public API.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/contact", h.postContact)
	r.Post("/api/demo", h.postDemo)
	r.Get("/api/countries", h.getCountries)
}

func (h *Handler) postContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req.ContactInput); err != nil {
		writeError(w, http.StatusBadRequest, "Revisa los campos del formulario.")
		return
	}

	id, err := h.pipe.SubmitContact(r.Context(), req.ContactInput, collectMeta(r, req.Client))
	if err != nil {
		zap.S().Errorw("contact submission failed", "err", err)
		writeError(w, http.StatusInternalServerError,
			"No se pudo guardar tu mensaje.  Inténtalo de nuevo.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id})
}

func (h *Handler) postDemo(w http.ResponseWriter, r *http.Request) {
	var req demoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req.DemoInput); err != nil {
		writeError(w, http.StatusBadRequest, "Revisa los campos del formulario.")
		return
	}

	id, err := h.pipe.SubmitDemo(r.Context(), req.DemoInput, collectMeta(r, req.Client))
	if err != nil {
		zap.S().Errorw("demo submission failed", "err", err)
		writeError(w, http.StatusInternalServerError,
			"No se pudo guardar tu solicitud.  Inténtalo de nuevo.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id})
}

func (h *Handler) getCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.countries.Catalog(r.Context()))
}

// collectMeta merges the header-derived facts with the browser hints and
// the middleware's server-side supplements.
func collectMeta(r *http.Request, hints clientHints) metadata.Record {
	env := metadata.Env{
		UserAgent: r.UserAgent(),
		Language:  r.Header.Get("Accept-Language"),
		Referrer:  r.Referer(),
		PageURL:   hints.PageURL,

		Resolution:  hints.Resolution,
		PixelRatio:  hints.PixelRatio,
		ColorDepth:  hints.ColorDepth,
		Orientation: hints.Orientation,
		Timezone:    hints.Timezone,
		Network:     hints.Network,

		CookiesEnabled: hints.CookiesEnabled,
		TouchSupport:   hints.TouchSupport,
		Online:         hints.Online,

		ExposureMS: hints.ExposureMS,
		LoadMS:     hints.LoadMS,
		DNSMS:      hints.DNSMS,

		ClientTime: hints.ClientTime,
	}

	rec := metadata.Collect(env)
	if info := requestinfo.FromContext(r.Context()); info != nil {
		rec.IsBot = info.UA.IsBot
		rec.BrowserVersion = info.UA.Version
		rec.CountryISO = info.Geo.CountryISO
		rec.City = info.Geo.City
	}
	return rec
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Solicitud inválida.")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
