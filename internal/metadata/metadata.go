// internal/metadata/metadata.go
//
// Submission metadata collector.
//
// Context
// -------
// Every contact or demo-request submission carries a flat record of ambient
// environment facts: browser and OS classification, device class, screen
// geometry, locale, timing durations, and capability flags.  The browser
// reports most of these through hidden form fields and headers; this package
// folds them into one Record.
//
// Contract
// --------
// `Collect(env) Record` is total: it never fails and never returns a partial
// record.  Every individual probe degrades to its documented default
// ("Desconocido" / "No disponible" / zero duration) when its input is
// missing or malformed.  Probes are independent; none reads another's
// output.  The JSON field names mirror the historical store schema, so
// previously exported rows and the admin console stay compatible.
//
// Notes
// -----
// • Classification probes are ordered predicate tables; see sniff.go for
//   why the order must not change.
// • Oxford commas, two spaces after periods.
package metadata

import (
	"strconv"
	"strings"
	"time"
)

// Documented fallback labels.  These are user-visible (admin console and
// CSV export) and match the historical Spanish-language values.
const (
	Unknown     = "Desconocido"
	Unavailable = "No disponible"
	Direct      = "Directo"
)

// Env is a snapshot of ambient facts for one submission.  Server-derived
// fields (UserAgent, Language, Referrer, PageURL) come from the request;
// the rest are client-reported hints.  The zero value is a legal input and
// yields a fully defaulted Record.
type Env struct {
	UserAgent string
	Language  string
	Referrer  string
	PageURL   string

	Resolution  string  // "1920x1080"
	PixelRatio  float64 // 0 when unreported
	ColorDepth  int
	Orientation string
	Timezone    string
	Network     string // coarse class: "4g", "3g", …

	CookiesEnabled bool
	TouchSupport   bool
	Online         bool

	// Milliseconds; negative values are clamped to zero.
	ExposureMS int64
	LoadMS     int64
	DNSMS      int64

	ClientTime string // ISO-8601, client clock
}

// Record is the immutable result of one collection.  Created fresh per
// submission, never mutated afterward.
type Record struct {
	UserAgent   string `json:"userAgent" db:"user_agent"`
	Browser     string `json:"navegador" db:"navegador"`
	OS          string `json:"sistemaOperativo" db:"sistema_operativo"`
	Device      string `json:"tipoDispositivo" db:"tipo_dispositivo"`
	Resolution  string `json:"resolucion" db:"resolucion"`
	PixelRatio  string `json:"pixelRatio" db:"pixel_ratio"`
	ColorDepth  int    `json:"colorDepth" db:"color_depth"`
	Orientation string `json:"orientacion" db:"orientacion"`
	Language    string `json:"idioma" db:"idioma"`
	Timezone    string `json:"zona_horaria" db:"zona_horaria"`
	PageURL     string `json:"url" db:"url"`
	Referrer    string `json:"referrer" db:"referrer"`
	Network     string `json:"velocidadInternet" db:"velocidad_internet"`

	ExposureMS int64 `json:"tiempoExposicion" db:"tiempo_exposicion"`
	LoadMS     int64 `json:"tiempoCarga" db:"tiempo_carga"`
	DNSMS      int64 `json:"tiempoDNS" db:"tiempo_dns"`

	CookiesEnabled bool `json:"cookies" db:"cookies"`
	TouchSupport   bool `json:"touchSupport" db:"touch_support"`
	Online         bool `json:"onLine" db:"online"`

	ClientTime string `json:"fechaCliente" db:"fecha_cliente"`

	// Supplementary fields resolved server-side (uasurfer + GeoIP); they
	// ride alongside the classification probes, never replace them.
	IsBot          bool   `json:"bot" db:"bot"`
	BrowserVersion string `json:"versionNavegador" db:"version_navegador"`
	CountryISO     string `json:"pais" db:"pais"`
	City           string `json:"ciudad" db:"ciudad"`
}

// Collect produces one complete Record from env.  It is total: every field
// is populated, with documented defaults standing in for missing probes.
func Collect(env Env) Record {
	return Record{
		UserAgent:   env.UserAgent,
		Browser:     SniffBrowser(env.UserAgent),
		OS:          SniffOS(env.UserAgent),
		Device:      SniffDevice(env.UserAgent),
		Resolution:  stringOr(env.Resolution, Unknown),
		PixelRatio:  ratioString(env.PixelRatio),
		ColorDepth:  env.ColorDepth,
		Orientation: stringOr(env.Orientation, Unknown),
		Language:    stringOr(env.Language, Unknown),
		Timezone:    stringOr(env.Timezone, Unknown),
		PageURL:     env.PageURL,
		Referrer:    stringOr(env.Referrer, Direct),
		Network:     stringOr(env.Network, Unavailable),

		ExposureMS: clampMS(env.ExposureMS),
		LoadMS:     clampMS(env.LoadMS),
		DNSMS:      clampMS(env.DNSMS),

		CookiesEnabled: env.CookiesEnabled,
		TouchSupport:   env.TouchSupport,
		Online:         env.Online,

		ClientTime: clientTime(env.ClientTime),
	}
}

// stringOr returns s, or fallback when s is blank.
func stringOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// clampMS keeps timing durations non-negative even when the client's
// timing source produced garbage.
func clampMS(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}

// ratioString renders the device pixel ratio compactly ("2", "1.5"), with
// the unknown label for unreported values.
func ratioString(r float64) string {
	if r <= 0 {
		return Unknown
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// clientTime validates the client-reported timestamp and substitutes the
// server clock when it is absent or unparsable.
func clientTime(s string) string {
	if s != "" {
		if _, err := time.Parse(time.RFC3339, s); err == nil {
			return s
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}
