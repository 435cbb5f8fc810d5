// internal/submission/model.go
//
// Submission domain types.
//
// Context
// -------
// A Submission is one contact or demo-request entry: the visitor-supplied
// fields, one metadata record, a server-assigned creation timestamp, and a
// kind tag.  Records are created on submission and read-only afterward,
// except for deletion by an authorized operator.  The store assigns the
// opaque ID.
//
// The kind values and column names deliberately match the historical
// store schema (Spanish field names), so exports and the admin console
// remain comparable with old data.

package submission

import (
	"database/sql"
	"time"

	"github.com/trixgeo/trix-site/internal/metadata"
)

// Kind tags the two record families and selects the backing table.
type Kind string

const (
	KindContact Kind = "contacto"
	KindDemo    Kind = "demo_gts"
)

// Table returns the backing table for the kind, or "" for unknown kinds.
func (k Kind) Table() string {
	switch k {
	case KindContact:
		return "contactos"
	case KindDemo:
		return "demo_requests"
	default:
		return ""
	}
}

// Label is the operator-facing name used in exports.
func (k Kind) Label() string {
	if k == KindDemo {
		return "Demo GTS"
	}
	return "Contacto"
}

// Submission is one stored entry.  Meta is persisted as a JSON document in
// the `metadata` column; the row itself carries only the fields the admin
// list and export need directly.
type Submission struct {
	ID          int64           `db:"id" json:"id"`
	Kind        Kind            `db:"-" json:"tipo"`
	Name        string          `db:"nombre" json:"nombre"`
	Email       string          `db:"email" json:"email"`
	Message     string          `db:"mensaje" json:"mensaje"`
	Phone       string          `db:"telefono" json:"telefono"`
	CountryCode string          `db:"codigo_pais" json:"codigoPais"`
	HasWhatsApp bool            `db:"tiene_whatsapp" json:"tieneWhatsApp"`
	Company     string          `db:"empresa" json:"empresa"`
	Meta        metadata.Record `db:"-" json:"metadata"`
	MetaJSON    []byte          `db:"metadata" json:"-"`
	ServerTime  sql.NullTime    `db:"fecha_servidor" json:"fechaServidor"`
}

// EffectiveTime is the feed-ordering key: the server timestamp when the
// store assigned one, otherwise the client-reported timestamp, otherwise
// the zero time (which sorts last).
func (s *Submission) EffectiveTime() time.Time {
	if s.ServerTime.Valid {
		return s.ServerTime.Time
	}
	if t, err := time.Parse(time.RFC3339, s.Meta.ClientTime); err == nil {
		return t
	}
	return time.Time{}
}
