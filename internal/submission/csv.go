// internal/submission/csv.go
//
// Operator CSV export.
//
// Context
// -------
// The export format is frozen: fixed column order, comma-delimited, and
// double-quote escaping applied to the Mensaje field only.  Spreadsheets
// consuming years of these files depend on that exact shape, which is why
// this writer joins fields by hand instead of using encoding/csv (which
// would quote any field containing a comma and change the byte layout).

package submission

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// csvHeader is the frozen column list.
var csvHeader = []string{
	"Fecha", "Tipo", "Nombre", "Email", "Empresa", "Teléfono",
	"Código País", "WhatsApp", "Mensaje", "Navegador", "SO",
	"Dispositivo", "País/Idioma",
}

// ExportCSV writes one row per submission to w, header first.
func ExportCSV(w io.Writer, feed []Submission) error {
	if _, err := io.WriteString(w, strings.Join(csvHeader, ",")+"\n"); err != nil {
		return err
	}

	for i := range feed {
		sub := &feed[i]

		whatsapp := "No"
		if sub.HasWhatsApp {
			whatsapp = "Sí"
		}

		row := []string{
			exportDate(sub),
			sub.Kind.Label(),
			sub.Name,
			sub.Email,
			sub.Company,
			sub.Phone,
			sub.CountryCode,
			whatsapp,
			`"` + strings.ReplaceAll(sub.Message, `"`, `""`) + `"`,
			sub.Meta.Browser,
			sub.Meta.OS,
			sub.Meta.Device,
			sub.Meta.Language,
		}
		if _, err := io.WriteString(w, strings.Join(row, ",")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ExportFilename names the download after the export day, e.g.
// "contactos-trix-2025-03-01.csv".
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("contactos-trix-%s.csv", now.UTC().Format("2006-01-02"))
}

// exportDate renders the client-reported timestamp in the operator-facing
// day-first format, falling back to the server timestamp when the client
// one is unusable.
func exportDate(sub *Submission) string {
	if t, err := time.Parse(time.RFC3339, sub.Meta.ClientTime); err == nil {
		return t.Format("02/01/2006 15:04:05")
	}
	if sub.ServerTime.Valid {
		return sub.ServerTime.Time.Format("02/01/2006 15:04:05")
	}
	return ""
}
