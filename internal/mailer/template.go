// internal/mailer/template.go
//
// HTML body for the thank-you email.  html/template escapes the
// visitor-supplied name and message, so hostile input cannot inject
// markup into the email we send back to them.

package mailer

import (
	"html/template"
	"strings"

	"github.com/trixgeo/trix-site/internal/submission"
)

var thankYouTmpl = template.Must(template.New("thankyou").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Gracias por contactar a TRIX</title>
</head>
<body style="font-family:-apple-system,'Segoe UI',Roboto,sans-serif;color:#333;background:#f8fafc;margin:0;">
  <div style="max-width:600px;margin:0 auto;background:#fff;border-radius:12px;overflow:hidden;">
    <div style="background:linear-gradient(135deg,#0f172a 0%,#1e293b 50%,#334155 100%);padding:40px 30px;text-align:center;">
      <h1 style="font-size:42px;font-weight:900;color:#fff;letter-spacing:4px;margin:0 0 8px;">TRIX</h1>
      <div style="color:#94a3b8;font-size:14px;letter-spacing:1px;text-transform:uppercase;">Sistemas Geoespaciales Inteligentes</div>
    </div>
    <div style="padding:40px 30px;">
      <div style="font-size:24px;font-weight:700;color:#1e293b;margin-bottom:20px;">¡Hola {{.Name}}!</div>
      <div style="font-size:16px;color:#475569;margin-bottom:30px;">
        Gracias por contactarnos. Hemos recibido tu mensaje y queremos que sepas que es muy importante para nosotros.
      </div>
      <div style="background:#f1f5f9;border-left:4px solid #3b82f6;padding:20px;border-radius:8px;margin:25px 0;">
        <div style="font-weight:600;color:#1e293b;font-size:14px;text-transform:uppercase;">Tu mensaje recibido:</div>
        <div style="color:#475569;font-size:14px;background:#fff;padding:12px;border-radius:6px;margin-top:10px;">"{{.Message}}"</div>
        {{if .Phone}}
        <div style="font-weight:600;color:#1e293b;font-size:14px;text-transform:uppercase;margin-top:15px;">Información de contacto:</div>
        <div style="color:#475569;font-size:14px;background:#fff;padding:12px;border-radius:6px;margin-top:10px;">{{.Phone}}</div>
        {{end}}
      </div>
      <div style="font-size:16px;color:#475569;">
        Nuestro equipo revisará tu consulta y nos pondremos en contacto contigo muy pronto.
      </div>
    </div>
    <div style="background:#f8fafc;padding:30px;text-align:center;border-top:1px solid #e2e8f0;color:#64748b;font-size:14px;">
      <strong>TRIX - Sistemas Geoespaciales Inteligentes</strong><br>
      info@trixgeo.com · www.trixgeo.com<br>
      <span style="font-size:12px;color:#94a3b8;">© 2025 TRIX. Todos los derechos reservados.</span>
    </div>
  </div>
</body>
</html>
`))

type thankYouData struct {
	Name    string
	Message string
	Phone   string
}

// renderThankYou fills the template from sub.  The phone line includes
// the WhatsApp marker when the visitor ticked the box.
func renderThankYou(sub *submission.Submission) (string, error) {
	data := thankYouData{
		Name:    sub.Name,
		Message: sub.Message,
	}
	if sub.Phone != "" {
		data.Phone = sub.CountryCode + " " + sub.Phone
		if sub.HasWhatsApp {
			data.Phone += " (WhatsApp disponible)"
		}
	}

	var buf strings.Builder
	if err := thankYouTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
