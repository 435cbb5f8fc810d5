// internal/mailer/resend.go
//
// Transactional thank-you email via the Resend API.
//
// Context
// -------
// After a submission is stored, the visitor receives one HTML thank-you
// email.  Resend is a plain JSON-over-HTTPS API: `POST /emails` with a
// bearer token.  Like the mirror, this is a best-effort side-effect run by
// the message worker — an error here is logged and counted, never shown to
// the visitor.

package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trixgeo/trix-site/internal/submission"
)

const defaultEndpoint = "https://api.resend.com/emails"

// Client sends thank-you emails.
type Client struct {
	endpoint string
	apiKey   string
	from     string
	http     *http.Client
}

// New returns a Client authenticated with apiKey, sending from `from`
// (e.g. "TRIX <onboarding@resend.dev>").
func New(apiKey, from string) *Client {
	return &Client{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		from:     from,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint overrides the API URL.  Used by tests.
func (c *Client) WithEndpoint(url string) *Client {
	c.endpoint = url
	return c
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendThankYou renders the template for sub and posts it.
func (c *Client) SendThankYou(ctx context.Context, sub *submission.Submission) error {
	html, err := renderThankYou(sub)
	if err != nil {
		return fmt.Errorf("mailer: render: %w", err)
	}

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{sub.Email},
		Subject: "¡Gracias por contactar a TRIX! - Hemos recibido tu mensaje",
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mailer: resend status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
