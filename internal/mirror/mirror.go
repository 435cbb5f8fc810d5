// internal/mirror/mirror.go
//
// External notification mirror.
//
// Context
// -------
// Every stored submission is mirrored, best-effort, to an external
// endpoint: contacts to `POST {base}/send-email`, demo requests to
// `POST {base}/request-demo`.  The payload is the normalized contact
// fields plus a `meta` object of the captured environment facts, and the
// request is authenticated with the `X-API-Key` header.  A non-2xx
// response is a returned error for the message worker to log and count;
// nothing here retries.
//
// The campaign tags and the contact page marker are part of the wire
// contract with the receiving side and must not drift.

package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trixgeo/trix-site/internal/metadata"
	"github.com/trixgeo/trix-site/internal/submission"
)

const (
	contactCampaign = "trix_website_2025"
	demoCampaign    = "demo_request_2024"
)

// Meta is the reduced environment block the mirror receives.
type Meta struct {
	Source      string `json:"source"`
	Page        string `json:"page,omitempty"`
	UTMCampaign string `json:"utm_campaign"`
	Priority    string `json:"priority,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
	Browser     string `json:"browser,omitempty"`
	OS          string `json:"os,omitempty"`
	Device      string `json:"device,omitempty"`
	Resolution  string `json:"screen_resolution,omitempty"`
	Language    string `json:"language,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// contactPayload mirrors a contact submission.
type contactPayload struct {
	EmailType     string `json:"email_type"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Message       string `json:"message"`
	WhatsAppCheck bool   `json:"whatsapp_check"`
	Meta          Meta   `json:"meta"`
}

// demoPayload mirrors a demo request.
type demoPayload struct {
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email"`
	Company       string `json:"company"`
	Message       string `json:"message,omitempty"`
	WhatsAppCheck bool   `json:"whatsapp_check"`
	Meta          Meta   `json:"meta"`
}

// Client posts submission copies to the mirror endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New returns a Client for baseURL authenticated with apiKey.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendContact mirrors one contact submission to /send-email.
func (c *Client) SendContact(ctx context.Context, sub *submission.Submission) error {
	p := contactPayload{
		EmailType:     "contact",
		Name:          sub.Name,
		Phone:         fullPhone(sub),
		Email:         sub.Email,
		Message:       sub.Message,
		WhatsAppCheck: sub.HasWhatsApp,
		Meta:          buildMeta(&sub.Meta, contactCampaign, "contact", ""),
	}
	return c.post(ctx, "/send-email", p)
}

// SendDemo mirrors one demo request to /request-demo.
func (c *Client) SendDemo(ctx context.Context, sub *submission.Submission) error {
	p := demoPayload{
		Name:          sub.Name,
		Phone:         fullPhone(sub),
		Email:         sub.Email,
		Company:       sub.Company,
		Message:       sub.Message,
		WhatsAppCheck: sub.HasWhatsApp,
		Meta:          buildMeta(&sub.Meta, demoCampaign, "", "high"),
	}
	return c.post(ctx, "/request-demo", p)
}

func buildMeta(m *metadata.Record, campaign, page, priority string) Meta {
	return Meta{
		Source:      "website",
		Page:        page,
		UTMCampaign: campaign,
		Priority:    priority,
		UserAgent:   m.UserAgent,
		Browser:     m.Browser,
		OS:          m.OS,
		Device:      m.Device,
		Resolution:  m.Resolution,
		Language:    m.Language,
		Timezone:    m.Timezone,
		Referrer:    m.Referrer,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// fullPhone joins the country code and number; empty when no number was
// supplied (the code alone means nothing).
func fullPhone(sub *submission.Submission) string {
	if sub.Phone == "" {
		return ""
	}
	return sub.CountryCode + sub.Phone
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mirror %s: status %d: %s", path, resp.StatusCode, msg)
	}
	return nil
}
