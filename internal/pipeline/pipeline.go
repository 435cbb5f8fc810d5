// internal/pipeline/pipeline.go
//
// The submission pipeline: durable write first, best-effort notify second.
//
// Context
// -------
// Given validated visitor fields and a collected metadata record, the
// pipeline (a) merges them into a Submission, (b) inserts it into the
// primary store, and only then (c) enqueues the external mirror POST and
// the thank-you email on the message queue.  The two phases are strictly
// ordered: nothing is enqueued for a record that failed to persist, and a
// phase-two failure is captured by the worker's log and the failure
// counters, never by the visitor's response.  The durable row is the
// source of truth.

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/trixgeo/trix-site/internal/message"
	"github.com/trixgeo/trix-site/internal/metadata"
	"github.com/trixgeo/trix-site/internal/metrics"
	"github.com/trixgeo/trix-site/internal/submission"
)

// Mirror is the external notification client (see internal/mirror).
type Mirror interface {
	SendContact(ctx context.Context, sub *submission.Submission) error
	SendDemo(ctx context.Context, sub *submission.Submission) error
}

// Mailer sends the transactional thank-you email (see internal/mailer).
type Mailer interface {
	SendThankYou(ctx context.Context, sub *submission.Submission) error
}

// ContactInput is a validated contact form.
type ContactInput struct {
	Name        string `json:"nombre" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Message     string `json:"mensaje" validate:"required,max=5000"`
	Phone       string `json:"telefono" validate:"omitempty,max=20"`
	CountryCode string `json:"codigoPais" validate:"omitempty,max=8"`
	HasWhatsApp bool   `json:"tieneWhatsApp"`
}

// DemoInput is a validated demo-request form.
type DemoInput struct {
	Name        string `json:"nombre" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Company     string `json:"empresa" validate:"required,max=200"`
	Message     string `json:"mensaje" validate:"omitempty,max=5000"`
	Phone       string `json:"telefono" validate:"omitempty,max=20"`
	CountryCode string `json:"codigoPais" validate:"omitempty,max=8"`
	HasWhatsApp bool   `json:"tieneWhatsApp"`
}

// Pipeline wires the store and the outbound side-effects together.
type Pipeline struct {
	store  *submission.Store
	queue  *message.Queue
	mirror Mirror
	mailer Mailer
}

// New builds a Pipeline.  mirror or mailer may be nil, which simply skips
// that side-effect (useful in tests and in deployments without keys).
func New(store *submission.Store, queue *message.Queue, mirror Mirror, mailer Mailer) *Pipeline {
	return &Pipeline{store: store, queue: queue, mirror: mirror, mailer: mailer}
}

// SubmitContact runs the two-phase pipeline for a contact form.
func (p *Pipeline) SubmitContact(ctx context.Context, in ContactInput, meta metadata.Record) (int64, error) {
	sub := &submission.Submission{
		Kind:        submission.KindContact,
		Name:        in.Name,
		Email:       in.Email,
		Message:     in.Message,
		Phone:       in.Phone,
		CountryCode: in.CountryCode,
		HasWhatsApp: in.HasWhatsApp,
		Meta:        meta,
	}
	return p.submit(ctx, sub, func(jctx context.Context) error {
		return p.mirror.SendContact(jctx, sub)
	})
}

// SubmitDemo runs the two-phase pipeline for a demo request.
func (p *Pipeline) SubmitDemo(ctx context.Context, in DemoInput, meta metadata.Record) (int64, error) {
	sub := &submission.Submission{
		Kind:        submission.KindDemo,
		Name:        in.Name,
		Email:       in.Email,
		Company:     in.Company,
		Message:     in.Message,
		Phone:       in.Phone,
		CountryCode: in.CountryCode,
		HasWhatsApp: in.HasWhatsApp,
		Meta:        meta,
	}
	return p.submit(ctx, sub, func(jctx context.Context) error {
		return p.mirror.SendDemo(jctx, sub)
	})
}

// submit is the shared two-phase body.  mirrorSend is pre-bound to the
// right endpoint for the kind.
func (p *Pipeline) submit(ctx context.Context, sub *submission.Submission, mirrorSend func(context.Context) error) (int64, error) {
	// Phase 1: durable write.  Failure here is the caller's problem.
	id, err := p.store.Insert(ctx, sub.Kind, sub)
	if err != nil {
		metrics.SubmissionErrorsTotal.Inc()
		return 0, fmt.Errorf("pipeline: persist %s: %w", sub.Kind, err)
	}
	sub.ID = id
	metrics.SubmissionsTotal.WithLabelValues(string(sub.Kind)).Inc()
	zap.S().Infow("submission stored", "kind", sub.Kind, "id", id)

	// Phase 2: best-effort side-effects, queued after the write landed.
	if p.mirror != nil {
		p.queue.Enqueue(message.Job{
			Kind:    "mirror/" + string(sub.Kind),
			Do:      mirrorSend,
			OnError: func(error) { metrics.MirrorFailuresTotal.Inc() },
		})
	}
	if p.mailer != nil {
		p.queue.Enqueue(message.Job{
			Kind:    "mail/" + string(sub.Kind),
			Do:      func(jctx context.Context) error { return p.mailer.SendThankYou(jctx, sub) },
			OnError: func(error) { metrics.MailFailuresTotal.Inc() },
		})
	}

	return id, nil
}
