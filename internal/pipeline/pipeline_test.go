// internal/pipeline/pipeline_test.go

package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/trixgeo/trix-site/internal/message"
	"github.com/trixgeo/trix-site/internal/metadata"
	"github.com/trixgeo/trix-site/internal/submission"
)

// fakeNotifier records outbound calls for both the mirror and mailer roles.
type fakeNotifier struct {
	mu       sync.Mutex
	contacts []int64
	demos    []int64
	mails    []int64
}

func (f *fakeNotifier) SendContact(_ context.Context, s *submission.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, s.ID)
	return nil
}

func (f *fakeNotifier) SendDemo(_ context.Context, s *submission.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.demos = append(f.demos, s.ID)
	return nil
}

func (f *fakeNotifier) SendThankYou(_ context.Context, s *submission.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mails = append(f.mails, s.ID)
	return nil
}

func newTestStore(t *testing.T) (*submission.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return submission.NewStore(sqlx.NewDb(db, "mysql")), mock
}

// drain runs the queue until everything buffered has executed.
func drain(q *message.Queue) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = q.Run(ctx)
}

func TestSubmitContactRunsBothPhases(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectExec("INSERT INTO contactos").
		WillReturnResult(sqlmock.NewResult(42, 1))

	fake := &fakeNotifier{}
	q := message.New(4)
	p := New(store, q, fake, fake)

	id, err := p.SubmitContact(context.Background(), ContactInput{
		Name:    "Ana",
		Email:   "ana@example.com",
		Message: "Hola",
	}, metadata.Record{Browser: "Chrome"})
	if err != nil {
		t.Fatalf("SubmitContact: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}

	drain(q)

	if len(fake.contacts) != 1 || fake.contacts[0] != 42 {
		t.Fatalf("mirror contacts = %v, want [42]", fake.contacts)
	}
	if len(fake.mails) != 1 || fake.mails[0] != 42 {
		t.Fatalf("mails = %v, want [42]", fake.mails)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSubmitDemoUsesDemoEndpoint(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectExec("INSERT INTO demo_requests").
		WillReturnResult(sqlmock.NewResult(7, 1))

	fake := &fakeNotifier{}
	q := message.New(4)
	p := New(store, q, fake, fake)

	if _, err := p.SubmitDemo(context.Background(), DemoInput{
		Name:    "Luis",
		Email:   "luis@example.com",
		Company: "Geomatrix",
	}, metadata.Record{}); err != nil {
		t.Fatalf("SubmitDemo: %v", err)
	}

	drain(q)

	if len(fake.demos) != 1 || len(fake.contacts) != 0 {
		t.Fatalf("demos = %v, contacts = %v", fake.demos, fake.contacts)
	}
}

func TestInsertFailureSkipsSideEffects(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectExec("INSERT INTO contactos").
		WillReturnError(errors.New("disk full"))

	fake := &fakeNotifier{}
	q := message.New(4)
	p := New(store, q, fake, fake)

	if _, err := p.SubmitContact(context.Background(), ContactInput{
		Name:    "Ana",
		Email:   "ana@example.com",
		Message: "Hola",
	}, metadata.Record{}); err == nil {
		t.Fatal("want error from failed insert")
	}

	drain(q)

	if len(fake.contacts)+len(fake.mails) != 0 {
		t.Fatalf("side-effects ran after failed insert: %+v", fake)
	}
}

func TestNilClientsAreSkipped(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectExec("INSERT INTO contactos").
		WillReturnResult(sqlmock.NewResult(1, 1))

	q := message.New(4)
	p := New(store, q, nil, nil)

	if _, err := p.SubmitContact(context.Background(), ContactInput{
		Name:    "Ana",
		Email:   "ana@example.com",
		Message: "Hola",
	}, metadata.Record{}); err != nil {
		t.Fatalf("SubmitContact with nil clients: %v", err)
	}
	drain(q)
}
