// internal/authgate/gate_test.go
//
// Unit-tests for the gate's short-circuit composition using sqlmock.
//
// Run: go test ./internal/authgate -v

package authgate

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/trixgeo/trix-site/internal/auth"
)

const flagQuery = `SELECT is_admin FROM admin_users WHERE uid = ?`

var allowList = NewAllowList([]string{
	"admin@trixgeo.com",
	"luis@trixgeo.com",
})

func TestResolveNilIdentity(t *testing.T) {
	g := New(allowList)
	if got := g.Resolve(context.Background(), nil); got != Denied {
		t.Fatalf("nil identity: got %v, want Denied", got)
	}
}

// TestResolveAllowListSkipsStore verifies the optimization the allow-list
// provides: a listed email is Granted with zero document reads.
func TestResolveAllowListSkipsStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	// No query expectations registered: any store read fails the test.

	g := New(allowList, DocumentFlag{DB: db})
	id := auth.Identity{UID: "uid-1", Email: "Admin@TrixGeo.com"} // case-insensitive

	if got := g.Resolve(context.Background(), &id); got != Granted {
		t.Fatalf("allow-listed email: got %v, want Granted", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("store was consulted for an allow-listed email: %v", err)
	}
}

func TestResolveDocumentFlagGrants(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(flagQuery)).
		WithArgs("uid-2").
		WillReturnRows(sqlmock.NewRows([]string{"is_admin"}).AddRow(true))

	g := New(allowList, DocumentFlag{DB: db})
	id := auth.Identity{UID: "uid-2", Email: "someone@example.com"}

	if got := g.Resolve(context.Background(), &id); got != Granted {
		t.Fatalf("flagged identity: got %v, want Granted", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestResolveDocumentFlagFalse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(flagQuery)).
		WithArgs("uid-3").
		WillReturnRows(sqlmock.NewRows([]string{"is_admin"}).AddRow(false))

	g := New(allowList, DocumentFlag{DB: db})
	id := auth.Identity{UID: "uid-3", Email: "someone@example.com"}

	if got := g.Resolve(context.Background(), &id); got != Denied {
		t.Fatalf("flag=false: got %v, want Denied", got)
	}
}

func TestResolveNoDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(flagQuery)).
		WithArgs("uid-4").
		WillReturnRows(sqlmock.NewRows([]string{"is_admin"})) // zero rows

	g := New(allowList, DocumentFlag{DB: db})
	id := auth.Identity{UID: "uid-4", Email: "nobody@example.com"}

	if got := g.Resolve(context.Background(), &id); got != Denied {
		t.Fatalf("missing document: got %v, want Denied", got)
	}
}

// TestResolveStoreErrorFailsClosed: a fetch failure must read as Denied,
// never as an error surfaced to the visitor.
func TestResolveStoreErrorFailsClosed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(flagQuery)).
		WithArgs("uid-5").
		WillReturnError(errors.New("connection reset"))

	g := New(allowList, DocumentFlag{DB: db})
	id := auth.Identity{UID: "uid-5", Email: "someone@example.com"}

	if got := g.Resolve(context.Background(), &id); got != Denied {
		t.Fatalf("store error: got %v, want Denied", got)
	}
}
