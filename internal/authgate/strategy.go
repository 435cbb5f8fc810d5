// internal/authgate/strategy.go
//
// The two concrete authorization strategies.
//
// Both accept a plain *sql.DB where they need one (mirroring how the rest
// of the store helpers are written), so they can be exercised with sqlmock
// without standing up a real database.

package authgate

import (
	"context"
	"database/sql"
	"strings"

	"github.com/trixgeo/trix-site/internal/auth"
)

//
// AllowList strategy
//

// AllowList authorizes any identity whose email is a member.  Matching is
// case-insensitive on the email as a whole.  It never returns an error.
type AllowList map[string]struct{}

// NewAllowList normalises the configured emails into a set.
func NewAllowList(emails []string) AllowList {
	set := make(AllowList, len(emails))
	for _, e := range emails {
		set[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return set
}

// Authorize reports membership.  No I/O is performed.
func (a AllowList) Authorize(_ context.Context, id auth.Identity) (bool, error) {
	_, ok := a[strings.ToLower(id.Email)]
	return ok, nil
}

//
// DocumentFlag strategy
//

// DocumentFlag authorizes identities that own an `admin_users` row whose
// boolean flag is exactly true.  A missing row is an ordinary "no"; only
// genuine query failures surface as errors (and the gate fails closed).
type DocumentFlag struct {
	DB *sql.DB
}

// Authorize performs one parameterised read keyed by the identity's UID.
func (d DocumentFlag) Authorize(ctx context.Context, id auth.Identity) (bool, error) {
	const q = `SELECT is_admin FROM admin_users WHERE uid = ?`

	var isAdmin bool
	err := d.DB.QueryRowContext(ctx, q, id.UID).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isAdmin, nil
}
