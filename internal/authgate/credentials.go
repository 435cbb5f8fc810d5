// internal/authgate/credentials.go
//
// Email + password sign-in against the credential store.
//
// Context
// -------
// The admin console has exactly one sign-in flow.  The caller receives
// either a verified Identity or ErrInvalidCredentials; the error is the
// same for "no such user" and "wrong password" so the login form cannot be
// used to enumerate accounts.

package authgate

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/trixgeo/trix-site/internal/auth"
)

// ErrInvalidCredentials is returned for every sign-in failure cause.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Authenticate verifies email + password against `admin_credentials` and
// returns the stored identity on success.  Unexpected store errors are
// returned as-is so callers can distinguish an outage from a bad password
// in their logs; both still render the same generic message to the user.
func Authenticate(ctx context.Context, db *sql.DB, email, password string) (auth.Identity, error) {
	const q = `SELECT uid, password_hash FROM admin_credentials WHERE email = ?`

	var (
		uid  string
		hash string
	)
	err := db.QueryRowContext(ctx, q, strings.ToLower(strings.TrimSpace(email))).Scan(&uid, &hash)
	if err == sql.ErrNoRows {
		return auth.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.Identity{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return auth.Identity{}, ErrInvalidCredentials
	}

	return auth.Identity{UID: uid, Email: strings.ToLower(strings.TrimSpace(email))}, nil
}
