// internal/authgate/middleware.go
//
// Chi middleware that enforces the gate on admin routes.

package authgate

import (
	"net/http"

	"github.com/trixgeo/trix-site/internal/auth"
	"github.com/trixgeo/trix-site/internal/metrics"
)

// Require wraps admin handlers.  No session identity yields 401; a Denied
// decision yields 403.  Only Granted requests reach the next handler.
func Require(gate *Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFrom(r.Context())
			if !ok {
				metrics.GateDenialsTotal.Inc()
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			if gate.Resolve(r.Context(), &id) != Granted {
				metrics.GateDenialsTotal.Inc()
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
