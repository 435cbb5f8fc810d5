// internal/authgate/gate.go
//
// Admin access gate.
//
// Context
// -------
// Whether a signed-in identity may use the admin console is decided by two
// authorization strategies composed with short-circuit OR:
//
//  1. AllowList – a fixed set of emails that are always authorized.  Pure
//     membership test; it cannot fail, and a hit means the second strategy
//     (and its store read) is skipped entirely.  Allow-listed accounts
//     therefore never need a backing document.
//  2. DocumentFlag – one parameterised read of the `admin_users` row keyed
//     by the identity's UID; authorized iff the row exists and its boolean
//     flag is exactly true.
//
// Any strategy error is treated as not-authorized (fail-closed) and
// logged.  Authorization is *derived*: it is recomputed per request from
// (identity, allow-list, store) and never cached across sign-ins.
//
// Notes
// -----
// • Strategies are injected values, not package constants, so tests can
//   compose their own gates.
// • Oxford commas, two spaces after periods.
package authgate

import (
	"context"

	"go.uber.org/zap"

	"github.com/trixgeo/trix-site/internal/auth"
)

// Decision is the gate's tri-state outcome.  Unresolved means identity
// resolution has not happened yet (no session middleware ran); it is
// treated exactly like Denied by enforcement code.
type Decision int

const (
	Unresolved Decision = iota
	Denied
	Granted
)

func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "unresolved"
	}
}

// Strategy answers one authorization question for one identity.
type Strategy interface {
	Authorize(ctx context.Context, id auth.Identity) (bool, error)
}

// Gate composes strategies with short-circuit OR.
type Gate struct {
	strategies []Strategy
}

// New builds a gate from the given strategies, evaluated in order.
func New(strategies ...Strategy) *Gate {
	return &Gate{strategies: strategies}
}

// Resolve derives the decision for id.  A nil identity (id == nil) is
// Denied without consulting any strategy.  Strategy errors fail closed.
func (g *Gate) Resolve(ctx context.Context, id *auth.Identity) Decision {
	if id == nil {
		return Denied
	}

	for _, s := range g.strategies {
		ok, err := s.Authorize(ctx, *id)
		if err != nil {
			zap.S().Errorw("authgate strategy failed", "email", id.Email, "err", err)
			continue // fail closed for this strategy, next may still grant
		}
		if ok {
			return Granted
		}
	}
	return Denied
}
