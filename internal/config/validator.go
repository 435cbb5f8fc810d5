// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after
// secret resolution.  Any tag mismatch or validation error aborts startup,
// ensuring the binary never runs with partial, malformed, or missing
// configuration — a half-configured mirror client would silently drop
// every submission copy.
//
// The rules in use are `required`, `hostname_port` on the listen address,
// `omitempty,url` on the mirror base, `required_with` pairing each
// outbound channel's key with its counterpart field, and `email` on each
// allow-list entry.  A bad allow-list would otherwise fail open to
// "nobody is admin."  The mirror and mail sections may be empty as a
// whole; that disables the channel rather than aborting boot.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
